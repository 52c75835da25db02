// Package engine composes store transitions into the operations the
// CLI and HTTP API expose: registering assets, recording verification
// outcomes with their task cascade, and bookkeeping activity entries.
package engine

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetline/internal/config"
	"assetline/internal/domain"
	"assetline/internal/lifecycle"
	"assetline/internal/snapshot"
	"assetline/internal/store"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetline_transitions_total",
		Help: "State transitions committed, by event.",
	}, []string{"event"})
	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetline_persist_failures_total",
		Help: "Best-effort snapshot writes that failed.",
	})
)

const (
	dateLayout     = "2006-01-02"
	persistTimeout = 5 * time.Second
)

type Engine struct {
	Store  *store.Store
	Config *config.Config
	Now    func() time.Time

	persist *persister // nil disables persistence
}

// New wires the engine to a store. Every committed transition is
// counted and, when a database is attached, queued for persistence;
// a persist failure is logged and never surfaces to the transition.
func New(st *store.Store, conn *sql.DB, cfg *config.Config) Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := Engine{Store: st, Config: cfg, Now: time.Now}
	if conn != nil {
		e.persist = newPersister(conn)
	}
	p := e.persist
	st.OnCommit(func(event string, snap store.State) {
		transitionsTotal.WithLabelValues(event).Inc()
		if p != nil {
			p.enqueue(snap)
		}
	})
	return e
}

// Flush writes the current snapshot synchronously, superseding any
// queued write. Callers invoke it before exit so the last committed
// state is on disk.
func (e Engine) Flush(ctx context.Context) error {
	if e.persist == nil {
		return nil
	}
	return e.persist.flushSync(ctx, e.Store.Snapshot())
}

// persister serializes snapshot writes. Each commit overwrites a
// single pending slot tagged with a sequence number and one flusher
// goroutine drains it, so a burst of transitions collapses into few
// writes and an older snapshot can never land after a newer one.
type persister struct {
	db   *sql.DB
	kick chan struct{}

	mu      sync.Mutex
	pending store.State
	seq     uint64 // tag of the pending snapshot
	written uint64 // highest tag durably saved
	dirty   bool

	writeMu sync.Mutex // serializes database writes
}

func newPersister(conn *sql.DB) *persister {
	p := &persister{db: conn, kick: make(chan struct{}, 1)}
	go p.run()
	return p
}

func (p *persister) enqueue(snap store.State) {
	p.mu.Lock()
	p.seq++
	p.pending = snap
	p.dirty = true
	p.mu.Unlock()
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	for range p.kick {
		p.drain()
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if !p.dirty {
			p.mu.Unlock()
			return
		}
		snap, seq := p.pending, p.seq
		p.dirty = false
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err := p.save(ctx, snap, seq)
		cancel()
		if err != nil {
			persistFailures.Inc()
			log.Printf("snapshot save: %v", err)
			// Leave the slot dirty; the next commit retries with
			// whatever is newest then.
			p.mu.Lock()
			p.dirty = true
			p.mu.Unlock()
			return
		}
	}
}

// save writes one snapshot unless a newer one is already on disk.
func (p *persister) save(ctx context.Context, snap store.State, seq uint64) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.mu.Lock()
	stale := seq <= p.written
	p.mu.Unlock()
	if stale {
		return nil
	}
	if err := snapshot.Save(ctx, p.db, snap); err != nil {
		return err
	}
	p.mu.Lock()
	if seq > p.written {
		p.written = seq
	}
	p.mu.Unlock()
	return nil
}

// flushSync tags snap as newest and writes it on the caller's
// goroutine. Once it returns, a queued older snapshot is stale and
// will be skipped.
func (p *persister) flushSync(ctx context.Context, snap store.State) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()
	return p.save(ctx, snap, seq)
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) today() string {
	return e.now().Format(dateLayout)
}

// Snapshot returns the current immutable state.
func (e Engine) Snapshot() store.State {
	return e.Store.Snapshot()
}

// RegisterAsset registers the asset and logs an onboarding activity.
// Missing identity and lifecycle fields get the onboarding defaults:
// pending status, evidence clock at today, next due in three months.
func (e Engine) RegisterAsset(asset domain.Asset) domain.Asset {
	if asset.ID == "" {
		asset.ID = domain.NewID(domain.PrefixAsset)
	}
	if asset.AssetTag == "" {
		asset.AssetTag = domain.NewID("TAG")
	}
	if asset.Status == "" {
		asset.Status = domain.AssetPending
	}
	if asset.LastVerified == "" {
		asset.LastVerified = e.today()
	}
	if asset.NextDue == "" {
		asset.NextDue = e.now().AddDate(0, 3, 0).Format(dateLayout)
	}
	if asset.CostCenter == "" {
		asset.CostCenter = "CC-UNASSIGNED"
	}
	if asset.Verifications == nil {
		asset.Verifications = []domain.VerificationRecord{}
	}
	e.Store.RegisterAsset(asset)
	e.LogActivity(domain.ActivityEntry{
		Type:        "asset",
		Title:       "Asset onboarded: " + asset.Name,
		Description: "New " + asset.Category + " registered with risk rating " + string(asset.RiskRating) + ".",
		AssetID:     asset.ID,
		PersonID:    asset.OwnerID,
		Severity:    domain.SeverityInfo,
	})
	return asset
}

// UpdateAsset replaces the asset wholesale. Reports whether the id
// was known; an unknown id leaves state untouched.
func (e Engine) UpdateAsset(asset domain.Asset) bool {
	_, ok := e.Store.Snapshot().Asset(asset.ID)
	e.Store.UpdateAsset(asset)
	return ok
}

// VerificationInput is the caller-supplied portion of a verification.
type VerificationInput struct {
	AssetID       string
	Date          string // YYYY-MM-DD, defaults to today
	Outcome       domain.VerificationOutcome
	PerformedByID string
	Notes         string
	Issues        string // comma-separated, trimmed and filtered
}

// RecordVerification records one evidence-collection event: it stores
// the immutable record, derives the asset's posture, applies the task
// cascade (a pass closes the oldest open task, a failure escalates
// all open tasks), and logs the activity entry with the documented
// severity convention. Reports false when the asset is unknown.
func (e Engine) RecordVerification(in VerificationInput) (domain.VerificationRecord, bool) {
	asset, ok := e.Store.Snapshot().Asset(in.AssetID)
	if !ok {
		return domain.VerificationRecord{}, false
	}
	if in.Date == "" {
		in.Date = e.today()
	}
	rec := domain.VerificationRecord{
		ID:            domain.NewID(domain.PrefixVerification),
		AssetID:       in.AssetID,
		Date:          in.Date,
		Outcome:       in.Outcome,
		PerformedByID: in.PerformedByID,
		Notes:         in.Notes,
		Issues:        lifecycle.ParseIssues(in.Issues),
	}
	next := e.Store.RecordVerification(in.AssetID, rec, e.Config.Verification.IntervalDays)

	for _, change := range lifecycle.CascadePlan(next.TasksOldestFirst(), in.AssetID, in.Outcome) {
		e.Store.SetTaskStatus(change.TaskID, change.Status)
	}

	title := "Verification " + string(in.Outcome) + " for " + asset.Name
	if in.Outcome == domain.OutcomePassed {
		title = "Verification completed for " + asset.Name
	}
	description := in.Notes
	if description == "" {
		description = "Evidence captured."
	}
	e.LogActivity(domain.ActivityEntry{
		Type:        "verification",
		Title:       title,
		Description: description,
		AssetID:     in.AssetID,
		PersonID:    in.PerformedByID,
		Severity:    lifecycle.ActivitySeverity(in.Outcome),
	})
	return rec, true
}

// SetTaskStatus flips a task's status. Any transition is accepted;
// reports whether the id was known.
func (e Engine) SetTaskStatus(taskID string, status domain.TaskStatus) bool {
	_, ok := e.Store.Snapshot().Task(taskID)
	e.Store.SetTaskStatus(taskID, status)
	return ok
}

// AddTask schedules a verification task.
func (e Engine) AddTask(task domain.VerificationTask) domain.VerificationTask {
	if task.ID == "" {
		task.ID = domain.NewID(domain.PrefixTask)
	}
	if task.Status == "" {
		task.Status = domain.TaskScheduled
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	e.Store.AddTask(task)
	return task
}

// LogActivity appends an audit note, minting id and timestamp when
// absent.
func (e Engine) LogActivity(entry domain.ActivityEntry) domain.ActivityEntry {
	if entry.ID == "" {
		entry.ID = domain.NewID(domain.PrefixActivity)
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = e.now().UTC().Format(time.RFC3339)
	}
	if entry.Severity == "" {
		entry.Severity = domain.SeverityInfo
	}
	e.Store.LogActivity(entry)
	return entry
}

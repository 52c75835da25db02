// Package store owns the canonical in-memory collections and applies
// state transitions as pure reducer functions over immutable
// snapshots. Nothing outside this package mutates a collection; other
// components read snapshots or submit transitions.
package store

import (
	"sync"

	"assetline/internal/domain"
	"assetline/internal/lifecycle"
)

// ActivityCap bounds the activity log to the most recent entries,
// oldest evicted first.
const ActivityCap = 40

// State is the complete snapshot of all five collections. Treated as
// immutable: reducers return a new State and never write through a
// slice they received.
type State struct {
	Assets     []domain.Asset            `json:"assets"`
	People     []domain.Person           `json:"people"`
	Locations  []domain.Location         `json:"locations"`
	Activities []domain.ActivityEntry    `json:"activities"`
	Tasks      []domain.VerificationTask `json:"tasks"`
}

// Asset resolves an asset by id. Absence is an ok flag, never an
// error: the collections tolerate dangling references.
func (s State) Asset(id string) (domain.Asset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Asset{}, false
}

func (s State) Person(id string) (domain.Person, bool) {
	for _, p := range s.People {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Person{}, false
}

func (s State) Location(id string) (domain.Location, bool) {
	for _, l := range s.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Location{}, false
}

func (s State) Task(id string) (domain.VerificationTask, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.VerificationTask{}, false
}

// TasksOldestFirst returns the task collection in creation order.
// Tasks are stored newest first (AddTask prepends), so this is the
// reversed slice; the lifecycle cascade wants oldest first.
func (s State) TasksOldestFirst() []domain.VerificationTask {
	out := make([]domain.VerificationTask, len(s.Tasks))
	for i, t := range s.Tasks {
		out[len(s.Tasks)-1-i] = t
	}
	return out
}

// --- reducers ---

// RegisterAsset prepends the asset and links its id into the owning
// location's back-reference list, once. Logging an onboarding activity
// is the caller's concern.
func RegisterAsset(s State, asset domain.Asset) State {
	s.Assets = prependAsset(s.Assets, asset)
	locations := make([]domain.Location, len(s.Locations))
	for i, loc := range s.Locations {
		if loc.ID == asset.LocationID && !containsString(loc.AssetIDs, asset.ID) {
			ids := make([]string, 0, len(loc.AssetIDs)+1)
			ids = append(ids, loc.AssetIDs...)
			ids = append(ids, asset.ID)
			loc.AssetIDs = ids
		}
		locations[i] = loc
	}
	s.Locations = locations
	return s
}

// UpdateAsset replaces the asset with the matching id wholesale.
// Unknown ids leave the state unchanged.
func UpdateAsset(s State, asset domain.Asset) State {
	assets := make([]domain.Asset, len(s.Assets))
	for i, existing := range s.Assets {
		if existing.ID == asset.ID {
			assets[i] = asset
		} else {
			assets[i] = existing
		}
	}
	s.Assets = assets
	return s
}

// RecordVerification prepends the record to the target asset's history
// and derives status, lastVerified and nextDue from the outcome.
// Unknown asset ids leave the state unchanged.
func RecordVerification(s State, assetID string, rec domain.VerificationRecord, intervalDays int) State {
	assets := make([]domain.Asset, len(s.Assets))
	for i, asset := range s.Assets {
		if asset.ID != assetID {
			assets[i] = asset
			continue
		}
		history := make([]domain.VerificationRecord, 0, len(asset.Verifications)+1)
		history = append(history, rec)
		history = append(history, asset.Verifications...)
		d := lifecycle.Derive(asset, rec, intervalDays)
		asset.Verifications = history
		asset.Status = d.Status
		asset.LastVerified = d.LastVerified
		asset.NextDue = d.NextDue
		assets[i] = asset
	}
	s.Assets = assets
	return s
}

// LogActivity prepends the entry and truncates the log to ActivityCap.
func LogActivity(s State, entry domain.ActivityEntry) State {
	entries := make([]domain.ActivityEntry, 0, len(s.Activities)+1)
	entries = append(entries, entry)
	entries = append(entries, s.Activities...)
	if len(entries) > ActivityCap {
		entries = entries[:ActivityCap]
	}
	s.Activities = entries
	return s
}

// SetTaskStatus replaces the status of the matching task. Any
// transition is accepted; legality is the caller's concern. Unknown
// ids leave the state unchanged.
func SetTaskStatus(s State, taskID string, status domain.TaskStatus) State {
	tasks := make([]domain.VerificationTask, len(s.Tasks))
	for i, t := range s.Tasks {
		if t.ID == taskID {
			t.Status = status
		}
		tasks[i] = t
	}
	s.Tasks = tasks
	return s
}

// AddTask prepends the task.
func AddTask(s State, task domain.VerificationTask) State {
	tasks := make([]domain.VerificationTask, 0, len(s.Tasks)+1)
	tasks = append(tasks, task)
	tasks = append(tasks, s.Tasks...)
	s.Tasks = tasks
	return s
}

func prependAsset(assets []domain.Asset, asset domain.Asset) []domain.Asset {
	out := make([]domain.Asset, 0, len(assets)+1)
	out = append(out, asset)
	out = append(out, assets...)
	return out
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// --- store handle ---

// CommitHook observes every committed transition with the event name
// and the new snapshot. Used for best-effort persistence and
// instrumentation; it must not mutate the snapshot.
type CommitHook func(event string, snap State)

// Store serializes transitions over a single State. Explicitly
// constructed and passed by handle; there is no ambient instance.
type Store struct {
	mu       sync.RWMutex
	state    State
	onCommit CommitHook
}

func New(initial State) *Store {
	return &Store{state: initial}
}

// OnCommit installs the commit observer. Call before the store is
// shared; the hook runs synchronously inside the transition.
func (st *Store) OnCommit(hook CommitHook) {
	st.onCommit = hook
}

// Snapshot returns the current state. Snapshots are immutable and may
// be held indefinitely.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}

func (st *Store) commit(event string, next State) State {
	st.state = next
	if st.onCommit != nil {
		st.onCommit(event, next)
	}
	return next
}

func (st *Store) RegisterAsset(asset domain.Asset) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("asset.registered", RegisterAsset(st.state, asset))
}

func (st *Store) UpdateAsset(asset domain.Asset) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("asset.updated", UpdateAsset(st.state, asset))
}

func (st *Store) RecordVerification(assetID string, rec domain.VerificationRecord, intervalDays int) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("verification.recorded", RecordVerification(st.state, assetID, rec, intervalDays))
}

func (st *Store) LogActivity(entry domain.ActivityEntry) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("activity.logged", LogActivity(st.state, entry))
}

func (st *Store) SetTaskStatus(taskID string, status domain.TaskStatus) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("task.status", SetTaskStatus(st.state, taskID, status))
}

func (st *Store) AddTask(task domain.VerificationTask) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.commit("task.added", AddTask(st.state, task))
}

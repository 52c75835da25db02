package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"assetline/internal/config"
	"assetline/internal/domain"
	"assetline/internal/engine"
)

const (
	defaultWebhookInterval = 2 * time.Second
	defaultWebhookTimeout  = 5 * time.Second
)

// webhookDispatcher tails the activity log and posts new entries to the
// configured targets. Deliveries are best effort; a failed POST retries
// on the next tick because the cursor does not advance past it.
type webhookDispatcher struct {
	engine   engine.Engine
	webhooks []config.WebhookConfig
	client   *http.Client
	mu       sync.Mutex
	cursors  map[int]string
}

func startWebhookDispatcher(e engine.Engine) {
	if e.Config == nil || len(e.Config.Webhooks) == 0 {
		return
	}
	d := &webhookDispatcher{
		engine:   e,
		webhooks: e.Config.Webhooks,
		client:   &http.Client{Timeout: defaultWebhookTimeout},
		cursors:  make(map[int]string),
	}
	go d.run()
}

func (d *webhookDispatcher) run() {
	ticker := time.NewTicker(defaultWebhookInterval)
	defer ticker.Stop()
	for {
		d.dispatchAll()
		<-ticker.C
	}
}

func (d *webhookDispatcher) dispatchAll() {
	activities := d.engine.Snapshot().Activities
	for i, hook := range d.webhooks {
		if hook.Enabled != nil && !*hook.Enabled {
			continue
		}
		if strings.TrimSpace(hook.URL) == "" {
			continue
		}
		d.dispatchWebhook(i, hook, activities)
	}
}

// dispatchWebhook delivers, oldest first, every activity logged after
// the hook's cursor. Activities are stored newest first, so the slice
// up to the cursor's position is the undelivered backlog.
func (d *webhookDispatcher) dispatchWebhook(idx int, hook config.WebhookConfig, activities []domain.ActivityEntry) {
	ctx := context.Background()
	cursor := d.cursorFor(idx, activities)
	pending := activitiesAfter(activities, cursor)
	floor := severityFloor(hook.MinSeverity)
	for i := len(pending) - 1; i >= 0; i-- {
		entry := pending[i]
		if severityRank(entry.Severity) < floor {
			d.setCursor(idx, entry.ID)
			continue
		}
		if err := d.postActivity(ctx, hook, entry); err != nil {
			log.Printf("webhook: deliver to %s failed: %v", hook.URL, err)
			return
		}
		d.setCursor(idx, entry.ID)
	}
}

// cursorFor initializes a new hook's cursor to the newest existing
// entry so only activities logged after startup are delivered.
func (d *webhookDispatcher) cursorFor(idx int, activities []domain.ActivityEntry) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.cursors[idx]; ok {
		return cur
	}
	cur := ""
	if len(activities) > 0 {
		cur = activities[0].ID
	}
	d.cursors[idx] = cur
	return cur
}

func (d *webhookDispatcher) setCursor(idx int, value string) {
	d.mu.Lock()
	d.cursors[idx] = value
	d.mu.Unlock()
}

func activitiesAfter(activities []domain.ActivityEntry, cursor string) []domain.ActivityEntry {
	if cursor == "" {
		return activities
	}
	for i, entry := range activities {
		if entry.ID == cursor {
			return activities[:i]
		}
	}
	// Cursor aged out of the capped log; everything retained is new.
	return activities
}

func severityFloor(min string) int {
	if min == "" {
		return 0
	}
	return severityRank(domain.Severity(min))
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityCritical:
		return 2
	case domain.SeverityWarning:
		return 1
	default:
		return 0
	}
}

type webhookActivity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssetID     string `json:"assetId,omitempty"`
	PersonID    string `json:"personId,omitempty"`
	Severity    string `json:"severity"`
	CreatedAt   string `json:"createdAt"`
}

func (d *webhookDispatcher) postActivity(ctx context.Context, hook config.WebhookConfig, entry domain.ActivityEntry) error {
	body := webhookActivity{
		ID:          entry.ID,
		Type:        entry.Type,
		Title:       entry.Title,
		Description: entry.Description,
		AssetID:     entry.AssetID,
		PersonID:    entry.PersonID,
		Severity:    string(entry.Severity),
		CreatedAt:   entry.CreatedAt,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	timeout := defaultWebhookTimeout
	if hook.TimeoutSeconds > 0 {
		timeout = time.Duration(hook.TimeoutSeconds) * time.Second
	}
	client := d.client
	if timeout != d.client.Timeout {
		client = &http.Client{Timeout: timeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Assetline-Activity", entry.Type)
	req.Header.Set("X-Assetline-Delivery", entry.ID)
	if strings.TrimSpace(hook.Secret) != "" {
		req.Header.Set("X-Assetline-Secret", hook.Secret)
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	return nil
}

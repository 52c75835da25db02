package assetlinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Assetline HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Asset represents the API asset model.
type Asset struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	AssetTag      string         `json:"assetTag"`
	Category      string         `json:"category"`
	OwnerID       string         `json:"ownerId,omitempty"`
	LocationID    string         `json:"locationId"`
	Status        string         `json:"status"`
	LastVerified  string         `json:"lastVerified,omitempty"`
	NextDue       string         `json:"nextDue"`
	RiskRating    string         `json:"riskRating"`
	CostCenter    string         `json:"costCenter,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Verifications []Verification `json:"verifications"`
}

// Verification represents one evidence-collection record.
type Verification struct {
	ID            string   `json:"id"`
	AssetID       string   `json:"assetId"`
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	PerformedByID string   `json:"performedById"`
	Notes         string   `json:"notes"`
	Issues        []string `json:"issues,omitempty"`
}

// Task represents a scheduled verification task.
type Task struct {
	ID           string   `json:"id"`
	AssetID      string   `json:"assetId"`
	DueDate      string   `json:"dueDate"`
	AssignedToID string   `json:"assignedToId,omitempty"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Checklist    []string `json:"checklist,omitempty"`
}

// Activity represents an audit log entry.
type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssetID     string `json:"assetId,omitempty"`
	PersonID    string `json:"personId,omitempty"`
	CreatedAt   string `json:"createdAt"`
	Severity    string `json:"status"`
}

// Overview mirrors the dashboard metric set.
type Overview struct {
	TotalAssets    int `json:"totalAssets"`
	Verified       int `json:"verified"`
	Pending        int `json:"pending"`
	Flagged        int `json:"flagged"`
	ComplianceRate int `json:"complianceRate"`
	HighRisk       int `json:"highRisk"`
	DueSoon        int `json:"dueSoon"`
	Overdue        int `json:"overdue"`
	Evidence       int `json:"evidence"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListAssets returns assets, optionally filtered by status.
func (c *Client) ListAssets(ctx context.Context, status string) ([]Asset, error) {
	endpoint := "v0/assets"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var resp []Asset
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetAsset fetches one asset with its verification history.
func (c *Client) GetAsset(ctx context.Context, id string) (Asset, error) {
	var resp Asset
	err := c.do(ctx, http.MethodGet, "v0/assets/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// RegisterAsset registers a new asset.
func (c *Client) RegisterAsset(ctx context.Context, name, category, locationID string) (Asset, error) {
	body := map[string]any{
		"name":       name,
		"category":   category,
		"locationId": locationID,
	}
	var resp Asset
	err := c.do(ctx, http.MethodPost, "v0/assets", body, &resp)
	return resp, err
}

// RecordVerification records an outcome against an asset.
func (c *Client) RecordVerification(ctx context.Context, assetID, status, performedByID, notes, issues string) (Verification, error) {
	body := map[string]any{
		"status":        status,
		"performedById": performedByID,
		"notes":         notes,
		"issues":        issues,
	}
	var resp Verification
	endpoint := fmt.Sprintf("v0/assets/%s/verifications", url.PathEscape(assetID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// ListTasks returns verification tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]Task, error) {
	endpoint := "v0/tasks"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var resp []Task
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// AddTask schedules a verification task.
func (c *Client) AddTask(ctx context.Context, assetID, dueDate, assignedToID, priority string) (Task, error) {
	body := map[string]any{
		"assetId":      assetID,
		"dueDate":      dueDate,
		"assignedToId": assignedToID,
		"priority":     priority,
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp, err
}

// SetTaskStatus flips a task's status.
func (c *Client) SetTaskStatus(ctx context.Context, id, status string) (Task, error) {
	body := map[string]any{"status": status}
	var resp Task
	endpoint := fmt.Sprintf("v0/tasks/%s/status", url.PathEscape(id))
	err := c.do(ctx, http.MethodPatch, endpoint, body, &resp)
	return resp, err
}

// Activities returns the recent activity log, newest first.
func (c *Client) Activities(ctx context.Context, severity string) ([]Activity, error) {
	endpoint := "v0/activities"
	if severity != "" {
		endpoint += "?severity=" + url.QueryEscape(severity)
	}
	var resp []Activity
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Dashboard returns the compliance overview.
func (c *Client) Dashboard(ctx context.Context) (Overview, error) {
	var resp Overview
	err := c.do(ctx, http.MethodGet, "v0/dashboard", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

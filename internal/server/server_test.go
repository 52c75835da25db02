package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"assetline/internal/config"
	"assetline/internal/domain"
	"assetline/internal/engine"
	"assetline/internal/seed"
	"assetline/internal/store"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T, initial store.State) *testServer {
	t.Helper()
	e := engine.New(store.New(initial), nil, config.Default())
	e.Now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	handler, err := New(Config{Engine: e, BasePath: "/v0"})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
		},
	}
	t.Cleanup(testSrv.Close)
	return testSrv
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, store.State{})
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/health", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
}

func TestListAssetsWithFilter(t *testing.T) {
	srv := newTestServer(t, seed.Default(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/assets", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var all []domain.Asset
	if err := json.Unmarshal(data, &all); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("asset count %d, want 5", len(all))
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/assets?status=flagged", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("filter status %d: %s", res.StatusCode, data)
	}
	var flagged []domain.Asset
	if err := json.Unmarshal(data, &flagged); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, a := range flagged {
		if a.Status != domain.AssetFlagged {
			t.Fatalf("filter leaked %s asset %s", a.Status, a.ID)
		}
	}
}

func TestGetAssetNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t, store.State{})
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/assets/AST-404", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Error.Code != "not_found" {
		t.Fatalf("error code %q, want not_found", envelope.Error.Code)
	}
}

func TestRegisterAsset(t *testing.T) {
	srv := newTestServer(t, store.State{
		Locations: []domain.Location{{ID: "LOC-1", Name: "SF HQ"}},
	})
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/assets", map[string]any{
		"name":       "Core Switch",
		"category":   "network",
		"locationId": "LOC-1",
		"riskRating": "high",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var created domain.Asset
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Status != domain.AssetPending || created.CostCenter != "CC-UNASSIGNED" {
		t.Fatalf("defaults not applied: %+v", created)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/assets/"+created.ID, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status %d: %s", res.StatusCode, data)
	}
	var detail AssetDetailResponse
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	if detail.LocationName != "SF HQ" {
		t.Fatalf("location name not resolved: %+v", detail)
	}
}

func TestRegisterAssetMissingLocation(t *testing.T) {
	srv := newTestServer(t, store.State{})
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/assets", map[string]any{
		"name":     "Orphan",
		"category": "laptop",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
}

func TestRecordVerificationCascade(t *testing.T) {
	srv := newTestServer(t, store.State{
		Assets: []domain.Asset{{
			ID:           "AST-1",
			Name:         "Edge Router",
			Status:       domain.AssetVerified,
			LastVerified: "2024-03-01",
			NextDue:      "2024-08-28",
		}},
		Tasks: []domain.VerificationTask{
			{ID: "TASK-2", AssetID: "AST-1", Status: domain.TaskScheduled, DueDate: "2024-07-01"},
			{ID: "TASK-1", AssetID: "AST-1", Status: domain.TaskInProgress, DueDate: "2024-06-15"},
		},
	})
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/assets/AST-1/verifications", map[string]any{
		"status":        "failed",
		"performedById": "PER-1",
		"issues":        "Missing logs, stale patch level",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var rec domain.VerificationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rec.Issues) != 2 {
		t.Fatalf("issues not parsed: %v", rec.Issues)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/assets/AST-1", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get status %d: %s", res.StatusCode, data)
	}
	var detail AssetDetailResponse
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	if detail.Status != domain.AssetFlagged {
		t.Fatalf("asset not flagged: %s", detail.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/tasks?status=overdue", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("tasks status %d: %s", res.StatusCode, data)
	}
	var overdue []domain.VerificationTask
	if err := json.Unmarshal(data, &overdue); err != nil {
		t.Fatalf("unmarshal tasks: %v", err)
	}
	if len(overdue) != 2 {
		t.Fatalf("failure should escalate both open tasks, got %d", len(overdue))
	}
}

func TestTaskStatusPatch(t *testing.T) {
	srv := newTestServer(t, store.State{
		Tasks: []domain.VerificationTask{{ID: "TASK-1", AssetID: "AST-1", Status: domain.TaskScheduled, DueDate: "2024-07-01"}},
	})
	res, data := doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/tasks/TASK-1/status", map[string]any{
		"status": "in-progress",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var task domain.VerificationTask
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Status != domain.TaskInProgress {
		t.Fatalf("task status %s", task.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/tasks/TASK-404/status", map[string]any{
		"status": "completed",
	})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown task status %d: %s", res.StatusCode, data)
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, store.State{
		Assets: []domain.Asset{
			{ID: "AST-1", Status: domain.AssetVerified, NextDue: "2024-11-01"},
			{ID: "AST-2", Status: domain.AssetFlagged, NextDue: "2024-05-01"},
		},
	})
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/dashboard", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", res.StatusCode, data)
	}
	var overview struct {
		TotalAssets    int `json:"totalAssets"`
		ComplianceRate int `json:"complianceRate"`
	}
	if err := json.Unmarshal(data, &overview); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if overview.TotalAssets != 2 || overview.ComplianceRate != 50 {
		t.Fatalf("overview wrong: %+v", overview)
	}
}

func TestOpenAPIAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t, store.State{})
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/openapi.json", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("openapi status %d", res.StatusCode)
	}
	var spec map[string]any
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("openapi not json: %v", err)
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/metrics", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d", res.StatusCode)
	}
}

package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"assetline/internal/domain"
	"assetline/internal/report"
	"assetline/internal/store"
)

var now = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func TestBuildSamplesAssets(t *testing.T) {
	var assets []domain.Asset
	for i := 0; i < 12; i++ {
		assets = append(assets, domain.Asset{ID: domain.NewID(domain.PrefixAsset)})
	}
	doc := report.Build(store.State{Assets: assets}, now, 0)
	if doc.GeneratedAt != "2024-06-01T09:30:00Z" {
		t.Fatalf("generatedAt %q", doc.GeneratedAt)
	}
	if len(doc.Assets) != report.DefaultSampleSize {
		t.Fatalf("sample %d, want %d", len(doc.Assets), report.DefaultSampleSize)
	}
	doc = report.Build(store.State{Assets: assets}, now, 3)
	if len(doc.Assets) != 3 {
		t.Fatalf("sample %d, want 3", len(doc.Assets))
	}
}

func TestFilename(t *testing.T) {
	if got := report.Filename(now); got != "asset-verification-report-2024-06-01.json" {
		t.Fatalf("filename %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), report.Filename(now))
	doc := report.Build(store.State{Assets: []domain.Asset{{ID: "AST-1"}}}, now, 5)
	if err := report.WriteFile(path, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var parsed report.Document
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("artifact not valid json: %v", err)
	}
	if len(parsed.Assets) != 1 || parsed.Assets[0].ID != "AST-1" {
		t.Fatalf("artifact content wrong: %+v", parsed.Assets)
	}
	if data[len(data)-1] != '\n' {
		t.Fatalf("artifact should end with a newline")
	}
}

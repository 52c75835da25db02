// Package report builds the point-in-time export artifact: generation
// timestamp, aggregate metrics, and a bounded sample of asset records.
// The artifact is write-only; it is never read back.
package report

import (
	"encoding/json"
	"os"
	"time"

	"assetline/internal/domain"
	"assetline/internal/metrics"
	"assetline/internal/store"
)

// DefaultSampleSize bounds the asset sample in the artifact.
const DefaultSampleSize = 10

type Document struct {
	GeneratedAt string         `json:"generatedAt" format:"date-time"`
	Metrics     metrics.Report `json:"metrics"`
	Assets      []domain.Asset `json:"assets"`
}

// Build assembles the export document from a snapshot.
func Build(s store.State, now time.Time, sampleSize int) Document {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	sample := s.Assets
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	return Document{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Metrics:     metrics.ComputeReport(s, now),
		Assets:      sample,
	}
}

// Filename is the conventional artifact name for a generation day.
func Filename(now time.Time) string {
	return "asset-verification-report-" + now.Format("2006-01-02") + ".json"
}

// WriteFile renders the document as indented JSON at path.
func WriteFile(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

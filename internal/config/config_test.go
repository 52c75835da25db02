package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"assetline/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Verification.IntervalDays != 180 {
		t.Fatalf("interval %d, want 180", cfg.Verification.IntervalDays)
	}
	if cfg.Verification.DueSoonDays != 7 {
		t.Fatalf("due soon window %d, want 7", cfg.Verification.DueSoonDays)
	}
	if cfg.Report.SampleSize != 10 {
		t.Fatalf("sample size %d, want 10", cfg.Report.SampleSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestFromYAMLPartialFallsBack(t *testing.T) {
	cfg, err := config.FromYAML([]byte("verification:\n  interval_days: 90\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Verification.IntervalDays != 90 {
		t.Fatalf("interval %d, want 90", cfg.Verification.IntervalDays)
	}
	if cfg.Verification.DueSoonDays != 7 || cfg.Report.SampleSize != 10 {
		t.Fatalf("omitted keys should keep defaults: %+v", cfg)
	}
}

func TestFromYAMLRejectsBadWebhook(t *testing.T) {
	if _, err := config.FromYAML([]byte("webhooks:\n  - min_severity: warning\n")); err == nil {
		t.Fatalf("webhook without url accepted")
	}
	if _, err := config.FromYAML([]byte("webhooks:\n  - url: http://localhost/hook\n    min_severity: loud\n")); err == nil {
		t.Fatalf("bad min_severity accepted")
	}
}

func TestFromYAMLRejectsNegativeInterval(t *testing.T) {
	if _, err := config.FromYAML([]byte("verification:\n  interval_days: -1\n")); err == nil {
		t.Fatalf("negative interval accepted")
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("missing file should yield defaults: %v", err)
	}
	if cfg.Verification.IntervalDays != 180 {
		t.Fatalf("defaults not returned")
	}

	path := filepath.Join(dir, "assetline.yml")
	if err := os.WriteFile(path, []byte("report:\n  sample_size: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Report.SampleSize != 3 {
		t.Fatalf("sample size %d, want 3", cfg.Report.SampleSize)
	}
}

func TestGenerateDefaultRoundTrips(t *testing.T) {
	cfg, err := config.FromYAML([]byte(config.GenerateDefault()))
	if err != nil {
		t.Fatalf("generated template invalid: %v", err)
	}
	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Fatalf("template differs from defaults")
	}
}

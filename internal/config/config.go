package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models assetline.yml.
type Config struct {
	Inventory struct {
		Name string `yaml:"name"`
	} `yaml:"inventory"`
	Verification struct {
		IntervalDays int `yaml:"interval_days"`
		DueSoonDays  int `yaml:"due_soon_days"`
	} `yaml:"verification"`
	Report struct {
		SampleSize int `yaml:"sample_size"`
	} `yaml:"report"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// WebhookConfig declares one activity webhook target.
type WebhookConfig struct {
	URL            string `yaml:"url"`
	MinSeverity    string `yaml:"min_severity,omitempty"`
	Secret         string `yaml:"secret,omitempty"`
	Enabled        *bool  `yaml:"enabled,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Load reads and validates config from the workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Verification.IntervalDays < 0 {
		return fmt.Errorf("config.verification.interval_days must not be negative")
	}
	if c.Verification.DueSoonDays < 0 {
		return fmt.Errorf("config.verification.due_soon_days must not be negative")
	}
	if c.Report.SampleSize < 0 {
		return fmt.Errorf("config.report.sample_size must not be negative")
	}
	for i, hook := range c.Webhooks {
		if hook.URL == "" {
			return fmt.Errorf("config.webhooks[%d].url is required", i)
		}
		switch hook.MinSeverity {
		case "", "info", "warning", "critical":
		default:
			return fmt.Errorf("config.webhooks[%d].min_severity must be info, warning or critical", i)
		}
		if hook.TimeoutSeconds < 0 {
			return fmt.Errorf("config.webhooks[%d].timeout_seconds must not be negative", i)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "assetline.yml")
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// FromYAML parses and validates config from raw YAML bytes. Zero
// values fall back to the defaults so a partial file stays usable.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if cfg.Verification.IntervalDays == 0 {
		cfg.Verification.IntervalDays = Default().Verification.IntervalDays
	}
	if cfg.Verification.DueSoonDays == 0 {
		cfg.Verification.DueSoonDays = Default().Verification.DueSoonDays
	}
	if cfg.Report.SampleSize == 0 {
		cfg.Report.SampleSize = Default().Report.SampleSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const defaultTemplate = `inventory:
  name: asset-verification

verification:
  # A passed verification certifies the asset for this many days.
  interval_days: 180
  # Tasks due within this window count as "due soon".
  due_soon_days: 7

report:
  # Number of asset records sampled into the export artifact.
  sample_size: 10
`

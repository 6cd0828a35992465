package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the file-configurable settings of the server. Zero values are
// replaced with defaults after unmarshalling so partial config files are fine.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Storage StorageConfig `yaml:"storage"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// SourceConfig describes where the lead dataset comes from.
type SourceConfig struct {
	// CSVURL is the unauthenticated CSV export endpoint polled by refresh_data.
	CSVURL string `yaml:"csv_url"`
	// FetchTimeout bounds a single export download.
	FetchTimeout Duration `yaml:"fetch_timeout"`
	// MilestoneStart/MilestoneEnd bound the progress-tracking column window
	// within the header list, half-open.
	MilestoneStart int `yaml:"milestone_start"`
	MilestoneEnd   int `yaml:"milestone_end"`
}

// StorageConfig describes local persistence.
type StorageConfig struct {
	// TargetsDB is the SQLite file holding persisted KPI targets.
	TargetsDB string `yaml:"targets_db"`
}

// LimitsConfig mirrors the runtime guardrails.
type LimitsConfig struct {
	MaxConcurrentRequests int           `yaml:"max_concurrent_requests"`
	MaxConcurrentFetches  int           `yaml:"max_concurrent_fetches"`
	MaxPayloadBytes       int           `yaml:"max_payload_bytes"`
	PreviewRowLimit       int           `yaml:"preview_row_limit"`
	OperationTimeout      Duration      `yaml:"operation_timeout"`
}

// Default returns a Config populated entirely from the package defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			CSVURL:         DefaultCSVExportURL,
			FetchTimeout:   Duration(DefaultFetchTimeout),
			MilestoneStart: DefaultMilestoneStart,
			MilestoneEnd:   DefaultMilestoneEnd,
		},
		Storage: StorageConfig{
			TargetsDB: DefaultTargetsDBPath,
		},
		Limits: LimitsConfig{
			MaxConcurrentRequests: DefaultMaxConcurrentRequests,
			MaxConcurrentFetches:  DefaultMaxConcurrentFetches,
			MaxPayloadBytes:       DefaultMaxPayloadBytes,
			PreviewRowLimit:       DefaultPreviewRowLimit,
			OperationTimeout:      Duration(DefaultOperationTimeout),
		},
	}
}

// Load reads a YAML config from path and merges it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	merge(cfg, loaded)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(dst, src *Config) {
	if src.Source.CSVURL != "" {
		dst.Source.CSVURL = src.Source.CSVURL
	}
	if src.Source.FetchTimeout > 0 {
		dst.Source.FetchTimeout = src.Source.FetchTimeout
	}
	if src.Source.MilestoneStart > 0 {
		dst.Source.MilestoneStart = src.Source.MilestoneStart
	}
	if src.Source.MilestoneEnd > 0 {
		dst.Source.MilestoneEnd = src.Source.MilestoneEnd
	}
	if src.Storage.TargetsDB != "" {
		dst.Storage.TargetsDB = src.Storage.TargetsDB
	}
	if src.Limits.MaxConcurrentRequests > 0 {
		dst.Limits.MaxConcurrentRequests = src.Limits.MaxConcurrentRequests
	}
	if src.Limits.MaxConcurrentFetches > 0 {
		dst.Limits.MaxConcurrentFetches = src.Limits.MaxConcurrentFetches
	}
	if src.Limits.MaxPayloadBytes > 0 {
		dst.Limits.MaxPayloadBytes = src.Limits.MaxPayloadBytes
	}
	if src.Limits.PreviewRowLimit > 0 {
		dst.Limits.PreviewRowLimit = src.Limits.PreviewRowLimit
	}
	if src.Limits.OperationTimeout > 0 {
		dst.Limits.OperationTimeout = src.Limits.OperationTimeout
	}
}

func (c *Config) validate() error {
	if c.Source.MilestoneEnd <= c.Source.MilestoneStart {
		return fmt.Errorf("config: milestone window [%d, %d) is empty", c.Source.MilestoneStart, c.Source.MilestoneEnd)
	}
	return nil
}

// Package config handles TOML-based configuration for building a pool
// without calling pool.Auto() directly (SPEC_FULL.md §3 "PoolConfig").
//
// Grounded on witnessd's internal/config.Config (DefaultConfig/Load/
// Validate shape, BurntSushi/toml decoding); adapted here from daemon
// filesystem-path settings to pool construction settings.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// PoolConfig describes which sources to enable, at what weight, and the
// default sample count collect_all should use when none is built from
// pool.Auto(). Loading a PoolConfig has no effect on any pool's
// entropy-bearing state; it only decides which sources get added and at
// what weight once the caller constructs a pool from it.
type PoolConfig struct {
	// EnabledSources lists the source names to add. An empty list means
	// "behave like auto()" — every auto-detectable, available source.
	EnabledSources []string `toml:"enabled_sources" json:"enabled_sources,omitempty"`

	// SourceWeights overrides the default weight (1.0) for named sources.
	// A name with no entry here uses the default.
	SourceWeights map[string]float64 `toml:"source_weights" json:"source_weights,omitempty"`

	// DefaultSampleCount is the per-source sample count collect_all uses.
	// Zero means "use the package default" (source.DefaultSampleCount).
	DefaultSampleCount int `toml:"default_sample_count" json:"default_sample_count"`

	// MetricsConditioningMode names a conditioning mode ("raw",
	// "vonneumann", or "sha256"; default "sha256"). Validate and
	// ValidateSchema check it, but nothing else reads it: the metrics
	// collector only reads HealthReport snapshots and draws no bytes.
	MetricsConditioningMode string `toml:"metrics_conditioning_mode" json:"metrics_conditioning_mode"`
}

// DefaultPoolConfig returns a configuration equivalent to calling
// pool.Auto(): every auto-detectable source at weight 1.0.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		EnabledSources:          nil,
		SourceWeights:           map[string]float64{},
		DefaultSampleCount:      0,
		MetricsConditioningMode: "sha256",
	}
}

// Load reads a PoolConfig from a TOML file at path. A missing file is not
// an error — it returns DefaultPoolConfig(), matching witnessd's Load
// convention of degrading to defaults rather than failing startup over an
// absent, optional config file.
func Load(path string) (*PoolConfig, error) {
	cfg := DefaultPoolConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.SourceWeights == nil {
		cfg.SourceWeights = map[string]float64{}
	}
	return cfg, nil
}

// Validate checks a PoolConfig for internally inconsistent values before
// it is handed to pool.NewFromConfig.
func (c *PoolConfig) Validate() error {
	if c.DefaultSampleCount < 0 {
		return fmt.Errorf("config: default_sample_count must be >= 0, got %d", c.DefaultSampleCount)
	}
	for name, w := range c.SourceWeights {
		if w < 0 {
			return fmt.Errorf("config: source_weights[%q] must be >= 0, got %v", name, w)
		}
	}
	switch c.MetricsConditioningMode {
	case "", "raw", "vonneumann", "sha256":
	default:
		return fmt.Errorf("config: metrics_conditioning_mode %q is not one of raw|vonneumann|sha256", c.MetricsConditioningMode)
	}
	return nil
}

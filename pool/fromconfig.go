package pool

import (
	"fmt"

	"github.com/amenti-labs/openentropy-sub002/config"
	"github.com/amenti-labs/openentropy-sub002/source"
)

// NewFromConfig builds a pool the way Auto() does (platform detection,
// availability probing) but only adds sources named in
// cfg.EnabledSources — an empty list behaves exactly like Auto() — and
// applies cfg.SourceWeights overrides (spec SPEC_FULL.md §4.5 "ADDED:
// Config-driven construction"). cfg is validated, both structurally
// (JSON Schema) and semantically, before any pool state is touched.
func NewFromConfig(cfg *config.PoolConfig) (*Pool, error) {
	if err := cfg.ValidateSchema(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := New(nil)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultSampleCount > 0 {
		p.defaultSampleCount = cfg.DefaultSampleCount
	}

	wanted := make(map[string]bool, len(cfg.EnabledSources))
	for _, name := range cfg.EnabledSources {
		wanted[name] = true
	}
	enableAll := len(cfg.EnabledSources) == 0

	for _, s := range source.AutoDetectable() {
		info := s.Info()
		if !enableAll && !wanted[info.Name] {
			continue
		}
		if !info.Platform.Matches() {
			continue
		}
		if !s.IsAvailable() {
			continue
		}
		weight := 1.0
		if w, ok := cfg.SourceWeights[info.Name]; ok {
			weight = w
		}
		p.AddSource(s, weight)
	}

	if !enableAll {
		added := make(map[string]bool, len(p.sources))
		for _, name := range p.SourceNames() {
			added[name] = true
		}
		for name := range wanted {
			if !added[name] {
				return nil, fmt.Errorf("config: enabled source %q is not available or unknown on this host", name)
			}
		}
	}

	return p, nil
}

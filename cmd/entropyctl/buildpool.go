package main

import (
	"fmt"

	"github.com/amenti-labs/openentropy-sub002/config"
	"github.com/amenti-labs/openentropy-sub002/pool"
)

// buildPool constructs a pool either from --config (schema-validated
// PoolConfig) or, with no flag given, from pool.Auto()'s platform
// detection.
func buildPool() (*pool.Pool, error) {
	if configPath == "" {
		p, err := pool.Auto()
		if err != nil {
			return nil, fmt.Errorf("auto-detect sources: %w", err)
		}
		return p, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	p, err := pool.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build pool from config: %w", err)
	}
	return p, nil
}

// Package report renders quality.Report and pool.HealthReport as YAML.
// The entropyctl example binary uses MarshalQuality for its bench output
// (SPEC_FULL.md §6); its scan subcommand prints a plain table instead.
//
// Grounded on the teacher repository's use of gopkg.in/yaml.v3 for
// human-readable structured output in internal/config (loader.go decodes
// YAML config documents the same way this package encodes them).
package report

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amenti-labs/openentropy-sub002/pool"
	"github.com/amenti-labs/openentropy-sub002/quality"
)

// QualityDocument is the YAML-serializable shape of a quality.Report, with
// field names chosen for a human reading bench output rather than the
// estimator package's internal names.
type QualityDocument struct {
	SampleBytes           int     `yaml:"sample_bytes"`
	ShannonBitsPerByte    float64 `yaml:"shannon_bits_per_byte"`
	MinEntropyBitsPerByte float64 `yaml:"min_entropy_bits_per_byte"`
	CompressionRatio      float64 `yaml:"compression_ratio"`
	QualityScore          float64 `yaml:"quality_score"`
	Grade                 string  `yaml:"grade"`
}

// Quality converts r into its YAML document form. n is the sample size the
// report was computed over; quality.Report itself carries no sample count.
func Quality(n int, r quality.Report) QualityDocument {
	return QualityDocument{
		SampleBytes:           n,
		ShannonBitsPerByte:    r.Shannon,
		MinEntropyBitsPerByte: r.MinEntropy.MinEntropy,
		CompressionRatio:      r.CompressionRatio,
		QualityScore:          r.QualityScore,
		Grade:                 string(r.Grade),
	}
}

// MarshalQuality renders a quality.Report as a YAML document.
func MarshalQuality(n int, r quality.Report) ([]byte, error) {
	out, err := yaml.Marshal(Quality(n, r))
	if err != nil {
		return nil, fmt.Errorf("report: marshal quality document: %w", err)
	}
	return out, nil
}

// SourceHealthDocument is the YAML-serializable shape of one
// pool.SourceHealth entry.
type SourceHealthDocument struct {
	Name            string  `yaml:"name"`
	Healthy         bool    `yaml:"healthy"`
	State           string  `yaml:"state"`
	TotalBytes      uint64  `yaml:"total_bytes"`
	Failures        uint64  `yaml:"failures"`
	LastEntropy     float64 `yaml:"last_entropy"`
	LastMinEntropy  float64 `yaml:"last_min_entropy"`
	LastCollectTime string  `yaml:"last_collect_time"`
}

// HealthDocument is the YAML-serializable shape of a pool.HealthReport.
type HealthDocument struct {
	Sources          []SourceHealthDocument `yaml:"sources"`
	HealthyCount     int                    `yaml:"healthy_count"`
	TotalSources     int                    `yaml:"total_sources"`
	TotalRawBytes    uint64                 `yaml:"total_raw_bytes"`
	TotalOutputBytes uint64                 `yaml:"total_output_bytes"`
	BufferSize       int                    `yaml:"buffer_size"`
}

// Health converts a pool.HealthReport into its YAML document form.
func Health(r pool.HealthReport) HealthDocument {
	doc := HealthDocument{
		Sources:          make([]SourceHealthDocument, 0, len(r.Sources)),
		HealthyCount:     r.HealthyCount,
		TotalSources:     r.TotalSources,
		TotalRawBytes:    r.TotalRawBytes,
		TotalOutputBytes: r.TotalOutputBytes,
		BufferSize:       r.BufferSize,
	}
	for _, sh := range r.Sources {
		doc.Sources = append(doc.Sources, SourceHealthDocument{
			Name:            sh.Name,
			Healthy:         sh.Healthy,
			State:           sh.State.String(),
			TotalBytes:      sh.TotalBytes,
			Failures:        sh.Failures,
			LastEntropy:     sh.LastEntropy,
			LastMinEntropy:  sh.LastMinEntropy,
			LastCollectTime: sh.LastCollectTime.Round(time.Microsecond).String(),
		})
	}
	return doc
}

// MarshalHealth renders a pool.HealthReport as a YAML document.
func MarshalHealth(r pool.HealthReport) ([]byte, error) {
	out, err := yaml.Marshal(Health(r))
	if err != nil {
		return nil, fmt.Errorf("report: marshal health document: %w", err)
	}
	return out, nil
}

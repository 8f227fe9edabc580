package pool

import "time"

// SourceHealth is an immutable per-source snapshot returned by
// HealthReport; it mirrors SourceState without aliasing its mutable
// fields (spec §3 "SourceHealth").
type SourceHealth struct {
	Name            string
	Healthy         bool
	State           State
	TotalBytes      uint64
	Failures        uint64
	LastEntropy     float64
	LastMinEntropy  float64
	LastCollectTime time.Duration
}

// HealthReport is the immutable aggregate snapshot returned by
// Pool.HealthReport (spec §3 "HealthReport").
type HealthReport struct {
	Sources          []SourceHealth
	HealthyCount     int
	TotalSources     int
	TotalRawBytes    uint64
	TotalOutputBytes uint64
	BufferSize       int
}

// HealthReport snapshots every source's current health alongside
// pool-wide aggregate counters (spec §4.5 "health_report"). The snapshot
// does not alias any internal mutable state.
func (p *Pool) HealthReport() HealthReport {
	sources := p.snapshotSources()

	report := HealthReport{
		Sources:      make([]SourceHealth, 0, len(sources)),
		TotalSources: len(sources),
	}

	for _, ss := range sources {
		ss.mu.Lock()
		healthy := ss.state == Healthy || ss.state == Ready
		report.Sources = append(report.Sources, SourceHealth{
			Name:            ss.info.Name,
			Healthy:         healthy,
			State:           ss.state,
			TotalBytes:      ss.totalBytes,
			Failures:        ss.failures,
			LastEntropy:     ss.lastEntropy,
			LastMinEntropy:  ss.lastMinEntropy,
			LastCollectTime: ss.lastCollectTime,
		})
		if healthy {
			report.HealthyCount++
		}
		ss.mu.Unlock()
	}

	p.bufMu.Lock()
	report.TotalRawBytes = p.totalRawBytes
	report.TotalOutputBytes = p.totalOutputBytes
	report.BufferSize = len(p.buffer)
	p.bufMu.Unlock()

	return report
}

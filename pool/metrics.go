package pool

import "github.com/prometheus/client_golang/prometheus"

// poolCollector adapts a *Pool's HealthReport into Prometheus metrics.
// It is read-only: scraping it only reads HealthReport snapshots, never
// calls CollectAll or otherwise mutates the pool, per SPEC_FULL.md §9's
// "quantum-proxy and telemetry overlays ... must not influence the
// entropy bytes that the pool produces."
//
// Grounded on the prometheus/client_golang usage pattern in the example
// corpus's churn telemetry package (prometheus.NewCounter/NewGauge +
// registration); adapted here from that package's fixed, globally
// registered metric set to a custom prometheus.Collector, since the
// pool's source set is only known at runtime (sources are added after
// construction, so their metric descriptors cannot be declared as
// package-level globals the way a fixed KPI set can).
type poolCollector struct {
	p *Pool

	sourceHealthy     *prometheus.Desc
	sourceTotalBytes  *prometheus.Desc
	sourceFailures    *prometheus.Desc
	sourceLastEntropy *prometheus.Desc
	bufferSize        *prometheus.Desc
	totalRawBytes     *prometheus.Desc
	totalOutputBytes  *prometheus.Desc
	healthySources    *prometheus.Desc
	totalSources      *prometheus.Desc
}

func newPoolCollector(p *Pool) *poolCollector {
	return &poolCollector{
		p: p,
		sourceHealthy: prometheus.NewDesc(
			"openentropy_source_healthy", "1 if the source's last collection was healthy, else 0.",
			[]string{"source"}, nil,
		),
		sourceTotalBytes: prometheus.NewDesc(
			"openentropy_source_total_bytes", "Cumulative raw bytes collected from this source.",
			[]string{"source"}, nil,
		),
		sourceFailures: prometheus.NewDesc(
			"openentropy_source_failures_total", "Cumulative failure count for this source.",
			[]string{"source"}, nil,
		),
		sourceLastEntropy: prometheus.NewDesc(
			"openentropy_source_last_shannon_entropy", "Shannon entropy in bits/byte of this source's most recent collection.",
			[]string{"source"}, nil,
		),
		bufferSize: prometheus.NewDesc(
			"openentropy_buffer_size_bytes", "Current size of the pool's shared raw buffer.", nil, nil,
		),
		totalRawBytes: prometheus.NewDesc(
			"openentropy_total_raw_bytes", "Cumulative raw bytes collected across every source.", nil, nil,
		),
		totalOutputBytes: prometheus.NewDesc(
			"openentropy_total_output_bytes", "Cumulative conditioned output bytes produced.", nil, nil,
		),
		healthySources: prometheus.NewDesc(
			"openentropy_healthy_sources", "Number of sources currently reporting healthy.", nil, nil,
		),
		totalSources: prometheus.NewDesc(
			"openentropy_total_sources", "Number of sources added to the pool.", nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sourceHealthy
	ch <- c.sourceTotalBytes
	ch <- c.sourceFailures
	ch <- c.sourceLastEntropy
	ch <- c.bufferSize
	ch <- c.totalRawBytes
	ch <- c.totalOutputBytes
	ch <- c.healthySources
	ch <- c.totalSources
}

// Collect implements prometheus.Collector. Every value comes from a
// single HealthReport snapshot, so one scrape sees a consistent view of
// the pool at one instant.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	report := c.p.HealthReport()

	for _, sh := range report.Sources {
		healthyVal := 0.0
		if sh.Healthy {
			healthyVal = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.sourceHealthy, prometheus.GaugeValue, healthyVal, sh.Name)
		ch <- prometheus.MustNewConstMetric(c.sourceTotalBytes, prometheus.CounterValue, float64(sh.TotalBytes), sh.Name)
		ch <- prometheus.MustNewConstMetric(c.sourceFailures, prometheus.CounterValue, float64(sh.Failures), sh.Name)
		ch <- prometheus.MustNewConstMetric(c.sourceLastEntropy, prometheus.GaugeValue, sh.LastEntropy, sh.Name)
	}

	ch <- prometheus.MustNewConstMetric(c.bufferSize, prometheus.GaugeValue, float64(report.BufferSize))
	ch <- prometheus.MustNewConstMetric(c.totalRawBytes, prometheus.CounterValue, float64(report.TotalRawBytes))
	ch <- prometheus.MustNewConstMetric(c.totalOutputBytes, prometheus.CounterValue, float64(report.TotalOutputBytes))
	ch <- prometheus.MustNewConstMetric(c.healthySources, prometheus.GaugeValue, float64(report.HealthyCount))
	ch <- prometheus.MustNewConstMetric(c.totalSources, prometheus.GaugeValue, float64(report.TotalSources))
}

// Collector returns a prometheus.Collector mirroring HealthReport (spec
// SPEC_FULL.md §4.5 "ADDED: Metrics export").
func (p *Pool) Collector() prometheus.Collector {
	return newPoolCollector(p)
}

// Package metrics exposes a pool's health_report as a Prometheus
// collector (SPEC_FULL.md §4.5 "ADDED: Metrics export").
//
// The Collector implementation itself lives on *pool.Pool
// (pool.Pool.Collector) so that package can reach its own private
// SourceState fields directly; this package only adds the pieces that
// would otherwise force every caller to depend on promhttp just to
// expose one HTTP handler — grounded on the same
// prometheus/client_golang usage pattern as the example corpus's churn
// telemetry package, but serving through promhttp.HandlerFor on a
// private registry rather than the process-wide default one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amenti-labs/openentropy-sub002/pool"
)

// NewCollector wraps p as a prometheus.Collector. It is read-only with
// respect to p: scraping it only reads HealthReport snapshots.
func NewCollector(p *pool.Pool) prometheus.Collector {
	return p.Collector()
}

// Handler builds an http.Handler serving p's metrics in Prometheus
// exposition format on its own registry, so it never picks up the
// process-wide default collectors (go_*, process_*) unless the caller
// also registers those.
func Handler(p *pool.Pool) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(p.Collector())
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

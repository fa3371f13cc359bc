// Package observability provides Prometheus instrumentation for the
// wayfinding client core. All recording methods are nil-receiver safe so
// services can run without a metrics backend.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters maintained by the client core.
type Metrics struct {
	routeCalculations *prometheus.CounterVec
	searches          *prometheus.CounterVec
	cacheReads        *prometheus.CounterVec
	snapshotDownloads *prometheus.CounterVec
	scans             *prometheus.CounterVec
}

// NewMetrics creates and registers the core's counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routeCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfind_route_calculations_total",
			Help: "Route calculation attempts by terminal result.",
		}, []string{"result"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfind_searches_total",
			Help: "Node searches by data path (online or offline).",
		}, []string{"mode"}),
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfind_cache_reads_total",
			Help: "Location cache reads by outcome.",
		}, []string{"result"}),
		snapshotDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfind_snapshot_downloads_total",
			Help: "Offline building snapshot downloads by outcome.",
		}, []string{"result"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfind_scans_total",
			Help: "QR scan resolutions by outcome.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.routeCalculations,
		m.searches,
		m.cacheReads,
		m.snapshotDownloads,
		m.scans,
	)

	return m
}

// RecordRouteCalculation records a terminal route-calculation outcome:
// "found", "no_path", "failed" or "rejected".
func (m *Metrics) RecordRouteCalculation(result string) {
	if m == nil {
		return
	}
	m.routeCalculations.WithLabelValues(result).Inc()
}

// RecordSearch records a completed search by mode ("online" or "offline").
func (m *Metrics) RecordSearch(mode string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(mode).Inc()
}

// RecordCacheRead records a cache read outcome ("hit", "miss" or "error").
func (m *Metrics) RecordCacheRead(result string) {
	if m == nil {
		return
	}
	m.cacheReads.WithLabelValues(result).Inc()
}

// RecordSnapshotDownload records a snapshot download outcome.
func (m *Metrics) RecordSnapshotDownload(result string) {
	if m == nil {
		return
	}
	m.snapshotDownloads.WithLabelValues(result).Inc()
}

// RecordScan records a QR scan resolution outcome.
func (m *Metrics) RecordScan(result string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
}

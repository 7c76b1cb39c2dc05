// Package metrics provides Prometheus collectors for the templating pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	TemplatizeTotal    *prometheus.CounterVec
	TemplatizeDuration prometheus.Histogram
	SearchMatchesTotal *prometheus.CounterVec
	InflectionsTotal   *prometheus.CounterVec
	RendersTotal       *prometheus.CounterVec
	StoreOpsTotal      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TemplatizeTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlgkit_templatize_total",
				Help: "Total number of templatize calls",
			},
			[]string{"status"},
		),
		TemplatizeDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nlgkit_templatize_duration_seconds",
				Help:    "Duration of templatize calls in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		SearchMatchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlgkit_search_matches_total",
				Help: "Enabled search results by type and location",
			},
			[]string{"type", "location"},
		),
		InflectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlgkit_inflections_total",
				Help: "Detected inflections by function",
			},
			[]string{"func"},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlgkit_renders_total",
				Help: "Template renders by status",
			},
			[]string{"status"},
		),
		StoreOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlgkit_store_operations_total",
				Help: "Store operations by operation and status",
			},
			[]string{"operation", "status"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordTemplatize counts one templatize call and observes its duration.
func (m *Metrics) RecordTemplatize(d time.Duration, err error) {
	m.TemplatizeTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.TemplatizeDuration.Observe(d.Seconds())
	}
}

// RecordMatch counts an enabled search result.
func (m *Metrics) RecordMatch(typ, location string) {
	m.SearchMatchesTotal.WithLabelValues(typ, location).Inc()
}

// RecordInflection counts a detected inflection.
func (m *Metrics) RecordInflection(fn string) {
	m.InflectionsTotal.WithLabelValues(fn).Inc()
}

// RecordRender counts a render.
func (m *Metrics) RecordRender(err error) {
	m.RendersTotal.WithLabelValues(status(err)).Inc()
}

// RecordStoreOp counts a store operation.
func (m *Metrics) RecordStoreOp(op string, err error) {
	m.StoreOpsTotal.WithLabelValues(op, status(err)).Inc()
}

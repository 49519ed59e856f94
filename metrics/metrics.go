// Package metrics exposes Prometheus instrumentation for the analysis engine.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and holds the engine's metrics on its own registry.
type Collector struct {
	reg *prometheus.Registry

	AnalysesTotal  prometheus.Counter
	AnalysisErrors prometheus.Counter

	TripsSelected   prometheus.Counter
	SegmentsTotal   prometheus.Counter
	OutliersTotal   prometheus.Counter
	SkippedTrips    prometheus.Counter
	ActiveServices  prometheus.Gauge
	AnalysisSeconds prometheus.Histogram
}

// NewCollector builds and registers the engine metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_analyses_total",
			Help: "Total analysis queries run.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_analysis_errors_total",
			Help: "Total analysis queries that failed.",
		}),
		TripsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_trips_selected_total",
			Help: "Total trips selected across analyses.",
		}),
		SegmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_segments_total",
			Help: "Total interstop segments aggregated.",
		}),
		OutliersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_outliers_total",
			Help: "Total data-quality outliers excluded from aggregates.",
		}),
		SkippedTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interstop_skipped_trips_total",
			Help: "Total trips skipped for ambiguous stop ordering.",
		}),
		ActiveServices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "interstop_active_services",
			Help: "Active services resolved by the most recent analysis.",
		}),
		AnalysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "interstop_analysis_duration_seconds",
			Help:    "Duration of analysis queries.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
	}

	reg.MustRegister(
		c.AnalysesTotal, c.AnalysisErrors,
		c.TripsSelected, c.SegmentsTotal, c.OutliersTotal, c.SkippedTrips,
		c.ActiveServices, c.AnalysisSeconds,
	)
	return c
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", addr)
	return srv
}

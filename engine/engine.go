package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-interstop/calendar"
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/interstop"
	"github.com/theoremus-urban-solutions/gtfs-interstop/metrics"
)

// Report is the serializable outcome of one analysis query.
type Report struct {
	Date           string                               `json:"date"`
	GeneratedAt    string                               `json:"generated_at"`
	ActiveServices int                                  `json:"active_services"`
	TripCount      int                                  `json:"trip_count"`
	Routes         map[string]*interstop.RouteAggregate `json:"routes"`
}

// Engine holds the immutable per-feed state shared by all queries.
type Engine struct {
	store     *feed.Store
	resolver  *calendar.Resolver
	trips     []interstop.Trip
	analyzer  *interstop.Analyzer
	logger    *slog.Logger
	collector *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCollector attaches Prometheus instrumentation.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// New builds an Engine from a validated store. Workers bounds the analyzer's
// per-trip pool; zero means one worker per CPU.
func New(store *feed.Store, workers int, opts ...Option) (*Engine, error) {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	resolver, err := calendar.FromStore(store)
	if err != nil {
		return nil, err
	}
	trips, err := interstop.TripsFromStore(store)
	if err != nil {
		return nil, err
	}
	analyzer, err := interstop.NewAnalyzer(store,
		interstop.WithLogger(e.logger),
		interstop.WithWorkers(workers),
	)
	if err != nil {
		return nil, err
	}
	e.resolver = resolver
	e.trips = trips
	e.analyzer = analyzer
	return e, nil
}

// Store returns the underlying read-only table store.
func (e *Engine) Store() *feed.Store { return e.store }

// Run resolves the date, selects the operating trips (optionally filtered by
// route) and aggregates their interstop segments per route.
func (e *Engine) Run(ctx context.Context, date string, routes []string) (*Report, error) {
	started := time.Now()
	report, err := e.run(ctx, date, routes)
	if e.collector != nil {
		e.collector.AnalysesTotal.Inc()
		e.collector.AnalysisSeconds.Observe(time.Since(started).Seconds())
		if err != nil {
			e.collector.AnalysisErrors.Inc()
		} else {
			e.collector.ActiveServices.Set(float64(report.ActiveServices))
			e.collector.TripsSelected.Add(float64(report.TripCount))
			for _, agg := range report.Routes {
				e.collector.SegmentsTotal.Add(float64(agg.SegmentCount))
				e.collector.OutliersTotal.Add(float64(agg.OutlierCount))
				e.collector.SkippedTrips.Add(float64(agg.SkippedTrips))
			}
		}
	}
	return report, err
}

func (e *Engine) run(ctx context.Context, date string, routes []string) (*Report, error) {
	active, err := e.resolver.Resolve(date)
	if err != nil {
		return nil, err
	}
	selected := interstop.SelectTrips(e.trips, active, interstop.RouteFilter(routes))
	e.logger.Info("trips selected", "date", date, "services", len(active), "trips", len(selected))

	aggregates, err := e.analyzer.Analyze(ctx, selected)
	if err != nil {
		return nil, err
	}
	return &Report{
		Date:           date,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		ActiveServices: len(active),
		TripCount:      len(selected),
		Routes:         aggregates,
	}, nil
}

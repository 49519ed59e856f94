package interstop

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/geo"
	"github.com/theoremus-urban-solutions/gtfs-interstop/gtfstime"
)

// DuplicateSequenceError reports two stop_time rows sharing a stop_sequence
// within one trip. The ordering is ambiguous, so the trip is not analyzed.
type DuplicateSequenceError struct {
	TripID   string
	Sequence int
}

func (e *DuplicateSequenceError) Error() string {
	return fmt.Sprintf("trip %s has duplicate stop_sequence %d", e.TripID, e.Sequence)
}

// Segment is the derived portion of a trip between two consecutive stops.
type Segment struct {
	TripID         string  `json:"trip_id"`
	FromSequence   int     `json:"from_stop_sequence"`
	ToSequence     int     `json:"to_stop_sequence"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	DistanceMeters float64 `json:"distance_meters"`
	SpeedMPS       float64 `json:"speed_mps"`
	// SpeedValid is false for zero-elapsed segments, whose speed is
	// indeterminate. Such segments still contribute distance and time.
	SpeedValid bool `json:"speed_valid"`
}

// RouteAggregate sums all valid segments of a route's trips. AverageSpeedMPS
// is time-weighted (total distance over total elapsed time), not a mean of
// per-segment speeds.
type RouteAggregate struct {
	RouteID             string  `json:"route_id"`
	TotalDistanceMeters float64 `json:"total_distance_meters"`
	TotalElapsedSeconds int     `json:"total_elapsed_seconds"`
	AverageSpeedMPS     float64 `json:"average_speed_mps"`
	SegmentCount        int     `json:"segment_count"`
	OutlierCount        int     `json:"outlier_count"`
	SkippedTrips        int     `json:"skipped_trips"`
}

type stopTimeRow struct {
	stopID    string
	seqText   string
	arrival   string
	departure string
}

// Analyzer measures interstop segments against immutable feed geometry.
// It is read-only after construction and safe for concurrent queries.
type Analyzer struct {
	logger    *slog.Logger
	workers   int
	stopTimes map[string][]stopTimeRow
	stops     map[string][2]float64 // stop_id -> [lon,lat]
	shapes    map[string]*geo.Polyline
	runs      map[string]int // frequency-based run multiplier, default 1
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithWorkers bounds the per-trip worker pool. Zero or negative means one
// worker per CPU.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

// NewAnalyzer indexes stop_times, stop locations and optional shape and
// frequency tables from the store.
func NewAnalyzer(store *feed.Store, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		stopTimes: map[string][]stopTimeRow{},
		stops:     map[string][2]float64{},
		shapes:    map[string]*geo.Polyline{},
		runs:      map[string]int{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	st, err := store.Table("stop_times")
	if err != nil {
		return nil, err
	}
	for i := 0; i < st.Len(); i++ {
		tripID := st.Get(i, "trip_id")
		a.stopTimes[tripID] = append(a.stopTimes[tripID], stopTimeRow{
			stopID:    st.Get(i, "stop_id"),
			seqText:   st.Get(i, "stop_sequence"),
			arrival:   st.Get(i, "arrival_time"),
			departure: st.Get(i, "departure_time"),
		})
	}

	stops, err := store.Table("stops")
	if err != nil {
		return nil, err
	}
	for i := 0; i < stops.Len(); i++ {
		lon, errLon := strconv.ParseFloat(stops.Get(i, "stop_lon"), 64)
		lat, errLat := strconv.ParseFloat(stops.Get(i, "stop_lat"), 64)
		if errLon != nil || errLat != nil {
			continue
		}
		a.stops[stops.Get(i, "stop_id")] = [2]float64{lon, lat}
	}

	if store.Has("shapes") {
		if err := a.loadShapes(store); err != nil {
			return nil, err
		}
	}
	if store.Has("frequencies") {
		a.runs = frequencyRuns(store, a.logger)
	}
	return a, nil
}

func (a *Analyzer) loadShapes(store *feed.Store) error {
	sh, err := store.Table("shapes")
	if err != nil {
		return err
	}
	type shapePt struct {
		lon, lat float64
		seq      int
	}
	grouped := map[string][]shapePt{}
	for i := 0; i < sh.Len(); i++ {
		lon, errLon := strconv.ParseFloat(sh.Get(i, "shape_pt_lon"), 64)
		lat, errLat := strconv.ParseFloat(sh.Get(i, "shape_pt_lat"), 64)
		seq, errSeq := strconv.Atoi(sh.Get(i, "shape_pt_sequence"))
		if errLon != nil || errLat != nil || errSeq != nil {
			continue
		}
		id := sh.Get(i, "shape_id")
		grouped[id] = append(grouped[id], shapePt{lon: lon, lat: lat, seq: seq})
	}
	for id, pts := range grouped {
		sort.Slice(pts, func(i, j int) bool { return pts[i].seq < pts[j].seq })
		coords := make([][2]float64, len(pts))
		for i, p := range pts {
			coords[i] = [2]float64{p.lon, p.lat}
		}
		a.shapes[id] = geo.NewPolyline(coords)
	}
	return nil
}

// parsedRow is a stop_time row with its fields cast for segment math.
type parsedRow struct {
	stopID    string
	seq       int
	arrival   int
	departure int
}

// Segments derives the interstop segments of one trip in stop_sequence
// order. The returned outlier count covers rows with unparseable times,
// clock regressions, and segments whose distance cannot be established.
// A duplicated stop_sequence returns *DuplicateSequenceError.
func (a *Analyzer) Segments(t Trip) ([]Segment, int, error) {
	rows := a.stopTimes[t.TripID]
	outliers := 0

	parsed := make([]parsedRow, 0, len(rows))
	for _, r := range rows {
		seq, err := strconv.Atoi(r.seqText)
		if err != nil {
			outliers++
			continue
		}
		arr, errA := gtfstime.ToSeconds(r.arrival)
		dep, errD := gtfstime.ToSeconds(r.departure)
		if errA != nil || errD != nil {
			outliers++
			continue
		}
		parsed = append(parsed, parsedRow{stopID: r.stopID, seq: seq, arrival: arr, departure: dep})
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].seq < parsed[j].seq })
	for i := 1; i < len(parsed); i++ {
		if parsed[i].seq == parsed[i-1].seq {
			return nil, outliers, &DuplicateSequenceError{TripID: t.TripID, Sequence: parsed[i].seq}
		}
	}

	var poly *geo.Polyline
	if t.ShapeID != "" {
		if p, ok := a.shapes[t.ShapeID]; ok && p.Projectable() {
			poly = p
		}
	}

	segments := make([]Segment, 0, max(len(parsed)-1, 0))
	for i := 1; i < len(parsed); i++ {
		prev, cur := parsed[i-1], parsed[i]
		elapsed := cur.arrival - prev.departure
		if elapsed < 0 {
			// Clock regression within the trip. Feeds occasionally carry
			// these; one bad row must not abort the analysis.
			outliers++
			continue
		}
		dist, ok := a.segmentDistance(prev.stopID, cur.stopID, poly)
		if !ok {
			outliers++
			continue
		}
		seg := Segment{
			TripID:         t.TripID,
			FromSequence:   prev.seq,
			ToSequence:     cur.seq,
			ElapsedSeconds: elapsed,
			DistanceMeters: dist,
		}
		if elapsed > 0 {
			seg.SpeedMPS = dist / float64(elapsed)
			seg.SpeedValid = true
		}
		segments = append(segments, seg)
	}
	return segments, outliers, nil
}

// segmentDistance measures the metric distance between two stops, preferring
// the positions of their projections along the trip's shape path over the
// straight stop-to-stop line.
func (a *Analyzer) segmentDistance(fromStop, toStop string, poly *geo.Polyline) (float64, bool) {
	from, okFrom := a.stops[fromStop]
	to, okTo := a.stops[toStop]
	if !okFrom || !okTo {
		return 0, false
	}
	if poly != nil {
		d := poly.DistanceAlong(to[0], to[1]) - poly.DistanceAlong(from[0], from[1])
		if d < 0 {
			d = -d
		}
		return d, true
	}
	return geo.HaversineMeters(from[1], from[0], to[1], to[0]), true
}

// tripResult is one trip's contribution to the per-route reduction.
type tripResult struct {
	routeID  string
	distance float64
	elapsed  int
	segments int
	outliers int
	skipped  bool
}

// Analyze fans the selected trips out across a bounded worker pool and
// reduces the per-trip results into per-route aggregates. Each trip reads
// only immutable indexes and writes only its own result, so the combine
// order does not matter. Row-level data-quality errors are contained per
// trip; only context cancellation aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, trips []Trip) (map[string]*RouteAggregate, error) {
	workers := a.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(trips) {
		workers = len(trips)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Trip)
	results := make(chan tripResult, len(trips))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				results <- a.analyzeTrip(t)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, t := range trips {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	routes := make(map[string]*RouteAggregate)
	for res := range results {
		agg, ok := routes[res.routeID]
		if !ok {
			agg = &RouteAggregate{RouteID: res.routeID}
			routes[res.routeID] = agg
		}
		agg.TotalDistanceMeters += res.distance
		agg.TotalElapsedSeconds += res.elapsed
		agg.SegmentCount += res.segments
		agg.OutlierCount += res.outliers
		if res.skipped {
			agg.SkippedTrips++
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, agg := range routes {
		if agg.TotalElapsedSeconds > 0 {
			agg.AverageSpeedMPS = agg.TotalDistanceMeters / float64(agg.TotalElapsedSeconds)
		}
	}
	return routes, nil
}

func (a *Analyzer) analyzeTrip(t Trip) tripResult {
	res := tripResult{routeID: t.RouteID}
	segments, outliers, err := a.Segments(t)
	res.outliers = outliers
	if err != nil {
		a.logger.Warn("skipping trip with ambiguous stop ordering", "trip", t.TripID, "error", err)
		res.skipped = true
		return res
	}
	runs := a.runs[t.TripID]
	if runs < 1 {
		runs = 1
	}
	for _, seg := range segments {
		res.distance += seg.DistanceMeters * float64(runs)
		res.elapsed += seg.ElapsedSeconds * runs
		res.segments += runs
	}
	return res
}

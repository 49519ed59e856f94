package interstop

import (
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
)

// Trip is one scheduled run from trips.txt. ShapeID may be empty.
type Trip struct {
	TripID    string
	RouteID   string
	ServiceID string
	ShapeID   string
}

// TripsFromStore reads the trips table in feed order.
func TripsFromStore(store *feed.Store) ([]Trip, error) {
	t, err := store.Table("trips")
	if err != nil {
		return nil, err
	}
	trips := make([]Trip, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		trips = append(trips, Trip{
			TripID:    t.Get(i, "trip_id"),
			RouteID:   t.Get(i, "route_id"),
			ServiceID: t.Get(i, "service_id"),
			ShapeID:   t.Get(i, "shape_id"),
		})
	}
	return trips, nil
}

// SelectTrips returns the trips whose service is active and, when the route
// filter is non-empty, whose route is in the filter. An empty filter means
// "no filtering", never "select nothing".
func SelectTrips(trips []Trip, active map[string]struct{}, routeFilter map[string]struct{}) []Trip {
	var out []Trip
	for _, tr := range trips {
		if _, ok := active[tr.ServiceID]; !ok {
			continue
		}
		if len(routeFilter) > 0 {
			if _, ok := routeFilter[tr.RouteID]; !ok {
				continue
			}
		}
		out = append(out, tr)
	}
	return out
}

// RouteFilter builds a filter set from a list of route ids, ignoring blanks.
func RouteFilter(routes []string) map[string]struct{} {
	if len(routes) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		if r != "" {
			m[r] = struct{}{}
		}
	}
	return m
}

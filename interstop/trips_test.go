package interstop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/internal/testfeed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/interstop"
)

func TestTripsFromStore(t *testing.T) {
	store, err := feed.NewStoreFromZipBytes(testfeed.Minimal(t, nil), nil)
	require.NoError(t, err)

	trips, err := interstop.TripsFromStore(store)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, interstop.Trip{TripID: "T1", RouteID: "R1", ServiceID: "WD", ShapeID: "S1"}, trips[0])
}

func TestSelectTrips(t *testing.T) {
	trips := []interstop.Trip{
		{TripID: "T1", RouteID: "R1", ServiceID: "WD"},
		{TripID: "T2", RouteID: "R2", ServiceID: "WD"},
		{TripID: "T3", RouteID: "R1", ServiceID: "SAT"},
	}
	active := map[string]struct{}{"WD": {}}

	t.Run("empty filter means no filtering", func(t *testing.T) {
		got := interstop.SelectTrips(trips, active, nil)
		require.Len(t, got, 2)
		assert.Equal(t, "T1", got[0].TripID)
		assert.Equal(t, "T2", got[1].TripID)
	})

	t.Run("route filter restricts", func(t *testing.T) {
		got := interstop.SelectTrips(trips, active, interstop.RouteFilter([]string{"R2"}))
		require.Len(t, got, 1)
		assert.Equal(t, "T2", got[0].TripID)
	})

	t.Run("inactive service excluded even when route matches", func(t *testing.T) {
		got := interstop.SelectTrips(trips, active, interstop.RouteFilter([]string{"R1"}))
		require.Len(t, got, 1)
		assert.Equal(t, "T1", got[0].TripID)
	})

	t.Run("no active services selects nothing", func(t *testing.T) {
		got := interstop.SelectTrips(trips, nil, nil)
		assert.Empty(t, got)
	})

	t.Run("blank entries do not turn the filter on", func(t *testing.T) {
		got := interstop.SelectTrips(trips, active, interstop.RouteFilter([]string{"", ""}))
		assert.Len(t, got, 2)
	})
}

package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-interstop/calendar"
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/internal/testfeed"
)

func weekdayEntry(serviceID string) calendar.Entry {
	return calendar.Entry{
		ServiceID: serviceID,
		// Monday through Friday.
		Weekdays:  [7]bool{false, true, true, true, true, true, false},
		StartDate: "20230101",
		EndDate:   "20231231",
	}
}

func TestResolveWeeklyRules(t *testing.T) {
	r := calendar.NewResolver([]calendar.Entry{weekdayEntry("WD")}, nil)

	tests := []struct {
		name   string
		date   string
		active bool
	}{
		{name: "monday inside range", date: "20230605", active: true},
		{name: "friday inside range", date: "20230609", active: true},
		{name: "saturday inside range", date: "20230610", active: false},
		{name: "before start", date: "20221230", active: false},
		{name: "after end", date: "20240101", active: false},
		{name: "start date itself is a sunday", date: "20230101", active: false},
		{name: "end date inclusive friday", date: "20231229", active: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.date)
			require.NoError(t, err)
			_, ok := got["WD"]
			assert.Equal(t, tt.active, ok)
		})
	}
}

func TestResolveExceptions(t *testing.T) {
	entries := []calendar.Entry{weekdayEntry("WD")}

	t.Run("removed wins over weekly rule", func(t *testing.T) {
		r := calendar.NewResolver(entries, []calendar.Exception{
			{ServiceID: "WD", Date: "20230605", Added: false},
		})
		got, err := r.Resolve("20230605")
		require.NoError(t, err)
		assert.NotContains(t, got, "WD")
	})

	t.Run("added brings in an otherwise inactive service", func(t *testing.T) {
		r := calendar.NewResolver(entries, []calendar.Exception{
			{ServiceID: "HOLIDAY", Date: "20230610", Added: true},
		})
		got, err := r.Resolve("20230610")
		require.NoError(t, err)
		assert.Contains(t, got, "HOLIDAY")
		assert.NotContains(t, got, "WD")
	})

	t.Run("added overrides removed on the same date", func(t *testing.T) {
		r := calendar.NewResolver(entries, []calendar.Exception{
			{ServiceID: "WD", Date: "20230605", Added: false},
			{ServiceID: "WD", Date: "20230605", Added: true},
		})
		got, err := r.Resolve("20230605")
		require.NoError(t, err)
		assert.Contains(t, got, "WD")
	})

	t.Run("added overrides removed regardless of row order", func(t *testing.T) {
		r := calendar.NewResolver(entries, []calendar.Exception{
			{ServiceID: "WD", Date: "20230605", Added: true},
			{ServiceID: "WD", Date: "20230605", Added: false},
		})
		got, err := r.Resolve("20230605")
		require.NoError(t, err)
		assert.Contains(t, got, "WD")
	})

	t.Run("exceptions on other dates do not leak", func(t *testing.T) {
		r := calendar.NewResolver(entries, []calendar.Exception{
			{ServiceID: "WD", Date: "20230605", Added: false},
		})
		got, err := r.Resolve("20230606")
		require.NoError(t, err)
		assert.Contains(t, got, "WD")
	})
}

func TestResolveInvalidDate(t *testing.T) {
	r := calendar.NewResolver([]calendar.Entry{weekdayEntry("WD")}, nil)

	for _, date := range []string{"", "2023-06-05", "20230631", "06052023", "202306", "2023065"} {
		t.Run("rejects "+date, func(t *testing.T) {
			_, err := r.Resolve(date)
			var invalid *calendar.InvalidDateError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, date, invalid.Date)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := calendar.NewResolver(
		[]calendar.Entry{weekdayEntry("WD"), weekdayEntry("WD2")},
		[]calendar.Exception{{ServiceID: "EXTRA", Date: "20230605", Added: true}},
	)
	first, err := r.Resolve("20230605")
	require.NoError(t, err)
	second, err := r.Resolve("20230605")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestResolveEmptyIsNotAnError(t *testing.T) {
	r := calendar.NewResolver(nil, nil)
	got, err := r.Resolve("20230605")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFromStore(t *testing.T) {
	t.Run("with calendar_dates", func(t *testing.T) {
		zipBytes := testfeed.Minimal(t, map[string][]string{
			"calendar_dates.txt": {
				"service_id,date,exception_type",
				"WD,20230605,2",
				"SPECIAL,20230605,1",
			},
		})
		store, err := feed.NewStoreFromZipBytes(zipBytes, nil)
		require.NoError(t, err)

		r, err := calendar.FromStore(store)
		require.NoError(t, err)
		got, err := r.Resolve("20230605")
		require.NoError(t, err)
		assert.NotContains(t, got, "WD")
		assert.Contains(t, got, "SPECIAL")
	})

	t.Run("absence of calendar_dates is tolerated", func(t *testing.T) {
		store, err := feed.NewStoreFromZipBytes(testfeed.Minimal(t, nil), nil)
		require.NoError(t, err)

		r, err := calendar.FromStore(store)
		require.NoError(t, err)
		got, err := r.Resolve("20230605") // a Monday
		require.NoError(t, err)
		assert.Contains(t, got, "WD")
	})
}

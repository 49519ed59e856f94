package calendar

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
)

// DateFormat is the canonical GTFS date layout.
const DateFormat = "20060102"

// InvalidDateError reports a date literal that is not a canonical YYYYMMDD
// calendar date.
type InvalidDateError struct {
	Date string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, want canonical YYYYMMDD", e.Date)
}

// Entry is one weekly recurrence rule from calendar.txt. Weekdays is indexed
// by time.Weekday (Sunday = 0). StartDate and EndDate bound an inclusive
// range of canonical YYYYMMDD dates.
type Entry struct {
	ServiceID string
	Weekdays  [7]bool
	StartDate string
	EndDate   string
}

// Exception is one date-specific override from calendar_dates.txt.
type Exception struct {
	ServiceID string
	Date      string
	Added     bool
}

// GTFS exception_type values.
const (
	exceptionAdded   = "1"
	exceptionRemoved = "2"
)

// Resolver computes the active service set for a date.
type Resolver struct {
	entries    []Entry
	exceptions map[string][]Exception // date -> rows in feed order
}

// NewResolver builds a resolver from already-parsed rules.
func NewResolver(entries []Entry, exceptions []Exception) *Resolver {
	byDate := make(map[string][]Exception)
	for _, ex := range exceptions {
		byDate[ex.Date] = append(byDate[ex.Date], ex)
	}
	return &Resolver{entries: entries, exceptions: byDate}
}

// FromStore parses calendar and, when present, calendar_dates. The absence
// of calendar_dates is a normal condition, not an error.
func FromStore(store *feed.Store) (*Resolver, error) {
	cal, err := store.Table("calendar")
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, cal.Len())
	for i := 0; i < cal.Len(); i++ {
		e := Entry{
			ServiceID: cal.Get(i, "service_id"),
			StartDate: cal.Get(i, "start_date"),
			EndDate:   cal.Get(i, "end_date"),
		}
		for wd, col := range weekdayColumns {
			e.Weekdays[wd] = cal.Get(i, col) == "1"
		}
		entries = append(entries, e)
	}

	var exceptions []Exception
	if store.Has("calendar_dates") {
		cd, err := store.Table("calendar_dates")
		if err != nil {
			return nil, err
		}
		for i := 0; i < cd.Len(); i++ {
			exceptions = append(exceptions, Exception{
				ServiceID: cd.Get(i, "service_id"),
				Date:      cd.Get(i, "date"),
				Added:     cd.Get(i, "exception_type") == exceptionAdded,
			})
		}
	}
	return NewResolver(entries, exceptions), nil
}

// weekdayColumns maps time.Weekday index to the calendar.txt flag column.
var weekdayColumns = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ValidateDate checks that the literal round-trips through parse and format
// unchanged, rejecting ambiguous or non-canonical representations.
func ValidateDate(date string) (time.Time, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil || t.Format(DateFormat) != date {
		return time.Time{}, &InvalidDateError{Date: date}
	}
	return t, nil
}

// Resolve returns the set of service identifiers operating on the date.
// An empty set is a valid outcome, not an error.
func (r *Resolver) Resolve(date string) (map[string]struct{}, error) {
	t, err := ValidateDate(date)
	if err != nil {
		return nil, err
	}
	weekday := t.Weekday()

	active := make(map[string]struct{})
	for _, e := range r.entries {
		if e.Weekdays[weekday] && e.StartDate <= date && date <= e.EndDate {
			active[e.ServiceID] = struct{}{}
		}
	}

	// Removal before addition: a service both removed and added on the same
	// date stays active.
	exs := r.exceptions[date]
	for _, ex := range exs {
		if !ex.Added {
			delete(active, ex.ServiceID)
		}
	}
	for _, ex := range exs {
		if ex.Added {
			active[ex.ServiceID] = struct{}{}
		}
	}
	return active, nil
}

// Package testfeed builds in-memory GTFS zip fixtures for tests.
package testfeed

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

// Zip assembles a GTFS zip from member name to CSV lines.
func Zip(t *testing.T, files map[string][]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, lines := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(strings.Join(lines, "\n"))); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// Minimal returns a minimal complete feed: one weekday service "WD"
// (Mon-Fri through 2023), route R1 with two trips on shape S1, three stops.
// Overrides replace or add members before the zip is assembled.
func Minimal(t *testing.T, overrides map[string][]string) []byte {
	t.Helper()
	files := map[string][]string{
		"agency.txt": {
			"agency_id,agency_name,agency_url,agency_timezone",
			"A1,Test Agency,https://example.com,UTC",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"WD,1,1,1,1,1,0,0,20230101,20231231",
		},
		"routes.txt": {
			"route_id,agency_id,route_short_name,route_type",
			"R1,A1,1,3",
		},
		"trips.txt": {
			"trip_id,route_id,service_id,shape_id",
			"T1,R1,WD,S1",
			"T2,R1,WD,S1",
		},
		"stops.txt": {
			"stop_id,stop_name,stop_lon,stop_lat",
			"ST1,First,0.000,0.000",
			"ST2,Second,0.010,0.000",
			"ST3,Third,0.020,0.000",
		},
		"stop_times.txt": {
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
			"T1,ST1,1,08:00:00,08:00:00",
			"T1,ST2,2,08:05:00,08:05:30",
			"T1,ST3,3,08:10:00,08:10:00",
			"T2,ST1,1,09:00:00,09:00:00",
			"T2,ST2,2,09:05:00,09:05:30",
			"T2,ST3,3,09:10:00,09:10:00",
		},
		"shapes.txt": {
			"shape_id,shape_pt_lon,shape_pt_lat,shape_pt_sequence",
			"S1,0.000,0.000,1",
			"S1,0.010,0.000,2",
			"S1,0.020,0.000,3",
		},
	}
	for name, lines := range overrides {
		if lines == nil {
			delete(files, name)
			continue
		}
		files[name] = lines
	}
	return Zip(t, files)
}

package interstop

import (
	"log/slog"
	"strconv"

	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/gtfstime"
)

// frequencyRuns computes how many headway-based runs each trip pattern makes,
// from the optional frequencies table. A trip departs every headway_secs from
// start_time up to (exclusive) end_time; rows with unusable fields are
// dropped. Trips without frequency rows keep the implicit single run.
func frequencyRuns(store *feed.Store, logger *slog.Logger) map[string]int {
	runs := map[string]int{}
	fr, err := store.Table("frequencies")
	if err != nil {
		return runs
	}
	dropped := 0
	for i := 0; i < fr.Len(); i++ {
		tripID := fr.Get(i, "trip_id")
		start, errS := gtfstime.ToSeconds(fr.Get(i, "start_time"))
		end, errE := gtfstime.ToSeconds(fr.Get(i, "end_time"))
		headway, errH := strconv.Atoi(fr.Get(i, "headway_secs"))
		if tripID == "" || errS != nil || errE != nil || errH != nil || headway <= 0 || end <= start {
			dropped++
			continue
		}
		n := (end - start) / headway
		if n < 1 {
			n = 1
		}
		runs[tripID] += n
	}
	if dropped > 0 {
		logger.Warn("dropped unusable frequency rows", "count", dropped)
	}
	return runs
}

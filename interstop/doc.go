/*
Package interstop selects the trips operating on a date and measures the
segments between their consecutive stops.

SelectTrips filters a feed's trips by active service set and optional route
filter. The Analyzer then derives, per trip and in stop_sequence order, the
elapsed time, traveled distance and implied speed of every interstop segment,
and reduces them into per-route aggregates with a time-weighted average
speed. Distance prefers the trip's shape path (stop locations projected onto
the path) and falls back to great-circle stop-to-stop distance when the trip
has no usable shape.

Row-level data-quality problems (clock regressions, unparseable times,
missing stop locations) are counted as outliers and excluded from the
aggregates; a trip with an ambiguous stop ordering is skipped and counted.
Neither aborts an analysis.
*/
package interstop

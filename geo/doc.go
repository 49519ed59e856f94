// Package geo provides metric distance helpers for stop and shape geometry:
// great-circle distances between points and distance-along-path measurement
// against an ordered polyline. Geographic degree deltas are never used as
// metric distances.
package geo

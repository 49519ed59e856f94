package gtfstime

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedTimeError reports a service-day time string that does not split
// into exactly three non-negative integer components.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed service-day time %q", e.Value)
}

// ToSeconds parses an HH:MM:SS service-day time into seconds after midnight.
// Hours beyond 23 are legal and the result may exceed 86400.
func ToSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, &MalformedTimeError{Value: s}
	}
	var comp [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return 0, &MalformedTimeError{Value: s}
		}
		comp[i] = v
	}
	return comp[0]*3600 + comp[1]*60 + comp[2], nil
}

// ToSecondsBatch converts many rows with scalar semantics per row. The first
// malformed value aborts the batch; callers that prefer row-level skipping
// should call ToSeconds per row.
func ToSecondsBatch(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		sec, err := ToSeconds(v)
		if err != nil {
			return nil, err
		}
		out[i] = sec
	}
	return out, nil
}

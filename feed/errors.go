package feed

import (
	"fmt"
	"strings"
)

// MissingTableError reports every required table absent from the feed.
type MissingTableError struct {
	Tables []string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("feed is missing required tables: %s", strings.Join(e.Tables, ", "))
}

// UnknownTableError reports a lookup for a table name the feed does not carry.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

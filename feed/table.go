package feed

import "strings"

// Table is an ordered sequence of records with named text columns.
type Table struct {
	name string
	cols map[string]int
	head []string
	rows [][]string
}

// NewTable builds a table from a header row and data rows. Header matching is
// case-insensitive and tolerates a UTF-8 BOM on the first column.
func NewTable(name string, header []string, rows [][]string) *Table {
	cols := make(map[string]int, len(header))
	head := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\xef\xbb\xbf")
		}
		h = strings.ToLower(strings.TrimSpace(h))
		head[i] = h
		cols[h] = i
	}
	return &Table{name: name, cols: cols, head: head, rows: rows}
}

// Name returns the table name (zip member name without the .txt extension).
func (t *Table) Name() string { return t.name }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header in file order.
func (t *Table) Columns() []string { return t.head }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.cols[strings.ToLower(col)]
	return ok
}

// Get returns the text value at (row, col), or "" when the column is absent
// or the record is short.
func (t *Table) Get(row int, col string) string {
	i, ok := t.cols[strings.ToLower(col)]
	if !ok || row < 0 || row >= len(t.rows) || i >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][i]
}

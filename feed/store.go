package feed

import "sort"

// RequiredTables are the tables every ingestible feed must carry.
var RequiredTables = []string{"agency", "calendar", "routes", "stop_times", "stops", "trips"}

// Store owns the raw tables for the lifetime of one analysis session.
// It is read-only after construction and safe for concurrent readers.
type Store struct {
	tables map[string]*Table
}

// NewStore validates the required-table set and wraps the given tables.
func NewStore(tables []*Table) (*Store, error) {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name()] = t
	}
	var missing []string
	for _, name := range RequiredTables {
		if _, ok := byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingTableError{Tables: missing}
	}
	return &Store{tables: byName}, nil
}

// Provider yields named tables from some feed source.
type Provider interface {
	Tables() ([]*Table, error)
}

// NewStoreFromProvider reads all tables from the provider and validates them.
func NewStoreFromProvider(p Provider) (*Store, error) {
	tables, err := p.Tables()
	if err != nil {
		return nil, err
	}
	return NewStore(tables)
}

// Table returns the named table, or *UnknownTableError when the feed does not
// carry it.
func (s *Store) Table(name string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, &UnknownTableError{Name: name}
	}
	return t, nil
}

// Has is the capability check for optional tables such as calendar_dates,
// shapes and frequencies.
func (s *Store) Has(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// TableNames lists every table in the feed, sorted.
func (s *Store) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

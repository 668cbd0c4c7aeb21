package truth

import (
	"errors"
	"slices"
)

// Output field names of a metric record.
const (
	FieldCaseReceipts       = "Case Receipts"
	FieldAllDecisions       = "All Decisions"
	FieldFearEstablished    = "Fear Established (Y)"
	FieldFearNotEstablished = "Fear Not Established (N)"
	FieldClosings           = "Closings"

	DefaultKeyColumn = "Date Range"
)

// MetricFields is the canonical column order of a metric record.
var MetricFields = []string{
	FieldCaseReceipts,
	FieldAllDecisions,
	FieldFearEstablished,
	FieldFearNotEstablished,
	FieldClosings,
}

var ErrDuplicateKey = errors.New("duplicate date range key")

// Record maps field names to display-formatted values for one reporting period.
// A record may be partial: absent fields are left untouched by a merge.
type Record map[string]string

func (r Record) clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}

	return c
}

// Records maps date range keys to records. Iteration order is undefined;
// use a Store for ordered history.
type Records map[string]Record

// Store is the trusted history of reporting periods, kept sorted by the
// start date of each key.
type Store struct {
	keyColumn string
	fields    []string
	keys      []string
	records   map[string]Record
}

// NewStore returns an empty store with the given key column header and field order.
func NewStore(keyColumn string, fields []string) *Store {
	if keyColumn == "" {
		keyColumn = DefaultKeyColumn
	}

	return &Store{
		keyColumn: keyColumn,
		fields:    slices.Clone(fields),
		records:   make(map[string]Record),
	}
}

// KeyColumn returns the header of the date range column.
func (s *Store) KeyColumn() string { return s.keyColumn }

// Fields returns the value columns in output order.
func (s *Store) Fields() []string { return slices.Clone(s.fields) }

// Keys returns the date range keys in chronological order.
func (s *Store) Keys() []string { return slices.Clone(s.keys) }

func (s *Store) Len() int { return len(s.keys) }

// Get returns a copy of the record stored under key.
func (s *Store) Get(key string) (Record, bool) {
	r, ok := s.records[key]
	if !ok {
		return nil, false
	}

	return r.clone(), true
}

// Records returns a deep copy of the store contents.
func (s *Store) Records() Records {
	out := make(Records, len(s.records))
	for k, r := range s.records {
		out[k] = r.clone()
	}

	return out
}

// Row returns the values of key in field order; absent fields are "".
func (s *Store) Row(key string) []string {
	r := s.records[key]

	row := make([]string, len(s.fields))
	for i, f := range s.fields {
		row[i] = r[f]
	}

	return row
}

func (s *Store) clone() *Store {
	c := NewStore(s.keyColumn, s.fields)
	c.keys = slices.Clone(s.keys)

	for k, r := range s.records {
		c.records[k] = r.clone()
	}

	return c
}

// addField appends name to the column order unless it is already present.
func (s *Store) addField(name string) {
	if !slices.Contains(s.fields, name) {
		s.fields = append(s.fields, name)
	}
}

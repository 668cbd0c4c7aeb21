package truth

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Merge overlays updates onto truth and returns the result as a new store.
//
// Keys only in truth are kept, keys only in updates are added, and keys in
// both are merged field by field: a field supplied by the update replaces
// the truth value while fields the update omits survive. The result is
// ordered by the start date of each key. truth is never modified; on error
// no store is returned.
func Merge(truth *Store, updates Records) (*Store, error) {
	if truth == nil {
		truth = NewStore(DefaultKeyColumn, nil)
	}

	out := truth.clone()
	seen := make(map[string]struct{})

	for _, key := range slices.Sorted(maps.Keys(updates)) {
		record, ok := out.records[key]
		if !ok {
			record = make(Record, len(updates[key]))
			out.keys = append(out.keys, key)
		}

		for field, value := range updates[key] {
			record[field] = value
			seen[field] = struct{}{}
		}

		out.records[key] = record
	}

	out.appendFields(seen)

	if err := out.sortKeys(); err != nil {
		return nil, fmt.Errorf("sort merged store: %w", err)
	}

	return out, nil
}

// appendFields adds unknown field names: metric fields in canonical order
// first, then anything else alphabetically.
func (s *Store) appendFields(names map[string]struct{}) {
	for _, f := range MetricFields {
		if _, ok := names[f]; ok {
			s.addField(f)
			delete(names, f)
		}
	}

	for _, f := range slices.Sorted(maps.Keys(names)) {
		s.addField(f)
	}
}

// sortKeys orders keys by parsed start date, breaking ties by key text.
func (s *Store) sortKeys() error {
	starts := make(map[string]time.Time, len(s.keys))

	for _, key := range s.keys {
		start, err := StartDate(key)
		if err != nil {
			return err
		}

		starts[key] = start
	}

	slices.SortStableFunc(s.keys, func(a, b string) int {
		if c := starts[a].Compare(starts[b]); c != 0 {
			return c
		}

		return cmp.Compare(a, b)
	})

	return nil
}

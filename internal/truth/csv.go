package truth

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Load parses a truth file. The header row names the key column followed by
// the value fields; every following row holds a date range key and its values.
func Load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read truth csv: %w", err)
	}

	if len(rows) == 0 {
		return NewStore(DefaultKeyColumn, nil), nil
	}

	header := rows[0]
	keyColumn := strings.TrimPrefix(header[0], "\ufeff")
	s := NewStore(keyColumn, header[1:])

	for i, row := range rows[1:] {
		rowNum := i + 2

		key := strings.TrimSpace(row[0])
		if key == "" {
			return nil, fmt.Errorf("row %d: missing date range", rowNum)
		}

		if _, dup := s.records[key]; dup {
			return nil, fmt.Errorf("row %d: %w: %s", rowNum, ErrDuplicateKey, key)
		}

		values := row[1:]
		if len(values) > len(s.fields) {
			return nil, fmt.Errorf("row %d: %d values for %d fields", rowNum, len(values), len(s.fields))
		}

		record := make(Record, len(values))
		for j, v := range values {
			record[s.fields[j]] = v
		}

		s.keys = append(s.keys, key)
		s.records[key] = record
	}

	if err := s.sortKeys(); err != nil {
		return nil, fmt.Errorf("sort truth: %w", err)
	}

	return s, nil
}

// WriteCSV serializes the store in the same layout Load reads, one row per
// key in chronological order.
func (s *Store) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(append([]string{s.keyColumn}, s.fields...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, key := range s.keys {
		if err := writer.Write(append([]string{key}, s.Row(key)...)); err != nil {
			return fmt.Errorf("write row %s: %w", key, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

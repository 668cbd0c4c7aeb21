package cfi

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

// nativeDateLayouts are tried in order; workbook exports may shorten the year.
var nativeDateLayouts = []string{"1/2/2006", "1/2/06", "2006-01-02"}

// Table is the validated content of the report table: its reporting
// periods and, for every category, one value per period.
type Table struct {
	ranges []DateRange
	series map[string]Series
}

// NewTable reads the date ranges and category rows of region.
func NewTable(region grid.Grid) (*Table, error) {
	ranges, err := BuildDateRanges(region)
	if err != nil {
		return nil, err
	}

	series, err := ExtractCategories(region, Categories, ranges)
	if err != nil {
		return nil, err
	}

	return &Table{ranges: ranges, series: series}, nil
}

// Ranges returns the reporting periods in column order, sentinels included.
func (t *Table) Ranges() []DateRange { return t.ranges }

// Series returns the values read for category.
func (t *Table) Series(category string) (Series, bool) {
	s, ok := t.series[category]
	return s, ok
}

// Reformat turns every real period into a metric record keyed by its ISO
// date range. Periods with a missing value, an invalid date or a colliding
// key are left out and returned as skipped.
func (t *Table) Reformat() (truth.Records, []error) {
	records := make(truth.Records)

	var skipped []error

	for i, r := range t.ranges {
		if r.IsSentinel() {
			continue
		}

		values, err := t.valuesAt(i)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}

		key, err := canonicalKey(r)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}

		if _, dup := records[key]; dup {
			skipped = append(skipped, &DuplicateRangeError{Key: key})
			continue
		}

		records[key] = truth.Record{
			truth.FieldCaseReceipts:       comma(values[CategoryReceipts]),
			truth.FieldAllDecisions:       comma(values[CategoryDecisions]),
			truth.FieldFearEstablished:    comma(values[CategoryPersecution] + values[CategoryTorture]),
			truth.FieldFearNotEstablished: comma(values[CategoryNotEstablished]),
			truth.FieldClosings:           comma(values[CategoryClosed]),
		}
	}

	return records, skipped
}

func (t *Table) valuesAt(i int) (map[string]int, error) {
	values := make(map[string]int, len(Categories))

	for _, c := range Categories {
		p := t.series[c][i]
		if !p.Valid {
			return nil, &NoValueError{Range: p.Range.Key(), Category: c}
		}

		values[c] = p.Value
	}

	return values, nil
}

func canonicalKey(r DateRange) (string, error) {
	start, err := parseNativeDate(r.Start)
	if err != nil {
		return "", &DateError{Range: r.Key(), Err: err}
	}

	end, err := parseNativeDate(r.End)
	if err != nil {
		return "", &DateError{Range: r.Key(), Err: err}
	}

	return truth.RangeKey(start, end), nil
}

func parseNativeDate(s string) (time.Time, error) {
	for _, layout := range nativeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not a month/day/year date", s)
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

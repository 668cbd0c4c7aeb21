package cfi

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
)

// Row labels of the categories read from the table.
const (
	CategoryReceipts       = "Case Receipts"
	CategoryDecisions      = "All Decisions"
	CategoryPersecution    = "Fear Established_Persecution (Y)"
	CategoryTorture        = "Fear Established_Torture (Y)"
	CategoryNotEstablished = "Fear Not Established (N)"
	CategoryClosed         = "Administratively Closed"
)

// Categories lists every category row the table must contain.
var Categories = []string{
	CategoryReceipts,
	CategoryDecisions,
	CategoryPersecution,
	CategoryTorture,
	CategoryNotEstablished,
	CategoryClosed,
}

// Point pairs a reporting period with the value reported for it. Valid is
// false when the cell was blank or not an integer.
type Point struct {
	Range DateRange
	Value int
	Valid bool
}

// Series holds one category's values in date range order.
type Series []Point

// ExtractCategories finds the row of every label and pairs its data cells
// with ranges.
func ExtractCategories(region grid.Grid, labels []string, ranges []DateRange) (map[string]Series, error) {
	out := make(map[string]Series, len(labels))

	for _, label := range labels {
		row, ok := findRow(region, func(l string) bool { return l == label })
		if !ok {
			return nil, &MissingRowError{Label: label}
		}

		series, err := pair(row, ranges)
		if err != nil {
			return nil, err
		}

		out[label] = series
	}

	return out, nil
}

// pair zips ranges and the data cells of row. The row must reach the last
// range and hold no value beyond it; either mismatch means it is shifted
// against the dates. Blank cells past the last range are ignored.
func pair(row grid.Row, ranges []DateRange) (Series, error) {
	cells := row.Data()
	if len(cells) < len(ranges) {
		return nil, &AlignmentError{Label: row.Label(), Want: len(ranges), Got: len(cells)}
	}

	if extent := row.DataExtent(); extent > len(ranges) {
		return nil, &AlignmentError{Label: row.Label(), Want: len(ranges), Got: extent}
	}

	series := make(Series, len(ranges))
	for i, r := range ranges {
		v, ok := ParseCount(cells[i])
		series[i] = Point{Range: r, Value: v, Valid: ok}
	}

	return series, nil
}

// ParseCount parses an integer cell such as "1,234" or " 98 ".
func ParseCount(cell string) (int, bool) {
	clean := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}

		return r
	}, cell)

	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, false
	}

	return n, true
}

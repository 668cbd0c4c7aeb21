package cfi

import (
	"strings"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
)

const (
	labelFrom = "FROM"
	labelTo   = "TO"
)

// DateRange is one reporting period as printed in the report.
type DateRange struct {
	Start string
	End   string
}

// Key joins the endpoints as "<start>-<end>".
func (r DateRange) Key() string {
	return r.Start + "-" + r.End
}

// IsSentinel reports whether the range is a label or blank-column artifact
// rather than a real period.
func (r DateRange) IsSentinel() bool {
	switch r.Key() {
	case "From-To", "-":
		return true
	}

	return false
}

// BuildDateRanges pairs the data cells of the FROM and TO rows by column,
// up to the last column either row fills. Every real range must be unique
// within the table.
func BuildDateRanges(region grid.Grid) ([]DateRange, error) {
	from, ok := findRow(region, isLabel(labelFrom))
	if !ok {
		return nil, &MissingRowError{Label: labelFrom}
	}

	to, ok := findRow(region, isLabel(labelTo))
	if !ok {
		return nil, &MissingRowError{Label: labelTo}
	}

	if from.DataExtent() != to.DataExtent() {
		return nil, &AlignmentError{Label: labelTo, Want: from.DataExtent(), Got: to.DataExtent()}
	}

	n := from.DataExtent()
	starts, ends := from.Data()[:n], to.Data()[:n]

	ranges := make([]DateRange, n)
	seen := make(map[string]struct{}, n)

	for i := range starts {
		r := DateRange{Start: strings.TrimSpace(starts[i]), End: strings.TrimSpace(ends[i])}

		if !r.IsSentinel() {
			if _, dup := seen[r.Key()]; dup {
				return nil, &DuplicateRangeError{Key: r.Key()}
			}

			seen[r.Key()] = struct{}{}
		}

		ranges[i] = r
	}

	return ranges, nil
}

func isLabel(want string) func(string) bool {
	return func(label string) bool {
		return strings.ToUpper(label) == want
	}
}

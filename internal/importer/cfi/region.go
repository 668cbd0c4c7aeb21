package cfi

import "github.com/MrJamesThe3rd/cfi/internal/grid"

// Region returns the rows after the header at index start, up to but not
// including the next header row. A header directly after start yields an
// empty region.
func Region(g grid.Grid, start int) grid.Grid {
	if start < 0 || start >= len(g) {
		return grid.Grid{}
	}

	rest := g[start+1:]
	for i, row := range rest {
		if grid.IsHeader(row) {
			return rest[:i]
		}
	}

	return rest
}

// findRow returns the first row in region whose trimmed label satisfies match.
func findRow(region grid.Grid, match func(label string) bool) (grid.Row, bool) {
	for _, row := range region {
		if match(row.Label()) {
			return row, true
		}
	}

	return nil, false
}

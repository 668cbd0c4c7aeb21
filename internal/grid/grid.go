// Package grid turns a human-formatted report export into a grid of text
// cells.
package grid

import "strings"

// Row is one line of text cells.
type Row []string

// Grid is an ordered sequence of rows. Rows keep the length they were read
// with, so a short or overlong row in the export stays visible.
type Grid []Row

// New copies rows into a grid without changing their lengths.
func New(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		g[i] = Row(append([]string(nil), row...))
	}

	return g
}

// Pad returns a copy of the grid with every row as wide as the widest one.
func (g Grid) Pad() Grid {
	width := g.Width()

	out := make(Grid, len(g))
	for i, row := range g {
		padded := make(Row, width)
		copy(padded, row)
		out[i] = padded
	}

	return out
}

// Width returns the number of cells in the widest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		width = max(width, len(row))
	}

	return width
}

// Skip returns the grid without its first n rows.
func (g Grid) Skip(n int) Grid {
	if n <= 0 {
		return g
	}

	if n >= len(g) {
		return Grid{}
	}

	return g[n:]
}

// Label returns the trimmed first cell of the row, or "" for an empty row.
func (r Row) Label() string {
	if len(r) == 0 {
		return ""
	}

	return strings.TrimSpace(r[0])
}

// Data returns every cell after the label cell.
func (r Row) Data() []string {
	if len(r) == 0 {
		return nil
	}

	return r[1:]
}

// DataExtent returns the number of data cells up to and including the last
// non-blank one. Trailing blank cells do not count.
func (r Row) DataExtent() int {
	data := r.Data()
	for i := len(data) - 1; i >= 0; i-- {
		if strings.TrimSpace(data[i]) != "" {
			return i + 1
		}
	}

	return 0
}

// IsHeader reports whether the row holds text in its first cell and only
// blank cells after it. Reports use such rows both as table titles and as
// table terminators.
func IsHeader(row Row) bool {
	if row.Label() == "" {
		return false
	}

	for _, cell := range row.Data() {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

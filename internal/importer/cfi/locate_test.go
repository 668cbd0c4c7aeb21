package cfi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
	"github.com/MrJamesThe3rd/cfi/internal/importer/cfi"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "all credible fear cases", b: "all credible fear cases", want: 100},
		{name: "contained", a: "all credible fear cases (fy2024)", b: "all credible fear cases", want: 100},
		{name: "empty", a: "", b: "all credible fear cases", want: 0},
		{name: "unrelated", a: "asylum officer interviews", b: "all credible fear cases", want: 35},
		{name: "sibling table", a: "all reasonable fear cases", b: "all credible fear cases", want: 78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfi.PartialRatio(tt.a, tt.b))
		})
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		want   int
		wantOK bool
	}{
		{
			name:   "exact title",
			rows:   [][]string{{"Report", ""}, {"All Credible Fear Cases", ""}},
			want:   1,
			wantOK: true,
		},
		{
			name:   "trailing whitespace",
			rows:   [][]string{{"All Credible Fear Cases   ", ""}},
			want:   0,
			wantOK: true,
		},
		{
			name:   "different case",
			rows:   [][]string{{"ALL CREDIBLE FEAR CASES", ""}},
			want:   0,
			wantOK: true,
		},
		{
			name:   "title in a data row is not a header",
			rows:   [][]string{{"All Credible Fear Cases", "12"}},
			wantOK: false,
		},
		{
			name:   "dissimilar titles",
			rows:   [][]string{{"Asylum Officer Interviews", ""}, {"All Reasonable Fear Cases", ""}},
			wantOK: false,
		},
		{
			name:   "first match wins",
			rows:   [][]string{{"All Credible Fear Cases", ""}, {"x", "1"}, {"All Credible Fear Cases", ""}},
			want:   0,
			wantOK: true,
		},
		{
			name:   "empty grid",
			rows:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfi.Locate(grid.New(tt.rows), cfi.DefaultTableTitle, cfi.DefaultThreshold)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	g := grid.New([][]string{
		{"All Credible Fear Cases", "", ""},
		{"FROM", "1/1/2024", "1/16/2024"},
		{"", "", ""},
		{"Case Receipts", "1", "2"},
		{"All Reasonable Fear Cases", "", ""},
		{"FROM", "1/1/2024", "1/16/2024"},
	})

	t.Run("stops before next header", func(t *testing.T) {
		region := cfi.Region(g, 0)

		assert.Len(t, region, 3)
		assert.Equal(t, "FROM", region[0].Label())
		assert.Equal(t, "Case Receipts", region[2].Label())
	})

	t.Run("runs to end of grid", func(t *testing.T) {
		region := cfi.Region(g, 4)

		assert.Len(t, region, 1)
	})

	t.Run("header directly after title", func(t *testing.T) {
		h := grid.New([][]string{{"All Credible Fear Cases", ""}, {"Notes", ""}})

		assert.Empty(t, cfi.Region(h, 0))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Empty(t, cfi.Region(g, 99))
	})
}

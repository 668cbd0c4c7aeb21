package cfi

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
)

// Locate returns the index of the first header row whose lower-cased label
// scores above threshold against title.
func Locate(g grid.Grid, title string, threshold int) (int, bool) {
	target := strings.ToLower(strings.TrimSpace(title))

	for i, row := range g {
		if !grid.IsHeader(row) {
			continue
		}

		if PartialRatio(strings.ToLower(row.Label()), target) > threshold {
			return i, true
		}
	}

	return -1, false
}

// PartialRatio scores from 0 to 100 how well the shorter string matches the
// best aligned window of the longer one.
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}

	if a == "" || b == "" {
		return 0
	}

	shorter, longer := runes(a), runes(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0

	for _, block := range difflib.NewMatcher(shorter, longer).GetMatchingBlocks() {
		start := max(block.B-block.A, 0)
		end := min(start+len(shorter), len(longer))

		ratio := difflib.NewMatcher(shorter, longer[start:end]).Ratio()
		if ratio > 0.995 {
			return 100
		}

		best = max(best, ratio)
	}

	return int(math.Round(100 * best))
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}

	return out
}

package truth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidKey is returned for date range keys whose start date cannot be parsed.
var ErrInvalidKey = errors.New("invalid date range key")

const keyDateLayout = "2006-01-02"

// RangeKey formats a reporting period as its canonical "YYYY-MM-DD-YYYY-MM-DD" key.
func RangeKey(start, end time.Time) string {
	return start.Format(keyDateLayout) + "-" + end.Format(keyDateLayout)
}

// StartDate parses the leading year-month-day tokens of a key. Single-digit
// months and days are accepted, so "2024-9-1-2024-9-14" sorts before
// "2024-10-1-2024-10-14".
func StartDate(key string) (time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "-", 4)
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	t, err := time.Parse("2006-1-2", strings.Join(parts[:3], "-"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, key, err)
	}

	return t, nil
}

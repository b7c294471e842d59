// Package dateutils provides the date parsing and comparison helpers used by
// the import pipeline and the reconciler.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayoutISO is the canonical layout; it is always tried first.
const DateLayoutISO = "2006-01-02"

// fallbackLayouts are day-month-year forms with the separators seen in bank
// exports, zero-padded and not.
var fallbackLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
}

// ParseDate parses a date string, trying strict ISO-8601 first and falling
// back to day-month-year forms. Unlike amounts, an unparseable date is an
// error: the caller reports the row as defective instead of defaulting.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(DateLayoutISO, dateStr); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// WithinDays reports whether two dates fall within n calendar days of each
// other, inclusive and symmetric. Time-of-day components are ignored.
func WithinDays(a, b time.Time, n int) bool {
	a = truncateToDay(a)
	b = truncateToDay(b)
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(n)*24*time.Hour
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

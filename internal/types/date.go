package types

import (
	"time"

	ierr "github.com/clubbill/clubbill/internal/errors"
)

// MonthLayout is the wire format for billing months, e.g. "2025-09".
const MonthLayout = "2006-01"

// MonthStart truncates a date to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of whole calendar months from a to b,
// ignoring the day component. Negative when b is before a's month.
func MonthsBetween(a, b time.Time) int {
	a, b = MonthStart(a), MonthStart(b)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// ParseMonth parses a "YYYY-MM" month string into its month-start date.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("invalid month %q, expected YYYY-MM", s).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// FormatMonth renders a date as its "YYYY-MM" month string.
func FormatMonth(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

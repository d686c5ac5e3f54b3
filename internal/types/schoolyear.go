package types

import (
	"fmt"
	"time"
)

// SchoolYear represents a single September-to-June cycle. Invoices are
// labelled with the school year their due date falls into, independent of
// the calendar year.
type SchoolYear struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// SchoolYearForDate resolves the school year a date belongs to. The year runs
// September 1 through June 30; dates in January through August belong to the
// cycle that started the previous September.
func SchoolYearForDate(date time.Time) SchoolYear {
	date = date.UTC()
	startYear := date.Year()
	if date.Month() < time.September {
		startYear--
	}
	return SchoolYear{
		Start: time.Date(startYear, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC),
		Label: fmt.Sprintf("%d-%d", startYear, startYear+1),
	}
}

// MonthsInSchoolYear returns the month-start dates of the school year the
// given date resolves to: September through June, 10 entries.
func MonthsInSchoolYear(date time.Time) []time.Time {
	year := SchoolYearForDate(date)
	months := make([]time.Time, 0, 10)
	for m := year.Start; !m.After(year.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// IsDateInSchoolYear reports whether the date falls within the school year
// starting in September of startYear.
func IsDateInSchoolYear(date time.Time, startYear int) bool {
	return SchoolYearForDate(date).Start.Year() == startYear
}

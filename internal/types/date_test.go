package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthStart(t *testing.T) {
	assert.Equal(t,
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		MonthStart(time.Date(2025, 9, 17, 15, 30, 0, 0, time.UTC)),
	)
}

func TestMonthsBetween(t *testing.T) {
	sep := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MonthsBetween(sep, sep.AddDate(0, 0, 20)))
	assert.Equal(t, 6, MonthsBetween(sep, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 12, MonthsBetween(sep, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, MonthsBetween(sep, time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)))
}

func TestParseMonth(t *testing.T) {
	parsed, err := ParseMonth("2025-09")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseMonth("2025/09")
	assert.Error(t, err)

	_, err = ParseMonth("september")
	assert.Error(t, err)
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2025-09", FormatMonth(time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC)))
}

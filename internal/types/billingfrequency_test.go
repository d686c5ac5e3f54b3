package types

import (
	"testing"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseBillingFrequency(t *testing.T) {
	tests := []struct {
		raw      string
		expected BillingFrequency
	}{
		{"MONTHLY", BillingFrequencyMonthly},
		{"monthly", BillingFrequencyMonthly},
		{" mesecno ", BillingFrequencyMonthly},
		{"SEMI_ANNUAL", BillingFrequencySemiAnnual},
		{"polletno", BillingFrequencySemiAnnual},
		{"ANNUAL", BillingFrequencyAnnual},
		{"letno", BillingFrequencyAnnual},
		{"yearly", BillingFrequencyAnnual},
		{"PER_SESSION", BillingFrequencyPerSession},
		{"session", BillingFrequencyPerSession},
	}

	for _, tt := range tests {
		parsed, err := ParseBillingFrequency(tt.raw)
		assert.NoError(t, err, tt.raw)
		assert.Equal(t, tt.expected, parsed, tt.raw)
	}
}

func TestParseBillingFrequencyRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "weekly", "TEDENSKO", "42"} {
		_, err := ParseBillingFrequency(raw)
		assert.Error(t, err, raw)
		assert.True(t, ierr.IsValidation(err), raw)
	}
}

func TestBillingFrequencyValidate(t *testing.T) {
	assert.NoError(t, BillingFrequencyMonthly.Validate())
	assert.NoError(t, BillingFrequencyPerSession.Validate())
	assert.Error(t, BillingFrequency("WEEKLY").Validate())
	assert.Error(t, BillingFrequency("").Validate())
}

package types

import (
	"strings"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/samber/lo"
)

// BillingFrequency is the cadence at which an enrollment is invoiced
type BillingFrequency string

const (
	// BillingFrequencyMonthly raises an invoice every month
	BillingFrequencyMonthly BillingFrequency = "MONTHLY"
	// BillingFrequencySemiAnnual raises an invoice every six months from the enrollment start
	BillingFrequencySemiAnnual BillingFrequency = "SEMI_ANNUAL"
	// BillingFrequencyAnnual raises an invoice once a year in the enrollment's start month
	BillingFrequencyAnnual BillingFrequency = "ANNUAL"
	// BillingFrequencyPerSession is billed per attended session, outside the monthly scheduler
	BillingFrequencyPerSession BillingFrequency = "PER_SESSION"
)

func (f BillingFrequency) String() string {
	return string(f)
}

func (f BillingFrequency) Validate() error {
	allowed := []BillingFrequency{
		BillingFrequencyMonthly,
		BillingFrequencySemiAnnual,
		BillingFrequencyAnnual,
		BillingFrequencyPerSession,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid billing frequency").
			WithHint("Please provide a valid billing frequency").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"provided": f,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// billingFrequencyLiterals maps the frequency tokens accepted on input,
// including the legacy lowercase and localized spellings carried over from
// imported member records.
var billingFrequencyLiterals = map[string]BillingFrequency{
	"MONTHLY":     BillingFrequencyMonthly,
	"MONTH":       BillingFrequencyMonthly,
	"MESECNO":     BillingFrequencyMonthly,
	"SEMI_ANNUAL": BillingFrequencySemiAnnual,
	"SEMIANNUAL":  BillingFrequencySemiAnnual,
	"POLLETNO":    BillingFrequencySemiAnnual,
	"ANNUAL":      BillingFrequencyAnnual,
	"YEARLY":      BillingFrequencyAnnual,
	"LETNO":       BillingFrequencyAnnual,
	"PER_SESSION": BillingFrequencyPerSession,
	"SESSION":     BillingFrequencyPerSession,
}

// ParseBillingFrequency maps a raw frequency token to its enum value. Unknown
// tokens are rejected rather than silently coerced; persisted plans always
// carry a recognized value.
func ParseBillingFrequency(raw string) (BillingFrequency, error) {
	if f, ok := billingFrequencyLiterals[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return f, nil
	}
	return "", ierr.NewError("unknown billing frequency").
		WithHintf("unknown billing frequency %q", raw).
		WithReportableDetails(map[string]any{
			"provided": raw,
		}).
		Mark(ierr.ErrValidation)
}

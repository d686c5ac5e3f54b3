package types

// SkipReason explains why the scheduler did not raise an invoice for an
// enrollment in a given month. Skips are business outcomes, not errors, and
// every reason carries an operator-readable description for preview output.
type SkipReason string

const (
	SkipReasonNone                 SkipReason = ""
	SkipReasonAlreadyInvoiced      SkipReason = "already_invoiced"
	SkipReasonBeforeStart          SkipReason = "before_enrollment_start"
	SkipReasonAfterEnd             SkipReason = "after_enrollment_end"
	SkipReasonCadenceMismatch      SkipReason = "cadence_mismatch"
	SkipReasonMemberInactive       SkipReason = "member_inactive"
	SkipReasonIndividualCounseling SkipReason = "individual_counseling"
	SkipReasonMissingPlan          SkipReason = "missing_plan"
	SkipReasonMissingStartDate     SkipReason = "missing_start_date"
)

var skipReasonDescriptions = map[SkipReason]string{
	SkipReasonNone:                 "invoice due",
	SkipReasonAlreadyInvoiced:      "an invoice already exists for this month",
	SkipReasonBeforeStart:          "month is before the enrollment start",
	SkipReasonAfterEnd:             "month is after the enrollment end",
	SkipReasonCadenceMismatch:      "month does not match the plan's billing cadence",
	SkipReasonMemberInactive:       "member is not active",
	SkipReasonIndividualCounseling: "individual counseling is billed per session",
	SkipReasonMissingPlan:          "enrollment has no membership plan",
	SkipReasonMissingStartDate:     "enrollment has no start date",
}

func (r SkipReason) String() string {
	return string(r)
}

// Description returns the human-readable explanation for the reason
func (r SkipReason) Description() string {
	if d, ok := skipReasonDescriptions[r]; ok {
		return d
	}
	return string(r)
}

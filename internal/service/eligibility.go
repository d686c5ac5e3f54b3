package service

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/domain/enrollment"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
)

// EligibilityResult is the outcome of evaluating one enrollment for one month
type EligibilityResult struct {
	Eligible bool
	Reason   types.SkipReason
}

// BillingEligibilityService decides whether the monthly scheduler owes an
// enrollment an invoice for a given month.
type BillingEligibilityService interface {
	// Evaluate runs the eligibility checks for the enrollment and month.
	// The enrollment must have its relations loaded.
	Evaluate(ctx context.Context, e *enrollment.Enrollment, month time.Time) (EligibilityResult, error)

	// IsBillingMonth reports whether the month falls on the plan's cadence
	// measured from the enrollment start month
	IsBillingMonth(month, start time.Time, frequency types.BillingFrequency) bool
}

type billingEligibilityService struct {
	ServiceParams
}

func NewBillingEligibilityService(params ServiceParams) BillingEligibilityService {
	return &billingEligibilityService{ServiceParams: params}
}

func (s *billingEligibilityService) Evaluate(ctx context.Context, e *enrollment.Enrollment, month time.Time) (EligibilityResult, error) {
	if e == nil || e.Member == nil || e.Workshop == nil {
		return EligibilityResult{}, ierr.NewError("enrollment relations not loaded").
			WithHint("evaluate requires the member and workshop to be loaded").
			Mark(ierr.ErrSystem)
	}

	month = types.MonthStart(month)

	if !e.Member.Active {
		return skip(types.SkipReasonMemberInactive), nil
	}
	if e.Workshop.IsIndividualCounseling() {
		return skip(types.SkipReasonIndividualCounseling), nil
	}
	if e.PlanID == nil {
		return skip(types.SkipReasonMissingPlan), nil
	}
	if e.Plan == nil {
		// PlanID points at a plan that no longer exists; this is a data
		// problem, not a routine skip
		return EligibilityResult{}, ierr.NewError("membership plan not found").
			WithHintf("enrollment %s references missing plan %s", e.ID, *e.PlanID).
			Mark(ierr.ErrNotFound)
	}
	if e.StartDate == nil {
		return skip(types.SkipReasonMissingStartDate), nil
	}

	start := types.MonthStart(*e.StartDate)
	if month.Before(start) {
		return skip(types.SkipReasonBeforeStart), nil
	}
	if e.EndDate != nil && month.After(types.MonthStart(*e.EndDate)) {
		return skip(types.SkipReasonAfterEnd), nil
	}

	exists, err := s.InvoiceRepo.ExistsForMonth(ctx, e.MemberID, e.WorkshopID, month)
	if err != nil {
		return EligibilityResult{}, err
	}
	if exists {
		return skip(types.SkipReasonAlreadyInvoiced), nil
	}

	if !s.IsBillingMonth(month, start, e.Plan.Frequency) {
		return skip(types.SkipReasonCadenceMismatch), nil
	}

	return EligibilityResult{Eligible: true}, nil
}

// IsBillingMonth implements the cadence rules. A frequency the store holds
// that the evaluator does not recognize bills monthly, matching how legacy
// records behaved before frequencies were validated on write.
func (s *billingEligibilityService) IsBillingMonth(month, start time.Time, frequency types.BillingFrequency) bool {
	month = types.MonthStart(month)
	start = types.MonthStart(start)

	switch frequency {
	case types.BillingFrequencySemiAnnual:
		diff := types.MonthsBetween(start, month)
		return diff >= 0 && diff%6 == 0
	case types.BillingFrequencyAnnual:
		return month.Month() == start.Month() && month.Year() >= start.Year()
	case types.BillingFrequencyPerSession:
		return false
	default:
		return true
	}
}

func skip(reason types.SkipReason) EligibilityResult {
	return EligibilityResult{Eligible: false, Reason: reason}
}

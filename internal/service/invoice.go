package service

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/api/dto"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService is the membership invoice orchestrator: monthly generation,
// dry-run preview, historical backfill, bulk month deletion and the invoice
// CRUD surface.
type InvoiceService interface {
	GenerateForMonth(ctx context.Context, month time.Time, memberIDs []string) (*dto.GenerationResult, error)
	PreviewForMonth(ctx context.Context, month time.Time, memberIDs []string) ([]*dto.InvoicePreviewItem, error)
	GenerateHistorical(ctx context.Context, enrollmentID string, from, to time.Time) ([]*invoice.Invoice, error)
	DeleteForMonth(ctx context.Context, month time.Time) (int, error)

	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdatePaymentStatus(ctx context.Context, id string, status types.PaymentStatus, amount *decimal.Decimal) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
	refCodes    ReferenceCodeService
	eligibility BillingEligibilityService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		refCodes:      NewReferenceCodeService(params),
		eligibility:   NewBillingEligibilityService(params),
	}
}

func (s *invoiceService) GenerateForMonth(ctx context.Context, month time.Time, memberIDs []string) (*dto.GenerationResult, error) {
	month = types.MonthStart(month)

	enrollments, err := s.EnrollmentRepo.ListBillable(ctx, enrollment.BillableFilter{MemberIDs: memberIDs})
	if err != nil {
		return nil, err
	}

	result := &dto.GenerationResult{Month: types.FormatMonth(month)}

	s.Logger.Infow("starting invoice generation",
		"month", result.Month,
		"enrollments", len(enrollments),
	)

	for _, e := range enrollments {
		eligible, err := s.eligibility.Evaluate(ctx, e, month)
		if err != nil {
			result.Errors = append(result.Errors, generationError(e, err))
			continue
		}
		if !eligible.Eligible {
			result.Skipped++
			continue
		}

		if _, err := s.createMembershipInvoice(ctx, e, month); err != nil {
			// a concurrent run may have won the unique index; that is a
			// skip, not a failure
			if ierr.IsAlreadyExists(err) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, generationError(e, err))
			continue
		}
		result.Generated++
	}

	s.Logger.Infow("invoice generation finished",
		"month", result.Month,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *invoiceService) PreviewForMonth(ctx context.Context, month time.Time, memberIDs []string) ([]*dto.InvoicePreviewItem, error) {
	month = types.MonthStart(month)

	enrollments, err := s.EnrollmentRepo.ListBillable(ctx, enrollment.BillableFilter{MemberIDs: memberIDs})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoicePreviewItem, 0, len(enrollments))
	for _, e := range enrollments {
		item := &dto.InvoicePreviewItem{
			EnrollmentID: e.ID,
			MemberID:     e.MemberID,
			WorkshopID:   e.WorkshopID,
		}
		if e.Member != nil {
			item.MemberName = e.Member.FullName()
		}
		if e.Workshop != nil {
			item.WorkshopName = e.Workshop.Name
		}
		if e.Plan != nil {
			item.Amount = e.Plan.EffectiveFee()
		}

		eligible, err := s.eligibility.Evaluate(ctx, e, month)
		if err != nil {
			// the same enrollment would be a per-item error in generation
			item.Reason = err.Error()
			items = append(items, item)
			continue
		}

		item.WouldGenerate = eligible.Eligible
		item.AlreadyExists = eligible.Reason == types.SkipReasonAlreadyInvoiced
		if !eligible.Eligible {
			item.Reason = eligible.Reason.Description()
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *invoiceService) GenerateHistorical(ctx context.Context, enrollmentID string, from, to time.Time) ([]*invoice.Invoice, error) {
	e, err := s.EnrollmentRepo.GetWithRelations(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Plan == nil {
		return nil, ierr.NewError("enrollment has no membership plan").
			WithHintf("enrollment %s cannot be backfilled without a plan", enrollmentID).
			Mark(ierr.ErrInvalidOperation)
	}
	if e.StartDate == nil {
		return nil, ierr.NewError("enrollment has no start date").
			WithHintf("enrollment %s cannot be backfilled without a start date", enrollmentID).
			Mark(ierr.ErrInvalidOperation)
	}

	from = types.MonthStart(from)
	to = types.MonthStart(to)

	step := 1
	switch e.Plan.Frequency {
	case types.BillingFrequencySemiAnnual:
		step = 6
	case types.BillingFrequencyAnnual:
		step = 12
	case types.BillingFrequencyPerSession:
		return nil, ierr.NewError("per-session plans are not billed by month").
			WithHint("use a session invoice instead").
			Mark(ierr.ErrInvalidOperation)
	}

	var created []*invoice.Invoice
	for due := types.MonthStart(*e.StartDate); !due.After(to); due = due.AddDate(0, step, 0) {
		if due.Before(from) {
			continue
		}
		if !e.IsOpenAt(due) {
			continue
		}
		exists, err := s.InvoiceRepo.ExistsForMonth(ctx, e.MemberID, e.WorkshopID, due)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		inv, err := s.createMembershipInvoice(ctx, e, due)
		if err != nil {
			if ierr.IsAlreadyExists(err) {
				continue
			}
			return nil, err
		}
		created = append(created, inv)
	}

	s.Logger.Infow("historical invoices generated",
		"enrollment_id", enrollmentID,
		"from", types.FormatMonth(from),
		"to", types.FormatMonth(to),
		"created", len(created),
	)
	return created, nil
}

func (s *invoiceService) DeleteForMonth(ctx context.Context, month time.Time) (int, error) {
	return s.InvoiceRepo.DeleteByDueMonth(ctx, types.MonthStart(month))
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInvoicesResponse{
		Items: make([]*dto.InvoiceResponse, len(invoices)),
		Total: total,
	}
	for i, inv := range invoices {
		resp.Items[i] = dto.NewInvoiceResponse(inv)
	}
	return resp, nil
}

func (s *invoiceService) UpdatePaymentStatus(ctx context.Context, id string, status types.PaymentStatus, amount *decimal.Decimal) (*dto.InvoiceResponse, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePaymentStatusTransition(inv.PaymentStatus, status); err != nil {
		return nil, err
	}

	switch status {
	case types.PaymentStatusPaid:
		paid := inv.AmountDue
		if amount != nil {
			paid = *amount
		}
		if paid.GreaterThan(inv.AmountDue) {
			return nil, ierr.NewError("amount exceeds amount due").
				WithHintf("invoice %s is due %s", inv.ID, inv.AmountDue.String()).
				Mark(ierr.ErrValidation)
		}
		inv.AmountPaid = paid
	case types.PaymentStatusCanceled:
		inv.AmountPaid = decimal.Zero
	}
	inv.PaymentStatus = status
	inv.UpdatedAt = s.Clock.Now()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("invoice payment status updated",
		"invoice_id", inv.ID,
		"payment_status", status,
	)
	return dto.NewInvoiceResponse(inv), nil
}

// createMembershipInvoice builds and persists one membership invoice for the
// enrollment due on the given month start. The reference sequence count and
// the insert share a transaction.
func (s *invoiceService) createMembershipInvoice(ctx context.Context, e *enrollment.Enrollment, month time.Time) (*invoice.Invoice, error) {
	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.refCodes.GenerateReferenceCode(ctx, e.Member, e.Workshop, month)
		if err != nil {
			return err
		}

		inv = &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			MemberID:      e.MemberID,
			WorkshopID:    e.WorkshopID,
			PlanID:        e.PlanID,
			InvoiceType:   types.InvoiceTypeMembership,
			ReferenceCode: code,
			SchoolYear:    types.SchoolYearForDate(month).Label,
			AmountDue:     e.Plan.EffectiveFee(),
			AmountPaid:    decimal.Zero,
			DueDate:       month,
			PaymentStatus: types.PaymentStatusOpen,
			BaseModel:     types.GetDefaultBaseModel(ctx),
		}
		if err := inv.Validate(); err != nil {
			return err
		}
		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// validatePaymentStatusTransition allows OPEN -> PAID and OPEN -> CANCELED
func validatePaymentStatusTransition(from, to types.PaymentStatus) error {
	allowed := map[types.PaymentStatus][]types.PaymentStatus{
		types.PaymentStatusOpen:     {types.PaymentStatusPaid, types.PaymentStatusCanceled},
		types.PaymentStatusPaid:     {},
		types.PaymentStatusCanceled: {},
	}

	for _, t := range allowed[from] {
		if t == to {
			return nil
		}
	}
	return ierr.NewError("invalid payment status transition").
		WithHintf("cannot move an invoice from %s to %s", from, to).
		WithReportableDetails(map[string]any{
			"from": from,
			"to":   to,
		}).
		Mark(ierr.ErrInvalidOperation)
}

func generationError(e *enrollment.Enrollment, err error) dto.GenerationError {
	return dto.GenerationError{
		EnrollmentID: e.ID,
		MemberID:     e.MemberID,
		WorkshopID:   e.WorkshopID,
		Message:      err.Error(),
	}
}

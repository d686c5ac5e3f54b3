package service

import (
	"context"

	"github.com/clubbill/clubbill/internal/api/dto"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
)

// SessionInvoiceService issues one-off invoices for individual counseling
// sessions. Sessions have no cadence and no per-month idempotency gate; a
// member can attend several sessions in the same month.
type SessionInvoiceService interface {
	Generate(ctx context.Context, req dto.CreateSessionInvoiceRequest) (*dto.InvoiceResponse, error)
	Preview(ctx context.Context, req dto.CreateSessionInvoiceRequest) (*dto.SessionInvoicePreview, error)
	CalculateDefaultAmount(ctx context.Context, memberID, workshopID string) (decimal.Decimal, bool, error)
}

type sessionInvoiceService struct {
	ServiceParams
	refCodes ReferenceCodeService
}

func NewSessionInvoiceService(params ServiceParams) SessionInvoiceService {
	return &sessionInvoiceService{
		ServiceParams: params,
		refCodes:      NewReferenceCodeService(params),
	}
}

func (s *sessionInvoiceService) Generate(ctx context.Context, req dto.CreateSessionInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, w, err := s.resolveParties(ctx, req.MemberID, req.WorkshopID)
	if err != nil {
		return nil, err
	}

	sessionDate, err := req.ParsedSessionDate()
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	} else {
		amount, _, err = s.CalculateDefaultAmount(ctx, m.ID, w.ID)
		if err != nil {
			return nil, err
		}
	}

	// the reference sequence count and the insert share a transaction
	var inv *invoice.Invoice
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.refCodes.GenerateReferenceCode(ctx, m, w, sessionDate)
		if err != nil {
			return err
		}

		inv = &invoice.Invoice{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
			MemberID:      m.ID,
			WorkshopID:    w.ID,
			InvoiceType:   types.InvoiceTypeSession,
			ReferenceCode: code,
			SchoolYear:    types.SchoolYearForDate(sessionDate).Label,
			AmountDue:     amount,
			AmountPaid:    decimal.Zero,
			DueDate:       types.MonthStart(sessionDate),
			PaymentStatus: types.PaymentStatusOpen,
			SessionDate:   &sessionDate,
			Notes:         req.Notes,
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

	s.Logger.Infow("session invoice created",
		"invoice_id", inv.ID,
		"member_id", m.ID,
		"workshop_id", w.ID,
		"session_date", req.SessionDate,
		"amount", amount.String(),
	)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *sessionInvoiceService) Preview(ctx context.Context, req dto.CreateSessionInvoiceRequest) (*dto.SessionInvoicePreview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, w, err := s.resolveParties(ctx, req.MemberID, req.WorkshopID)
	if err != nil {
		return nil, err
	}

	sessionDate, err := req.ParsedSessionDate()
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	reduced := false
	if req.Amount != nil {
		amount = *req.Amount
	} else {
		amount, reduced, err = s.CalculateDefaultAmount(ctx, m.ID, w.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.SessionInvoicePreview{
		MemberID:     m.ID,
		MemberName:   m.FullName(),
		WorkshopID:   w.ID,
		WorkshopName: w.Name,
		SessionDate:  req.SessionDate,
		Amount:       amount,
		ReducedRate:  reduced,
		SchoolYear:   types.SchoolYearForDate(sessionDate).Label,
	}, nil
}

// CalculateDefaultAmount returns the session rate and whether the reduced
// tier applied. Members holding another open group enrollment pay the
// reduced rate.
func (s *sessionInvoiceService) CalculateDefaultAmount(ctx context.Context, memberID, workshopID string) (decimal.Decimal, bool, error) {
	enrollments, err := s.EnrollmentRepo.ListByMember(ctx, memberID)
	if err != nil {
		return decimal.Zero, false, err
	}

	now := s.Clock.Now()
	for _, e := range enrollments {
		if e.WorkshopID == workshopID {
			continue
		}
		if e.Workshop == nil || e.Workshop.IsIndividualCounseling() {
			continue
		}
		if e.IsOpenAt(now) {
			return s.Config.Billing.SessionRateReduced, true, nil
		}
	}
	return s.Config.Billing.SessionRateStandard, false, nil
}

func (s *sessionInvoiceService) resolveParties(ctx context.Context, memberID, workshopID string) (*member.Member, *workshop.Workshop, error) {
	m, err := s.MemberRepo.Get(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.WorkshopRepo.Get(ctx, workshopID)
	if err != nil {
		return nil, nil, err
	}
	if !w.IsIndividualCounseling() {
		return nil, nil, ierr.NewError("workshop is not individual counseling").
			WithHintf("workshop %s is billed through membership invoices", w.ID).
			Mark(ierr.ErrInvalidOperation)
	}
	return m, w, nil
}

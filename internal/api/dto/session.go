package dto

import (
	"time"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/validator"
	"github.com/shopspring/decimal"
)

// SessionDateLayout is the wire format for session dates
const SessionDateLayout = "2006-01-02"

// CreateSessionInvoiceRequest raises a one-off invoice for an individual
// counseling session. Amount defaults from the configured rate tiers when
// omitted.
type CreateSessionInvoiceRequest struct {
	MemberID    string           `json:"member_id" validate:"required"`
	WorkshopID  string           `json:"workshop_id" validate:"required"`
	SessionDate string           `json:"session_date" validate:"required"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

func (r *CreateSessionInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if _, err := r.ParsedSessionDate(); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("provide a non-negative session amount").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ParsedSessionDate returns the session date as a UTC time
func (r *CreateSessionInvoiceRequest) ParsedSessionDate() (time.Time, error) {
	t, err := time.ParseInLocation(SessionDateLayout, r.SessionDate, time.UTC)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("invalid session date %q, expected YYYY-MM-DD", r.SessionDate).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// SessionInvoicePreview mirrors the invoice a session request would create
type SessionInvoicePreview struct {
	MemberID     string          `json:"member_id"`
	MemberName   string          `json:"member_name"`
	WorkshopID   string          `json:"workshop_id"`
	WorkshopName string          `json:"workshop_name"`
	SessionDate  string          `json:"session_date"`
	Amount       decimal.Decimal `json:"amount"`
	ReducedRate  bool            `json:"reduced_rate"`
	SchoolYear   string          `json:"school_year"`
}

package dto

import (
	"time"

	"github.com/clubbill/clubbill/internal/domain/invoice"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/clubbill/clubbill/internal/validator"
	"github.com/shopspring/decimal"
)

// GenerateInvoicesRequest asks the scheduler to raise membership invoices
// for one billing month, optionally restricted to a set of members.
type GenerateInvoicesRequest struct {
	Month     string   `json:"month" validate:"required"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

func (r *GenerateInvoicesRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ParsedMonth returns the request month as its month-start date
func (r *GenerateInvoicesRequest) ParsedMonth() (time.Time, error) {
	return types.ParseMonth(r.Month)
}

// ValidateMonthHorizon rejects months further in the future than the
// configured horizon. Historical months are always allowed.
func ValidateMonthHorizon(month, now time.Time, maxFutureMonths int) error {
	ahead := types.MonthsBetween(now, month)
	if ahead > maxFutureMonths {
		return ierr.NewError("month is too far in the future").
			WithHintf("invoices can be generated at most %d months ahead", maxFutureMonths).
			WithReportableDetails(map[string]any{
				"month":             types.FormatMonth(month),
				"max_future_months": maxFutureMonths,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GenerationError records a single enrollment the batch could not invoice
type GenerationError struct {
	EnrollmentID string `json:"enrollment_id"`
	MemberID     string `json:"member_id"`
	WorkshopID   string `json:"workshop_id"`
	Message      string `json:"message"`
}

// GenerationResult summarizes a generation batch. Errors never abort the
// batch; they ride alongside the counts.
type GenerationResult struct {
	Month     string            `json:"month"`
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Errors    []GenerationError `json:"errors,omitempty"`
}

// InvoicePreviewItem is one row of a dry-run generation report
type InvoicePreviewItem struct {
	EnrollmentID  string          `json:"enrollment_id"`
	MemberID      string          `json:"member_id"`
	MemberName    string          `json:"member_name"`
	WorkshopID    string          `json:"workshop_id"`
	WorkshopName  string          `json:"workshop_name"`
	Amount        decimal.Decimal `json:"amount"`
	WouldGenerate bool            `json:"would_generate"`
	AlreadyExists bool            `json:"already_exists"`
	Reason        string          `json:"reason,omitempty"`
}

// GenerateHistoricalRequest backfills invoices for one enrollment across a
// month range.
type GenerateHistoricalRequest struct {
	EnrollmentID string `json:"enrollment_id" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to" validate:"required"`
}

func (r *GenerateHistoricalRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	from, err := types.ParseMonth(r.From)
	if err != nil {
		return err
	}
	to, err := types.ParseMonth(r.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return ierr.NewError("invalid month range").
			WithHint("to must not be before from").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdatePaymentStatusRequest moves an invoice between payment states
type UpdatePaymentStatusRequest struct {
	PaymentStatus types.PaymentStatus `json:"payment_status" validate:"required"`
	Amount        *decimal.Decimal    `json:"amount,omitempty"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.PaymentStatus.Validate(); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("provide a non-negative payment amount").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceResponse is the API shape of an invoice
type InvoiceResponse struct {
	*invoice.Invoice
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
}

// NewInvoiceResponse creates a response from an invoice
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv, AmountRemaining: inv.RemainingAmount()}
}

// ListInvoicesResponse is a paginated invoice list
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}

// DeleteMonthResponse reports a bulk month deletion
type DeleteMonthResponse struct {
	Month   string `json:"month"`
	Deleted int    `json:"deleted"`
}

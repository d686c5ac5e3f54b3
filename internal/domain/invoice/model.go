package invoice

import (
	"time"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents a membership or session invoice for a member in a
// workshop. Membership invoices are unique per (member, workshop, due month);
// session invoices are issued per session date without that constraint.
type Invoice struct {
	ID            string              `db:"id" json:"id"`
	MemberID      string              `db:"member_id" json:"member_id"`
	WorkshopID    string              `db:"workshop_id" json:"workshop_id"`
	PlanID        *string             `db:"plan_id" json:"plan_id,omitempty"`
	InvoiceType   types.InvoiceType   `db:"invoice_type" json:"invoice_type"`
	ReferenceCode string              `db:"reference_code" json:"reference_code"`
	SchoolYear    string              `db:"school_year" json:"school_year"`
	AmountDue     decimal.Decimal     `db:"amount_due" json:"amount_due"`
	AmountPaid    decimal.Decimal     `db:"amount_paid" json:"amount_paid"`
	DueDate       time.Time           `db:"due_date" json:"due_date"`
	PaymentStatus types.PaymentStatus `db:"payment_status" json:"payment_status"`
	SessionDate   *time.Time          `db:"session_date" json:"session_date,omitempty"`
	Notes         string              `db:"notes" json:"notes,omitempty"`
	types.BaseModel
}

// RemainingAmount returns the unpaid balance
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.AmountDue.Sub(i.AmountPaid)
}

func (i *Invoice) Validate() error {
	if i.AmountDue.IsNegative() {
		return ierr.NewError("amount_due must be non negative").
			WithHint("amount due is negative").
			WithReportableDetails(map[string]any{
				"amount_due": i.AmountDue.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.AmountPaid.IsNegative() {
		return ierr.NewError("amount_paid must be non negative").
			WithHint("amount paid is negative").
			Mark(ierr.ErrValidation)
	}

	if i.AmountPaid.GreaterThan(i.AmountDue) {
		return ierr.NewError("amount_paid must not exceed amount_due").
			WithHint("amount paid exceeds amount due").
			Mark(ierr.ErrValidation)
	}

	if i.ReferenceCode == "" {
		return ierr.NewError("reference_code is required").
			WithHint("invoice is missing a reference code").
			Mark(ierr.ErrValidation)
	}

	if i.SchoolYear == "" {
		return ierr.NewError("school_year is required").
			WithHint("invoice is missing a school year label").
			Mark(ierr.ErrValidation)
	}

	if err := i.InvoiceType.Validate(); err != nil {
		return err
	}

	if err := i.PaymentStatus.Validate(); err != nil {
		return err
	}

	if i.InvoiceType == types.InvoiceTypeSession && i.SessionDate == nil {
		return ierr.NewError("session_date is required for session invoices").
			WithHint("session invoices must carry the session date").
			Mark(ierr.ErrValidation)
	}

	return nil
}

package types

import (
	"time"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType categorizes how an invoice came to exist
type InvoiceType string

const (
	// InvoiceTypeMembership is a recurring invoice raised by the monthly scheduler
	InvoiceTypeMembership InvoiceType = "MEMBERSHIP"
	// InvoiceTypeSession is a one-off invoice for an individual counseling session
	InvoiceTypeSession InvoiceType = "SESSION"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeMembership,
		InvoiceTypeSession,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentStatus represents the payment state of an invoice
type PaymentStatus string

const (
	PaymentStatusOpen     PaymentStatus = "OPEN"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusOpen,
		PaymentStatusPaid,
		PaymentStatusCanceled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter

	// member_id filters invoices for a specific member
	MemberID string `json:"member_id,omitempty" form:"member_id"`

	// workshop_id filters invoices for a specific workshop
	WorkshopID string `json:"workshop_id,omitempty" form:"workshop_id"`

	// invoice_type filters by the nature of the invoice (MEMBERSHIP or SESSION)
	InvoiceType InvoiceType `json:"invoice_type,omitempty" form:"invoice_type"`

	// payment_status filters by the payment state of invoices
	PaymentStatus []PaymentStatus `json:"payment_status,omitempty" form:"payment_status"`

	// due_date_from / due_date_to bound the due date range, inclusive
	DueDateFrom *time.Time `json:"due_date_from,omitempty" form:"due_date_from"`
	DueDateTo   *time.Time `json:"due_date_to,omitempty" form:"due_date_to"`

	// school_year filters by the derived school-year label, e.g. "2025-2026"
	SchoolYear string `json:"school_year,omitempty" form:"school_year"`
}

// NewInvoiceFilter creates a new invoice filter with default pagination
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.InvoiceType != "" {
		if err := f.InvoiceType.Validate(); err != nil {
			return err
		}
	}
	for _, s := range f.PaymentStatus {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if f.DueDateFrom != nil && f.DueDateTo != nil && f.DueDateTo.Before(*f.DueDateFrom) {
		return ierr.NewError("invalid due date range").
			WithHint("due_date_to must not be before due_date_from").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetLimit implements BaseFilter
func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetStatus implements BaseFilter
func (f *InvoiceFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}

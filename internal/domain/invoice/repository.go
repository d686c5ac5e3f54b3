package invoice

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/types"
)

// Repository defines the interface for invoice persistence operations.
//
// The store enforces the one-membership-invoice-per-(member, workshop, month)
// invariant with a unique index; ExistsForMonth is an optimization for the
// scheduler, not the authoritative guard. Create returns an error matching
// ierr.ErrAlreadyExists on a uniqueness violation.
type Repository interface {
	// Create creates a new invoice
	Create(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice
	Update(ctx context.Context, inv *Invoice) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// CountForMonth counts the invoices of any type for a member and
	// workshop whose due date falls in the given month. Used for reference
	// code sequence numbers; counts rows present at call time, so deleted
	// invoices leave gaps that are never reused.
	CountForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (int, error)

	// ExistsForMonth reports whether a membership invoice exists for the
	// member and workshop in the given month
	ExistsForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (bool, error)

	// DeleteByDueMonth removes all invoices whose due date falls within the
	// given month and returns how many were removed
	DeleteByDueMonth(ctx context.Context, month time.Time) (int, error)
}

package enrollment

import "context"

// BillableFilter narrows the billable-enrollment query. An empty filter
// returns every enrollment the monthly scheduler considers.
type BillableFilter struct {
	// MemberIDs restricts the run to the given members when non-empty
	MemberIDs []string
}

// Repository defines the interface for enrollment persistence operations
type Repository interface {
	// Create creates a new enrollment
	Create(ctx context.Context, e *Enrollment) error

	// Get retrieves an enrollment by ID
	Get(ctx context.Context, id string) (*Enrollment, error)

	// GetWithRelations retrieves an enrollment with its member, workshop and
	// plan loaded
	GetWithRelations(ctx context.Context, id string) (*Enrollment, error)

	// Update updates an existing enrollment
	Update(ctx context.Context, e *Enrollment) error

	// ListBillable returns the open enrollments the monthly scheduler
	// iterates, with relations loaded. Eligibility is not pre-filtered;
	// the scheduler decides and records why an enrollment is skipped.
	ListBillable(ctx context.Context, filter BillableFilter) ([]*Enrollment, error)

	// ListByMember returns a member's enrollments with relations loaded
	ListByMember(ctx context.Context, memberID string) ([]*Enrollment, error)
}

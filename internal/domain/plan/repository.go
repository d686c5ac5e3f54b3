package plan

import "context"

// Repository defines the interface for membership plan persistence operations
type Repository interface {
	// Create creates a new membership plan
	Create(ctx context.Context, p *MembershipPlan) error

	// Get retrieves a membership plan by ID
	Get(ctx context.Context, id string) (*MembershipPlan, error)

	// ListByWorkshop retrieves the plans offered for a workshop
	ListByWorkshop(ctx context.Context, workshopID string) ([]*MembershipPlan, error)
}

package member

import (
	"context"

	"github.com/clubbill/clubbill/internal/types"
)

// Repository defines the interface for member persistence operations
type Repository interface {
	// Create creates a new member
	Create(ctx context.Context, m *Member) error

	// Get retrieves a member by ID
	Get(ctx context.Context, id string) (*Member, error)

	// Update updates an existing member
	Update(ctx context.Context, m *Member) error

	// List retrieves members based on filter criteria
	List(ctx context.Context, filter *types.QueryFilter) ([]*Member, error)
}

package workshop

import (
	"context"

	"github.com/clubbill/clubbill/internal/types"
)

// Repository defines the interface for workshop persistence operations
type Repository interface {
	// Create creates a new workshop
	Create(ctx context.Context, w *Workshop) error

	// Get retrieves a workshop by ID
	Get(ctx context.Context, id string) (*Workshop, error)

	// List retrieves workshops based on filter criteria
	List(ctx context.Context, filter *types.QueryFilter) ([]*Workshop, error)
}

package testutil

import (
	"context"

	"github.com/clubbill/clubbill/internal/domain/plan"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.MembershipPlan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.MembershipPlan](),
	}
}

func copyPlan(p *plan.MembershipPlan) *plan.MembershipPlan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.MembershipPlan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("plan %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.MembershipPlan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHintf("plan %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) ListByWorkshop(ctx context.Context, workshopID string) ([]*plan.MembershipPlan, error) {
	filterFn := func(ctx context.Context, p *plan.MembershipPlan, _ interface{}) bool {
		return p.WorkshopID == workshopID && p.Status != types.StatusDeleted
	}

	sortFn := func(i, j *plan.MembershipPlan) bool {
		return i.Name < j.Name
	}

	plans, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*plan.MembershipPlan, len(plans))
	for i, p := range plans {
		result[i] = copyPlan(p)
	}
	return result, nil
}

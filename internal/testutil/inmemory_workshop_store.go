package testutil

import (
	"context"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/types"
)

// InMemoryWorkshopStore implements workshop.Repository
type InMemoryWorkshopStore struct {
	*InMemoryStore[*workshop.Workshop]
}

func NewInMemoryWorkshopStore() *InMemoryWorkshopStore {
	return &InMemoryWorkshopStore{
		InMemoryStore: NewInMemoryStore[*workshop.Workshop](),
	}
}

func copyWorkshop(w *workshop.Workshop) *workshop.Workshop {
	if w == nil {
		return nil
	}
	copied := *w
	return &copied
}

func (s *InMemoryWorkshopStore) Create(ctx context.Context, w *workshop.Workshop) error {
	if w == nil {
		return ierr.NewError("workshop cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Create(ctx, w.ID, copyWorkshop(w))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("workshop %s already exists", w.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryWorkshopStore) Get(ctx context.Context, id string) (*workshop.Workshop, error) {
	w, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("workshop not found").
			WithHintf("workshop %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyWorkshop(w), nil
}

func (s *InMemoryWorkshopStore) List(ctx context.Context, filter *types.QueryFilter) ([]*workshop.Workshop, error) {
	filterFn := func(ctx context.Context, w *workshop.Workshop, f interface{}) bool {
		qf, ok := f.(*types.QueryFilter)
		if !ok || qf == nil {
			return w.Status != types.StatusDeleted
		}
		return w.Status == qf.GetStatus()
	}

	sortFn := func(i, j *workshop.Workshop) bool {
		return i.Number < j.Number
	}

	workshops, err := s.InMemoryStore.List(ctx, filter, filterFn, sortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*workshop.Workshop, len(workshops))
	for i, w := range workshops {
		result[i] = copyWorkshop(w)
	}
	return result, nil
}

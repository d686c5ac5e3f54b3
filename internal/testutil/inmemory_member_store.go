package testutil

import (
	"context"

	"github.com/clubbill/clubbill/internal/domain/member"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
)

// InMemoryMemberStore implements member.Repository
type InMemoryMemberStore struct {
	*InMemoryStore[*member.Member]
}

func NewInMemoryMemberStore() *InMemoryMemberStore {
	return &InMemoryMemberStore{
		InMemoryStore: NewInMemoryStore[*member.Member](),
	}
}

func copyMember(m *member.Member) *member.Member {
	if m == nil {
		return nil
	}
	copied := *m
	return &copied
}

func (s *InMemoryMemberStore) Create(ctx context.Context, m *member.Member) error {
	if m == nil {
		return ierr.NewError("member cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Create(ctx, m.ID, copyMember(m))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("member %s already exists", m.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryMemberStore) Get(ctx context.Context, id string) (*member.Member, error) {
	m, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("member not found").
			WithHintf("member %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyMember(m), nil
}

func (s *InMemoryMemberStore) Update(ctx context.Context, m *member.Member) error {
	if m == nil {
		return ierr.NewError("member cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Update(ctx, m.ID, copyMember(m))
	if err != nil {
		return ierr.NewError("member not found").
			WithHintf("member %s was not found", m.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryMemberStore) List(ctx context.Context, filter *types.QueryFilter) ([]*member.Member, error) {
	filterFn := func(ctx context.Context, m *member.Member, f interface{}) bool {
		qf, ok := f.(*types.QueryFilter)
		if !ok || qf == nil {
			return m.Status != types.StatusDeleted
		}
		return m.Status == qf.GetStatus()
	}

	sortFn := func(i, j *member.Member) bool {
		return i.Number < j.Number
	}

	members, err := s.InMemoryStore.List(ctx, filter, filterFn, sortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*member.Member, len(members))
	for i, m := range members {
		result[i] = copyMember(m)
	}
	return result, nil
}

package testutil

import (
	"context"
	"sort"

	"github.com/clubbill/clubbill/internal/domain/enrollment"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryEnrollmentStore implements enrollment.Repository. Relations are
// resolved against the sibling member, workshop and plan stores the way the
// postgres implementation joins them.
type InMemoryEnrollmentStore struct {
	*InMemoryStore[*enrollment.Enrollment]

	members   *InMemoryMemberStore
	workshops *InMemoryWorkshopStore
	plans     *InMemoryPlanStore
}

func NewInMemoryEnrollmentStore(members *InMemoryMemberStore, workshops *InMemoryWorkshopStore, plans *InMemoryPlanStore) *InMemoryEnrollmentStore {
	return &InMemoryEnrollmentStore{
		InMemoryStore: NewInMemoryStore[*enrollment.Enrollment](),
		members:       members,
		workshops:     workshops,
		plans:         plans,
	}
}

func copyEnrollment(e *enrollment.Enrollment) *enrollment.Enrollment {
	if e == nil {
		return nil
	}
	copied := *e
	return &copied
}

func (s *InMemoryEnrollmentStore) Create(ctx context.Context, e *enrollment.Enrollment) error {
	if e == nil {
		return ierr.NewError("enrollment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Create(ctx, e.ID, copyEnrollment(e))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("enrollment %s already exists", e.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryEnrollmentStore) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	e, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || e.Status == types.StatusDeleted {
		return nil, ierr.NewError("enrollment not found").
			WithHintf("enrollment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyEnrollment(e), nil
}

func (s *InMemoryEnrollmentStore) GetWithRelations(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadRelations(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *InMemoryEnrollmentStore) Update(ctx context.Context, e *enrollment.Enrollment) error {
	if e == nil {
		return ierr.NewError("enrollment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Update(ctx, e.ID, copyEnrollment(e))
	if err != nil {
		return ierr.NewError("enrollment not found").
			WithHintf("enrollment %s was not found", e.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryEnrollmentStore) ListBillable(ctx context.Context, filter enrollment.BillableFilter) ([]*enrollment.Enrollment, error) {
	filterFn := func(ctx context.Context, e *enrollment.Enrollment, _ interface{}) bool {
		if e.Status != types.StatusPublished {
			return false
		}
		if len(filter.MemberIDs) > 0 && !lo.Contains(filter.MemberIDs, e.MemberID) {
			return false
		}
		return true
	}

	enrollments, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}

	result := make([]*enrollment.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		copied := copyEnrollment(e)
		if err := s.loadRelations(ctx, copied); err != nil {
			return nil, err
		}
		// deleted relations fall out of the scheduler the same way the
		// join drops them
		if copied.Member == nil || copied.Workshop == nil {
			continue
		}
		result = append(result, copied)
	}
	sortEnrollments(result)
	return result, nil
}

func (s *InMemoryEnrollmentStore) ListByMember(ctx context.Context, memberID string) ([]*enrollment.Enrollment, error) {
	filterFn := func(ctx context.Context, e *enrollment.Enrollment, _ interface{}) bool {
		return e.MemberID == memberID && e.Status != types.StatusDeleted
	}

	enrollments, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}

	result := make([]*enrollment.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		copied := copyEnrollment(e)
		if err := s.loadRelations(ctx, copied); err != nil {
			return nil, err
		}
		result = append(result, copied)
	}
	sortEnrollments(result)
	return result, nil
}

func (s *InMemoryEnrollmentStore) loadRelations(ctx context.Context, e *enrollment.Enrollment) error {
	if m, err := s.members.Get(ctx, e.MemberID); err == nil && m.Status != types.StatusDeleted {
		e.Member = m
	}
	if w, err := s.workshops.Get(ctx, e.WorkshopID); err == nil && w.Status != types.StatusDeleted {
		e.Workshop = w
	}
	if e.PlanID != nil {
		if p, err := s.plans.Get(ctx, *e.PlanID); err == nil {
			e.Plan = p
		}
	}
	return nil
}

func sortEnrollments(enrollments []*enrollment.Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollmentLess(enrollments[i], enrollments[j])
	})
}

func enrollmentLess(a, b *enrollment.Enrollment) bool {
	an, bn := 0, 0
	if a.Member != nil {
		an = a.Member.Number
	}
	if b.Member != nil {
		bn = b.Member.Number
	}
	if an != bn {
		return an < bn
	}
	aw, bw := 0, 0
	if a.Workshop != nil {
		aw = a.Workshop.Number
	}
	if b.Workshop != nil {
		bw = b.Workshop.Number
	}
	return aw < bw
}

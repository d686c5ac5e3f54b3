package service

import (
	"context"

	"github.com/clubbill/clubbill/internal/api/dto"
	"github.com/clubbill/clubbill/internal/types"
)

// MembershipService is the read surface over members, workshops and
// enrollments the billing UI needs.
type MembershipService interface {
	GetMember(ctx context.Context, id string) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, filter *types.QueryFilter) (*dto.ListMembersResponse, error)
	ListWorkshops(ctx context.Context, filter *types.QueryFilter) (*dto.ListWorkshopsResponse, error)
	ListWorkshopPlans(ctx context.Context, workshopID string) (*dto.ListPlansResponse, error)
	ListEnrollments(ctx context.Context, memberID string) (*dto.ListEnrollmentsResponse, error)
}

type membershipService struct {
	ServiceParams
}

func NewMembershipService(params ServiceParams) MembershipService {
	return &membershipService{ServiceParams: params}
}

func (s *membershipService) GetMember(ctx context.Context, id string) (*dto.MemberResponse, error) {
	m, err := s.MemberRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewMemberResponse(m), nil
}

func (s *membershipService) ListMembers(ctx context.Context, filter *types.QueryFilter) (*dto.ListMembersResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	members, err := s.MemberRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListMembersResponse{
		Items: make([]*dto.MemberResponse, len(members)),
		Total: len(members),
	}
	for i, m := range members {
		resp.Items[i] = dto.NewMemberResponse(m)
	}
	return resp, nil
}

func (s *membershipService) ListWorkshops(ctx context.Context, filter *types.QueryFilter) (*dto.ListWorkshopsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	workshops, err := s.WorkshopRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListWorkshopsResponse{
		Items: make([]*dto.WorkshopResponse, len(workshops)),
		Total: len(workshops),
	}
	for i, w := range workshops {
		resp.Items[i] = dto.NewWorkshopResponse(w)
	}
	return resp, nil
}

func (s *membershipService) ListWorkshopPlans(ctx context.Context, workshopID string) (*dto.ListPlansResponse, error) {
	if _, err := s.WorkshopRepo.Get(ctx, workshopID); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPlansResponse{
		Items: make([]*dto.PlanResponse, len(plans)),
		Total: len(plans),
	}
	for i, p := range plans {
		resp.Items[i] = dto.NewPlanResponse(p)
	}
	return resp, nil
}

func (s *membershipService) ListEnrollments(ctx context.Context, memberID string) (*dto.ListEnrollmentsResponse, error) {
	enrollments, err := s.EnrollmentRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListEnrollmentsResponse{
		Items: make([]*dto.EnrollmentResponse, len(enrollments)),
		Total: len(enrollments),
	}
	for i, e := range enrollments {
		resp.Items[i] = dto.NewEnrollmentResponse(e)
	}
	return resp, nil
}

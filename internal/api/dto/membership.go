package dto

import (
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/shopspring/decimal"
)

// MemberResponse is the API shape of a member
type MemberResponse struct {
	*member.Member
	FullName string `json:"full_name"`
}

func NewMemberResponse(m *member.Member) *MemberResponse {
	return &MemberResponse{Member: m, FullName: m.FullName()}
}

// ListMembersResponse is a paginated member list
type ListMembersResponse struct {
	Items []*MemberResponse `json:"items"`
	Total int               `json:"total"`
}

// WorkshopResponse is the API shape of a workshop
type WorkshopResponse struct {
	*workshop.Workshop
}

func NewWorkshopResponse(w *workshop.Workshop) *WorkshopResponse {
	return &WorkshopResponse{Workshop: w}
}

// ListWorkshopsResponse is a workshop list
type ListWorkshopsResponse struct {
	Items []*WorkshopResponse `json:"items"`
	Total int                 `json:"total"`
}

// PlanResponse is the API shape of a membership plan
type PlanResponse struct {
	*plan.MembershipPlan
	EffectiveFee decimal.Decimal `json:"effective_fee"`
}

func NewPlanResponse(p *plan.MembershipPlan) *PlanResponse {
	return &PlanResponse{MembershipPlan: p, EffectiveFee: p.EffectiveFee()}
}

// ListPlansResponse is a plan list for one workshop
type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
	Total int             `json:"total"`
}

// EnrollmentResponse is the API shape of an enrollment with its relations
type EnrollmentResponse struct {
	*enrollment.Enrollment
	MemberName   string `json:"member_name,omitempty"`
	WorkshopName string `json:"workshop_name,omitempty"`
}

func NewEnrollmentResponse(e *enrollment.Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{Enrollment: e}
	if e.Member != nil {
		resp.MemberName = e.Member.FullName()
	}
	if e.Workshop != nil {
		resp.WorkshopName = e.Workshop.Name
	}
	return resp
}

// ListEnrollmentsResponse is an enrollment list
type ListEnrollmentsResponse struct {
	Items []*EnrollmentResponse `json:"items"`
	Total int                   `json:"total"`
}

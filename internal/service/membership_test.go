package service

import (
	"testing"

	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/testutil"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MembershipServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MembershipService
}

func TestMembershipService(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}

func (s *MembershipServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewMembershipService(ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		Clock:          s.GetClock(),
		MemberRepo:     s.GetStores().MemberRepo,
		WorkshopRepo:   s.GetStores().WorkshopRepo,
		PlanRepo:       s.GetStores().PlanRepo,
		EnrollmentRepo: s.GetStores().EnrollmentRepo,
		InvoiceRepo:    s.GetStores().InvoiceRepo,
	})
}

func (s *MembershipServiceSuite) createWorkshop(id string, number int, name string) *workshop.Workshop {
	w := &workshop.Workshop{
		ID:        id,
		Number:    number,
		Name:      name,
		Type:      types.WorkshopTypeGroup,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().WorkshopRepo.Create(s.GetContext(), w))
	return w
}

func (s *MembershipServiceSuite) TestListWorkshopPlans() {
	w := s.createWorkshop("wks_3", 3, "Choir")
	other := s.createWorkshop("wks_4", 4, "Painting")

	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), &plan.MembershipPlan{
		ID:         "plan_monthly",
		WorkshopID: w.ID,
		Name:       "Monthly",
		Frequency:  types.BillingFrequencyMonthly,
		Fee:        decimal.NewFromInt(40),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), &plan.MembershipPlan{
		ID:         "plan_annual",
		WorkshopID: w.ID,
		Name:       "Annual",
		Frequency:  types.BillingFrequencyAnnual,
		Fee:        decimal.NewFromInt(40),
		TotalFee:   decimal.NewFromInt(400),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), &plan.MembershipPlan{
		ID:         "plan_other",
		WorkshopID: other.ID,
		Name:       "Monthly",
		Frequency:  types.BillingFrequencyMonthly,
		Fee:        decimal.NewFromInt(30),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	resp, err := s.service.ListWorkshopPlans(s.GetContext(), w.ID)
	s.NoError(err)
	s.Equal(2, resp.Total)
	for _, p := range resp.Items {
		s.Equal(w.ID, p.WorkshopID)
	}

	// the annual plan quotes its total fee
	s.Equal("plan_annual", resp.Items[0].ID)
	s.True(resp.Items[0].EffectiveFee.Equal(decimal.NewFromInt(400)))
	s.True(resp.Items[1].EffectiveFee.Equal(decimal.NewFromInt(40)))
}

func (s *MembershipServiceSuite) TestListWorkshopPlansUnknownWorkshop() {
	_, err := s.service.ListWorkshopPlans(s.GetContext(), "wks_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *MembershipServiceSuite) TestListWorkshopPlansEmpty() {
	w := s.createWorkshop("wks_5", 5, "Sculpture")

	resp, err := s.service.ListWorkshopPlans(s.GetContext(), w.ID)
	s.NoError(err)
	s.Equal(0, resp.Total)
	s.Empty(resp.Items)
}

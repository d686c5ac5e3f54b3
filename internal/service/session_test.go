package service

import (
	"testing"
	"time"

	"github.com/clubbill/clubbill/internal/api/dto"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/testutil"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SessionInvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SessionInvoiceService
	testData struct {
		member     *member.Member
		counseling *workshop.Workshop
		group      *workshop.Workshop
		groupPlan  *plan.MembershipPlan
	}
}

func TestSessionInvoiceService(t *testing.T) {
	suite.Run(t, new(SessionInvoiceServiceSuite))
}

func (s *SessionInvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSessionInvoiceService(ServiceParams{
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
	s.setupTestData()
}

func (s *SessionInvoiceServiceSuite) setupTestData() {
	s.GetClock().SetTime(time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC))

	s.testData.member = &member.Member{
		ID:        "mem_7",
		Number:    7,
		FirstName: "Iva",
		LastName:  "Horvat",
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MemberRepo.Create(s.GetContext(), s.testData.member))

	s.testData.counseling = &workshop.Workshop{
		ID:        "wks_9",
		Number:    9,
		Name:      "Individual Counseling",
		Type:      types.WorkshopTypeIndividualCounseling,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().WorkshopRepo.Create(s.GetContext(), s.testData.counseling))

	s.testData.group = &workshop.Workshop{
		ID:        "wks_2",
		Number:    2,
		Name:      "Art Group",
		Type:      types.WorkshopTypeGroup,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().WorkshopRepo.Create(s.GetContext(), s.testData.group))

	s.testData.groupPlan = &plan.MembershipPlan{
		ID:         "plan_2",
		WorkshopID: s.testData.group.ID,
		Name:       "Art Monthly",
		Frequency:  types.BillingFrequencyMonthly,
		Fee:        decimal.NewFromInt(40),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.groupPlan))
}

func (s *SessionInvoiceServiceSuite) request() dto.CreateSessionInvoiceRequest {
	return dto.CreateSessionInvoiceRequest{
		MemberID:    s.testData.member.ID,
		WorkshopID:  s.testData.counseling.ID,
		SessionDate: "2025-10-10",
	}
}

func (s *SessionInvoiceServiceSuite) enrollInGroup() {
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), &enrollment.Enrollment{
		ID:         "enr_group",
		MemberID:   s.testData.member.ID,
		WorkshopID: s.testData.group.ID,
		PlanID:     lo.ToPtr(s.testData.groupPlan.ID),
		StartDate:  lo.ToPtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *SessionInvoiceServiceSuite) TestGenerateStandardRate() {
	resp, err := s.service.Generate(s.GetContext(), s.request())
	s.NoError(err)
	s.Equal(types.InvoiceTypeSession, resp.InvoiceType)
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(60)))
	s.Equal("2025-2026", resp.SchoolYear)
	s.NotNil(resp.SessionDate)
	s.Equal(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), *resp.SessionDate)
	s.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), resp.DueDate)
}

func (s *SessionInvoiceServiceSuite) TestGenerateReducedRateWithGroupEnrollment() {
	s.enrollInGroup()

	resp, err := s.service.Generate(s.GetContext(), s.request())
	s.NoError(err)
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(45)))
}

func (s *SessionInvoiceServiceSuite) TestGenerateStandardRateWhenGroupEnrollmentEnded() {
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), &enrollment.Enrollment{
		ID:         "enr_group_old",
		MemberID:   s.testData.member.ID,
		WorkshopID: s.testData.group.ID,
		PlanID:     lo.ToPtr(s.testData.groupPlan.ID),
		StartDate:  lo.ToPtr(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:    lo.ToPtr(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	resp, err := s.service.Generate(s.GetContext(), s.request())
	s.NoError(err)
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(60)))
}

func (s *SessionInvoiceServiceSuite) TestGenerateExplicitAmountWins() {
	s.enrollInGroup()

	req := s.request()
	req.Amount = lo.ToPtr(decimal.NewFromInt(80))
	resp, err := s.service.Generate(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.AmountDue.Equal(decimal.NewFromInt(80)))
}

func (s *SessionInvoiceServiceSuite) TestGenerateNoMonthlyIdempotencyGate() {
	first, err := s.service.Generate(s.GetContext(), s.request())
	s.NoError(err)
	second, err := s.service.Generate(s.GetContext(), s.request())
	s.NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Equal("202510-009007-001", first.ReferenceCode)
	s.Equal("202510-009007-002", second.ReferenceCode)
}

func (s *SessionInvoiceServiceSuite) TestGenerateRejectsGroupWorkshop() {
	req := s.request()
	req.WorkshopID = s.testData.group.ID

	_, err := s.service.Generate(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SessionInvoiceServiceSuite) TestGenerateRejectsUnknownMember() {
	req := s.request()
	req.MemberID = "mem_missing"

	_, err := s.service.Generate(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SessionInvoiceServiceSuite) TestGenerateRejectsMalformedDate() {
	req := s.request()
	req.SessionDate = "10.10.2025"

	_, err := s.service.Generate(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SessionInvoiceServiceSuite) TestPreviewDoesNotWrite() {
	s.enrollInGroup()

	preview, err := s.service.Preview(s.GetContext(), s.request())
	s.NoError(err)
	s.True(preview.Amount.Equal(decimal.NewFromInt(45)))
	s.True(preview.ReducedRate)
	s.Equal("Iva Horvat", preview.MemberName)
	s.Equal("2025-2026", preview.SchoolYear)

	count, err := s.GetStores().InvoiceRepo.Count(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *SessionInvoiceServiceSuite) TestCalculateDefaultAmount() {
	amount, reduced, err := s.service.CalculateDefaultAmount(s.GetContext(), s.testData.member.ID, s.testData.counseling.ID)
	s.NoError(err)
	s.False(reduced)
	s.True(amount.Equal(decimal.NewFromInt(60)))

	s.enrollInGroup()

	amount, reduced, err = s.service.CalculateDefaultAmount(s.GetContext(), s.testData.member.ID, s.testData.counseling.ID)
	s.NoError(err)
	s.True(reduced)
	s.True(amount.Equal(decimal.NewFromInt(45)))
}

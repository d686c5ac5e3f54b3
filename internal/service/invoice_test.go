package service

import (
	"testing"
	"time"

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

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     InvoiceService
	invoiceRepo *testutil.InMemoryInvoiceStore
	testData    struct {
		member     *member.Member
		workshop   *workshop.Workshop
		plan       *plan.MembershipPlan
		enrollment *enrollment.Enrollment
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService() {
	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)
	s.service = NewInvoiceService(s.serviceParams())
}

func (s *InvoiceServiceSuite) serviceParams() ServiceParams {
	return ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		Clock:          s.GetClock(),
		MemberRepo:     s.GetStores().MemberRepo,
		WorkshopRepo:   s.GetStores().WorkshopRepo,
		PlanRepo:       s.GetStores().PlanRepo,
		EnrollmentRepo: s.GetStores().EnrollmentRepo,
		InvoiceRepo:    s.invoiceRepo,
	}
}

func (s *InvoiceServiceSuite) setupTestData() {
	s.BaseServiceTestSuite.ClearStores()
	s.GetClock().SetTime(time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC))

	s.testData.member = &member.Member{
		ID:        "mem_5",
		Number:    5,
		FirstName: "Ana",
		LastName:  "Kovac",
		Email:     "ana@example.com",
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MemberRepo.Create(s.GetContext(), s.testData.member))

	s.testData.workshop = &workshop.Workshop{
		ID:        "wks_1",
		Number:    1,
		Name:      "Drama Group",
		Type:      types.WorkshopTypeGroup,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().WorkshopRepo.Create(s.GetContext(), s.testData.workshop))

	s.testData.plan = &plan.MembershipPlan{
		ID:         "plan_1",
		WorkshopID: s.testData.workshop.ID,
		Name:       "Drama Monthly",
		Frequency:  types.BillingFrequencyMonthly,
		Fee:        decimal.NewFromInt(50),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.plan))

	s.testData.enrollment = &enrollment.Enrollment{
		ID:         "enr_1",
		MemberID:   s.testData.member.ID,
		WorkshopID: s.testData.workshop.ID,
		PlanID:     lo.ToPtr(s.testData.plan.ID),
		StartDate:  lo.ToPtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), s.testData.enrollment))
}

func (s *InvoiceServiceSuite) month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InvoiceServiceSuite) TestGenerateForMonth() {
	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(1, result.Generated)
	s.Equal(0, result.Skipped)
	s.Empty(result.Errors)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(invoices, 1)

	inv := invoices[0]
	s.Equal("202509-001005-001", inv.ReferenceCode)
	s.Equal("2025-2026", inv.SchoolYear)
	s.Equal(types.InvoiceTypeMembership, inv.InvoiceType)
	s.Equal(types.PaymentStatusOpen, inv.PaymentStatus)
	s.True(inv.AmountDue.Equal(decimal.NewFromInt(50)))
	s.True(inv.AmountPaid.IsZero())
	s.Equal(s.month(2025, time.September), inv.DueDate)
}

func (s *InvoiceServiceSuite) TestGenerateForMonthIsIdempotent() {
	first, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(1, first.Generated)

	second, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(0, second.Generated)
	s.Equal(1, second.Skipped)
	s.Empty(second.Errors)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Equal(1, count)
}

func (s *InvoiceServiceSuite) TestGenerateForMonthUsesTotalFee() {
	s.testData.plan.TotalFee = decimal.NewFromInt(450)
	s.GetStores().PlanRepo.(*testutil.InMemoryPlanStore).Clear()
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.plan))

	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(1, result.Generated)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(invoices, 1)
	s.True(invoices[0].AmountDue.Equal(decimal.NewFromInt(450)))
}

func (s *InvoiceServiceSuite) TestGenerateForMonthMemberFilter() {
	other := &member.Member{
		ID:        "mem_6",
		Number:    6,
		FirstName: "Marko",
		LastName:  "Novak",
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MemberRepo.Create(s.GetContext(), other))
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), &enrollment.Enrollment{
		ID:         "enr_2",
		MemberID:   other.ID,
		WorkshopID: s.testData.workshop.ID,
		PlanID:     lo.ToPtr(s.testData.plan.ID),
		StartDate:  lo.ToPtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), []string{other.ID})
	s.NoError(err)
	s.Equal(1, result.Generated)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(invoices, 1)
	s.Equal(other.ID, invoices[0].MemberID)
}

func (s *InvoiceServiceSuite) TestGenerateForMonthSkipsInactiveMember() {
	s.testData.member.Active = false
	s.NoError(s.GetStores().MemberRepo.Update(s.GetContext(), s.testData.member))

	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(0, result.Generated)
	s.Equal(1, result.Skipped)
}

func (s *InvoiceServiceSuite) TestGenerateForMonthEnrollmentWindow() {
	s.testData.enrollment.EndDate = lo.ToPtr(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
	s.NoError(s.GetStores().EnrollmentRepo.Update(s.GetContext(), s.testData.enrollment))

	// before the start month
	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.August), nil)
	s.NoError(err)
	s.Equal(0, result.Generated)
	s.Equal(1, result.Skipped)

	// last covered month
	result, err = s.service.GenerateForMonth(s.GetContext(), s.month(2026, time.June), nil)
	s.NoError(err)
	s.Equal(1, result.Generated)

	// past the end date
	result, err = s.service.GenerateForMonth(s.GetContext(), s.month(2026, time.July), nil)
	s.NoError(err)
	s.Equal(0, result.Generated)
	s.Equal(1, result.Skipped)
}

func (s *InvoiceServiceSuite) TestGenerateForMonthContinuesPastCorruptPlan() {
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), &enrollment.Enrollment{
		ID:         "enr_corrupt",
		MemberID:   s.testData.member.ID,
		WorkshopID: s.testData.workshop.ID,
		PlanID:     lo.ToPtr("plan_gone"),
		StartDate:  lo.ToPtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Len(result.Errors, 1)
	s.Equal("enr_corrupt", result.Errors[0].EnrollmentID)
	s.Equal(1, result.Generated)
}

func (s *InvoiceServiceSuite) TestPreviewForMonthDoesNotWrite() {
	items, err := s.service.PreviewForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Len(items, 1)
	s.True(items[0].WouldGenerate)
	s.False(items[0].AlreadyExists)
	s.True(items[0].Amount.Equal(decimal.NewFromInt(50)))
	s.Equal("Ana Kovac", items[0].MemberName)
	s.Equal("Drama Group", items[0].WorkshopName)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *InvoiceServiceSuite) TestPreviewForMonthReportsExisting() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	items, err := s.service.PreviewForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Len(items, 1)
	s.False(items[0].WouldGenerate)
	s.True(items[0].AlreadyExists)
	s.NotEmpty(items[0].Reason)
}

func (s *InvoiceServiceSuite) TestPreviewForMonthReportsCorruptPlan() {
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), &enrollment.Enrollment{
		ID:         "enr_corrupt",
		MemberID:   s.testData.member.ID,
		WorkshopID: s.testData.workshop.ID,
		PlanID:     lo.ToPtr("plan_gone"),
		StartDate:  lo.ToPtr(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	items, err := s.service.PreviewForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Len(items, 2)

	for _, item := range items {
		if item.EnrollmentID == "enr_corrupt" {
			s.False(item.WouldGenerate)
			s.NotEmpty(item.Reason)
		} else {
			s.True(item.WouldGenerate)
		}
	}

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *InvoiceServiceSuite) TestGenerateHistoricalMonthly() {
	created, err := s.service.GenerateHistorical(
		s.GetContext(),
		s.testData.enrollment.ID,
		s.month(2025, time.September),
		s.month(2025, time.December),
	)
	s.NoError(err)
	s.Len(created, 4)
	for i, inv := range created {
		s.Equal(s.month(2025, time.September).AddDate(0, i, 0), inv.DueDate)
	}
}

func (s *InvoiceServiceSuite) TestGenerateHistoricalSkipsExistingMonths() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.October), nil)
	s.NoError(err)

	created, err := s.service.GenerateHistorical(
		s.GetContext(),
		s.testData.enrollment.ID,
		s.month(2025, time.September),
		s.month(2025, time.December),
	)
	s.NoError(err)
	s.Len(created, 3)
	for _, inv := range created {
		s.NotEqual(s.month(2025, time.October), inv.DueDate)
	}
}

func (s *InvoiceServiceSuite) TestGenerateHistoricalSemiAnnualStepsFromStart() {
	s.testData.plan.Frequency = types.BillingFrequencySemiAnnual
	s.GetStores().PlanRepo.(*testutil.InMemoryPlanStore).Clear()
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.plan))

	created, err := s.service.GenerateHistorical(
		s.GetContext(),
		s.testData.enrollment.ID,
		s.month(2025, time.September),
		s.month(2026, time.September),
	)
	s.NoError(err)
	s.Len(created, 3)
	s.Equal(s.month(2025, time.September), created[0].DueDate)
	s.Equal(s.month(2026, time.March), created[1].DueDate)
	s.Equal(s.month(2026, time.September), created[2].DueDate)
}

func (s *InvoiceServiceSuite) TestGenerateHistoricalClipsToWindow() {
	s.testData.enrollment.EndDate = lo.ToPtr(time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC))
	s.NoError(s.GetStores().EnrollmentRepo.Update(s.GetContext(), s.testData.enrollment))

	created, err := s.service.GenerateHistorical(
		s.GetContext(),
		s.testData.enrollment.ID,
		s.month(2025, time.September),
		s.month(2026, time.March),
	)
	s.NoError(err)
	s.Len(created, 3)
	s.Equal(s.month(2025, time.November), created[len(created)-1].DueDate)
}

func (s *InvoiceServiceSuite) TestDeleteForMonth() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	deleted, err := s.service.DeleteForMonth(s.GetContext(), s.month(2025, time.September))
	s.NoError(err)
	s.Equal(1, deleted)

	count, err := s.invoiceRepo.Count(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Equal(0, count)

	// nothing left to delete
	deleted, err = s.service.DeleteForMonth(s.GetContext(), s.month(2025, time.September))
	s.NoError(err)
	s.Equal(0, deleted)
}

func (s *InvoiceServiceSuite) TestRegenerateAfterDeleteAdvancesSequence() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	_, err = s.service.DeleteForMonth(s.GetContext(), s.month(2025, time.September))
	s.NoError(err)

	result, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	s.Equal(1, result.Generated)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(invoices, 1)
	s.Equal("202509-001005-002", invoices[0].ReferenceCode)
}

func (s *InvoiceServiceSuite) TestUpdatePaymentStatusPaid() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)
	s.Len(invoices, 1)

	open, err := s.service.GetInvoice(s.GetContext(), invoices[0].ID)
	s.NoError(err)
	s.True(open.AmountRemaining.Equal(open.AmountDue))

	resp, err := s.service.UpdatePaymentStatus(s.GetContext(), invoices[0].ID, types.PaymentStatusPaid, nil)
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, resp.PaymentStatus)
	s.True(resp.AmountPaid.Equal(resp.AmountDue))
	s.True(resp.AmountRemaining.IsZero())
}

func (s *InvoiceServiceSuite) TestUpdatePaymentStatusRejectsInvalidTransition() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)

	_, err = s.service.UpdatePaymentStatus(s.GetContext(), invoices[0].ID, types.PaymentStatusPaid, nil)
	s.NoError(err)

	_, err = s.service.UpdatePaymentStatus(s.GetContext(), invoices[0].ID, types.PaymentStatusCanceled, nil)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestUpdatePaymentStatusRejectsOverpayment() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)

	invoices, err := s.invoiceRepo.List(s.GetContext(), types.NewNoLimitInvoiceFilter())
	s.NoError(err)

	over := decimal.NewFromInt(999)
	_, err = s.service.UpdatePaymentStatus(s.GetContext(), invoices[0].ID, types.PaymentStatusPaid, &over)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesFilters() {
	_, err := s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.September), nil)
	s.NoError(err)
	_, err = s.service.GenerateForMonth(s.GetContext(), s.month(2025, time.October), nil)
	s.NoError(err)

	filter := types.NewNoLimitInvoiceFilter()
	filter.DueDateFrom = lo.ToPtr(s.month(2025, time.October))
	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(s.month(2025, time.October), resp.Items[0].DueDate)

	bySchoolYear := types.NewNoLimitInvoiceFilter()
	bySchoolYear.SchoolYear = "2025-2026"
	resp, err = s.service.ListInvoices(s.GetContext(), bySchoolYear)
	s.NoError(err)
	s.Equal(2, resp.Total)
}

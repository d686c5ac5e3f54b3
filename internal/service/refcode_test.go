package service

import (
	"testing"
	"time"

	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/testutil"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReferenceCodeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ReferenceCodeService
}

func TestReferenceCodeService(t *testing.T) {
	suite.Run(t, new(ReferenceCodeServiceSuite))
}

func (s *ReferenceCodeServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReferenceCodeService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		Clock:       s.GetClock(),
		InvoiceRepo: s.GetStores().InvoiceRepo,
	})
}

func (s *ReferenceCodeServiceSuite) TestFormat() {
	m := &member.Member{ID: "mem_5", Number: 5}
	w := &workshop.Workshop{ID: "wks_1", Number: 1}
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	code, err := s.service.GenerateReferenceCode(s.GetContext(), m, w, due)
	s.NoError(err)
	s.Equal("202501-001005-001", code)
}

func (s *ReferenceCodeServiceSuite) TestPadsLargeNumbers() {
	m := &member.Member{ID: "mem_123", Number: 123}
	w := &workshop.Workshop{ID: "wks_45", Number: 45}
	due := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	code, err := s.service.GenerateReferenceCode(s.GetContext(), m, w, due)
	s.NoError(err)
	s.Equal("202511-045123-001", code)
}

func (s *ReferenceCodeServiceSuite) TestSequenceIncrementsPerMonth() {
	m := &member.Member{ID: "mem_5", Number: 5}
	w := &workshop.Workshop{ID: "wks_1", Number: 1}
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.seedSessionInvoice(m.ID, w.ID, due)

	code, err := s.service.GenerateReferenceCode(s.GetContext(), m, w, due)
	s.NoError(err)
	s.Equal("202501-001005-002", code)

	// a different month starts its own sequence
	code, err = s.service.GenerateReferenceCode(s.GetContext(), m, w, due.AddDate(0, 1, 0))
	s.NoError(err)
	s.Equal("202502-001005-001", code)
}

func (s *ReferenceCodeServiceSuite) TestNilPartiesRejected() {
	_, err := s.service.GenerateReferenceCode(s.GetContext(), nil, nil, time.Now())
	s.Error(err)
}

// seedSessionInvoice stores a session invoice so the membership uniqueness
// guard does not interfere with sequence counting.
func (s *ReferenceCodeServiceSuite) seedSessionInvoice(memberID, workshopID string, due time.Time) {
	sessionDate := due
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		MemberID:      memberID,
		WorkshopID:    workshopID,
		InvoiceType:   types.InvoiceTypeSession,
		ReferenceCode: types.GenerateUUID(),
		SchoolYear:    types.SchoolYearForDate(due).Label,
		AmountDue:     decimal.NewFromInt(60),
		DueDate:       due,
		PaymentStatus: types.PaymentStatusOpen,
		SessionDate:   &sessionDate,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
}

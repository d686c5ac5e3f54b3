package testutil

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/config"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/clubbill/clubbill/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	MemberRepo     member.Repository
	WorkshopRepo   workshop.Repository
	PlanRepo       plan.Repository
	EnrollmentRepo enrollment.Repository
	InvoiceRepo    invoice.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	clock  *TestClock
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.db = NewMockPostgresClient(s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.clock = NewTestClock(time.Now().UTC())
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	members := NewInMemoryMemberStore()
	workshops := NewInMemoryWorkshopStore()
	plans := NewInMemoryPlanStore()

	s.stores = Stores{
		MemberRepo:     members,
		WorkshopRepo:   workshops,
		PlanRepo:       plans,
		EnrollmentRepo: NewInMemoryEnrollmentStore(members, workshops, plans),
		InvoiceRepo:    NewInMemoryInvoiceStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.MemberRepo.(*InMemoryMemberStore).Clear()
	s.stores.WorkshopRepo.(*InMemoryWorkshopStore).Clear()
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.EnrollmentRepo.(*InMemoryEnrollmentStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetDB returns the mock postgres client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetClock returns the test clock
func (s *BaseServiceTestSuite) GetClock() *TestClock {
	return s.clock
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.clock.Now().UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

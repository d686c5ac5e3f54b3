package service

import (
	"github.com/clubbill/clubbill/internal/config"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  types.Clock

	// Repositories
	MemberRepo     member.Repository
	WorkshopRepo   workshop.Repository
	PlanRepo       plan.Repository
	EnrollmentRepo enrollment.Repository
	InvoiceRepo    invoice.Repository
}

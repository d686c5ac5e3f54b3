package repository

import (
	"github.com/clubbill/clubbill/internal/cache"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	postgresRepo "github.com/clubbill/clubbill/internal/repository/postgres"
)

func NewMemberRepository(db *postgres.DB, logger *logger.Logger) member.Repository {
	return postgresRepo.NewMemberRepository(db, logger)
}

func NewWorkshopRepository(db *postgres.DB, logger *logger.Logger, c cache.Cache) workshop.Repository {
	return postgresRepo.NewWorkshopRepository(db, logger, c)
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, c cache.Cache) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger, c)
}

func NewEnrollmentRepository(db *postgres.DB, logger *logger.Logger) enrollment.Repository {
	return postgresRepo.NewEnrollmentRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

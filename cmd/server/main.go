package main

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/api"
	v1 "github.com/clubbill/clubbill/internal/api/v1"
	"github.com/clubbill/clubbill/internal/cache"
	"github.com/clubbill/clubbill/internal/config"
	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/invoice"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/repository"
	"github.com/clubbill/clubbill/internal/service"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/clubbill/clubbill/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title ClubBill API
// @version 1.0
// @description Membership billing service
// @BasePath /v1
// @schemes http

func init() {
	// the whole application runs in UTC
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.NewInMemoryCache,
			postgres.NewDB,
			types.NewRealClock,

			repository.NewMemberRepository,
			repository.NewWorkshopRepository,
			repository.NewPlanRepository,
			repository.NewEnrollmentRepository,
			repository.NewInvoiceRepository,

			provideServiceParams,
			service.NewInvoiceService,
			service.NewSessionInvoiceService,
			service.NewMembershipService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db *postgres.DB,
	clock types.Clock,
	memberRepo member.Repository,
	workshopRepo workshop.Repository,
	planRepo plan.Repository,
	enrollmentRepo enrollment.Repository,
	invoiceRepo invoice.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:         log,
		Config:         cfg,
		DB:             db,
		Clock:          clock,
		MemberRepo:     memberRepo,
		WorkshopRepo:   workshopRepo,
		PlanRepo:       planRepo,
		EnrollmentRepo: enrollmentRepo,
		InvoiceRepo:    invoiceRepo,
	}
}

func provideHandlers(
	cfg *config.Configuration,
	log *logger.Logger,
	clock types.Clock,
	invoiceService service.InvoiceService,
	sessionService service.SessionInvoiceService,
	membershipService service.MembershipService,
) api.Handlers {
	return api.Handlers{
		Invoice:    v1.NewInvoiceHandler(invoiceService, cfg, clock, log),
		Session:    v1.NewSessionInvoiceHandler(sessionService, log),
		Membership: v1.NewMembershipHandler(membershipService, log),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}

package api

import (
	"net/http"

	v1 "github.com/clubbill/clubbill/internal/api/v1"
	"github.com/clubbill/clubbill/internal/config"
	"github.com/clubbill/clubbill/internal/rest/middleware"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/gin-gonic/gin"
)

// Handlers groups the route handlers the router wires up
type Handlers struct {
	Invoice    *v1.InvoiceHandler
	Session    *v1.SessionInvoiceHandler
	Membership *v1.MembershipHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")
	{
		invoices := v1Group.Group("/invoices")
		{
			invoices.POST("/generate", handlers.Invoice.GenerateInvoices)
			invoices.POST("/preview", handlers.Invoice.PreviewInvoices)
			invoices.POST("/historical", handlers.Invoice.GenerateHistorical)
			invoices.DELETE("/months/:month", handlers.Invoice.DeleteMonth)

			invoices.POST("/session", handlers.Session.CreateSessionInvoice)
			invoices.POST("/session/preview", handlers.Session.PreviewSessionInvoice)

			invoices.GET("", handlers.Invoice.ListInvoices)
			invoices.GET("/:id", handlers.Invoice.GetInvoice)
			invoices.PUT("/:id/payment-status", handlers.Invoice.UpdatePaymentStatus)
		}

		v1Group.GET("/members", handlers.Membership.ListMembers)
		v1Group.GET("/members/:id", handlers.Membership.GetMember)
		v1Group.GET("/workshops", handlers.Membership.ListWorkshops)
		v1Group.GET("/workshops/:id/plans", handlers.Membership.ListWorkshopPlans)
		v1Group.GET("/enrollments", handlers.Membership.ListEnrollments)
	}

	return router
}

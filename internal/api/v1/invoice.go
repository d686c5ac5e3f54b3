package v1

import (
	"net/http"
	"time"

	"github.com/clubbill/clubbill/internal/api/dto"
	"github.com/clubbill/clubbill/internal/config"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/service"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	config         *config.Configuration
	clock          types.Clock
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, cfg *config.Configuration, clock types.Clock, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		config:         cfg,
		clock:          clock,
		logger:         logger,
	}
}

// GenerateInvoices godoc
// @Summary Generate membership invoices for a month
// @Description Run the monthly billing batch, optionally restricted to specific members
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoicesRequest true "Generation request"
// @Success 200 {object} dto.GenerationResult
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /invoices/generate [post]
func (h *InvoiceHandler) GenerateInvoices(c *gin.Context) {
	month, memberIDs, ok := h.bindGenerateRequest(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.GenerateForMonth(c.Request.Context(), month, memberIDs)
	if err != nil {
		h.logger.Errorw("failed to generate invoices", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PreviewInvoices godoc
// @Summary Preview a generation run
// @Description Report what the batch would do for a month without writing invoices
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoicesRequest true "Preview request"
// @Success 200 {array} dto.InvoicePreviewItem
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /invoices/preview [post]
func (h *InvoiceHandler) PreviewInvoices(c *gin.Context) {
	month, memberIDs, ok := h.bindGenerateRequest(c)
	if !ok {
		return
	}

	items, err := h.invoiceService.PreviewForMonth(c.Request.Context(), month, memberIDs)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GenerateHistorical godoc
// @Summary Backfill invoices for one enrollment
// @Description Generate the missing invoices for an enrollment across a month range
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateHistoricalRequest true "Backfill request"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /invoices/historical [post]
func (h *InvoiceHandler) GenerateHistorical(c *gin.Context) {
	var req dto.GenerateHistoricalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	from, _ := types.ParseMonth(req.From)
	to, _ := types.ParseMonth(req.To)
	if err := dto.ValidateMonthHorizon(to, h.clock.Now(), h.config.Billing.MaxFutureMonths); err != nil {
		c.Error(err)
		return
	}

	created, err := h.invoiceService.GenerateHistorical(c.Request.Context(), req.EnrollmentID, from, to)
	if err != nil {
		h.logger.Errorw("failed to backfill invoices", "error", err, "enrollment_id", req.EnrollmentID)
		c.Error(err)
		return
	}

	resp := &dto.ListInvoicesResponse{
		Items: make([]*dto.InvoiceResponse, len(created)),
		Total: len(created),
	}
	for i, inv := range created {
		resp.Items[i] = dto.NewInvoiceResponse(inv)
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMonth godoc
// @Summary Delete all invoices of a month
// @Description Bulk delete the invoices whose due date falls in the given month
// @Tags Invoices
// @Produce json
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} dto.DeleteMonthResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /invoices/months/{month} [delete]
func (h *InvoiceHandler) DeleteMonth(c *gin.Context) {
	month, err := types.ParseMonth(c.Param("month"))
	if err != nil {
		c.Error(err)
		return
	}

	deleted, err := h.invoiceService.DeleteForMonth(c.Request.Context(), month)
	if err != nil {
		h.logger.Errorw("failed to delete invoices for month", "error", err, "month", c.Param("month"))
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteMonthResponse{
		Month:   types.FormatMonth(month),
		Deleted: deleted,
	})
}

// GetInvoice godoc
// @Summary Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid invoice id").
			WithHint("invoice id is required").
			Mark(ierr.ErrValidation))
		return
	}

	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// ListInvoices godoc
// @Summary List invoices
// @Description List invoices with optional filtering
// @Tags Invoices
// @Produce json
// @Param filter query types.InvoiceFilter false "Filter"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filter types.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid filter parameters").Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdatePaymentStatus godoc
// @Summary Update an invoice's payment status
// @Description Move an invoice between payment states with amount bookkeeping
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.UpdatePaymentStatusRequest true "New status"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id}/payment-status [put]
func (h *InvoiceHandler) UpdatePaymentStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid invoice id").
			WithHint("invoice id is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.invoiceService.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindGenerateRequest parses the shared generate/preview request body and
// applies the future-horizon policy.
func (h *InvoiceHandler) bindGenerateRequest(c *gin.Context) (time.Time, []string, bool) {
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return time.Time{}, nil, false
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return time.Time{}, nil, false
	}

	month, err := req.ParsedMonth()
	if err != nil {
		c.Error(err)
		return time.Time{}, nil, false
	}
	if err := dto.ValidateMonthHorizon(month, h.clock.Now(), h.config.Billing.MaxFutureMonths); err != nil {
		c.Error(err)
		return time.Time{}, nil, false
	}
	return month, req.MemberIDs, true
}

package v1

import (
	"net/http"

	"github.com/clubbill/clubbill/internal/api/dto"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/service"
	"github.com/gin-gonic/gin"
)

type SessionInvoiceHandler struct {
	sessionService service.SessionInvoiceService
	logger         *logger.Logger
}

func NewSessionInvoiceHandler(sessionService service.SessionInvoiceService, logger *logger.Logger) *SessionInvoiceHandler {
	return &SessionInvoiceHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// CreateSessionInvoice godoc
// @Summary Create a session invoice
// @Description Issue a one-off invoice for an individual counseling session
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionInvoiceRequest true "Session details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/session [post]
func (h *SessionInvoiceHandler) CreateSessionInvoice(c *gin.Context) {
	var req dto.CreateSessionInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.sessionService.Generate(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create session invoice", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PreviewSessionInvoice godoc
// @Summary Preview a session invoice
// @Description Show the invoice a session request would create, including the rate tier
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionInvoiceRequest true "Session details"
// @Success 200 {object} dto.SessionInvoicePreview
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/session/preview [post]
func (h *SessionInvoiceHandler) PreviewSessionInvoice(c *gin.Context) {
	var req dto.CreateSessionInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.sessionService.Preview(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

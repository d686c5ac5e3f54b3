package v1

import (
	"net/http"

	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/service"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	logger            *logger.Logger
}

func NewMembershipHandler(membershipService service.MembershipService, logger *logger.Logger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		logger:            logger,
	}
}

// ListMembers godoc
// @Summary List members
// @Tags Members
// @Produce json
// @Success 200 {object} dto.ListMembersResponse
// @Router /members [get]
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid filter parameters").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.membershipService.ListMembers(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMember godoc
// @Summary Get a member by ID
// @Tags Members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /members/{id} [get]
func (h *MembershipHandler) GetMember(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid member id").
			WithHint("member id is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.membershipService.GetMember(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListWorkshops godoc
// @Summary List workshops
// @Tags Workshops
// @Produce json
// @Success 200 {object} dto.ListWorkshopsResponse
// @Router /workshops [get]
func (h *MembershipHandler) ListWorkshops(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid filter parameters").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.membershipService.ListWorkshops(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListWorkshopPlans godoc
// @Summary List the membership plans offered for a workshop
// @Tags Workshops
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} dto.ListPlansResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /workshops/{id}/plans [get]
func (h *MembershipHandler) ListWorkshopPlans(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid workshop id").
			WithHint("workshop id is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.membershipService.ListWorkshopPlans(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListEnrollments godoc
// @Summary List a member's enrollments
// @Tags Enrollments
// @Produce json
// @Param member_id query string true "Member ID"
// @Success 200 {object} dto.ListEnrollmentsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /enrollments [get]
func (h *MembershipHandler) ListEnrollments(c *gin.Context) {
	memberID := c.Query("member_id")
	if memberID == "" {
		c.Error(ierr.NewError("member_id is required").
			WithHint("pass member_id to list enrollments").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.membershipService.ListEnrollments(c.Request.Context(), memberID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webapp-template/auth-service/internal/dto"
	"github.com/webapp-template/auth-service/internal/service"
)

// WaitlistHandler handles pre-launch waitlist signups
type WaitlistHandler struct {
	waitlistService service.WaitlistService
}

// NewWaitlistHandler creates a new waitlist handler
func NewWaitlistHandler(waitlistService service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService}
}

// Join adds an email to the waitlist
// @Summary Join the waitlist
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body dto.WaitlistRequest true "Waitlist request"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req dto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	if _, err := h.waitlistService.Join(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "You have been added to the waitlist.",
	})
}

// List returns all waitlist entries (admin only)
// @Summary List waitlist entries
// @Tags waitlist
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.WaitlistEntry
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	entries, err := h.waitlistService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

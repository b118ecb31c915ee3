package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// ProfileHandler provides HTTP handlers for the profile routes.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile requests.
//
// @Summary      Get profile
// @Description  Returns the caller's planning defaults.
// @Tags         Profile
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Success      200 {object} dto.SuccessResponse{data=model.Profile} "Profile"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "User not found"
// @Security     BearerAuth
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)

	profile, err := h.profiles.Get(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(profile)
}

// Update handles PUT /api/profile requests.
//
// @Summary      Update profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        request body dto.ProfileRequest true "Profile"
// @Success      200 {object} dto.SuccessResponse{data=model.Profile} "Updated profile"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid profile"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Security     BearerAuth
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.ProfileRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), middleware.GetSession(c), req.ToProfile())
	if err != nil {
		builder.Fail(err)
		return
	}

	audit(c, model.ActionProfileUpdate, "Profile updated", map[string]any{
		"family_size": profile.FamilySize,
	})
	builder.SuccessOK(profile)
}

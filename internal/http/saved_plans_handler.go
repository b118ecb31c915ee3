package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedPlansHandler provides HTTP handlers for the saved plan routes.
type SavedPlansHandler struct {
	savedPlans service.SavedPlanService
}

// NewSavedPlansHandler creates a new SavedPlansHandler instance.
func NewSavedPlansHandler(savedPlans service.SavedPlanService) *SavedPlansHandler {
	return &SavedPlansHandler{savedPlans: savedPlans}
}

// planID parses the :id path parameter. An id that is not an ObjectID
// cannot belong to the caller and is reported as not found.
func planID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyPlanNotFound, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// List handles GET /api/saved-plans requests.
//
// @Summary      List saved plans
// @Description  Returns the caller's saved plans, newest first.
// @Tags         Saved Plans
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Success      200 {object} dto.SuccessResponse{data=[]model.SavedPlan} "Saved plans"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/saved-plans [get]
func (h *SavedPlansHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	plans, err := h.savedPlans.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		metrics.RecordSavedPlanOperation("list", "error")
		builder.Fail(err)
		return
	}

	metrics.RecordSavedPlanOperation("list", "success")
	builder.SuccessOK(plans)
}

// Save handles POST /api/saved-plans requests.
//
// @Summary      Save a plan
// @Description  Stores a named plan for the caller. Supports idempotency via Idempotency-Key header.
// @Tags         Saved Plans
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.SavePlanRequest true "Plan to save"
// @Success      201 {object} dto.SuccessResponse{data=model.SavedPlan} "Saved plan"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/saved-plans [post]
func (h *SavedPlansHandler) Save(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.SavePlanRequest](c)
	if err != nil {
		metrics.RecordSavedPlanOperation("validate", "error")
		builder.BadRequest(err)
		return
	}

	saved, err := h.savedPlans.Save(c.Request.Context(), middleware.GetSession(c), req.PlanName, req.Plan)
	if err != nil {
		metrics.RecordSavedPlanOperation("save", "error")
		builder.Fail(err)
		return
	}

	metrics.RecordSavedPlanOperation("save", "success")
	audit(c, model.ActionPlanSaved, "Plan saved", map[string]any{
		"plan_id":   saved.ID.Hex(),
		"plan_name": saved.PlanName,
	})
	builder.SuccessCreated(saved)
}

// Get handles GET /api/saved-plans/:id requests.
//
// @Summary      Get a saved plan
// @Tags         Saved Plans
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        id path string true "Saved plan id"
// @Success      200 {object} dto.SuccessResponse{data=model.SavedPlan} "Saved plan"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "Saved plan not found"
// @Security     BearerAuth
// @Router       /api/saved-plans/{id} [get]
func (h *SavedPlansHandler) Get(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	plan, err := h.savedPlans.Get(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(plan)
}

// Update handles PUT /api/saved-plans/:id requests.
//
// @Summary      Update a saved plan
// @Description  Renames the plan and replaces its body.
// @Tags         Saved Plans
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        id path string true "Saved plan id"
// @Param        request body dto.SavePlanRequest true "New name and plan"
// @Success      200 {object} dto.SuccessResponse{data=model.SavedPlan} "Updated plan"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Saved plan not found"
// @Security     BearerAuth
// @Router       /api/saved-plans/{id} [put]
func (h *SavedPlansHandler) Update(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.SavePlanRequest](c)
	if err != nil {
		metrics.RecordSavedPlanOperation("validate", "error")
		builder.BadRequest(err)
		return
	}

	updated, err := h.savedPlans.Update(c.Request.Context(), middleware.GetSession(c), id, req.PlanName, req.Plan)
	if err != nil {
		metrics.RecordSavedPlanOperation("update", "error")
		builder.Fail(err)
		return
	}

	metrics.RecordSavedPlanOperation("update", "success")
	audit(c, model.ActionPlanUpdated, "Plan updated", map[string]any{"plan_id": id.Hex()})
	builder.SuccessOK(updated)
}

// Delete handles DELETE /api/saved-plans/:id requests.
//
// @Summary      Delete a saved plan
// @Tags         Saved Plans
// @Param        Authorization header string true "Bearer token"
// @Param        id path string true "Saved plan id"
// @Success      204 "Deleted"
// @Failure      404 {object} dto.ErrorResponse "Saved plan not found"
// @Security     BearerAuth
// @Router       /api/saved-plans/{id} [delete]
func (h *SavedPlansHandler) Delete(c *gin.Context) {
	id, ok := planID(c)
	if !ok {
		return
	}

	if err := h.savedPlans.Delete(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		metrics.RecordSavedPlanOperation("delete", "error")
		NewResponseBuilder(c).Fail(err)
		return
	}

	metrics.RecordSavedPlanOperation("delete", "success")
	audit(c, model.ActionPlanDeleted, "Plan deleted", map[string]any{"plan_id": id.Hex()})
	c.Status(http.StatusNoContent)
}

package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// AdminHandler provides HTTP handlers for operator routes.
type AdminHandler struct {
	optimizer service.Optimizer
	logs      service.LoggingService
	users     service.UserAdminService
}

// NewAdminHandler creates a new AdminHandler instance. Any of the services
// may be nil; the routes that need them are then not registered.
func NewAdminHandler(optimizer service.Optimizer, logs service.LoggingService, users service.UserAdminService) *AdminHandler {
	return &AdminHandler{optimizer: optimizer, logs: logs, users: users}
}

// ClearCache handles DELETE /api/admin/cache requests.
//
// @Summary      Clear the plan cache
// @Tags         Admin
// @Param        Authorization header string true "Bearer token"
// @Success      204 "Cleared"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/admin/cache [delete]
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.optimizer.InvalidateCache()
	audit(c, model.ActionCacheCleared, "Plan cache cleared", nil)
	c.Status(http.StatusNoContent)
}

// Logs handles GET /api/admin/logs requests.
//
// @Summary      Query audit logs
// @Description  X-Total-Count carries the number of matching entries regardless of limit.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        action query string false "Action type, e.g. plan.saved"
// @Param        level query string false "Log level"
// @Param        user_id query string false "User id"
// @Param        request_id query string false "Request id"
// @Param        since query string false "RFC 3339 start time"
// @Param        until query string false "RFC 3339 end time"
// @Param        limit query int false "Maximum entries (default 20, max 100)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.LogEntry} "Log entries"
// @Header       200 {integer} X-Total-Count "Matching entries"
// @Failure      400 {object} dto.ErrorResponse "Unknown level or inverted window"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/admin/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.logs == nil {
		builder.Fail(service.ErrRepositoryNotConfigured)
		return
	}

	opts := model.LogQueryOptions{
		ActionType: c.Query("action"),
		Level:      c.Query("level"),
		UserID:     c.Query("user_id"),
		RequestID:  c.Query("request_id"),
		StartTime:  queryTime(c, "since"),
		EndTime:    queryTime(c, "until"),
		Limit:      queryLimit(c, defaultHistoryLimit),
	}

	ctx := c.Request.Context()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		builder.Fail(err)
		return
	}
	if total, err := h.logs.CountLogs(ctx, opts); err == nil {
		c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	}
	builder.SuccessOK(entries)
}

// queryTime parses an RFC 3339 query parameter. Missing or unparseable
// values are ignored.
func queryTime(c *gin.Context, key string) *time.Time {
	t, err := time.Parse(time.RFC3339, c.Query(key))
	if err != nil {
		return nil
	}
	return &t
}

// ListUsers handles GET /api/admin/users requests.
//
// @Summary      List accounts
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        active query bool false "Only active or only disabled accounts"
// @Param        role query string false "Role held, user or admin"
// @Param        limit query int false "Page size (default 50, max 200)"
// @Param        skip query int false "Accounts to skip"
// @Success      200 {object} dto.SuccessResponse{data=[]dto.AccountView} "Accounts, oldest first"
// @Failure      400 {object} dto.ErrorResponse "Invalid filter"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	builder := NewResponseBuilder(c)

	filter := model.UserFilter{Role: c.Query("role")}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			builder.Invalid(&dto.ValidationError{Field: "active", Message: "must be true or false"})
			return
		}
		filter.Active = &active
	}
	for field, dst := range map[string]*int64{"limit": &filter.Limit, "skip": &filter.Skip} {
		raw := c.Query(field)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			builder.Invalid(&dto.ValidationError{Field: field, Message: "must be a non-negative integer"})
			return
		}
		*dst = n
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(dto.NewAccountViews(users...))
}

// UpdateUser handles PATCH /api/admin/users/:id requests.
//
// @Summary      Change roles or status of an account
// @Description  Deactivating an account or removing its admin role revokes all of its refresh tokens.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        id path string true "User id"
// @Param        request body dto.UserUpdateRequest true "Fields to change"
// @Success      200 {object} dto.SuccessResponse{data=dto.AccountView} "Updated account"
// @Failure      400 {object} dto.ErrorResponse "Invalid roles"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - admin role required"
// @Failure      404 {object} dto.ErrorResponse "Unknown user"
// @Failure      409 {object} dto.ErrorResponse "Own admin role or status"
// @Security     BearerAuth
// @Router       /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	builder := NewResponseBuilder(c)
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}
	req, err := decodeRequest[dto.UserUpdateRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	update := req.ToUpdate()
	user, err := h.users.Update(c.Request.Context(), middleware.GetSession(c), id, update)
	if err != nil {
		builder.Fail(err)
		return
	}

	fields := map[string]any{"target_user_id": id.Hex()}
	if update.Roles != nil {
		fields["roles"] = update.Roles
	}
	if update.Active != nil {
		fields["active"] = *update.Active
	}
	audit(c, model.ActionUserUpdated, "User updated", fields)
	builder.SuccessOK(dto.NewAccountViews(user)[0])
}

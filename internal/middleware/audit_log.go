package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// AuditLog records a user action such as a login or a saved plan.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType, message string, fields map[string]any) {
	if loggingService == nil {
		return
	}
	entry := auditEntry(c, "info", actionType, message, fields)
	dispatch(c, loggingService, entry)
}

// AuditLogError records a failed user action.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType, message string, err error, fields map[string]any) {
	if loggingService == nil {
		return
	}
	entry := auditEntry(c, "error", actionType, message, fields).Fail(err)
	dispatch(c, loggingService, entry)
}

func auditEntry(c *gin.Context, level, actionType, message string, fields map[string]any) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		ActionType: actionType,
		Fields:     fields,
	}
	return entry.Attribute(GetSession(c))
}

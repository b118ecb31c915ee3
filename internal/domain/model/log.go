package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types recorded in the logs collection, grouped by area.
const (
	ActionLogin         = "auth.login"
	ActionRegister      = "auth.register"
	ActionLogout        = "auth.logout"
	ActionLogoutAll     = "auth.logout_all"
	ActionPlanSaved     = "plan.saved"
	ActionPlanUpdated   = "plan.updated"
	ActionPlanDeleted   = "plan.deleted"
	ActionPricesUpdated = "prices.updated"
	ActionProfileUpdate = "profile.updated"
	ActionCacheCleared  = "admin.cache_cleared"
	ActionUserUpdated   = "admin.user_updated"
)

// LogEntry is a request or audit record stored in the logs collection.
// Context-specific data goes in Fields.
type LogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Level      string             `bson:"level" json:"level"`
	Message    string             `bson:"message" json:"message"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string             `bson:"method,omitempty" json:"method,omitempty"`
	Path       string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	UserID     string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserEmail  string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	ActionType string             `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields     map[string]any     `bson:"fields,omitempty" json:"fields,omitempty"`
}

// Set stores value under key in Fields.
func (e *LogEntry) Set(key string, value any) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]any, 1)
	}
	e.Fields[key] = value
	return e
}

// Attribute records the signed-in user. Anonymous sessions leave the entry unchanged.
func (e *LogEntry) Attribute(s Session) *LogEntry {
	if !s.Anonymous() {
		e.UserID = s.UserID.Hex()
		e.UserEmail = s.Email
	}
	return e
}

// Fail records err. A nil err is ignored.
func (e *LogEntry) Fail(err error) *LogEntry {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// LogQueryOptions filters log queries. Zero values are ignored.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	UserID     string
	ActionType string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

package dto

import (
	"net/http"
	"time"
)

// Error codes carried in ErrorResponse.Error. Clients branch on these; the
// message is translated and may change.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInternal           = "internal_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeRateLimit          = "rate_limit_exceeded"
	ErrCodeConflict           = "conflict"
	ErrCodeTimeout            = "timeout"
	ErrCodeServiceUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data is the endpoint payload
	Data      any       `json:"data" swaggertype:"object"`
	RequestID string    `json:"request_id,omitempty" example:"0192a5d4-6f1e-7c3a-9b2e-3f4d5e6a7b8c"`
	Timestamp time.Time `json:"timestamp" example:"2026-03-09T07:30:00Z"`
} // @name SuccessResponse

// NewSuccess wraps data for requestID.
func NewSuccess(data any, requestID string) SuccessResponse {
	return SuccessResponse{Data: data, RequestID: requestID, Timestamp: time.Now().UTC()}
}

// ErrorResponse is the body of every failed request.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"weekly_budget: must be a finite number"`
	// Details maps an offending field to what is wrong with it
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"0192a5d4-6f1e-7c3a-9b2e-3f4d5e6a7b8c"`
	Timestamp time.Time         `json:"timestamp" example:"2026-03-09T07:30:00Z"`
} // @name ErrorResponse

// NewError creates an ErrorResponse stamped with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID returns a copy of e for requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail returns a copy of e that reports message for field.
func (e ErrorResponse) WithDetail(field, message string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[field] = message
	e.Details = details
	return e
}

var statusCodes = map[int]string{
	http.StatusBadRequest:         ErrCodeInvalidRequest,
	http.StatusUnauthorized:       ErrCodeUnauthorized,
	http.StatusForbidden:          ErrCodeForbidden,
	http.StatusNotFound:           ErrCodeNotFound,
	http.StatusConflict:           ErrCodeConflict,
	http.StatusRequestTimeout:     ErrCodeTimeout,
	http.StatusTooManyRequests:    ErrCodeRateLimit,
	http.StatusServiceUnavailable: ErrCodeServiceUnavailable,
	http.StatusGatewayTimeout:     ErrCodeTimeout,
}

// ErrCodeFromStatus returns the error code for status. Unlisted statuses
// map to ErrCodeInternal.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// ResponseBuilder writes the success and error envelopes for one request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success wraps data in a SuccessResponse.
func (b *ResponseBuilder) Success(statusCode int, data any) {
	b.c.JSON(statusCode, dto.NewSuccess(data, middleware.GetRequestID(b.c)))
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data any) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data any) {
	b.Success(http.StatusCreated, data)
}

// Error aborts with statusCode and the message for messageKey in the
// caller's locale. A non-nil err is recorded for the error handler to log.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.abort(statusCode, b.errorBody(statusCode, messageKey), err)
}

func (b *ResponseBuilder) errorBody(statusCode int, messageKey string) dto.ErrorResponse {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	return dto.NewError(dto.ErrCodeFromStatus(statusCode), message).WithRequestID(middleware.GetRequestID(b.c))
}

func (b *ResponseBuilder) abort(statusCode int, body dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(statusCode, body)
}

// errorMapping pairs a sentinel error with its status code and message key.
type errorMapping struct {
	target error
	status int
	key    string
}

// serviceErrors is checked in order with errors.Is.
var serviceErrors = []errorMapping{
	{service.ErrUnauthenticated, http.StatusUnauthorized, i18n.ErrKeyUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, i18n.ErrKeyInvalidCredentials},
	{service.ErrInvalidToken, http.StatusUnauthorized, i18n.ErrKeyInvalidToken},
	{service.ErrTokenRevoked, http.StatusUnauthorized, i18n.ErrKeyInvalidToken},
	{service.ErrUserExists, http.StatusConflict, i18n.ErrKeyUserExists},
	{service.ErrPlanNotFound, http.StatusNotFound, i18n.ErrKeyPlanNotFound},
	{service.ErrUserNotFound, http.StatusNotFound, i18n.ErrKeyNotFound},
	{service.ErrPlanNameRequired, http.StatusBadRequest, i18n.ErrKeyPlanNameRequired},
	{service.ErrUnknownFood, http.StatusBadRequest, i18n.ErrKeyUnknownFood},
	{service.ErrInvalidPrice, http.StatusBadRequest, i18n.ErrKeyInvalidPrice},
	{service.ErrPriceBookConflict, http.StatusConflict, i18n.ErrKeyConflict},
	{service.ErrInvalidProfile, http.StatusBadRequest, i18n.ErrKeyInvalidProfile},
	{service.ErrInvalidRoles, http.StatusBadRequest, i18n.ErrKeyInvalidRoles},
	{service.ErrInvalidLogQuery, http.StatusBadRequest, i18n.ErrKeyInvalidRequest},
	{service.ErrSelfUpdate, http.StatusConflict, i18n.ErrKeySelfUpdate},
	{service.ErrRepositoryNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
	{circuitbreaker.ErrCircuitOpen, http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
}

// Fail maps err to a status code and translated message and aborts the
// request. Validation errors carry the offending field in details.
func (b *ResponseBuilder) Fail(err error) {
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		b.Invalid(validationErr)
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			b.Error(m.status, m.key, err)
			return
		}
	}
	b.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
}

// BadRequest reports a body that could not be bound or failed validation.
func (b *ResponseBuilder) BadRequest(err error) {
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		b.Invalid(validationErr)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.Error(http.StatusRequestEntityTooLarge, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

// Invalid sends a 400 response for a failed field validation.
func (b *ResponseBuilder) Invalid(err *dto.ValidationError) {
	body := b.errorBody(http.StatusBadRequest, validationKey(err)).WithDetail(err.Field, err.Message)
	b.abort(http.StatusBadRequest, body, err)
}

// validationKey picks the message key for a validated field path such as
// "family_members[1].count" or "food_prices.rice".
func validationKey(err *dto.ValidationError) string {
	field := err.Field
	switch {
	case field == "weekly_budget":
		return i18n.ErrKeyInvalidBudget
	case field == "plan_name":
		return i18n.ErrKeyPlanNameRequired
	case strings.HasPrefix(field, "family_members"):
		return i18n.ErrKeyInvalidFamily
	case strings.HasPrefix(field, "food_prices"), strings.HasPrefix(field, "prices"):
		if err.Message == dto.MsgUnknownFood {
			return i18n.ErrKeyUnknownFood
		}
		return i18n.ErrKeyInvalidPrice
	case field == "family_size", field == "default_budget", field == "full_name", field == "currency":
		return i18n.ErrKeyInvalidProfile
	case field == "roles":
		return i18n.ErrKeyInvalidRoles
	default:
		return i18n.ErrKeyInvalidRequest
	}
}

// loggingServiceKey is the gin context key holding the audit LoggingService.
const loggingServiceKey = "logging_service"

// audit records a user action when a logging service is configured.
func audit(c *gin.Context, action, message string, fields map[string]any) {
	value, exists := c.Get(loggingServiceKey)
	if !exists {
		return
	}
	if ls, ok := value.(service.LoggingService); ok {
		middleware.AuditLog(ls, c, action, message, fields)
	}
}

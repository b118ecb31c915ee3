package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// RefreshTokenHeader carries the refresh token on refresh and logout.
const RefreshTokenHeader = "X-Refresh-Token"

var errRefreshTokenMissing = errors.New("refresh token header is required")

// AuthHandler serves sign-up, sign-in and session management.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LogoutAllResponse reports how many sessions were closed.
type LogoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

func sessionResponse(pair *dto.TokenPair, user *model.User) dto.LoginResponse {
	resp := dto.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
	if user != nil {
		resp.User = dto.NewUserResponse(user)
	}
	return resp
}

// Login handles POST /api/auth/login requests.
//
// @Summary      Login user
// @Description  Checks the credentials and opens a new session. Sessions on other devices are kept.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Login credentials"
// @Success      200 {object} dto.SuccessResponse{data=dto.LoginResponse} "Successful login"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid credentials"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.LoginRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	pair, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.auditRejected(c, model.ActionLogin, "Failed login attempt", req.Email, err)
		builder.Fail(err)
		return
	}

	audit(c, model.ActionLogin, "User logged in", userFields(user))
	builder.SuccessOK(sessionResponse(pair, user))
}

// Register handles POST /api/auth/register requests.
//
// @Summary      Register new user
// @Description  Creates an account with the user role and signs it in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Registration information"
// @Success      201 {object} dto.SuccessResponse{data=dto.LoginResponse} "Successful registration"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      409 {object} dto.ErrorResponse "Conflict - user already exists"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.RegisterRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	pair, user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.auditRejected(c, model.ActionRegister, "Failed registration attempt", req.Email, err)
		builder.Fail(err)
		return
	}

	audit(c, model.ActionRegister, "User registered", userFields(user))
	builder.SuccessCreated(sessionResponse(pair, user))
}

// Refresh handles POST /api/auth/refresh requests.
//
// @Summary      Refresh access token
// @Description  Trades the refresh token in the X-Refresh-Token header for a new pair. Each refresh token works once.
// @Tags         Auth
// @Produce      json
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse{data=dto.LoginResponse} "New token pair"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid or used refresh token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	builder := NewResponseBuilder(c)

	refreshToken := c.GetHeader(RefreshTokenHeader)
	if refreshToken == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyTokenRequired, errRefreshTokenMissing)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(sessionResponse(pair, nil))
}

// Logout handles POST /api/auth/logout requests.
//
// @Summary      Logout user
// @Description  Revokes the access token and the refresh token of the current session.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization header string true "Bearer token" default(Bearer )
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse "Successful logout"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	refreshToken := c.GetHeader(RefreshTokenHeader)
	if refreshToken == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyTokenRequired, errRefreshTokenMissing)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), middleware.BearerToken(c), refreshToken); err != nil {
		builder.Fail(err)
		return
	}

	audit(c, model.ActionLogout, "User logged out", nil)
	builder.SuccessOK(map[string]string{"message": "Logged out successfully"})
}

// LogoutAll handles POST /api/auth/logout-all requests.
//
// @Summary      Logout everywhere
// @Description  Revokes every refresh token of the caller. Access tokens already issued stay valid until they expire.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization header string true "Bearer token" default(Bearer )
// @Success      200 {object} dto.SuccessResponse{data=LogoutAllResponse} "Sessions revoked"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	builder := NewResponseBuilder(c)

	session := middleware.GetSession(c)
	if session.Anonymous() {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, errors.New("no session"))
		return
	}

	n, err := h.authService.LogoutAll(c.Request.Context(), session.UserID)
	if err != nil {
		builder.Fail(err)
		return
	}

	audit(c, model.ActionLogoutAll, "User logged out everywhere", map[string]any{"revoked": n})
	builder.SuccessOK(LogoutAllResponse{Revoked: n})
}

func userFields(user *model.User) map[string]any {
	return map[string]any{"user_id": user.ID.Hex(), "email": user.Email}
}

// auditRejected records refused credentials and duplicate sign-ups.
// Unexpected errors are left to the error handler.
func (h *AuthHandler) auditRejected(c *gin.Context, action, message, email string, err error) {
	if !errors.Is(err, service.ErrInvalidCredentials) && !errors.Is(err, service.ErrUserExists) {
		return
	}
	value, exists := c.Get(loggingServiceKey)
	if !exists {
		return
	}
	if ls, ok := value.(service.LoggingService); ok {
		middleware.AuditLogError(ls, c, action, message, err, map[string]any{"email": email})
	}
}

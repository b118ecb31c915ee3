package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// LoginRequest is the body of POST /api/auth/login.
//
// @Description Request to authenticate a user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
} // @name LoginRequest

// RegisterRequest is the body of POST /api/auth/register.
//
// @Description Request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
	// FullName seeds the profile.
	FullName string `json:"full_name,omitempty" binding:"max=100" example:"Asha Verma"`
} // @name RegisterRequest

// LoginResponse represents the JSON response body for the login and register endpoints.
//
// @Description Successful authentication response with JWT tokens
type LoginResponse struct {
	// Token is the JWT access token.
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// RefreshToken is the JWT refresh token.
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" example:"900"`
	// User contains the authenticated user information.
	User UserResponse `json:"user"`
} // @name LoginResponse

// TokenPair is what the token service issues on login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// Claims are the verified identity carried by an access token.
type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Roles  []string           `json:"roles"`
}

// Session converts validated claims into the caller identity handed to services.
func (c *Claims) Session() model.Session {
	if c == nil {
		return model.Session{}
	}
	return model.Session{
		UserID: c.UserID,
		Email:  c.Email,
		Roles:  append([]string(nil), c.Roles...),
	}
}

// UserResponse represents user information in API responses.
//
// @Description Authenticated user
type UserResponse struct {
	ID       string   `json:"id" example:"6650c1f1a2b3c4d5e6f70812"`
	Email    string   `json:"email" example:"asha@example.com"`
	FullName string   `json:"full_name,omitempty" example:"Asha Verma"`
	Roles    []string `json:"roles" example:"user"`
} // @name UserResponse

// NewUserResponse builds the public view of u.
func NewUserResponse(u *model.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:       u.ID.Hex(),
		Email:    u.Email,
		FullName: u.Profile.FullName,
		Roles:    u.Roles,
	}
}

// minPasswordLength matches the binding tags on the credential requests.
const minPasswordLength = 6

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	return nil
}

// Validate implements the request Validator.
func (r *LoginRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

// Validate implements the request Validator. The full name is optional.
func (r *RegisterRequest) Validate() error {
	if err := validateCredentials(r.Email, r.Password); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.FullName) > 100 {
		return &ValidationError{Field: "full_name", Message: "full name must be at most 100 characters"}
	}
	return nil
}

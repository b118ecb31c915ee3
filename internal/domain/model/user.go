package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Token kinds stored in the tokens collection.
const (
	// TokenKindRefresh is an outstanding refresh token, keyed by the
	// SHA-256 digest of the signed token.
	TokenKindRefresh = "refresh"
	// TokenKindRevoked is a logged out access token, keyed by its jti.
	TokenKindRevoked = "revoked"
)

// Profile holds the planning defaults of a user.
//
// @Description User planning defaults
type Profile struct {
	FullName      string  `bson:"full_name" json:"full_name" example:"Asha Verma"`
	FamilySize    int     `bson:"family_size" json:"family_size" example:"4"`
	DefaultBudget float64 `bson:"default_budget" json:"default_budget" example:"500"`
	Currency      string  `bson:"currency" json:"currency" example:"₹"`
}

// User is an account of the service.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Roles     []string           `bson:"roles" json:"roles"`
	Profile   Profile            `bson:"profile" json:"profile"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserFilter selects users for the admin listing. Nil and empty fields
// match everything.
type UserFilter struct {
	Active *bool
	Role   string
	Limit  int64
	Skip   int64
}

// UserUpdate is an admin's partial change to an account. Nil fields are
// left as they are.
type UserUpdate struct {
	Roles  []string
	Active *bool
}

// Token records a refresh token or a revoked access token. Signed tokens
// are never stored, only a key derived from them. Documents expire with
// the token they describe.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Kind      string             `bson:"kind"`
	Key       string             `bson:"key"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Session identifies the caller of a request. It is built from validated
// token claims and passed explicitly to services that act on user data.
type Session struct {
	UserID primitive.ObjectID
	Email  string
	Roles  []string
}

// HasRole reports whether the session carries role.
func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// Anonymous reports whether the session has no user behind it.
func (s Session) Anonymous() bool {
	return s.UserID.IsZero()
}

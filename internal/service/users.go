package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

var (
	// ErrInvalidRoles is returned for a role set with unknown roles or without RoleUser.
	ErrInvalidRoles = errors.New("invalid roles")
	// ErrSelfUpdate is returned when an admin removes their own admin role
	// or deactivates their own account.
	ErrSelfUpdate = errors.New("cannot demote or deactivate own account")
)

var knownRoles = []string{model.RoleUser, model.RoleAdmin}

// UserAdminService lists and manages accounts on behalf of an admin.
type UserAdminService interface {
	List(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
	// Update applies update to the user with id. Deactivating a user or
	// removing their admin role revokes all of their refresh tokens; access
	// tokens already issued run until they expire.
	Update(ctx context.Context, actor model.Session, id primitive.ObjectID, update model.UserUpdate) (*model.User, error)
}

// UserAdminServiceImpl implements UserAdminService.
type UserAdminServiceImpl struct {
	users  repository.UserRepositoryInterface
	tokens TokenService
}

// NewUserAdminService creates a user admin service. A nil tokens skips
// session revocation.
func NewUserAdminService(users repository.UserRepositoryInterface, tokens TokenService) *UserAdminServiceImpl {
	return &UserAdminServiceImpl{users: users, tokens: tokens}
}

// List implements UserAdminService.
func (s *UserAdminServiceImpl) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	if s.users == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if filter.Role != "" && !slices.Contains(knownRoles, filter.Role) {
		return nil, ErrInvalidRoles
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update implements UserAdminService.
func (s *UserAdminServiceImpl) Update(ctx context.Context, actor model.Session, id primitive.ObjectID, update model.UserUpdate) (*model.User, error) {
	if s.users == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if update.Roles != nil {
		roles, err := normalizeRoles(update.Roles)
		if err != nil {
			return nil, err
		}
		update.Roles = roles
	}
	if actor.UserID == id {
		if update.Roles != nil && !slices.Contains(update.Roles, model.RoleAdmin) {
			return nil, ErrSelfUpdate
		}
		if update.Active != nil && !*update.Active {
			return nil, ErrSelfUpdate
		}
	}

	user, err := s.users.FindByIDMinimal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	wasAdmin := slices.Contains(user.Roles, model.RoleAdmin)

	if update.Roles != nil {
		if user, err = s.users.SetRoles(ctx, id, update.Roles); err != nil {
			return nil, fmt.Errorf("set roles: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}
	if update.Active != nil {
		if user, err = s.users.SetActive(ctx, id, *update.Active); err != nil {
			return nil, fmt.Errorf("set active: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	demoted := wasAdmin && !slices.Contains(user.Roles, model.RoleAdmin)
	if (demoted || !user.Active) && s.tokens != nil {
		revoked, err := s.tokens.RevokeAll(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("revoke sessions: %w", err)
		}
		logger.FromContext(ctx).Info().
			Str("user_id", id.Hex()).
			Int64("revoked", revoked).
			Msg("Revoked sessions of updated user")
	}
	return user, nil
}

// normalizeRoles drops duplicates and orders roles as knownRoles does.
func normalizeRoles(roles []string) ([]string, error) {
	for _, role := range roles {
		if !slices.Contains(knownRoles, role) {
			return nil, ErrInvalidRoles
		}
	}
	if !slices.Contains(roles, model.RoleUser) {
		return nil, ErrInvalidRoles
	}
	out := make([]string, 0, len(knownRoles))
	for _, role := range knownRoles {
		if slices.Contains(roles, role) {
			out = append(out, role)
		}
	}
	return out, nil
}

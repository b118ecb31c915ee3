package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/mocks"
	"github.com/guttosm/nutriplan-service/internal/service"
)

func boolPtr(v bool) *bool { return &v }

func TestUserAdminService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filter through", func(t *testing.T) {
		users := new(mocks.MockUserRepositoryInterface)
		filter := model.UserFilter{Active: boolPtr(true), Role: model.RoleAdmin, Limit: 10}
		users.On("List", mock.Anything, filter).Return([]*model.User{{Email: "ops@example.com"}}, nil).Once()

		got, err := service.NewUserAdminService(users, nil).List(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		users.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := service.NewUserAdminService(new(mocks.MockUserRepositoryInterface), nil).
			List(ctx, model.UserFilter{Role: "superuser"})
		assert.ErrorIs(t, err, service.ErrInvalidRoles)
	})

	t.Run("repository error", func(t *testing.T) {
		users := new(mocks.MockUserRepositoryInterface)
		users.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := service.NewUserAdminService(users, nil).List(ctx, model.UserFilter{})
		assert.EqualError(t, err, "list users: db down")
	})

	t.Run("no repository", func(t *testing.T) {
		_, err := service.NewUserAdminService(nil, nil).List(ctx, model.UserFilter{})
		assert.ErrorIs(t, err, service.ErrRepositoryNotConfigured)
	})
}

func TestUserAdminService_Update(t *testing.T) {
	admin := model.Session{UserID: primitive.NewObjectID(), Email: "ops@example.com", Roles: []string{model.RoleUser, model.RoleAdmin}}
	target := primitive.NewObjectID()
	plainUser := func() *model.User {
		return &model.User{ID: target, Email: "ravi@example.com", Roles: []string{model.RoleUser}, Active: true}
	}
	adminUser := func() *model.User {
		return &model.User{ID: target, Email: "meera@example.com", Roles: []string{model.RoleUser, model.RoleAdmin}, Active: true}
	}

	tests := []struct {
		name       string
		actor      model.Session
		id         primitive.ObjectID
		update     model.UserUpdate
		setupUsers func(*mocks.MockUserRepositoryInterface)
		setupTok   func(*mocks.MockTokenService)
		wantRoles  []string
		wantActive bool
		wantErr    error
	}{
		{
			name:   "promote to admin",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{Roles: []string{model.RoleAdmin, model.RoleUser, model.RoleAdmin}},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(plainUser(), nil).Once()
				promoted := plainUser()
				promoted.Roles = []string{model.RoleUser, model.RoleAdmin}
				m.On("SetRoles", mock.Anything, target, []string{model.RoleUser, model.RoleAdmin}).Return(promoted, nil).Once()
			},
			wantRoles:  []string{model.RoleUser, model.RoleAdmin},
			wantActive: true,
		},
		{
			name:   "demotion revokes sessions",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{Roles: []string{model.RoleUser}},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(adminUser(), nil).Once()
				demoted := adminUser()
				demoted.Roles = []string{model.RoleUser}
				m.On("SetRoles", mock.Anything, target, []string{model.RoleUser}).Return(demoted, nil).Once()
			},
			setupTok: func(m *mocks.MockTokenService) {
				m.On("RevokeAll", mock.Anything, target).Return(int64(2), nil).Once()
			},
			wantRoles:  []string{model.RoleUser},
			wantActive: true,
		},
		{
			name:   "deactivation revokes sessions",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{Active: boolPtr(false)},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(plainUser(), nil).Once()
				disabled := plainUser()
				disabled.Active = false
				m.On("SetActive", mock.Anything, target, false).Return(disabled, nil).Once()
			},
			setupTok: func(m *mocks.MockTokenService) {
				m.On("RevokeAll", mock.Anything, target).Return(int64(1), nil).Once()
			},
			wantRoles: []string{model.RoleUser},
		},
		{
			name:   "empty update returns the user",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(plainUser(), nil).Once()
			},
			wantRoles:  []string{model.RoleUser},
			wantActive: true,
		},
		{
			name:    "unknown role",
			actor:   admin,
			id:      target,
			update:  model.UserUpdate{Roles: []string{model.RoleUser, "owner"}},
			wantErr: service.ErrInvalidRoles,
		},
		{
			name:    "roles without user",
			actor:   admin,
			id:      target,
			update:  model.UserUpdate{Roles: []string{model.RoleAdmin}},
			wantErr: service.ErrInvalidRoles,
		},
		{
			name:    "cannot drop own admin role",
			actor:   admin,
			id:      admin.UserID,
			update:  model.UserUpdate{Roles: []string{model.RoleUser}},
			wantErr: service.ErrSelfUpdate,
		},
		{
			name:    "cannot deactivate self",
			actor:   admin,
			id:      admin.UserID,
			update:  model.UserUpdate{Active: boolPtr(false)},
			wantErr: service.ErrSelfUpdate,
		},
		{
			name:   "unknown user",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{Active: boolPtr(true)},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(nil, nil).Once()
			},
			wantErr: service.ErrUserNotFound,
		},
		{
			name:   "revocation failure",
			actor:  admin,
			id:     target,
			update: model.UserUpdate{Active: boolPtr(false)},
			setupUsers: func(m *mocks.MockUserRepositoryInterface) {
				m.On("FindByIDMinimal", mock.Anything, target).Return(plainUser(), nil).Once()
				m.On("SetActive", mock.Anything, target, false).Return(&model.User{ID: target}, nil).Once()
			},
			setupTok: func(m *mocks.MockTokenService) {
				m.On("RevokeAll", mock.Anything, target).Return(int64(0), errors.New("mongo: timeout")).Once()
			},
			wantErr: errors.New("revoke sessions: mongo: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.MockUserRepositoryInterface)
			users.Test(t)
			tokens := new(mocks.MockTokenService)
			tokens.Test(t)
			if tt.setupUsers != nil {
				tt.setupUsers(users)
			}
			if tt.setupTok != nil {
				tt.setupTok(tokens)
			}

			user, err := service.NewUserAdminService(users, tokens).Update(context.Background(), tt.actor, tt.id, tt.update)

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.wantRoles, user.Roles)
				assert.Equal(t, tt.wantActive, user.Active)
			case errors.Is(tt.wantErr, service.ErrInvalidRoles), errors.Is(tt.wantErr, service.ErrSelfUpdate),
				errors.Is(tt.wantErr, service.ErrUserNotFound):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserAdminService_UpdateWithoutTokenService(t *testing.T) {
	target := primitive.NewObjectID()
	users := new(mocks.MockUserRepositoryInterface)
	users.On("FindByIDMinimal", mock.Anything, target).Return(&model.User{ID: target, Active: true}, nil).Once()
	users.On("SetActive", mock.Anything, target, false).Return(&model.User{ID: target}, nil).Once()

	user, err := service.NewUserAdminService(users, nil).
		Update(context.Background(), model.Session{UserID: primitive.NewObjectID()}, target, model.UserUpdate{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, user.Active)
}

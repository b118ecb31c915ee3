// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	args := m.Called(ctx, email, password)
	return tokenPairAndUser(args)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, fullName string) (*dto.TokenPair, *model.User, error) {
	args := m.Called(ctx, email, password, fullName)
	return tokenPairAndUser(args)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*dto.Claims, error) {
	args := m.Called(ctx, accessToken)
	return claimsResult(args)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func tokenPairAndUser(args mock.Arguments) (*dto.TokenPair, *model.User, error) {
	var pair *dto.TokenPair
	if v := args.Get(0); v != nil {
		pair = v.(*dto.TokenPair)
	}
	var user *model.User
	if v := args.Get(1); v != nil {
		user = v.(*model.User)
	}
	return pair, user, args.Error(2)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockTokenService) VerifyAccess(ctx context.Context, accessToken string) (*dto.Claims, error) {
	args := m.Called(ctx, accessToken)
	return claimsResult(args)
}

func (m *MockTokenService) Redeem(ctx context.Context, refreshToken string) (*dto.Claims, error) {
	args := m.Called(ctx, refreshToken)
	return claimsResult(args)
}

func (m *MockTokenService) RevokeAccess(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockTokenService) RevokeRefresh(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockTokenService) RevokeAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func claimsResult(args mock.Arguments) (*dto.Claims, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

type MockUserAdminService struct {
	mock.Mock
}

func (m *MockUserAdminService) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserAdminService) Update(ctx context.Context, actor model.Session, id primitive.ObjectID, update model.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, actor, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockLoggingService struct {
	mock.Mock
}

// NewMockLoggingService creates a MockLoggingService whose expectations are
// asserted when the test ends.
func NewMockLoggingService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLoggingService {
	m := &MockLoggingService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

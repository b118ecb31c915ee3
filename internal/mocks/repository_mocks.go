// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockSavedPlansRepositoryInterface struct {
	mock.Mock
}

func (m *MockSavedPlansRepositoryInterface) Create(ctx context.Context, plan *model.SavedPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockSavedPlansRepositoryInterface) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.SavedPlan, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedPlan), args.Error(1)
}

func (m *MockSavedPlansRepositoryInterface) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.SavedPlan, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPlan), args.Error(1)
}

func (m *MockSavedPlansRepositoryInterface) Update(ctx context.Context, userID, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error) {
	args := m.Called(ctx, userID, id, name, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedPlan), args.Error(1)
}

func (m *MockSavedPlansRepositoryInterface) Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

type MockPriceBooksRepositoryInterface struct {
	mock.Mock
}

func (m *MockPriceBooksRepositoryInterface) GetActive(ctx context.Context, userID primitive.ObjectID) (*model.PriceBook, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceBook), args.Error(1)
}

func (m *MockPriceBooksRepositoryInterface) Create(ctx context.Context, userID primitive.ObjectID, prices map[string]float64, createdBy string) (*model.PriceBook, error) {
	args := m.Called(ctx, userID, prices, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceBook), args.Error(1)
}

func (m *MockPriceBooksRepositoryInterface) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.PriceBook, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceBook), args.Error(1)
}

type MockLogsRepositoryInterface struct {
	mock.Mock
}

func (m *MockLogsRepositoryInterface) Create(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LogEntry), args.Error(1)
}

func (m *MockLogsRepositoryInterface) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepositoryInterface struct {
	mock.Mock
}

func (m *MockUserRepositoryInterface) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepositoryInterface) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) FindByEmailForAuth(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) FindByIDMinimal(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile model.Profile) (*model.User, error) {
	args := m.Called(ctx, id, profile)
	return userResult(args)
}

func (m *MockUserRepositoryInterface) SetRoles(ctx context.Context, id primitive.ObjectID, roles []string) (*model.User, error) {
	args := m.Called(ctx, id, roles)
	return userResult(args)
}

func (m *MockUserRepositoryInterface) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*model.User, error) {
	args := m.Called(ctx, id, active)
	return userResult(args)
}

func (m *MockUserRepositoryInterface) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func userResult(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockTokenRepositoryInterface struct {
	mock.Mock
}

func (m *MockTokenRepositoryInterface) Save(ctx context.Context, token *model.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) Exists(ctx context.Context, kind, key string) (bool, error) {
	args := m.Called(ctx, kind, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepositoryInterface) Consume(ctx context.Context, kind, key string) (*model.Token, error) {
	args := m.Called(ctx, kind, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Token), args.Error(1)
}

func (m *MockTokenRepositoryInterface) DeleteByUser(ctx context.Context, userID primitive.ObjectID, kind string) (int64, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(int64), args.Error(1)
}

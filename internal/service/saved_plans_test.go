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

func userSession() model.Session {
	return model.Session{UserID: primitive.NewObjectID(), Email: "asha@example.com", Roles: []string{model.RoleUser}}
}

func samplePlan() model.PlanResult {
	return service.NewOptimizer().Optimize(model.PlanInput{
		FamilyMembers: []model.FamilyMember{{Type: model.MemberAdult, Count: 2}},
		WeeklyBudget:  400,
	})
}

func TestSavedPlanService_Save(t *testing.T) {
	session := userSession()

	tests := []struct {
		name      string
		planName  string
		setupMock func(*mocks.MockSavedPlansRepositoryInterface)
		wantErr   error
	}{
		{
			name:     "stores trimmed name under the session user",
			planName: "  week 1 ",
			setupMock: func(m *mocks.MockSavedPlansRepositoryInterface) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(p *model.SavedPlan) bool {
					return p.UserID == session.UserID && p.PlanName == "week 1"
				})).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*model.SavedPlan).ID = primitive.NewObjectID()
				})
			},
		},
		{
			name:      "blank name",
			planName:  "   ",
			setupMock: func(*mocks.MockSavedPlansRepositoryInterface) {},
			wantErr:   service.ErrPlanNameRequired,
		},
		{
			name:     "repository failure",
			planName: "week 2",
			setupMock: func(m *mocks.MockSavedPlansRepositoryInterface) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("write conflict"))
			},
			wantErr: errors.New("save plan: write conflict"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockSavedPlansRepositoryInterface)
			tt.setupMock(repo)

			saved, err := service.NewSavedPlanService(repo).Save(context.Background(), session, tt.planName, samplePlan())
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, saved)
			} else {
				require.NoError(t, err)
				assert.False(t, saved.ID.IsZero())
				assert.Len(t, saved.Plan.MealPlans, 7)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSavedPlanService_SaveClonesPlan(t *testing.T) {
	repo := new(mocks.MockSavedPlansRepositoryInterface)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	plan := samplePlan()
	saved, err := service.NewSavedPlanService(repo).Save(context.Background(), userSession(), "week", plan)
	require.NoError(t, err)

	plan.BudgetTips[0] = "mutated"
	assert.NotEqual(t, "mutated", saved.Plan.BudgetTips[0])
}

func TestSavedPlanService_Get(t *testing.T) {
	session := userSession()
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		repo := new(mocks.MockSavedPlansRepositoryInterface)
		repo.On("FindByID", mock.Anything, session.UserID, id).Return(&model.SavedPlan{ID: id, PlanName: "week"}, nil)

		plan, err := service.NewSavedPlanService(repo).Get(context.Background(), session, id)
		require.NoError(t, err)
		assert.Equal(t, "week", plan.PlanName)
	})

	t.Run("missing or foreign plan", func(t *testing.T) {
		repo := new(mocks.MockSavedPlansRepositoryInterface)
		repo.On("FindByID", mock.Anything, session.UserID, id).Return(nil, nil)

		plan, err := service.NewSavedPlanService(repo).Get(context.Background(), session, id)
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
		assert.Nil(t, plan)
	})
}

func TestSavedPlanService_List(t *testing.T) {
	session := userSession()
	repo := new(mocks.MockSavedPlansRepositoryInterface)
	repo.On("ListByUser", mock.Anything, session.UserID, 100).Return(nil, nil)

	plans, err := service.NewSavedPlanService(repo).List(context.Background(), session)
	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestSavedPlanService_Update(t *testing.T) {
	session := userSession()
	id := primitive.NewObjectID()
	plan := samplePlan()

	t.Run("updated", func(t *testing.T) {
		repo := new(mocks.MockSavedPlansRepositoryInterface)
		repo.On("Update", mock.Anything, session.UserID, id, "renamed", plan).Return(&model.SavedPlan{ID: id, PlanName: "renamed"}, nil)

		updated, err := service.NewSavedPlanService(repo).Update(context.Background(), session, id, " renamed ", plan)
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.PlanName)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mocks.MockSavedPlansRepositoryInterface)
		repo.On("Update", mock.Anything, session.UserID, id, "renamed", plan).Return(nil, nil)

		_, err := service.NewSavedPlanService(repo).Update(context.Background(), session, id, "renamed", plan)
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}

func TestSavedPlanService_Delete(t *testing.T) {
	session := userSession()
	id := primitive.NewObjectID()

	tests := []struct {
		name    string
		deleted bool
		repoErr error
		wantErr error
	}{
		{name: "deleted", deleted: true},
		{name: "not found", deleted: false, wantErr: service.ErrPlanNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockSavedPlansRepositoryInterface)
			repo.On("Delete", mock.Anything, session.UserID, id).Return(tt.deleted, tt.repoErr)

			err := service.NewSavedPlanService(repo).Delete(context.Background(), session, id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSavedPlanService_History(t *testing.T) {
	session := userSession()
	repo := new(mocks.MockSavedPlansRepositoryInterface)
	repo.On("ListByUser", mock.Anything, session.UserID, 5).Return([]model.SavedPlan{
		{Plan: model.PlanResult{TotalBudgetUsed: 120}},
		{Plan: model.PlanResult{TotalBudgetUsed: 90}},
	}, nil)

	svc := service.NewSavedPlanService(repo)
	history, err := svc.History(context.Background(), session, 5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 120.0, history[0].TotalBudgetUsed)

	none, err := svc.History(context.Background(), session, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSavedPlanService_Guards(t *testing.T) {
	ctx := context.Background()

	_, err := service.NewSavedPlanService(nil).List(ctx, userSession())
	assert.ErrorIs(t, err, service.ErrRepositoryNotConfigured)

	repo := new(mocks.MockSavedPlansRepositoryInterface)
	_, err = service.NewSavedPlanService(repo).List(ctx, model.Session{})
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything)
}

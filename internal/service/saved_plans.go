package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

var (
	// ErrPlanNotFound is returned when a saved plan does not exist or belongs to another user.
	ErrPlanNotFound = errors.New("saved plan not found")
	// ErrPlanNameRequired is returned when a plan is saved without a name.
	ErrPlanNameRequired = errors.New("plan name is required")
	// ErrUnauthenticated is returned when an operation needs a user session.
	ErrUnauthenticated = errors.New("authentication required")
)

// maxSavedPlans bounds List responses.
const maxSavedPlans = 100

// SavedPlanService manages the plans a user keeps. Every operation is scoped
// to the session's user.
type SavedPlanService interface {
	Save(ctx context.Context, session model.Session, name string, plan model.PlanResult) (*model.SavedPlan, error)
	List(ctx context.Context, session model.Session) ([]model.SavedPlan, error)
	Get(ctx context.Context, session model.Session, id primitive.ObjectID) (*model.SavedPlan, error)
	Update(ctx context.Context, session model.Session, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error)
	Delete(ctx context.Context, session model.Session, id primitive.ObjectID) error
	// History returns up to limit of the latest saved plan bodies, newest first.
	History(ctx context.Context, session model.Session, limit int) ([]model.PlanResult, error)
}

// SavedPlanServiceImpl implements SavedPlanService.
type SavedPlanServiceImpl struct {
	repo repository.SavedPlansRepositoryInterface
}

// NewSavedPlanService creates a saved plan service. A nil repository makes
// every operation return ErrRepositoryNotConfigured.
func NewSavedPlanService(repo repository.SavedPlansRepositoryInterface) SavedPlanService {
	return &SavedPlanServiceImpl{repo: repo}
}

func (s *SavedPlanServiceImpl) check(session model.Session) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	if session.Anonymous() {
		return ErrUnauthenticated
	}
	return nil
}

// Save stores plan under name for the session's user.
func (s *SavedPlanServiceImpl) Save(ctx context.Context, session model.Session, name string, plan model.PlanResult) (*model.SavedPlan, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlanNameRequired
	}

	saved := &model.SavedPlan{
		UserID:   session.UserID,
		PlanName: name,
		Plan:     plan.Clone(),
	}
	if err := s.repo.Create(ctx, saved); err != nil {
		metrics.RecordSavedPlanOperation("save", "error")
		return nil, fmt.Errorf("save plan: %w", err)
	}

	metrics.RecordSavedPlanOperation("save", "success")
	logger.FromContext(ctx).Debug().
		Str("plan_id", saved.ID.Hex()).
		Str("user_id", session.UserID.Hex()).
		Msg("plan saved")
	return saved, nil
}

// List returns the user's plans, newest first.
func (s *SavedPlanServiceImpl) List(ctx context.Context, session model.Session) ([]model.SavedPlan, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	plans, err := s.repo.ListByUser(ctx, session.UserID, maxSavedPlans)
	if err != nil {
		metrics.RecordSavedPlanOperation("list", "error")
		return nil, fmt.Errorf("list plans: %w", err)
	}
	metrics.RecordSavedPlanOperation("list", "success")
	if plans == nil {
		plans = []model.SavedPlan{}
	}
	return plans, nil
}

// Get returns one of the user's plans.
func (s *SavedPlanServiceImpl) Get(ctx context.Context, session model.Session, id primitive.ObjectID) (*model.SavedPlan, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	plan, err := s.repo.FindByID(ctx, session.UserID, id)
	if err != nil {
		metrics.RecordSavedPlanOperation("get", "error")
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan == nil {
		metrics.RecordSavedPlanOperation("get", "not_found")
		return nil, ErrPlanNotFound
	}
	metrics.RecordSavedPlanOperation("get", "success")
	return plan, nil
}

// Update renames a plan and replaces its body.
func (s *SavedPlanServiceImpl) Update(ctx context.Context, session model.Session, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlanNameRequired
	}

	updated, err := s.repo.Update(ctx, session.UserID, id, name, plan.Clone())
	if err != nil {
		metrics.RecordSavedPlanOperation("update", "error")
		return nil, fmt.Errorf("update plan: %w", err)
	}
	if updated == nil {
		metrics.RecordSavedPlanOperation("update", "not_found")
		return nil, ErrPlanNotFound
	}
	metrics.RecordSavedPlanOperation("update", "success")
	return updated, nil
}

// Delete removes one of the user's plans.
func (s *SavedPlanServiceImpl) Delete(ctx context.Context, session model.Session, id primitive.ObjectID) error {
	if err := s.check(session); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, session.UserID, id)
	if err != nil {
		metrics.RecordSavedPlanOperation("delete", "error")
		return fmt.Errorf("delete plan: %w", err)
	}
	if !deleted {
		metrics.RecordSavedPlanOperation("delete", "not_found")
		return ErrPlanNotFound
	}
	metrics.RecordSavedPlanOperation("delete", "success")
	return nil
}

// History returns the bodies of the latest saved plans.
func (s *SavedPlanServiceImpl) History(ctx context.Context, session model.Session, limit int) ([]model.PlanResult, error) {
	if err := s.check(session); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	saved, err := s.repo.ListByUser(ctx, session.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("plan history: %w", err)
	}
	history := make([]model.PlanResult, len(saved))
	for i, p := range saved {
		history[i] = p.Plan
	}
	return history, nil
}

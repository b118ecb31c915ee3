package repository

import (
	"context"
	"errors"

	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountsAgainstCircuit reports whether err means MongoDB itself is failing.
// Cancelled requests and unique index conflicts are the caller's problem.
func CountsAgainstCircuit(err error) bool {
	return !errors.Is(err, context.Canceled) && !mongo.IsDuplicateKeyError(err)
}

// guard runs fn through cb and returns its result.
func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = fn()
		return cbErr
	})
	return result, err
}

// SavedPlansRepositoryWithCircuitBreaker wraps SavedPlansRepository with circuit breaker protection.
// An open circuit surfaces as circuitbreaker.ErrCircuitOpen.
type SavedPlansRepositoryWithCircuitBreaker struct {
	repo           SavedPlansRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSavedPlansRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSavedPlansRepositoryWithCircuitBreaker(repo SavedPlansRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SavedPlansRepositoryWithCircuitBreaker {
	return &SavedPlansRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

func (r *SavedPlansRepositoryWithCircuitBreaker) Create(ctx context.Context, plan *model.SavedPlan) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, plan)
	})
}

func (r *SavedPlansRepositoryWithCircuitBreaker) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.SavedPlan, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.SavedPlan, error) {
		return r.repo.ListByUser(ctx, userID, limit)
	})
}

func (r *SavedPlansRepositoryWithCircuitBreaker) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.SavedPlan, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.SavedPlan, error) {
		return r.repo.FindByID(ctx, userID, id)
	})
}

func (r *SavedPlansRepositoryWithCircuitBreaker) Update(ctx context.Context, userID, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.SavedPlan, error) {
		return r.repo.Update(ctx, userID, id, name, plan)
	})
}

func (r *SavedPlansRepositoryWithCircuitBreaker) Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	return guard(ctx, r.circuitBreaker, func() (bool, error) {
		return r.repo.Delete(ctx, userID, id)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SavedPlansRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// PriceBooksRepositoryWithCircuitBreaker wraps PriceBooksRepository with circuit breaker protection.
type PriceBooksRepositoryWithCircuitBreaker struct {
	repo           PriceBooksRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPriceBooksRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPriceBooksRepositoryWithCircuitBreaker(repo PriceBooksRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PriceBooksRepositoryWithCircuitBreaker {
	return &PriceBooksRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// GetActive returns the active price book. An open circuit surfaces as
// circuitbreaker.ErrCircuitOpen, never as a missing book.
func (r *PriceBooksRepositoryWithCircuitBreaker) GetActive(ctx context.Context, userID primitive.ObjectID) (*model.PriceBook, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.PriceBook, error) {
		return r.repo.GetActive(ctx, userID)
	})
}

func (r *PriceBooksRepositoryWithCircuitBreaker) Create(ctx context.Context, userID primitive.ObjectID, prices map[string]float64, createdBy string) (*model.PriceBook, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.PriceBook, error) {
		return r.repo.Create(ctx, userID, prices, createdBy)
	})
}

func (r *PriceBooksRepositoryWithCircuitBreaker) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.PriceBook, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.PriceBook, error) {
		return r.repo.List(ctx, userID, limit)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PriceBooksRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry. Writes are dropped while the circuit is open.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores log entries. Writes are dropped while the circuit is open.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	return guard(ctx, r.circuitBreaker, func() ([]*model.LogEntry, error) {
		return r.repo.Query(ctx, opts)
	})
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// Package repository provides the MongoDB data access layer.
package repository

import (
	"context"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedPlansRepositoryInterface defines saved plan persistence. Lookups that
// find nothing return nil without an error.
type SavedPlansRepositoryInterface interface {
	Create(ctx context.Context, plan *model.SavedPlan) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.SavedPlan, error)
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.SavedPlan, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error)
	Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error)
}

// PriceBooksRepositoryInterface defines versioned price book persistence.
type PriceBooksRepositoryInterface interface {
	GetActive(ctx context.Context, userID primitive.ObjectID) (*model.PriceBook, error)
	Create(ctx context.Context, userID primitive.ObjectID, prices map[string]float64, createdBy string) (*model.PriceBook, error)
	List(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.PriceBook, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

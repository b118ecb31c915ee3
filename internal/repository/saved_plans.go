package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SavedPlansRepository stores named plans per user. Every lookup is scoped
// to the owner, so a foreign plan id behaves like a missing one.
type SavedPlansRepository struct {
	collection *mongo.Collection
}

// NewSavedPlansRepository creates a new saved plans repository.
func NewSavedPlansRepository(db *MongoDB) *SavedPlansRepository {
	return &SavedPlansRepository{
		collection: db.SavedPlans,
	}
}

// Create inserts a saved plan, assigning its id and timestamps.
func (r *SavedPlansRepository) Create(ctx context.Context, plan *model.SavedPlan) error {
	now := time.Now().UTC()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, plan)
	return err
}

// ListByUser returns the user's plans, newest first.
func (r *SavedPlansRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.SavedPlan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	plans := make([]model.SavedPlan, 0)
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// FindByID returns the plan, or nil when the user has no plan with that id.
func (r *SavedPlansRepository) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.SavedPlan, error) {
	var plan model.SavedPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update renames the plan and replaces its body. It returns nil when the
// user has no plan with that id.
func (r *SavedPlansRepository) Update(ctx context.Context, userID, id primitive.ObjectID, name string, plan model.PlanResult) (*model.SavedPlan, error) {
	update := bson.M{
		"$set": bson.M{
			"plan_name":  name,
			"plan":       plan,
			"updated_at": time.Now().UTC(),
		},
	}

	var saved model.SavedPlan
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&saved)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes the plan and reports whether it existed.
func (r *SavedPlansRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

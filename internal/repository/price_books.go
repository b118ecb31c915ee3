package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PriceBooksRepository keeps versioned price overrides per user.
type PriceBooksRepository struct {
	collection *mongo.Collection
}

// NewPriceBooksRepository creates a new price books repository.
func NewPriceBooksRepository(db *MongoDB) *PriceBooksRepository {
	return &PriceBooksRepository{
		collection: db.PriceBooks,
	}
}

// ErrPriceBookConflict is returned by Create when concurrent writers keep
// claiming the next version.
var ErrPriceBookConflict = errors.New("price book version conflict")

// createAttempts bounds the retries of Create on a version collision.
const createAttempts = 3

// GetActive returns the user's active price book, or nil when none exists.
// While a Create is in flight two versions may be active; the newest wins.
func (r *PriceBooksRepository) GetActive(ctx context.Context, userID primitive.ObjectID) (*model.PriceBook, error) {
	var book model.PriceBook
	err := r.collection.FindOne(
		ctx,
		bson.M{"user_id": userID, "active": true},
		options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}}),
	).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create stores prices as the user's next active version, then deactivates
// the older ones. The unique (user_id, version) index settles concurrent
// writers: the loser retries with a fresh version.
func (r *PriceBooksRepository) Create(ctx context.Context, userID primitive.ObjectID, prices map[string]float64, createdBy string) (*model.PriceBook, error) {
	var err error
	for range createAttempts {
		var book *model.PriceBook
		book, err = r.insertNext(ctx, userID, prices, createdBy)
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		_, err = r.collection.UpdateMany(
			ctx,
			bson.M{"user_id": userID, "active": true, "version": bson.M{"$lt": book.Version}},
			bson.M{"$set": bson.M{"active": false}},
		)
		if err != nil {
			return nil, err
		}
		return book, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrPriceBookConflict, err)
}

func (r *PriceBooksRepository) insertNext(ctx context.Context, userID primitive.ObjectID, prices map[string]float64, createdBy string) (*model.PriceBook, error) {
	version := 1
	var latest model.PriceBook
	err := r.collection.FindOne(
		ctx,
		bson.M{"user_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}}),
	).Decode(&latest)
	switch {
	case err == nil:
		version = latest.Version + 1
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	book := model.PriceBook{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Prices:    prices,
		Version:   version,
		Active:    true,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
	if _, err := r.collection.InsertOne(ctx, book); err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns the user's price book versions, newest first.
func (r *PriceBooksRepository) List(ctx context.Context, userID primitive.ObjectID, limit int) ([]model.PriceBook, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
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

	books := make([]model.PriceBook, 0)
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

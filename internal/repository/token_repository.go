package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// TokenRepositoryInterface tracks outstanding refresh tokens and revoked
// access tokens. Records are addressed by kind and key; expired records
// are invisible even before the TTL monitor removes them.
type TokenRepositoryInterface interface {
	// Save records token. Saving the same kind and key twice keeps the first record.
	Save(ctx context.Context, token *model.Token) error
	// Exists reports whether an unexpired record exists.
	Exists(ctx context.Context, kind, key string) (bool, error)
	// Consume removes and returns an unexpired record, or nil when there is none.
	// Two callers consuming the same key never both receive it.
	Consume(ctx context.Context, kind, key string) (*model.Token, error)
	// DeleteByUser removes every record of kind owned by userID.
	DeleteByUser(ctx context.Context, userID primitive.ObjectID, kind string) (int64, error)
}

// TokenRepository implements TokenRepositoryInterface on the tokens collection.
type TokenRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{collection: db.Collection(CollectionTokens), now: time.Now}
}

func (r *TokenRepository) live(kind, key string) bson.M {
	return bson.M{"kind": kind, "key": key, "expires_at": bson.M{"$gt": r.now()}}
}

// Save implements TokenRepositoryInterface.
func (r *TokenRepository) Save(ctx context.Context, token *model.Token) error {
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = r.now().UTC()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"kind": token.Kind, "key": token.Key},
		bson.M{"$setOnInsert": token},
		options.Update().SetUpsert(true),
	)
	return err
}

// Exists implements TokenRepositoryInterface.
func (r *TokenRepository) Exists(ctx context.Context, kind, key string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, r.live(kind, key), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Consume implements TokenRepositoryInterface.
func (r *TokenRepository) Consume(ctx context.Context, kind, key string) (*model.Token, error) {
	var token model.Token
	err := r.collection.FindOneAndDelete(ctx, r.live(kind, key)).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUser implements TokenRepositoryInterface.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID, kind string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID, "kind": kind})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

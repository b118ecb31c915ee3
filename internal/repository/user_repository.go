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

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Default and maximum page size of List.
const (
	defaultUserPage = 50
	maxUserPage     = 200
)

// UserRepositoryInterface persists accounts. Lookups and updates that find
// no user return nil without an error.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByEmailForAuth loads only what Login needs, password hash included.
	FindByEmailForAuth(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	// FindByIDMinimal loads a user without the password hash.
	FindByIDMinimal(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile model.Profile) (*model.User, error)
	SetRoles(ctx context.Context, id primitive.ObjectID, roles []string) (*model.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
}

var (
	authProjection   = bson.M{"_id": 1, "email": 1, "password": 1, "active": 1, "roles": 1}
	publicProjection = bson.M{"password": 0}
)

// UserRepository implements UserRepositoryInterface using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(CollectionUsers), now: time.Now}
}

// Create inserts user, assigning an id when it has none. The unique email
// index turns a concurrent duplicate into ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

// FindByEmail implements UserRepositoryInterface.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, nil)
}

// FindByEmailForAuth implements UserRepositoryInterface.
func (r *UserRepository) FindByEmailForAuth(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, authProjection)
}

// FindByID implements UserRepositoryInterface.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// FindByIDMinimal implements UserRepositoryInterface.
func (r *UserRepository) FindByIDMinimal(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, publicProjection)
}

// UpdateProfile replaces the user's planning defaults.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile model.Profile) (*model.User, error) {
	return r.set(ctx, id, bson.M{"profile": profile})
}

// SetRoles replaces the user's roles.
func (r *UserRepository) SetRoles(ctx context.Context, id primitive.ObjectID, roles []string) (*model.User, error) {
	return r.set(ctx, id, bson.M{"roles": roles})
}

// SetActive enables or disables the account. Disabled accounts cannot
// log in and keep their data.
func (r *UserRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*model.User, error) {
	return r.set(ctx, id, bson.M{"active": active})
}

// List returns users matching filter, oldest first, without password hashes.
func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	query := bson.M{}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}
	if filter.Role != "" {
		query["roles"] = filter.Role
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxUserPage {
		limit = defaultUserPage
	}
	opts := options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(max(filter.Skip, 0)).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	users := make([]*model.User, 0, limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter, projection bson.M) (*model.User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user model.User
	err := r.collection.FindOne(ctx, filter, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// set applies fields and bumps updated_at, returning the user as stored
// afterwards without its password hash.
func (r *UserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.User, error) {
	fields["updated_at"] = r.now().UTC()
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)

	var user model.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

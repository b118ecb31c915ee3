// Package repository persists saved plans, price books, accounts and logs in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig tunes the driver's connection pool and timeouts.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// EnableCompression negotiates zstd, snappy or zlib with the server.
	EnableCompression bool
}

// DefaultMongoConfig returns the pool settings used in production.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            10,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

// Collection names.
const (
	CollectionSavedPlans = "saved_plans"
	CollectionPriceBooks = "price_books"
	CollectionLogs       = "logs"
	CollectionUsers      = "users"
	CollectionTokens     = "tokens"
)

// MongoDB holds the client and the collections of the service database.
type MongoDB struct {
	Client     *mongo.Client
	Database   *mongo.Database
	SavedPlans *mongo.Collection
	PriceBooks *mongo.Collection
	Logs       *mongo.Collection
	Users      *mongo.Collection
	Tokens     *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, verifies the server answers and ensures
// the indexes every repository relies on.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.EnableCompression {
		opts.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:     client,
		Database:   db,
		SavedPlans: db.Collection(CollectionSavedPlans),
		PriceBooks: db.Collection(CollectionPriceBooks),
		Logs:       db.Collection(CollectionLogs),
		Users:      db.Collection(CollectionUsers),
		Tokens:     db.Collection(CollectionTokens),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

func index(unique bool, keys ...bson.E) mongo.IndexModel {
	model := mongo.IndexModel{Keys: bson.D(keys)}
	if unique {
		model.Options = options.Index().SetUnique(true)
	}
	return model
}

// indexes lists what each collection needs. The logs TTL index is managed
// by SetLogsTTL.
func (m *MongoDB) indexes() map[*mongo.Collection][]mongo.IndexModel {
	return map[*mongo.Collection][]mongo.IndexModel{
		m.SavedPlans: {
			index(false, bson.E{Key: "user_id", Value: 1}, bson.E{Key: "created_at", Value: -1}),
		},
		m.PriceBooks: {
			index(false, bson.E{Key: "user_id", Value: 1}, bson.E{Key: "active", Value: 1}),
			index(true, bson.E{Key: "user_id", Value: 1}, bson.E{Key: "version", Value: -1}),
		},
		m.Logs: {
			index(false, bson.E{Key: "request_id", Value: 1}),
			index(false, bson.E{Key: "user_id", Value: 1}, bson.E{Key: "timestamp", Value: -1}),
		},
		m.Users: {
			index(true, bson.E{Key: "email", Value: 1}),
		},
		m.Tokens: {
			index(true, bson.E{Key: "kind", Value: 1}, bson.E{Key: "key", Value: 1}),
			index(false, bson.E{Key: "user_id", Value: 1}, bson.E{Key: "kind", Value: 1}),
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
	}
}

// ensureIndexes creates missing indexes. An index that already exists with
// other options is left alone.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	var errs []error
	for coll, models := range m.indexes() {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil && !indexConflict(err) {
			errs = append(errs, fmt.Errorf("indexes on %s: %w", coll.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// indexConflict reports IndexOptionsConflict and IndexKeySpecsConflict.
func indexConflict(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && (cmdErr.Code == 85 || cmdErr.Code == 86)
}

// SetLogsTTL expires log entries ttlDays after their timestamp, replacing
// any previous TTL.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	_, _ = m.Logs.Indexes().DropOne(ctx, "timestamp_1")

	_, err := m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttlDays * 24 * 60 * 60)),
	})
	if indexConflict(err) {
		return nil
	}
	return err
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary, giving up after two seconds.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

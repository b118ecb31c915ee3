package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// LogsRepository stores request and audit entries in the TTL-indexed logs
// collection.
type LogsRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs, now: time.Now}
}

// stamp fills the id and timestamp the TTL index and sorting rely on.
func (r *LogsRepository) stamp(entry *model.LogEntry) *model.LogEntry {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}
	return entry
}

// Create inserts a log entry.
func (r *LogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	_, err := r.collection.InsertOne(ctx, r.stamp(entry))
	return err
}

// CreateMany inserts a batch from the async logger. The insert is unordered
// so one bad entry does not drop the rest.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]any, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, r.stamp(entry))
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Query returns entries matching opts, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	find := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		find.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(opts), find)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	entries := []*model.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries matching opts. Limit and Skip are ignored.
func (r *LogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}

func logFilter(opts model.LogQueryOptions) bson.M {
	filter := bson.M{}
	for field, value := range map[string]string{
		"request_id":  opts.RequestID,
		"level":       opts.Level,
		"user_id":     opts.UserID,
		"action_type": opts.ActionType,
	} {
		if value != "" {
			filter[field] = value
		}
	}

	window := bson.M{}
	if opts.StartTime != nil {
		window["$gte"] = *opts.StartTime
	}
	if opts.EndTime != nil {
		window["$lte"] = *opts.EndTime
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}
	return filter
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

// ErrInvalidLogQuery is returned for an unknown level or an inverted time window.
var ErrInvalidLogQuery = errors.New("invalid log query")

// Page size of QueryLogs when none or too many entries are asked for.
const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// LoggingService persists request and audit log entries and serves them
// back to admins.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	// CreateLogs stores a batch from the async logger.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	// QueryLogs returns matching entries, newest first.
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// LoggingServiceImpl implements LoggingService.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service. A nil repository makes every
// operation return ErrRepositoryNotConfigured.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// CreateLog implements LoggingService.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}
	return s.repo.Create(ctx, entry)
}

// CreateLogs implements LoggingService. An empty batch is not sent.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	switch {
	case len(entries) == 0:
		return nil
	case s.repo == nil:
		return ErrRepositoryNotConfigured
	}
	return s.repo.CreateMany(ctx, entries)
}

// QueryLogs implements LoggingService. The limit defaults to 50 and is
// capped at 500.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	opts, err := normalizeLogQuery(opts)
	if err != nil {
		return nil, err
	}
	switch {
	case opts.Limit <= 0:
		opts.Limit = defaultLogLimit
	case opts.Limit > maxLogLimit:
		opts.Limit = maxLogLimit
	}

	docs, err := s.repo.Query(ctx, opts)
	if err != nil {
		return nil, err
	}
	entries := make([]model.LogEntry, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			entries = append(entries, *doc)
		}
	}
	return entries, nil
}

// CountLogs implements LoggingService.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	opts, err := normalizeLogQuery(opts)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, opts)
}

// normalizeLogQuery lowercases the level, which must be a zerolog level
// name, and checks the time window.
func normalizeLogQuery(opts model.LogQueryOptions) (model.LogQueryOptions, error) {
	if opts.Level != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil || level == zerolog.NoLevel {
			return opts, ErrInvalidLogQuery
		}
		opts.Level = level.String()
	}
	if opts.StartTime != nil && opts.EndTime != nil && opts.EndTime.Before(*opts.StartTime) {
		return opts, ErrInvalidLogQuery
	}
	return opts, nil
}

// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/repository"
	"github.com/guttosm/nutriplan-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                       *repository.MongoDB
	LoggingService           service.LoggingService
	AsyncLogger              *middleware.AsyncLogger
	SavedPlansRepo           repository.SavedPlansRepositoryInterface
	PriceBooksRepo           repository.PriceBooksRepositoryInterface
	UserRepo                 repository.UserRepositoryInterface
	TokenRepo                repository.TokenRepositoryInterface
	LogsCircuitBreaker       *circuitbreaker.CircuitBreaker
	SavedPlansCircuitBreaker *circuitbreaker.CircuitBreaker
	PriceBooksCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	return newDatabaseComponents(db, cfg)
}

// newDatabaseComponents builds breaker-wrapped repositories over an open connection.
func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	logsCB := newCircuitBreaker("mongodb_logs", cfg)
	savedPlansCB := newCircuitBreaker("mongodb_saved_plans", cfg)
	priceBooksCB := newCircuitBreaker("mongodb_price_books", cfg)

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)
	loggingService := service.NewLoggingService(logsRepo)

	return &DatabaseComponents{
		DB:                       db,
		LoggingService:           loggingService,
		AsyncLogger:              middleware.NewAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig()),
		SavedPlansRepo:           repository.NewSavedPlansRepositoryWithCircuitBreaker(repository.NewSavedPlansRepository(db), savedPlansCB),
		PriceBooksRepo:           repository.NewPriceBooksRepositoryWithCircuitBreaker(repository.NewPriceBooksRepository(db), priceBooksCB),
		UserRepo:                 repository.NewUserRepository(db.Database),
		TokenRepo:                repository.NewTokenRepository(db.Database),
		LogsCircuitBreaker:       logsCB,
		SavedPlansCircuitBreaker: savedPlansCB,
		PriceBooksCircuitBreaker: priceBooksCB,
	}
}

// newCircuitBreaker creates a breaker that publishes its state as a metric.
// The breaker logs its own transitions.
func newCircuitBreaker(name string, cfg config.DatabaseConfig) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))

	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        repository.CountsAgainstCircuit,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}

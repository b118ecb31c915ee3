// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/http"
)

// App is the wired application: its router plus the resources to release on shutdown.
type App struct {
	Router *gin.Engine

	services *ServiceComponents
	database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *App {
	// Logger first, everything below logs.
	startup := InitializeLogger(cfg.Log)

	services := InitializeServices(cfg.Cache)
	database := InitializeDatabase(cfg.Database)

	if database != nil {
		if err := seedAdmin(database.UserRepo, cfg.Auth); err != nil {
			startup.Warn().Err(err).Msg("Failed to seed admin user")
		}
	}

	components := InitializeRouter(services, database, cfg)

	return &App{
		Router:   http.NewRouter(components.Handler, components.HealthHandler, components.Config),
		services: services,
		database: database,
	}
}

// Close stops the plan cache, ships pending log entries and disconnects from MongoDB.
func (a *App) Close(ctx context.Context) error {
	if a.services != nil && a.services.Optimizer != nil {
		a.services.Optimizer.Stop()
	}

	if a.database != nil && a.database.AsyncLogger != nil {
		a.database.AsyncLogger.Stop()
	}

	var errs []error
	if a.database != nil && a.database.DB != nil {
		if err := a.database.DB.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

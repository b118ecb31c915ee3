package app

import (
	"github.com/rs/zerolog"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

// InitializeLogger configures the global logger and returns the one startup
// code logs through. Unknown or empty levels mean info.
func InitializeLogger(cfg config.LogConfig) zerolog.Logger {
	logger.Init(cfg.Level, cfg.Pretty)

	l := logger.WithFields(map[string]any{"component": "startup"})
	l.Info().
		Str("level", zerolog.GlobalLevel().String()).
		Bool("pretty", cfg.Pretty).
		Msg("Logger initialized")
	return l
}

//go:build !integration

package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/nutriplan-service/config"
)

func TestInitializeLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		cfg  config.LogConfig
		want zerolog.Level
	}{
		{cfg: config.LogConfig{}, want: zerolog.InfoLevel},
		{cfg: config.LogConfig{Level: "verbose"}, want: zerolog.InfoLevel},
		{cfg: config.LogConfig{Level: "debug", Pretty: true}, want: zerolog.DebugLevel},
		{cfg: config.LogConfig{Level: "WARN"}, want: zerolog.WarnLevel},
		{cfg: config.LogConfig{Level: "error"}, want: zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.cfg.Level, func(t *testing.T) {
			startup := InitializeLogger(tt.cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
			assert.NotEqual(t, zerolog.Disabled, startup.GetLevel())
		})
	}
}

//go:build !integration

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		pretty   bool
		expected zerolog.Level
	}{
		{name: "debug level", level: "debug", expected: zerolog.DebugLevel},
		{name: "warn level", level: "warn", expected: zerolog.WarnLevel},
		{name: "error level", level: "error", expected: zerolog.ErrorLevel},
		{name: "invalid level defaults to info", level: "loud", expected: zerolog.InfoLevel},
		{name: "empty level defaults to info", level: "", expected: zerolog.InfoLevel},
		{name: "pretty output", level: "info", pretty: true, expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, tt.pretty)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
	Init("info", false)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	ctx := IntoContext(context.Background(), "req-42")
	FromContext(ctx).Info().Msg("optimized")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, "optimized", line["message"])
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	l := WithFields(map[string]any{"family_size": 3})
	l.Info().Msg("plan")

	assert.Contains(t, buf.String(), `"family_size":3`)
}

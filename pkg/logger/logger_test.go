package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/pkg/logger"
)

func TestNew_JSONOutputWithChildFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	sess := log.Child(log.With().Str("session_id", "abc"))
	sess.Info().Str("command", "LISTAR_CATEGORIAS").Msg("comando despachado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["session_id"])
	assert.Equal(t, "LISTAR_CATEGORIAS", line["command"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
	assert.Equal(t, zerolog.ErrorLevel, logger.ParseLevel("error"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	fallback := logger.Nop()

	assert.Same(t, fallback, logger.FromContext(context.Background(), fallback))

	sess := base.Child(base.With().Str("session_id", "s-1"))
	ctx := sess.WithContext(context.Background())
	logger.FromContext(ctx, fallback).Info().Msg("hola")
	assert.Contains(t, buf.String(), `"session_id":"s-1"`)
}

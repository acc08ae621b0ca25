package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-server/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-server/pkg/config"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}
	s, closeFn, err := storage.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.Store{}, s)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, _, err := storage.Open(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "mongo")
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-server/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 1234, cfg.Socket.Port, "puerto histórico del servidor de estoque")
	assert.Equal(t, 64, cfg.Socket.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Socket.RequestTimeout)
	assert.True(t, cfg.Inventory.AllowNegativeStock)
	assert.False(t, cfg.Inventory.LenientTimestamps)
	assert.False(t, cfg.HTTP.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("SOCKET_PORT", "4321")
	t.Setenv("SOCKET_REQUEST_TIMEOUT", "3")
	t.Setenv("INVENTORY_ALLOW_NEGATIVE_STOCK", "false")
	t.Setenv("INVENTORY_LENIENT_TIMESTAMPS", "true")
	t.Setenv("HTTP_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:4321", cfg.Socket.Addr())
	assert.Equal(t, 3*time.Second, cfg.Socket.RequestTimeout)
	assert.False(t, cfg.Inventory.AllowNegativeStock)
	assert.True(t, cfg.Inventory.LenientTimestamps)
	assert.True(t, cfg.HTTP.Enabled)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "estoque", Password: "p@ss:w/rd", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://estoque:p%40ss%3Aw%2Frd@db:5432/estoque?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestValidate_ReportsEnvNames(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SOCKET_MAX_CONNECTIONS", "0")
	t.Setenv("SOCKET_PORT", "70000")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOCKET_MAX_CONNECTIONS")
	assert.Contains(t, err.Error(), "SOCKET_PORT")
}

func TestValidate_PoolBounds(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}

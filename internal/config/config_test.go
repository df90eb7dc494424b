package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.POS.LowStockThreshold)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowOrigins)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9000\nstorage:\n  driver: sqlite\n  path: /tmp/pos.sqlite\npos:\n  low_stock_threshold: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("POS_STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.POS.LowStockThreshold)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("POS_STORAGE_DRIVER", "localstorage")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMySQLNeedsDSN(t *testing.T) {
	t.Setenv("POS_STORAGE_DRIVER", "mysql")
	t.Setenv("DB_DSN", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "storage.dsn")
}

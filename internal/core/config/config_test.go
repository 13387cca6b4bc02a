package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "APP_HOST", "PER_WAREHOUSE_LAYOUT", "SNAPSHOT_PAGE_SIZE", "TRANSFER_ACTOR", "UPLOAD_RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppHost)
	assert.Equal(t, "v1.3", cfg.PerWarehouseLayout)
	assert.Equal(t, 1000, cfg.SnapshotPageSize)
	assert.Equal(t, "admin", cfg.TransferActor)
	assert.Equal(t, 10, cfg.UploadRateLimit)
	assert.Error(t, cfg.RequireDatabase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leltar?sslmode=disable")
	t.Setenv("PER_WAREHOUSE_LAYOUT", "v1.1")
	t.Setenv("SNAPSHOT_PAGE_SIZE", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.1", cfg.PerWarehouseLayout)
	assert.Equal(t, 250, cfg.SnapshotPageSize)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("SNAPSHOT_PAGE_SIZE", "many")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SNAPSHOT_PAGE_SIZE", "0")
	_, err = Load()
	assert.Error(t, err)
}

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("nil database", func(t *testing.T) {
		err := HealthCheck(ctx, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database connection is nil")
	})

	t.Run("healthy connection", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		assert.NoError(t, HealthCheck(ctx, db))
	})
}

func TestClose(t *testing.T) {
	t.Run("nil database is a no-op", func(t *testing.T) {
		assert.NoError(t, Close(nil))
	})

	t.Run("closed connection fails health check", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		require.NoError(t, Close(db))
		assert.Error(t, HealthCheck(context.Background(), db))
	})
}

func TestGetStats(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := GetStats(nil)
		assert.Error(t, err)
	})

	t.Run("open connection reports stats", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		stats, err := GetStats(db)
		require.NoError(t, err)
		assert.NotNil(t, stats)
	})
}

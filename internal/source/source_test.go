package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/liquifier/internal/config"
	"github.com/mmynk/liquifier/internal/node/lncli"
	"github.com/mmynk/liquifier/internal/storage/sqlite"
)

func TestOpen(t *testing.T) {
	t.Run("lncli", func(t *testing.T) {
		q, closeFn, err := Open(&config.Config{NodeSource: config.SourceLncli, LncliPath: "/usr/local/bin/lncli"})
		require.NoError(t, err)
		assert.IsType(t, &lncli.Client{}, q)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "node.db")
		store, err := sqlite.New(dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		q, closeFn, err := Open(&config.Config{NodeSource: config.SourceSQLite, SnapshotDBPath: dbPath})
		require.NoError(t, err)
		assert.IsType(t, &sqlite.SQLiteStore{}, q)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite snapshot missing", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "typo", "node.db")
		_, _, err := Open(&config.Config{NodeSource: config.SourceSQLite, SnapshotDBPath: dbPath})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.ErrorIs(t, err, sqlite.ErrSnapshotNotFound)
		assert.NoDirExists(t, filepath.Dir(dbPath))
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := Open(&config.Config{NodeSource: "grpc"})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// setupBackend attaches a backend over a temporary data directory and
// detaches it on cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Engine:  types.DefaultEngineConfig(),
	}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { require.NoError(t, b.Detach()) })
	return b
}

func TestAttach(t *testing.T) {
	t.Run("creates the database file", func(t *testing.T) {
		dataDir := t.TempDir()
		b := NewBackend()
		cfg := types.Config{
			Backend: types.BackendSQLite,
			DataDir: dataDir,
			Engine:  types.DefaultEngineConfig(),
		}

		require.NoError(t, b.Attach(cfg))
		t.Cleanup(func() { require.NoError(t, b.Detach()) })

		_, err := os.Stat(filepath.Join(dataDir, dbFileName))
		assert.NoError(t, err)
	})

	t.Run("double attach fails", func(t *testing.T) {
		b := setupBackend(t)

		err := b.Attach(types.Config{
			Backend: types.BackendSQLite,
			DataDir: t.TempDir(),
			Engine:  types.DefaultEngineConfig(),
		})

		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		b := NewBackend()

		err := b.Attach(types.Config{Backend: "postgres"})

		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})
}

func TestDetach(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		b := NewBackend()

		assert.NoError(t, b.Detach())
		assert.NoError(t, b.Detach())
	})

	t.Run("stores fail after detach", func(t *testing.T) {
		b := NewBackend()
		cfg := types.Config{
			Backend: types.BackendSQLite,
			DataDir: t.TempDir(),
			Engine:  types.DefaultEngineConfig(),
		}
		require.NoError(t, b.Attach(cfg))
		require.NoError(t, b.Detach())

		_, err := b.Content().Get("anything")

		assert.ErrorIs(t, err, types.ErrStoreDetached)
	})
}

func TestDataSurvivesReattach(t *testing.T) {
	dataDir := t.TempDir()
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Engine:  types.DefaultEngineConfig(),
	}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	id, err := b.Content().Create(&types.ContentItem{Title: "persistent"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { require.NoError(t, b.Detach()) })

	item, err := b.Content().Get(id)
	require.NoError(t, err)
	assert.Equal(t, "persistent", item.Title)
}

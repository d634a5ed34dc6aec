package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	conn := filepath.Join(t.TempDir(), "nested", "test.db") + "?_pragma=foreign_keys(1)"

	database, err := Init(ctx, "sqlite", conn)
	require.NoError(t, err)
	defer Close(database)

	require.NoError(t, RunMigrations(ctx, database.DB, "sqlite"))

	version, err := Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var tables []string
	require.NoError(t, database.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'images', 'albums', 'album_images') ORDER BY name`))
	assert.Equal(t, []string{"album_images", "albums", "images", "users"}, tables)

	require.NoError(t, MigrateDown(ctx, database.DB, "sqlite"))

	version, err = Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestEnsureSQLiteDirSkipsMemory(t *testing.T) {
	require.NoError(t, ensureSQLiteDir(":memory:"))
	require.NoError(t, ensureSQLiteDir("file::memory:?cache=shared"))
}

package migrator_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
)

func TestRunMigrations_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewPool(ctx, "sqlite://"+filepath.Join(t.TempDir(), "m.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applied, err := migrator.RunMigrations(ctx, db, inventory.FS)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	var bins int
	require.NoError(t, db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM containers WHERE kind = 'bin'`).Scan(&bins))
	assert.Equal(t, 5, bins)

	t.Run("second run is a no-op", func(t *testing.T) {
		applied, err := migrator.RunMigrations(ctx, db, inventory.FS)
		require.NoError(t, err)
		assert.Zero(t, applied)
	})
}

func TestRunMigrations_QuantityCheck(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewPool(ctx, "sqlite://"+filepath.Join(t.TempDir(), "m.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = migrator.RunMigrations(ctx, db, inventory.FS)
	require.NoError(t, err)

	_, err = db.DB().ExecContext(ctx, `INSERT INTO items (id, name, quantity) VALUES ('x', 'nails', 0)`)
	assert.Error(t, err)
}

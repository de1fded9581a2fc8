package migrator

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/treasuretrove/ledger/pkg/database"
)

// RunMigrations applies all pending goose migrations for db's dialect.
// files must contain one directory per dialect ("postgres", "sqlite").
// Returns the number of migrations applied.
func RunMigrations(ctx context.Context, db *database.Database, files fs.FS) (int, error) {
	gooseDialect, err := gooseDialectFor(db.Dialect())
	if err != nil {
		return 0, err
	}

	dir, err := fs.Sub(files, string(db.Dialect()))
	if err != nil {
		return 0, fmt.Errorf("failed to open %s migrations: %w", db.Dialect(), err)
	}

	provider, err := goose.NewProvider(gooseDialect, db.DB(), dir)
	if err != nil {
		return 0, fmt.Errorf("failed to create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("failed to up migrations: %w", err)
	}
	return len(results), nil
}

func gooseDialectFor(d database.Dialect) (goose.Dialect, error) {
	switch d {
	case database.DialectPostgres:
		return goose.DialectPostgres, nil
	case database.DialectSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no goose dialect for %q", d)
	}
}

// Package database owns the shared *sql.DB handle. One Database is opened at
// startup and injected into every repository; repositories never open their own
// connections. Both PostgreSQL (server deployments, via pgx's database/sql
// driver) and SQLite (single-household installs and tests, via modernc) are
// supported behind the same handle.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/treasuretrove/ledger/pkg/logger"
)

// Dialect identifies the SQL engine behind a Database.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	pingTimeout       = 5 * time.Second
	sqliteBusyTimeout = 5000 // ms
)

// Database wraps *sql.DB with the dialect it was opened for.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

// NewPool opens a connection pool for url and verifies connectivity.
// postgres:// and postgresql:// URLs use pgx; sqlite://path and file:path use SQLite.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	driver, dsn, dialect, err := parseURL(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	switch dialect {
	case DialectSQLite:
		// SQLite allows one writer; a single connection serializes transactions
		// instead of surfacing SQLITE_BUSY to callers.
		db.SetMaxOpenConns(1)
	case DialectPostgres:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	log.Debug("database opened", "dialect", string(dialect))
	return &Database{db: db, dialect: dialect}, nil
}

func parseURL(url string) (driver, dsn string, dialect Dialect, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "pgx", url, DialectPostgres, nil
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", sqliteDSN("file:" + strings.TrimPrefix(url, "sqlite://")), DialectSQLite, nil
	case strings.HasPrefix(url, "file:"):
		return "sqlite", sqliteDSN(url), DialectSQLite, nil
	default:
		return "", "", "", fmt.Errorf("unsupported database url %q", redact(url))
	}
}

// sqliteDSN enables foreign keys, waits on locks instead of failing, and
// stores time.Time as sortable "YYYY-MM-DD HH:MM:SS.fff+00:00" text.
func sqliteDSN(base string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_time_format=sqlite", base, sep, sqliteBusyTimeout)
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	return "..."
}

// DB returns the underlying *sql.DB for non-transactional reads.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect reports which engine the pool talks to.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// Builder returns a squirrel statement builder with the placeholder format of
// the pool's dialect ($1 for PostgreSQL, ? for SQLite).
func (d *Database) Builder() squirrel.StatementBuilderType {
	if d.dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection.
func (d *Database) Close() {
	_ = d.db.Close()
}

// Package storage persists every entity the review pipeline touches behind
// a single sqlx-backed DB: Postgres in production (lib/pq, migrated with
// golang-migrate), SQLite for the offline CLI (mattn/go-sqlite3). Every
// query is written with `?` placeholders and rebound per driver, so one
// query set serves both backends; the handful of Postgres-only features
// (JSONB and BYTEA columns) are isolated to the Postgres migration.
package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: record not found")

// DB wraps a sqlx connection pool and the driver it was opened with, since
// a handful of queries (JSONB vs. TEXT, RETURNING semantics) need to know
// which dialect they're talking to.
type DB struct {
	*sqlx.DB
	driver string
	logger *slog.Logger
}

// Open connects to driverName (`postgres` or `sqlite3`) at dsn and, for
// Postgres, applies every pending migration. SQLite has no migration
// runner wired here: the CLI's offline bundle is ephemeral per run, so its
// schema is created directly from the embedded schema file instead of
// tracking versioned migrations.
func Open(ctx context.Context, driverName, dsn string, logger *slog.Logger) (*DB, error) {
	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driverName, err)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driverName, err)
	}

	db := &DB{DB: conn, driver: driverName, logger: logger}

	switch driverName {
	case "postgres":
		if err := db.migratePostgres(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("storage: migrate: %w", err)
		}
	case "sqlite3":
		if err := db.applySQLiteSchema(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("storage: apply sqlite schema: %w", err)
		}
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("storage: unsupported driver %q", driverName)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error { return db.DB.Close() }

// rebind converts a `?`-placeholder query into the bound form db's driver
// expects (`$1, $2, ...` for Postgres, unchanged for SQLite).
func (db *DB) rebind(query string) string { return db.DB.Rebind(query) }

// insertReturningID runs an INSERT and returns the row's assigned id via a
// RETURNING clause. lib/pq does not implement sql.Result.LastInsertId, and
// mattn/go-sqlite3 supports RETURNING on modern SQLite, so this is the one
// id-generation path that works unchanged against both drivers.
func (db *DB) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	row := db.QueryRowContext(ctx, db.rebind(query+" RETURNING id"), args...)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// migratePostgres runs every embedded up migration, refusing to proceed if
// the schema was left dirty by a previous failed run.
func (db *DB) migratePostgres() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	dbDriver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("new migrator: %w", err)
	}

	_, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return errors.New("database is in a dirty migration state; fix manually before retrying")
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// applySQLiteSchema creates every table if it doesn't already exist, using
// the SQLite-dialect companion of the Postgres migration's up script.
func (db *DB) applySQLiteSchema(ctx context.Context) error {
	schema, err := migrationsFS.ReadFile("migrations/0001_sqlite_schema.sql")
	if err != nil {
		return fmt.Errorf("read sqlite schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("exec sqlite schema: %w", err)
	}
	return nil
}

// Package db opens the local SQLite cache, applies migrations and bundles the
// repositories the sync layer works with.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kavyatex/sareebook/internal/client/migrations"
	"github.com/kavyatex/sareebook/internal/client/repositories/metadata"
	"github.com/kavyatex/sareebook/internal/client/repositories/orders"
	"github.com/kavyatex/sareebook/internal/client/repositories/outbox"
	"github.com/kavyatex/sareebook/internal/client/repositories/suggestions"
	"github.com/kavyatex/sareebook/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Repositories groups the per-entity repositories over one database handle.
type Repositories struct {
	Orders      orders.Repository
	Metadata    metadata.Repository
	Outbox      outbox.Repository
	Suggestions suggestions.Repository
}

func newRepositories(h dbx.DBTX) Repositories {
	return Repositories{
		Orders:      orders.NewSQLiteRepository(h),
		Metadata:    metadata.NewSQLiteRepository(h),
		Outbox:      outbox.NewSQLiteRepository(h),
		Suggestions: suggestions.NewSQLiteRepository(h),
	}
}

// Store owns the database connection. Multi-step operations run through InTx
// so callers never observe partial writes.
type Store struct {
	Repositories
	db *sql.DB
}

// NewStore wraps an already opened and migrated database. Tests use this with
// an in-memory connection.
func NewStore(db *sql.DB) *Store {
	return &Store{Repositories: newRepositories(db), db: db}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the cache database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite misbehaves with concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStore(db), nil
}

// InTx runs fn with transaction-scoped repositories, committing on success.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/herblock/herblock/internal/client/migrations"
	"github.com/herblock/herblock/internal/client/repositories/credentials"
	"github.com/herblock/herblock/internal/client/repositories/events"
)

// Repositories bundles the local persistence layer handed to services.
// DB is exposed for transactional flows that span repositories.
type Repositories struct {
	Events      events.Repository
	Credentials credentials.Repository
	DB          *sql.DB
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies the embedded goose migrations to db.
// It is safe to call on every start; applied migrations are skipped.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local SQLite database at dsn,
// applies migrations and returns the wired repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Events:      events.NewSQLiteRepository(db),
		Credentials: credentials.NewSQLiteRepository(db),
		DB:          db,
	}, nil
}

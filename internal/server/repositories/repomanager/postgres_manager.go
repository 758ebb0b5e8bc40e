// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/spellcaster/internal/dbx"
	"github.com/dmitrijs2005/spellcaster/internal/server/migrations"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/globalstate"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/pricing"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/userstates"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// GlobalState returns a globalstate.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) GlobalState(db dbx.DBTX) globalstate.Repository {
	return globalstate.NewPostgresRepository(db)
}

// Pricing returns a pricing.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Pricing(db dbx.DBTX) pricing.Repository {
	return pricing.NewPostgresRepository(db)
}

// UserStates returns a userstates.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) UserStates(db dbx.DBTX) userstates.Repository {
	return userstates.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenDB opens a pgx-backed *sql.DB and verifies the connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Package globalstate stores the system-wide configuration and counters row.
package globalstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/dbx"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectQuery = `SELECT authority, treasury, token_mint, total_burned, total_collected, total_casts, total_successes
		 FROM global_state
		 WHERE id = 1`

func (r *PostgresRepository) Create(ctx context.Context, g *models.GlobalState) error {
	query :=
		`INSERT INTO global_state (id, authority, treasury, token_mint)
		 VALUES (1, $1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, g.Authority, g.Treasury, g.TokenMint); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrAlreadyInitialized
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.GlobalState, error) {
	return r.get(ctx, selectQuery)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context) (*models.GlobalState, error) {
	return r.get(ctx, selectQuery+" FOR UPDATE")
}

func (r *PostgresRepository) get(ctx context.Context, query string) (*models.GlobalState, error) {
	g := &models.GlobalState{}
	var burned, collected, casts, successes dbx.Uint64

	err := r.db.QueryRowContext(ctx, query).Scan(
		&g.Authority, &g.Treasury, &g.TokenMint, &burned, &collected, &casts, &successes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	g.TotalBurned = uint64(burned)
	g.TotalCollected = uint64(collected)
	g.TotalCasts = uint64(casts)
	g.TotalSuccesses = uint64(successes)
	return g, nil
}

func (r *PostgresRepository) Update(ctx context.Context, g *models.GlobalState) error {
	query :=
		`UPDATE global_state
		 SET total_burned = $1, total_collected = $2, total_casts = $3, total_successes = $4
		 WHERE id = 1
		 `

	_, err := r.db.ExecContext(ctx, query,
		dbx.Uint64(g.TotalBurned), dbx.Uint64(g.TotalCollected), dbx.Uint64(g.TotalCasts), dbx.Uint64(g.TotalSuccesses))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

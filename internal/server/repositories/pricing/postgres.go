// Package pricing stores the oracle prices row.
package pricing

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

const selectQuery = `SELECT token_price_usd, currency_price_usd, last_update
		 FROM pricing_state
		 WHERE id = 1`

func (r *PostgresRepository) Create(ctx context.Context, p *models.PricingState) error {
	query :=
		`INSERT INTO pricing_state (id, token_price_usd, currency_price_usd, last_update)
		 VALUES (1, $1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, p.TokenPriceUSD, p.CurrencyPriceUSD, p.LastUpdate); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrAlreadyInitialized
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.PricingState, error) {
	return r.get(ctx, selectQuery)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context) (*models.PricingState, error) {
	return r.get(ctx, selectQuery+" FOR UPDATE")
}

func (r *PostgresRepository) get(ctx context.Context, query string) (*models.PricingState, error) {
	p := &models.PricingState{}
	err := r.db.QueryRowContext(ctx, query).Scan(&p.TokenPriceUSD, &p.CurrencyPriceUSD, &p.LastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.PricingState) error {
	query :=
		`UPDATE pricing_state
		 SET token_price_usd = $1, currency_price_usd = $2, last_update = $3
		 WHERE id = 1
		 `

	if _, err := r.db.ExecContext(ctx, query, p.TokenPriceUSD, p.CurrencyPriceUSD, p.LastUpdate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

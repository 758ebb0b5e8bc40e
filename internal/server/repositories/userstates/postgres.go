// Package userstates stores user ledgers: runes, spellbooks per tier, buff
// expiries per tier and the mirrored legacy buff fields.
package userstates

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

const selectQuery = `SELECT owner, runes,
		 books_novice, books_adept, books_master, books_legendary,
		 expiry_novice, expiry_adept, expiry_master, expiry_legendary,
		 multiplier, buff_expiry, active_tier, layout_version
		 FROM user_states
		 WHERE owner = $1`

func (r *PostgresRepository) Create(ctx context.Context, u *models.UserState) error {
	query :=
		`INSERT INTO user_states (owner, runes,
		 books_novice, books_adept, books_master, books_legendary,
		 expiry_novice, expiry_adept, expiry_master, expiry_legendary,
		 multiplier, buff_expiry, active_tier, layout_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 `

	if _, err := r.db.ExecContext(ctx, query, r.args(u)...); err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrAlreadyInitialized
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner models.Identity) (*models.UserState, error) {
	return r.get(ctx, selectQuery, owner)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, owner models.Identity) (*models.UserState, error) {
	return r.get(ctx, selectQuery+" FOR UPDATE", owner)
}

func (r *PostgresRepository) get(ctx context.Context, query string, owner models.Identity) (*models.UserState, error) {
	u := &models.UserState{}
	var runes dbx.Uint64
	var books [models.TierCount]dbx.Uint64
	var expiry [models.TierCount]sql.NullInt64
	var activeTier int16

	err := r.db.QueryRowContext(ctx, query, owner).Scan(
		&u.Owner, &runes,
		&books[models.TierNovice], &books[models.TierAdept], &books[models.TierMaster], &books[models.TierLegendary],
		&expiry[models.TierNovice], &expiry[models.TierAdept], &expiry[models.TierMaster], &expiry[models.TierLegendary],
		&u.Multiplier, &u.BuffExpiry, &activeTier, &u.LayoutVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Runes = uint64(runes)
	u.ActiveTier = models.Tier(activeTier)
	for i := range books {
		u.Spellbooks[i] = uint64(books[i])
		u.TierExpiry[i] = expiry[i].Int64
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.UserState) error {
	query :=
		`UPDATE user_states
		 SET runes = $2,
		 books_novice = $3, books_adept = $4, books_master = $5, books_legendary = $6,
		 expiry_novice = $7, expiry_adept = $8, expiry_master = $9, expiry_legendary = $10,
		 multiplier = $11, buff_expiry = $12, active_tier = $13, layout_version = $14
		 WHERE owner = $1
		 `

	res, err := r.db.ExecContext(ctx, query, r.args(u)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// args lists column values in the order shared by Create and Update. Legacy
// records keep NULL expiries until they are migrated.
func (r *PostgresRepository) args(u *models.UserState) []any {
	expiry := make([]any, models.TierCount)
	for i, e := range u.TierExpiry {
		expiry[i] = sql.NullInt64{Int64: e, Valid: !u.Outdated()}
	}
	return []any{
		u.Owner, dbx.Uint64(u.Runes),
		dbx.Uint64(u.Spellbooks[models.TierNovice]), dbx.Uint64(u.Spellbooks[models.TierAdept]),
		dbx.Uint64(u.Spellbooks[models.TierMaster]), dbx.Uint64(u.Spellbooks[models.TierLegendary]),
		expiry[models.TierNovice], expiry[models.TierAdept], expiry[models.TierMaster], expiry[models.TierLegendary],
		u.Multiplier, u.BuffExpiry, int16(u.ActiveTier), u.LayoutVersion,
	}
}

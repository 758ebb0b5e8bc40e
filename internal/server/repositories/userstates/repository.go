package userstates

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Repository persists per-user ledger and buff records.
type Repository interface {
	Create(ctx context.Context, u *models.UserState) error
	Get(ctx context.Context, owner models.Identity) (*models.UserState, error)
	// GetForUpdate reads the record and holds its row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, owner models.Identity) (*models.UserState, error)
	Update(ctx context.Context, u *models.UserState) error
}

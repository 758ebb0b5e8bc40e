package globalstate

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Repository persists the GlobalState singleton.
type Repository interface {
	Create(ctx context.Context, g *models.GlobalState) error
	Get(ctx context.Context) (*models.GlobalState, error)
	// GetForUpdate reads the singleton and holds its row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context) (*models.GlobalState, error)
	Update(ctx context.Context, g *models.GlobalState) error
}

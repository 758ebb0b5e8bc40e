package pricing

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Repository persists the price oracle singleton.
type Repository interface {
	Create(ctx context.Context, p *models.PricingState) error
	Get(ctx context.Context) (*models.PricingState, error)
	GetForUpdate(ctx context.Context) (*models.PricingState, error)
	Update(ctx context.Context, p *models.PricingState) error
}

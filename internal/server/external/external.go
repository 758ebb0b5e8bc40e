// Package external declares the collaborators the spell economy depends on
// but does not own: the token program that burns crafting input and the
// payment rail that moves native currency to the treasury.
package external

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// TokenBurner destroys amount base units of token mint held by owner.
type TokenBurner interface {
	Burn(ctx context.Context, owner, mint models.Identity, amount uint64) error
}

// Treasury moves amount native base units from payer to the treasury account.
type Treasury interface {
	Transfer(ctx context.Context, payer, treasury models.Identity, amount uint64) error
}

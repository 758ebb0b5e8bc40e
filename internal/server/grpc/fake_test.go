package grpc

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/dmitrijs2005/spellcaster/internal/spells"
)

// fakeSpells records the last call and returns preset values.
type fakeSpells struct {
	err error

	gotOwner   models.Identity
	gotOwners  []models.Identity
	gotTier    models.Tier
	gotQty     uint64
	gotAmount  uint64
	gotEntropy models.Entropy
	gotPrices  [2]float64
	gotInit    [3]models.Identity

	user       *models.UserState
	pricing    *models.PricingState
	quote      *spells.Quote
	cast       *spells.CastResult
	migrated   bool
	multiplier spells.MultiplierReport
	batch      map[models.Identity]spells.MultiplierReport
	stats      spells.Stats
}

func (f *fakeSpells) InitializeSystem(_ context.Context, authority, treasury, mint models.Identity) error {
	f.gotInit = [3]models.Identity{authority, treasury, mint}
	return f.err
}

func (f *fakeSpells) InitializeUser(_ context.Context, owner models.Identity) (*models.UserState, error) {
	f.gotOwner = owner
	return f.user, f.err
}

func (f *fakeSpells) MigrateUser(_ context.Context, owner models.Identity) (bool, error) {
	f.gotOwner = owner
	return f.migrated, f.err
}

func (f *fakeSpells) UpdatePrices(_ context.Context, caller models.Identity, token, ccy float64) (*models.PricingState, error) {
	f.gotOwner = caller
	f.gotPrices = [2]float64{token, ccy}
	return f.pricing, f.err
}

func (f *fakeSpells) CraftRunes(_ context.Context, owner models.Identity, amount uint64) (*models.UserState, error) {
	f.gotOwner, f.gotAmount = owner, amount
	return f.user, f.err
}

func (f *fakeSpells) BuySpellbooks(_ context.Context, owner models.Identity, tier models.Tier, qty uint64) (*models.UserState, *spells.Quote, error) {
	f.gotOwner, f.gotTier, f.gotQty = owner, tier, qty
	return f.user, f.quote, f.err
}

func (f *fakeSpells) CastSpell(_ context.Context, owner models.Identity, tier models.Tier, entropy models.Entropy) (*models.UserState, *spells.CastResult, error) {
	f.gotOwner, f.gotTier, f.gotEntropy = owner, tier, entropy
	return f.user, f.cast, f.err
}

func (f *fakeSpells) QuoteSpellbooks(_ context.Context, tier models.Tier, qty uint64) (*spells.Quote, error) {
	f.gotTier, f.gotQty = tier, qty
	return f.quote, f.err
}

func (f *fakeSpells) GetUser(_ context.Context, owner models.Identity) (*models.UserState, error) {
	f.gotOwner = owner
	return f.user, f.err
}

func (f *fakeSpells) GetMultiplier(_ context.Context, owner models.Identity) (spells.MultiplierReport, error) {
	f.gotOwner = owner
	return f.multiplier, f.err
}

func (f *fakeSpells) GetMultipliers(_ context.Context, owners []models.Identity) (map[models.Identity]spells.MultiplierReport, error) {
	f.gotOwners = owners
	return f.batch, f.err
}

func (f *fakeSpells) GetStats(context.Context) (spells.Stats, error) {
	return f.stats, f.err
}

func fill(b byte) models.Identity {
	var id models.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

// Package spells holds the rules of the spell economy: tier parameters,
// oracle validation, spellbook pricing, outcome resolution, buff stacking
// and the cast state transition.
//
// Everything here is pure. Functions take state by value and return the
// next state, leaving persistence, locking and event delivery to callers.
package spells

import "github.com/dmitrijs2005/spellcaster/internal/server/models"

const (
	// BuffDuration is how long a successful cast keeps its tier active, in seconds.
	BuffDuration int64 = 864_000

	// PriceMaxAge is the age at which oracle prices become unusable, in seconds.
	PriceMaxAge int64 = 300

	// MaxPurchaseQuantity caps spellbooks bought in one purchase.
	MaxPurchaseQuantity uint64 = 100

	// NativeUnitsPerCoin converts whole native currency into base units.
	NativeUnitsPerCoin = 1_000_000_000

	// RefundDivisor sets the share of the rune cost returned on a failed cast.
	RefundDivisor uint64 = 10
)

// TierParams is the fixed configuration of a tier.
type TierParams struct {
	RuneCost           uint64
	SuccessRate        uint32
	Boost              float64
	ResourceEquivalent uint64
}

var tierTable = [models.TierCount]TierParams{
	models.TierNovice:    {RuneCost: 10_000_000_000, SuccessRate: 70, Boost: 0.10, ResourceEquivalent: 7_500},
	models.TierAdept:     {RuneCost: 20_000_000_000, SuccessRate: 50, Boost: 0.25, ResourceEquivalent: 15_000},
	models.TierMaster:    {RuneCost: 50_000_000_000, SuccessRate: 35, Boost: 0.50, ResourceEquivalent: 37_500},
	models.TierLegendary: {RuneCost: 100_000_000_000, SuccessRate: 20, Boost: 1.00, ResourceEquivalent: 75_000},
}

// Params returns the parameters of t. t must be valid.
func Params(t models.Tier) TierParams {
	return tierTable[t]
}

package models

// Record layouts of a user state row. LayoutLegacy rows predate per-tier buff
// expiries and must be migrated before they can be mutated.
const (
	LayoutLegacy  = 1
	LayoutCurrent = 2
)

// GlobalState is the singleton holding configuration identities and
// system-wide counters. Counters only grow.
type GlobalState struct {
	Authority      Identity
	Treasury       Identity
	TokenMint      Identity
	TotalBurned    uint64
	TotalCollected uint64
	TotalCasts     uint64
	TotalSuccesses uint64
}

// PricingState is the price oracle singleton. LastUpdate is unix seconds.
type PricingState struct {
	TokenPriceUSD    float64
	CurrencyPriceUSD float64
	LastUpdate       int64
}

// UserState is a user's ledger and buff record.
//
// TierExpiry holds one expiry per tier (0 = never cast). Multiplier,
// BuffExpiry and ActiveTier mirror the last successful cast and are never
// consulted when deciding whether a tier is locked.
type UserState struct {
	Owner         Identity
	Runes         uint64
	Spellbooks    [TierCount]uint64
	TierExpiry    [TierCount]int64
	Multiplier    float64
	BuffExpiry    int64
	ActiveTier    Tier
	LayoutVersion int
}

// NewUserState returns a zeroed record in the current layout.
func NewUserState(owner Identity) UserState {
	return UserState{
		Owner:         owner,
		Multiplier:    1.0,
		LayoutVersion: LayoutCurrent,
	}
}

// Outdated reports whether the record needs migrate-user-record before use.
func (u UserState) Outdated() bool { return u.LayoutVersion < LayoutCurrent }

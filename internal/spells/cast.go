package spells

import (
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// CastResult describes what a cast did.
type CastResult struct {
	Tier    models.Tier
	Outcome Outcome
	Cost    uint64
	// Refund is non-zero only on failure.
	Refund uint64
	// Expiry and Multiplier are set only on success.
	Expiry     int64
	Multiplier float64
}

// Cast runs the cast state machine for one tier.
//
// Preconditions are checked in order: tier lock, rune balance, spellbook
// balance. Runes and one spellbook are debited before the roll. The global
// cast counter always grows. A success locks the tier for BuffDuration and
// recomputes the aggregate multiplier; a failure refunds a tenth of the
// runes and keeps the spellbook spent.
func Cast(u models.UserState, g models.GlobalState, tier models.Tier, entropy models.Entropy, now int64) (models.UserState, models.GlobalState, CastResult, error) {
	if !tier.Valid() {
		return u, g, CastResult{}, common.ErrInvalidTier
	}
	if IsLocked(u.TierExpiry[tier], now) {
		return u, g, CastResult{}, common.ErrBuffActive
	}

	params := Params(tier)
	if u.Runes < params.RuneCost {
		return u, g, CastResult{}, common.ErrInsufficientRunes
	}
	if u.Spellbooks[tier] < 1 {
		return u, g, CastResult{}, common.ErrInsufficientBooks
	}

	next := u
	var err error
	if next.Runes, err = subU64(next.Runes, params.RuneCost); err != nil {
		return u, g, CastResult{}, err
	}
	if next.Spellbooks[tier], err = subU64(next.Spellbooks[tier], 1); err != nil {
		return u, g, CastResult{}, err
	}

	outcome := Resolve(entropy, u.Owner, now, tier)
	res := CastResult{Tier: tier, Outcome: outcome, Cost: params.RuneCost}

	nextGlobal := g
	if nextGlobal.TotalCasts, err = addU64(nextGlobal.TotalCasts, 1); err != nil {
		return u, g, CastResult{}, err
	}

	if outcome.Success {
		expiry := now + BuffDuration
		next.TierExpiry[tier] = expiry
		next.Multiplier = AggregateMultiplier(next.TierExpiry, now)
		next.BuffExpiry = expiry
		next.ActiveTier = tier
		if nextGlobal.TotalSuccesses, err = addU64(nextGlobal.TotalSuccesses, 1); err != nil {
			return u, g, CastResult{}, err
		}
		res.Expiry = expiry
		res.Multiplier = next.Multiplier
		return next, nextGlobal, res, nil
	}

	res.Refund = params.RuneCost / RefundDivisor
	if next.Runes, err = addU64(next.Runes, res.Refund); err != nil {
		return u, g, CastResult{}, err
	}
	return next, nextGlobal, res, nil
}

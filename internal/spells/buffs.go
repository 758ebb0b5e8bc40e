package spells

import "github.com/dmitrijs2005/spellcaster/internal/server/models"

// IsLocked reports whether a tier with the given expiry can not be cast at now.
func IsLocked(expiry, now int64) bool {
	return expiry > 0 && now < expiry
}

// AggregateMultiplier is 1 plus the boost of every tier whose expiry lies
// strictly after now.
func AggregateMultiplier(expiries [models.TierCount]int64, now int64) float64 {
	m := 1.0
	for _, tier := range models.AllTiers() {
		if expiries[tier] > now {
			m += Params(tier).Boost
		}
	}
	return m
}

// ActiveTiers lists the tiers still locked at now.
func ActiveTiers(expiries [models.TierCount]int64, now int64) []models.Tier {
	var active []models.Tier
	for _, tier := range models.AllTiers() {
		if IsLocked(expiries[tier], now) {
			active = append(active, tier)
		}
	}
	return active
}

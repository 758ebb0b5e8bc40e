package spells

import (
	"math"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

const (
	// RuneUnitsPerRune converts rune base units into whole runes for the
	// holding bonus.
	RuneUnitsPerRune = 1_000_000

	runesPerBonusStep = 10_000
	bonusPerStep      = 0.01
	maxHoldingBonus   = 0.20
)

// RuneHoldingBonus grants 1% per 10 000 whole runes held, capped at 20%.
func RuneHoldingBonus(runes uint64) float64 {
	whole := float64(runes) / RuneUnitsPerRune
	return math.Min(whole/runesPerBonusStep*bonusPerStep, maxHoldingBonus)
}

// MultiplierReport is what downstream reward distribution reads for a user.
type MultiplierReport struct {
	// Spell is the aggregate of tiers still active at the reading time.
	Spell float64
	// Legacy is the mirrored multiplier, or 1 once the mirrored expiry passed.
	Legacy       float64
	HoldingBonus float64
	// Total is Spell plus HoldingBonus.
	Total       float64
	ActiveTiers []models.Tier
}

// ReadMultiplier evaluates u at now. Legacy layout records have no tier
// expiries, so their spell part comes from the mirrored fields.
func ReadMultiplier(u models.UserState, now int64) MultiplierReport {
	legacy := 1.0
	if IsLocked(u.BuffExpiry, now) {
		legacy = u.Multiplier
	}

	spell := legacy
	var active []models.Tier
	if !u.Outdated() {
		spell = AggregateMultiplier(u.TierExpiry, now)
		active = ActiveTiers(u.TierExpiry, now)
	}

	bonus := RuneHoldingBonus(u.Runes)
	return MultiplierReport{
		Spell:        spell,
		Legacy:       legacy,
		HoldingBonus: bonus,
		Total:        spell + bonus,
		ActiveTiers:  active,
	}
}

// BaseMultiplier is reported for users without a record.
func BaseMultiplier() MultiplierReport {
	return MultiplierReport{Spell: 1, Legacy: 1, Total: 1}
}

package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/spellcaster/internal/common"
)

// Tier is one of the four spell tiers. Tier-indexed state is stored in
// fixed-size arrays of length TierCount.
type Tier uint8

const (
	TierNovice Tier = iota
	TierAdept
	TierMaster
	TierLegendary
)

// TierCount is the number of tiers.
const TierCount = 4

var tierNames = [TierCount]string{"novice", "adept", "master", "legendary"}

// AllTiers lists tiers in ascending order.
func AllTiers() [TierCount]Tier {
	return [TierCount]Tier{TierNovice, TierAdept, TierMaster, TierLegendary}
}

// Valid reports whether t is one of the four tiers.
func (t Tier) Valid() bool { return t < TierCount }

func (t Tier) String() string {
	if !t.Valid() {
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

// ParseTier accepts a tier name (case-insensitive) or its index "0".."3".
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if s == name {
			return Tier(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < TierCount {
		return Tier(n), nil
	}
	return 0, fmt.Errorf("%w: %q", common.ErrInvalidTier, s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidTier, t)
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package spells

import (
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// CreditCraft credits amount runes 1:1 for burned tokens and adds the burn to
// the global total. The burn itself happens outside; see the services layer
// for the ordering hazard.
func CreditCraft(u models.UserState, g models.GlobalState, amount uint64) (models.UserState, models.GlobalState, error) {
	if amount == 0 {
		return u, g, common.ErrInvalidAmount
	}
	runes, err := addU64(u.Runes, amount)
	if err != nil {
		return u, g, err
	}
	burned, err := addU64(g.TotalBurned, amount)
	if err != nil {
		return u, g, err
	}
	u.Runes = runes
	g.TotalBurned = burned
	return u, g, nil
}

// CreditPurchase adds bought spellbooks and the paid amount to the ledgers.
func CreditPurchase(u models.UserState, g models.GlobalState, q Quote) (models.UserState, models.GlobalState, error) {
	books, err := addU64(u.Spellbooks[q.Tier], q.Quantity)
	if err != nil {
		return u, g, err
	}
	collected, err := addU64(g.TotalCollected, q.Total)
	if err != nil {
		return u, g, err
	}
	u.Spellbooks[q.Tier] = books
	g.TotalCollected = collected
	return u, g, nil
}

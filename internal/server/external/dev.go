package external

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Dev accepts every burn and transfer and only logs them. It is used when no
// ledger gateway is configured.
type Dev struct {
	logger logging.Logger
}

func NewDev(l logging.Logger) *Dev {
	return &Dev{logger: l.With("module", "dev_ledger")}
}

func (d *Dev) Burn(ctx context.Context, owner, mint models.Identity, amount uint64) error {
	d.logger.Debug(ctx, "dev burn", "owner", owner, "mint", mint, "amount", amount)
	return nil
}

func (d *Dev) Transfer(ctx context.Context, payer, treasury models.Identity, amount uint64) error {
	d.logger.Debug(ctx, "dev transfer", "payer", payer, "treasury", treasury, "amount", amount)
	return nil
}

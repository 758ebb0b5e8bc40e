// Package services contains server-side business logic. SpellService runs
// every spell economy operation as one database transaction: the involved
// rows are locked, the transition is computed by package spells on value
// copies, written back once, and events are emitted after commit.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/api"
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/dbx"
	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/events"
	"github.com/dmitrijs2005/spellcaster/internal/server/external"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/spellcaster/internal/spells"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dmitrijs2005/spellcaster/internal/server/services")

// MaxBatchMultipliers caps GetMultipliers requests.
const MaxBatchMultipliers = api.MaxMultiplierBatch

type SpellService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	burner      external.TokenBurner
	treasury    external.Treasury
	sink        events.Sink
	logger      logging.Logger
	now         func() int64
}

func NewSpellService(db *sql.DB, m repomanager.RepositoryManager, burner external.TokenBurner,
	treasury external.Treasury, sink events.Sink, l logging.Logger) *SpellService {
	return &SpellService{
		db:          db,
		repomanager: m,
		burner:      burner,
		treasury:    treasury,
		sink:        sink,
		logger:      l.With("module", "spell_service"),
		now:         func() int64 { return time.Now().Unix() },
	}
}

func startSpan(ctx context.Context, name string, owner models.Identity, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("spell.owner", owner.String()))
	return tracer.Start(ctx, "SpellService."+name, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

func (s *SpellService) emit(ctx context.Context, evs ...models.Event) {
	for _, e := range evs {
		s.sink.Emit(ctx, e)
	}
}

// InitializeSystem creates the global and oracle singletons. The oracle
// starts with zero prices and is stale until the first update.
func (s *SpellService) InitializeSystem(ctx context.Context, authority, treasury, mint models.Identity) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		g := &models.GlobalState{Authority: authority, Treasury: treasury, TokenMint: mint}
		if err := s.repomanager.GlobalState(tx).Create(ctx, g); err != nil {
			return err
		}
		return s.repomanager.Pricing(tx).Create(ctx, &models.PricingState{})
	})
}

// InitializeUser creates a zeroed record for owner.
func (s *SpellService) InitializeUser(ctx context.Context, owner models.Identity) (*models.UserState, error) {
	u := models.NewUserState(owner)
	if err := s.repomanager.UserStates(s.db).Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// MigrateUser brings a legacy record to the current layout with every tier
// expiry set to never. It reports false when the record was already current.
func (s *SpellService) MigrateUser(ctx context.Context, owner models.Identity) (bool, error) {
	migrated := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserStates(tx)
		u, err := repo.GetForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if !u.Outdated() {
			return nil
		}
		u.TierExpiry = [models.TierCount]int64{}
		u.LayoutVersion = models.LayoutCurrent
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		migrated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if migrated {
		s.logger.Info(ctx, "user record migrated", "owner", owner)
	}
	return migrated, nil
}

// UpdatePrices overwrites both oracle prices. Only the authority may call it.
func (s *SpellService) UpdatePrices(ctx context.Context, caller models.Identity, tokenPriceUSD, currencyPriceUSD float64) (*models.PricingState, error) {
	ctx, span := startSpan(ctx, "UpdatePrices", caller)
	defer span.End()

	now := s.now()
	var next models.PricingState
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		g, err := s.repomanager.GlobalState(tx).Get(ctx)
		if err != nil {
			return err
		}
		next, err = spells.UpdatePrices(*g, caller, tokenPriceUSD, currencyPriceUSD, now)
		if err != nil {
			return err
		}
		repo := s.repomanager.Pricing(tx)
		if _, err := repo.GetForUpdate(ctx); err != nil {
			return err
		}
		return repo.Update(ctx, &next)
	})
	if err != nil {
		failSpan(span, err)
		return nil, err
	}

	s.emit(ctx, models.NewEvent(models.EventPriceUpdated, now, models.PriceUpdated{
		TokenPriceUSD:    next.TokenPriceUSD,
		CurrencyPriceUSD: next.CurrencyPriceUSD,
		Timestamp:        now,
	}))
	return &next, nil
}

// CraftRunes burns amount tokens of the accepted mint from owner and credits
// the same amount of runes.
//
// The burn happens before the credit. If the credit overflows or the commit
// fails after a successful burn, the burned tokens are not returned; this is
// logged at warn level with the amount.
func (s *SpellService) CraftRunes(ctx context.Context, owner models.Identity, amount uint64) (*models.UserState, error) {
	if amount == 0 {
		return nil, common.ErrInvalidAmount
	}

	ctx, span := startSpan(ctx, "CraftRunes", owner, attribute.String("spell.amount", strconv.FormatUint(amount, 10)))
	defer span.End()

	now := s.now()
	burned := false
	var next models.UserState
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.UserStates(tx)
		globals := s.repomanager.GlobalState(tx)

		u, err := users.GetForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if u.Outdated() {
			return common.ErrOutdatedRecord
		}
		g, err := globals.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		if err := s.burner.Burn(ctx, owner, g.TokenMint, amount); err != nil {
			return err
		}
		burned = true

		var nextGlobal models.GlobalState
		next, nextGlobal, err = spells.CreditCraft(*u, *g, amount)
		if err != nil {
			return err
		}
		if err := users.Update(ctx, &next); err != nil {
			return err
		}
		return globals.Update(ctx, &nextGlobal)
	})
	if err != nil {
		failSpan(span, err)
		if burned {
			s.logger.Warn(ctx, "tokens burned but runes not credited", "owner", owner, "amount", amount, "error", err)
		}
		return nil, err
	}

	s.emit(ctx, models.NewEvent(models.EventRunesCrafted, now, models.RunesCrafted{
		User:       owner,
		Burned:     amount,
		Received:   amount,
		TotalRunes: next.Runes,
	}))
	return &next, nil
}

// BuySpellbooks prices quantity books of tier from fresh oracle prices,
// moves the payment to the treasury and credits the books.
//
// The credit is checked before the transfer. If a write or the commit fails
// after the transfer, the payment stays with the treasury; this is logged at
// warn level with the amount paid.
func (s *SpellService) BuySpellbooks(ctx context.Context, owner models.Identity, tier models.Tier, quantity uint64) (*models.UserState, *spells.Quote, error) {
	if !tier.Valid() {
		return nil, nil, common.ErrInvalidTier
	}
	if err := spells.ValidateQuantity(quantity); err != nil {
		return nil, nil, err
	}

	ctx, span := startSpan(ctx, "BuySpellbooks", owner,
		attribute.String("spell.tier", tier.String()), attribute.Int64("spell.quantity", int64(quantity)))
	defer span.End()

	now := s.now()
	transferred := false
	var next models.UserState
	var quote spells.Quote
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.UserStates(tx)
		globals := s.repomanager.GlobalState(tx)

		u, err := users.GetForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if u.Outdated() {
			return common.ErrOutdatedRecord
		}
		g, err := globals.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		p, err := s.repomanager.Pricing(tx).Get(ctx)
		if err != nil {
			return err
		}

		quote, err = spells.QuoteSpellbooks(*p, tier, quantity, now)
		if err != nil {
			return err
		}
		var nextGlobal models.GlobalState
		next, nextGlobal, err = spells.CreditPurchase(*u, *g, quote)
		if err != nil {
			return err
		}

		if err := s.treasury.Transfer(ctx, owner, g.Treasury, quote.Total); err != nil {
			return err
		}
		transferred = true

		if err := users.Update(ctx, &next); err != nil {
			return err
		}
		return globals.Update(ctx, &nextGlobal)
	})
	if err != nil {
		failSpan(span, err)
		if transferred {
			s.logger.Warn(ctx, "currency transferred but spellbooks not credited",
				"owner", owner, "tier", tier, "quantity", quantity, "paid", quote.Total, "error", err)
		}
		return nil, nil, err
	}

	s.emit(ctx, models.NewEvent(models.EventSpellbooksPurchased, now, models.SpellbooksPurchased{
		User:             owner,
		Tier:             tier,
		Quantity:         quantity,
		Paid:             quote.Total,
		TokenPriceUSD:    quote.TokenPriceUSD,
		CurrencyPriceUSD: quote.CurrencyPriceUSD,
	}))
	return &next, &quote, nil
}

// CastSpell spends runes and one spellbook of tier on a roll resolved from
// the caller-supplied entropy.
func (s *SpellService) CastSpell(ctx context.Context, owner models.Identity, tier models.Tier, entropy models.Entropy) (*models.UserState, *spells.CastResult, error) {
	if !tier.Valid() {
		return nil, nil, common.ErrInvalidTier
	}

	ctx, span := startSpan(ctx, "CastSpell", owner, attribute.String("spell.tier", tier.String()))
	defer span.End()

	now := s.now()
	var next models.UserState
	var res spells.CastResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.UserStates(tx)
		globals := s.repomanager.GlobalState(tx)

		u, err := users.GetForUpdate(ctx, owner)
		if err != nil {
			return err
		}
		if u.Outdated() {
			return common.ErrOutdatedRecord
		}
		g, err := globals.GetForUpdate(ctx)
		if err != nil {
			return err
		}

		var nextGlobal models.GlobalState
		next, nextGlobal, res, err = spells.Cast(*u, *g, tier, entropy, now)
		if err != nil {
			return err
		}
		if err := users.Update(ctx, &next); err != nil {
			return err
		}
		return globals.Update(ctx, &nextGlobal)
	})
	if err != nil {
		failSpan(span, err)
		return nil, nil, err
	}
	span.SetAttributes(attribute.Int("spell.roll", int(res.Outcome.Roll)), attribute.Bool("spell.success", res.Outcome.Success))

	if res.Outcome.Success {
		s.emit(ctx, models.NewEvent(models.EventSpellCastSuccess, now, models.SpellCastSuccess{
			User:       owner,
			Tier:       tier,
			Multiplier: res.Multiplier,
			Expiry:     res.Expiry,
			Roll:       res.Outcome.Roll,
		}))
	} else {
		s.emit(ctx, models.NewEvent(models.EventSpellCastFailure, now, models.SpellCastFailure{
			User:   owner,
			Tier:   tier,
			Refund: res.Refund,
			Roll:   res.Outcome.Roll,
		}))
	}
	return &next, &res, nil
}

// QuoteSpellbooks prices a purchase without paying for it.
func (s *SpellService) QuoteSpellbooks(ctx context.Context, tier models.Tier, quantity uint64) (*spells.Quote, error) {
	p, err := s.repomanager.Pricing(s.db).Get(ctx)
	if err != nil {
		return nil, err
	}
	q, err := spells.QuoteSpellbooks(*p, tier, quantity, s.now())
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetUser returns the stored record, legacy layouts included.
func (s *SpellService) GetUser(ctx context.Context, owner models.Identity) (*models.UserState, error) {
	return s.repomanager.UserStates(s.db).Get(ctx, owner)
}

// GetMultiplier reports owner's multiplier now. Users without a record get
// the base multiplier.
func (s *SpellService) GetMultiplier(ctx context.Context, owner models.Identity) (spells.MultiplierReport, error) {
	u, err := s.repomanager.UserStates(s.db).Get(ctx, owner)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return spells.BaseMultiplier(), nil
		}
		return spells.MultiplierReport{}, err
	}
	return spells.ReadMultiplier(*u, s.now()), nil
}

// GetMultipliers reads several users at one instant. A user that cannot be
// read gets the base multiplier rather than failing the batch.
func (s *SpellService) GetMultipliers(ctx context.Context, owners []models.Identity) (map[models.Identity]spells.MultiplierReport, error) {
	if len(owners) > MaxBatchMultipliers {
		return nil, common.ErrInvalidAmount
	}

	now := s.now()
	repo := s.repomanager.UserStates(s.db)
	out := make(map[models.Identity]spells.MultiplierReport, len(owners))
	for _, owner := range owners {
		u, err := repo.Get(ctx, owner)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "multiplier read failed, using base", "owner", owner, "error", err)
			}
			out[owner] = spells.BaseMultiplier()
			continue
		}
		out[owner] = spells.ReadMultiplier(*u, now)
	}
	return out, nil
}

// GetStats returns the global counters and the success rate.
func (s *SpellService) GetStats(ctx context.Context) (spells.Stats, error) {
	g, err := s.repomanager.GlobalState(s.db).Get(ctx)
	if err != nil {
		return spells.Stats{}, err
	}
	return spells.StatsOf(*g), nil
}

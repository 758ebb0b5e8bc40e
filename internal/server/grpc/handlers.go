package grpc

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"google.golang.org/protobuf/types/known/structpb"
)

func callerOf(ctx context.Context) (models.Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return models.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}

// initializeSystem makes the caller the authority.
func (s *GRPCServer) initializeSystem(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	treasury, err := identityField(in, "treasury")
	if err != nil {
		return nil, err
	}
	mint, err := identityField(in, "token_mint")
	if err != nil {
		return nil, err
	}
	if err := s.spells.InitializeSystem(ctx, caller, treasury, mint); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "system initialized", "authority", caller, "treasury", treasury, "mint", mint)
	return map[string]any{"authority": caller.String(), "treasury": treasury.String(), "token_mint": mint.String()}, nil
}

func (s *GRPCServer) initializeUser(ctx context.Context, _ *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.spells.InitializeUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	return userMap(u), nil
}

func (s *GRPCServer) migrateUser(ctx context.Context, _ *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	migrated, err := s.spells.MigrateUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	return map[string]any{"migrated": migrated}, nil
}

func (s *GRPCServer) updatePrices(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	token, err := floatField(in, "token_price_usd")
	if err != nil {
		return nil, err
	}
	ccy, err := floatField(in, "currency_price_usd")
	if err != nil {
		return nil, err
	}
	p, err := s.spells.UpdatePrices(ctx, caller, token, ccy)
	if err != nil {
		return nil, err
	}
	return pricingMap(p), nil
}

func (s *GRPCServer) craftRunes(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := uint64Field(in, "amount")
	if err != nil {
		return nil, err
	}
	u, err := s.spells.CraftRunes(ctx, caller, amount)
	if err != nil {
		return nil, err
	}
	return userMap(u), nil
}

func (s *GRPCServer) buySpellbooks(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := tierField(in, "tier")
	if err != nil {
		return nil, err
	}
	qty, err := uint64Field(in, "quantity")
	if err != nil {
		return nil, err
	}
	u, q, err := s.spells.BuySpellbooks(ctx, caller, tier, qty)
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": userMap(u), "quote": quoteMap(q)}, nil
}

func (s *GRPCServer) castSpell(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	tier, err := tierField(in, "tier")
	if err != nil {
		return nil, err
	}
	entropy, err := entropyField(in, "entropy")
	if err != nil {
		return nil, err
	}
	u, res, err := s.spells.CastSpell(ctx, caller, tier, entropy)
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": userMap(u), "result": castMap(res)}, nil
}

func (s *GRPCServer) quoteSpellbooks(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	tier, err := tierField(in, "tier")
	if err != nil {
		return nil, err
	}
	qty, err := uint64Field(in, "quantity")
	if err != nil {
		return nil, err
	}
	q, err := s.spells.QuoteSpellbooks(ctx, tier, qty)
	if err != nil {
		return nil, err
	}
	return quoteMap(q), nil
}

// getUser reads the caller's record unless "user" names another one.
func (s *GRPCServer) getUser(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := identityOrDefault(in, "user", caller)
	if err != nil {
		return nil, err
	}
	u, err := s.spells.GetUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	return userMap(u), nil
}

func (s *GRPCServer) getMultiplier(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := identityOrDefault(in, "user", caller)
	if err != nil {
		return nil, err
	}
	r, err := s.spells.GetMultiplier(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := multiplierMap(r)
	out["user"] = owner.String()
	return out, nil
}

func (s *GRPCServer) getMultipliers(ctx context.Context, in *structpb.Struct) (map[string]any, error) {
	owners, err := identityListField(in, "users")
	if err != nil {
		return nil, err
	}
	reports, err := s.spells.GetMultipliers(ctx, owners)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(reports))
	for owner, r := range reports {
		out[owner.String()] = multiplierMap(r)
	}
	return map[string]any{"multipliers": out}, nil
}

func (s *GRPCServer) getStats(ctx context.Context, _ *structpb.Struct) (map[string]any, error) {
	st, err := s.spells.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return statsMap(st), nil
}

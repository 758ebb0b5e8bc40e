package grpc

import (
	"math"
	"strconv"

	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/dmitrijs2005/spellcaster/internal/spells"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactInteger is the largest integer a JSON number carries without loss.
const maxExactInteger = 1 << 53

func invalid(key, format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, key+": "+format, args...)
}

func stringField(in *structpb.Struct, key string) (string, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return "", invalid(key, "missing")
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", invalid(key, "must be a string")
	}
	return s.StringValue, nil
}

func identityField(in *structpb.Struct, key string) (models.Identity, error) {
	s, err := stringField(in, key)
	if err != nil {
		return models.Identity{}, err
	}
	id, err := models.ParseIdentity(s)
	if err != nil {
		return models.Identity{}, invalid(key, "%v", err)
	}
	return id, nil
}

// identityOrDefault reads key when present and falls back to def.
func identityOrDefault(in *structpb.Struct, key string, def models.Identity) (models.Identity, error) {
	if _, ok := in.GetFields()[key]; !ok {
		return def, nil
	}
	return identityField(in, key)
}

func identityListField(in *structpb.Struct, key string) ([]models.Identity, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return nil, invalid(key, "missing")
	}
	list := v.GetListValue()
	if list == nil {
		return nil, invalid(key, "must be a list")
	}
	out := make([]models.Identity, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, invalid(key, "item %d must be a string", i)
		}
		id, err := models.ParseIdentity(s.StringValue)
		if err != nil {
			return nil, invalid(key, "item %d: %v", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func entropyField(in *structpb.Struct, key string) (models.Entropy, error) {
	s, err := stringField(in, key)
	if err != nil {
		return models.Entropy{}, err
	}
	e, err := models.ParseEntropy(s)
	if err != nil {
		return models.Entropy{}, invalid(key, "%v", err)
	}
	return e, nil
}

// tierField accepts a tier name or its index as a string or number.
func tierField(in *structpb.Struct, key string) (models.Tier, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, invalid(key, "missing")
	}
	var raw string
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		raw = k.StringValue
	case *structpb.Value_NumberValue:
		raw = strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	default:
		return 0, invalid(key, "must be a tier name or index")
	}
	t, err := models.ParseTier(raw)
	if err != nil {
		return 0, invalid(key, "%v", err)
	}
	return t, nil
}

// uint64Field accepts a decimal string, or a non-negative integral number
// small enough to be exact.
func uint64Field(in *structpb.Struct, key string) (uint64, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, invalid(key, "missing")
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(k.StringValue, 10, 64)
		if err != nil {
			return 0, invalid(key, "not an unsigned integer: %q", k.StringValue)
		}
		return n, nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f < 0 || f != math.Trunc(f) || f > maxExactInteger {
			return 0, invalid(key, "not an exact unsigned integer: %v", f)
		}
		return uint64(f), nil
	default:
		return 0, invalid(key, "must be a decimal string or number")
	}
}

func floatField(in *structpb.Struct, key string) (float64, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return 0, invalid(key, "missing")
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue, nil
	case *structpb.Value_StringValue:
		f, err := strconv.ParseFloat(k.StringValue, 64)
		if err != nil {
			return 0, invalid(key, "not a number: %q", k.StringValue)
		}
		return f, nil
	default:
		return 0, invalid(key, "must be a number")
	}
}

func u64(n uint64) string { return strconv.FormatUint(n, 10) }

func tierList(ts []models.Tier) []any {
	out := make([]any, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}

func userMap(u *models.UserState) map[string]any {
	books := make(map[string]any, models.TierCount)
	expiry := make(map[string]any, models.TierCount)
	for _, t := range models.AllTiers() {
		books[t.String()] = u64(u.Spellbooks[t])
		expiry[t.String()] = u.TierExpiry[t]
	}
	return map[string]any{
		"owner":          u.Owner.String(),
		"runes":          u64(u.Runes),
		"spellbooks":     books,
		"tier_expiry":    expiry,
		"multiplier":     u.Multiplier,
		"buff_expiry":    u.BuffExpiry,
		"active_tier":    u.ActiveTier.String(),
		"layout_version": u.LayoutVersion,
	}
}

func pricingMap(p *models.PricingState) map[string]any {
	return map[string]any{
		"token_price_usd":    p.TokenPriceUSD,
		"currency_price_usd": p.CurrencyPriceUSD,
		"last_update":        p.LastUpdate,
	}
}

func quoteMap(q *spells.Quote) map[string]any {
	return map[string]any{
		"tier":               q.Tier.String(),
		"quantity":           u64(q.Quantity),
		"per_book":           u64(q.PerBook),
		"total":              u64(q.Total),
		"token_price_usd":    q.TokenPriceUSD,
		"currency_price_usd": q.CurrencyPriceUSD,
	}
}

func castMap(r *spells.CastResult) map[string]any {
	return map[string]any{
		"tier":       r.Tier.String(),
		"roll":       r.Outcome.Roll,
		"success":    r.Outcome.Success,
		"cost":       u64(r.Cost),
		"refund":     u64(r.Refund),
		"expiry":     r.Expiry,
		"multiplier": r.Multiplier,
	}
}

func multiplierMap(r spells.MultiplierReport) map[string]any {
	return map[string]any{
		"spell":         r.Spell,
		"legacy":        r.Legacy,
		"holding_bonus": r.HoldingBonus,
		"total":         r.Total,
		"active_tiers":  tierList(r.ActiveTiers),
	}
}

func statsMap(s spells.Stats) map[string]any {
	return map[string]any{
		"total_burned":    u64(s.TotalBurned),
		"total_collected": u64(s.TotalCollected),
		"total_casts":     u64(s.TotalCasts),
		"total_successes": u64(s.TotalSuccesses),
		"success_rate":    s.SuccessRate,
	}
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

package grpc

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/api"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/dmitrijs2005/spellcaster/internal/spells"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// SpellAPI is the service surface the transport drives.
type SpellAPI interface {
	InitializeSystem(ctx context.Context, authority, treasury, mint models.Identity) error
	InitializeUser(ctx context.Context, owner models.Identity) (*models.UserState, error)
	MigrateUser(ctx context.Context, owner models.Identity) (bool, error)
	UpdatePrices(ctx context.Context, caller models.Identity, tokenPriceUSD, currencyPriceUSD float64) (*models.PricingState, error)
	CraftRunes(ctx context.Context, owner models.Identity, amount uint64) (*models.UserState, error)
	BuySpellbooks(ctx context.Context, owner models.Identity, tier models.Tier, quantity uint64) (*models.UserState, *spells.Quote, error)
	CastSpell(ctx context.Context, owner models.Identity, tier models.Tier, entropy models.Entropy) (*models.UserState, *spells.CastResult, error)
	QuoteSpellbooks(ctx context.Context, tier models.Tier, quantity uint64) (*spells.Quote, error)
	GetUser(ctx context.Context, owner models.Identity) (*models.UserState, error)
	GetMultiplier(ctx context.Context, owner models.Identity) (spells.MultiplierReport, error)
	GetMultipliers(ctx context.Context, owners []models.Identity) (map[models.Identity]spells.MultiplierReport, error)
	GetStats(ctx context.Context) (spells.Stats, error)
}

// SpellServiceServer is the handler type of the service descriptor.
type SpellServiceServer interface {
	spellServiceServer()
}

type methodHandler func(s *GRPCServer, ctx context.Context, in *structpb.Struct) (map[string]any, error)

var handlers = map[string]methodHandler{
	api.MethodInitializeSystem: (*GRPCServer).initializeSystem,
	api.MethodInitializeUser:   (*GRPCServer).initializeUser,
	api.MethodMigrateUser:      (*GRPCServer).migrateUser,
	api.MethodUpdatePrices:     (*GRPCServer).updatePrices,
	api.MethodCraftRunes:       (*GRPCServer).craftRunes,
	api.MethodBuySpellbooks:    (*GRPCServer).buySpellbooks,
	api.MethodCastSpell:        (*GRPCServer).castSpell,
	api.MethodQuoteSpellbooks:  (*GRPCServer).quoteSpellbooks,
	api.MethodGetUser:          (*GRPCServer).getUser,
	api.MethodGetMultiplier:    (*GRPCServer).getMultiplier,
	api.MethodGetMultipliers:   (*GRPCServer).getMultipliers,
	api.MethodGetStats:         (*GRPCServer).getStats,
}

func serviceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: api.ServiceName,
		HandlerType: (*SpellServiceServer)(nil),
		Streams:     []grpc.StreamDesc{},
	}
	for _, name := range api.Methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(name, handlers[name]),
		})
	}
	return desc
}

func unaryHandler(name string, h methodHandler) grpc.MethodHandler {
	fullMethod := api.FullMethod(name)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*GRPCServer)
		call := func(ctx context.Context, req any) (any, error) {
			out, err := h(s, ctx, req.(*structpb.Struct))
			if err != nil {
				return nil, s.toStatus(ctx, fullMethod, err)
			}
			return toStruct(out)
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, call)
	}
}

// Package api names the gRPC surface shared by the server and spellctl.
//
// Requests and responses are google.protobuf.Struct messages. u64 amounts
// travel as decimal strings, identities and entropy as 64-char hex, tiers as
// names ("novice", "adept", "master", "legendary") or their index.
package api

const ServiceName = "spells.v1.SpellService"

// MaxMultiplierBatch is the most users one GetMultipliers call accepts.
// Clients with longer lists split them into calls of this size.
const MaxMultiplierBatch = 100

const (
	MethodInitializeSystem = "InitializeSystem"
	MethodInitializeUser   = "InitializeUser"
	MethodMigrateUser      = "MigrateUser"
	MethodUpdatePrices     = "UpdatePrices"
	MethodCraftRunes       = "CraftRunes"
	MethodBuySpellbooks    = "BuySpellbooks"
	MethodCastSpell        = "CastSpell"
	MethodQuoteSpellbooks  = "QuoteSpellbooks"
	MethodGetUser          = "GetUser"
	MethodGetMultiplier    = "GetMultiplier"
	MethodGetMultipliers   = "GetMultipliers"
	MethodGetStats         = "GetStats"
)

// Methods lists every method of the service in declaration order.
var Methods = []string{
	MethodInitializeSystem,
	MethodInitializeUser,
	MethodMigrateUser,
	MethodUpdatePrices,
	MethodCraftRunes,
	MethodBuySpellbooks,
	MethodCastSpell,
	MethodQuoteSpellbooks,
	MethodGetUser,
	MethodGetMultiplier,
	MethodGetMultipliers,
	MethodGetStats,
}

var public = map[string]bool{
	MethodQuoteSpellbooks: true,
	MethodGetStats:        true,
}

// FullMethod returns the gRPC path of method, e.g. "/spells.v1.SpellService/GetStats".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Public reports whether method may be called without an access token.
func Public(method string) bool {
	return public[method]
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/api"
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/auth"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"google.golang.org/protobuf/types/known/structpb"
)

// SecretKeyEnv names the variable the token command reads the signing
// secret from before falling back to a prompt.
const SecretKeyEnv = "SPELLS_SECRET_KEY"

type command struct {
	help string
	run  func(a *App, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new-id":        {"print a random 32-byte identity", (*App).newID},
		"token":         {"sign an access token for -user", (*App).token},
		"init-system":   {"create the global state (-treasury, -mint)", (*App).initSystem},
		"init-user":     {"create the caller's account", simpleCommand("init-user", api.MethodInitializeUser)},
		"migrate":       {"upgrade the caller's account layout", simpleCommand("migrate", api.MethodMigrateUser)},
		"update-prices": {"set oracle prices (-token, -currency)", (*App).updatePrices},
		"craft":         {"burn tokens into runes (-amount)", (*App).craft},
		"buy":           {"buy spellbooks (-tier, -qty)", (*App).buy},
		"cast":          {"cast a spell (-tier, -entropy)", (*App).cast},
		"quote":         {"price spellbooks without buying (-tier, -qty)", (*App).quote},
		"user":          {"show an account (-user, default caller)", userCommand("user", api.MethodGetUser)},
		"multiplier":    {"show a reward multiplier (-user, default caller)", userCommand("multiplier", api.MethodGetMultiplier)},
		"multipliers":   {"show multipliers for the listed identities", (*App).multipliers},
		"stats":         {"show global statistics", simpleCommand("stats", api.MethodGetStats)},
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("spellctl "+name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func simpleCommand(name, method string) func(*App, context.Context, []string) error {
	return func(a *App, ctx context.Context, args []string) error {
		if err := a.flags(name).Parse(args); err != nil {
			return err
		}
		return a.call(ctx, method, map[string]any{})
	}
}

func userCommand(name, method string) func(*App, context.Context, []string) error {
	return func(a *App, ctx context.Context, args []string) error {
		fs := a.flags(name)
		user := fs.String("user", "", "identity hex (default: caller)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		in := map[string]any{}
		if *user != "" {
			in["user"] = *user
		}
		return a.call(ctx, method, in)
	}
}

func (a *App) newID(_ context.Context, args []string) error {
	if err := a.flags("new-id").Parse(args); err != nil {
		return err
	}
	id, err := common.MakeRandHexString(models.IdentitySize)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, id)
	return err
}

func (a *App) token(_ context.Context, args []string) error {
	fs := a.flags("token")
	user := fs.String("user", "", "identity hex")
	ttl := fs.Duration("ttl", 24*time.Hour, "token validity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *user == "" {
		v, err := GetSimpleText(a.reader, "Enter identity", a.out)
		if err != nil {
			return err
		}
		*user = v
	}
	owner, err := models.ParseIdentity(*user)
	if err != nil {
		return err
	}

	var secret []byte
	if v := os.Getenv(SecretKeyEnv); v != "" {
		secret = []byte(v)
	} else {
		secret, err = GetSecret("Enter secret key", a.out)
		if err != nil {
			return err
		}
	}
	defer wipe(secret)
	if len(secret) == 0 {
		return errors.New("empty secret key")
	}

	tok, err := auth.GenerateToken(owner, secret, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, tok)
	return err
}

func (a *App) initSystem(ctx context.Context, args []string) error {
	fs := a.flags("init-system")
	treasury := fs.String("treasury", "", "treasury identity hex")
	mint := fs.String("mint", "", "accepted token mint hex")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.call(ctx, api.MethodInitializeSystem, map[string]any{"treasury": *treasury, "token_mint": *mint})
}

func (a *App) updatePrices(ctx context.Context, args []string) error {
	fs := a.flags("update-prices")
	token := fs.Float64("token", 0, "token price in USD")
	ccy := fs.Float64("currency", 0, "currency price in USD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.call(ctx, api.MethodUpdatePrices, map[string]any{"token_price_usd": *token, "currency_price_usd": *ccy})
}

func (a *App) craft(ctx context.Context, args []string) error {
	fs := a.flags("craft")
	amount := fs.Uint64("amount", 0, "token base units to burn")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.call(ctx, api.MethodCraftRunes, map[string]any{"amount": fmt.Sprint(*amount)})
}

func (a *App) tierQty(name string, args []string) (map[string]any, error) {
	fs := a.flags(name)
	tier := fs.String("tier", "novice", "novice, adept, master or legendary")
	qty := fs.Int("qty", 1, "number of spellbooks")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return map[string]any{"tier": *tier, "quantity": *qty}, nil
}

func (a *App) buy(ctx context.Context, args []string) error {
	in, err := a.tierQty("buy", args)
	if err != nil {
		return err
	}
	return a.call(ctx, api.MethodBuySpellbooks, in)
}

func (a *App) quote(ctx context.Context, args []string) error {
	in, err := a.tierQty("quote", args)
	if err != nil {
		return err
	}
	return a.call(ctx, api.MethodQuoteSpellbooks, in)
}

func (a *App) cast(ctx context.Context, args []string) error {
	fs := a.flags("cast")
	tier := fs.String("tier", "novice", "novice, adept, master or legendary")
	entropy := fs.String("entropy", "", "32 bytes of hex entropy (default: random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *entropy == "" {
		e, err := common.MakeRandHexString(models.EntropySize)
		if err != nil {
			return err
		}
		*entropy = e
	}
	return a.call(ctx, api.MethodCastSpell, map[string]any{"tier": *tier, "entropy": *entropy})
}

// multipliers reads any number of users, MaxMultiplierBatch per call, and
// prints one merged response.
func (a *App) multipliers(ctx context.Context, args []string) error {
	fs := a.flags("multipliers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: multipliers <identity>...", ErrUsage)
	}

	merged := map[string]*structpb.Value{}
	ids := fs.Args()
	for start := 0; start < len(ids); start += api.MaxMultiplierBatch {
		end := min(start+api.MaxMultiplierBatch, len(ids))

		users := make([]any, 0, end-start)
		for _, u := range ids[start:end] {
			users = append(users, u)
		}
		resp, err := a.client.Call(ctx, api.MethodGetMultipliers, map[string]any{"users": users})
		if err != nil {
			return err
		}
		for k, v := range resp.GetFields()["multipliers"].GetStructValue().GetFields() {
			merged[k] = v
		}
	}

	return a.print(&structpb.Struct{Fields: map[string]*structpb.Value{
		"multipliers": structpb.NewStructValue(&structpb.Struct{Fields: merged}),
	}})
}

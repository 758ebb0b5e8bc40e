package spells

import (
	"math"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Quote is the native-currency price of a spellbook purchase.
type Quote struct {
	Tier             models.Tier
	Quantity         uint64
	PerBook          uint64
	Total            uint64
	TokenPriceUSD    float64
	CurrencyPriceUSD float64
}

// ValidateQuantity enforces 1..MaxPurchaseQuantity.
func ValidateQuantity(quantity uint64) error {
	if quantity == 0 || quantity > MaxPurchaseQuantity {
		return common.ErrInvalidAmount
	}
	return nil
}

// PerBookPrice converts the tier's resource-equivalent into native base
// units: equivalent * token price gives USD, divided by the currency price
// gives whole coins, scaled and truncated toward zero.
func PerBookPrice(tier models.Tier, tokenPriceUSD, currencyPriceUSD float64) (uint64, error) {
	usd := float64(Params(tier).ResourceEquivalent) * tokenPriceUSD
	native := usd / currencyPriceUSD
	units := native * NativeUnitsPerCoin
	if math.IsNaN(units) || units < 0 {
		return 0, common.ErrInvalidPrice
	}
	if units >= math.MaxUint64 {
		return 0, common.ErrOverflow
	}
	return uint64(units), nil
}

// QuoteSpellbooks prices quantity books of tier against oracle state p at now.
func QuoteSpellbooks(p models.PricingState, tier models.Tier, quantity uint64, now int64) (Quote, error) {
	if !tier.Valid() {
		return Quote{}, common.ErrInvalidTier
	}
	if err := ValidateQuantity(quantity); err != nil {
		return Quote{}, err
	}
	prices, err := PricesForPurchase(p, now)
	if err != nil {
		return Quote{}, err
	}
	perBook, err := PerBookPrice(tier, prices.TokenPriceUSD, prices.CurrencyPriceUSD)
	if err != nil {
		return Quote{}, err
	}
	total, err := mulU64(perBook, quantity)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Tier:             tier,
		Quantity:         quantity,
		PerBook:          perBook,
		Total:            total,
		TokenPriceUSD:    prices.TokenPriceUSD,
		CurrencyPriceUSD: prices.CurrencyPriceUSD,
	}, nil
}

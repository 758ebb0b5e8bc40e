package spells

import (
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Accepted oracle price bounds, in USD.
const (
	MinTokenPriceUSD    = 0.0001
	MaxTokenPriceUSD    = 1.0
	MinCurrencyPriceUSD = 50.0
	MaxCurrencyPriceUSD = 500.0
)

// ValidatePrices rejects prices outside the accepted bounds. NaN fails every
// comparison and is rejected too.
func ValidatePrices(tokenPriceUSD, currencyPriceUSD float64) error {
	if !(tokenPriceUSD >= MinTokenPriceUSD && tokenPriceUSD <= MaxTokenPriceUSD) {
		return common.ErrInvalidPrice
	}
	if !(currencyPriceUSD >= MinCurrencyPriceUSD && currencyPriceUSD <= MaxCurrencyPriceUSD) {
		return common.ErrInvalidPrice
	}
	return nil
}

// UpdatePrices returns the oracle state after caller publishes new prices.
// Authorization is checked before the bounds.
func UpdatePrices(g models.GlobalState, caller models.Identity, tokenPriceUSD, currencyPriceUSD float64, now int64) (models.PricingState, error) {
	if caller != g.Authority {
		return models.PricingState{}, common.ErrorUnauthorized
	}
	if err := ValidatePrices(tokenPriceUSD, currencyPriceUSD); err != nil {
		return models.PricingState{}, err
	}
	return models.PricingState{
		TokenPriceUSD:    tokenPriceUSD,
		CurrencyPriceUSD: currencyPriceUSD,
		LastUpdate:       now,
	}, nil
}

// IsStale reports whether prices published at lastUpdate are too old at now.
func IsStale(lastUpdate, now int64) bool {
	return now-lastUpdate >= PriceMaxAge
}

// PricesForPurchase returns p if it is fresh enough to price a purchase.
func PricesForPurchase(p models.PricingState, now int64) (models.PricingState, error) {
	if IsStale(p.LastUpdate, now) {
		return models.PricingState{}, common.ErrStalePrices
	}
	return p, nil
}

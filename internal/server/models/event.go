package models

import (
	"github.com/google/uuid"
)

// EventKind names an emitted domain event.
type EventKind string

const (
	EventPriceUpdated        EventKind = "price_updated"
	EventRunesCrafted        EventKind = "runes_crafted"
	EventSpellbooksPurchased EventKind = "spellbooks_purchased"
	EventSpellCastSuccess    EventKind = "spell_cast_success"
	EventSpellCastFailure    EventKind = "spell_cast_failure"
)

// Event is the envelope handed to event sinks after a transaction commits.
type Event struct {
	ID      uuid.UUID `json:"id"`
	Kind    EventKind `json:"kind"`
	At      int64     `json:"at"`
	Payload any       `json:"payload"`
}

// NewEvent stamps a payload with a fresh id.
func NewEvent(kind EventKind, at int64, payload any) Event {
	return Event{ID: uuid.New(), Kind: kind, At: at, Payload: payload}
}

type PriceUpdated struct {
	TokenPriceUSD    float64 `json:"token_price_usd"`
	CurrencyPriceUSD float64 `json:"currency_price_usd"`
	Timestamp        int64   `json:"timestamp"`
}

type RunesCrafted struct {
	User       Identity `json:"user"`
	Burned     uint64   `json:"burned,string"`
	Received   uint64   `json:"received,string"`
	TotalRunes uint64   `json:"total_runes,string"`
}

type SpellbooksPurchased struct {
	User             Identity `json:"user"`
	Tier             Tier     `json:"tier"`
	Quantity         uint64   `json:"quantity"`
	Paid             uint64   `json:"paid,string"`
	TokenPriceUSD    float64  `json:"token_price_usd"`
	CurrencyPriceUSD float64  `json:"currency_price_usd"`
}

type SpellCastSuccess struct {
	User       Identity `json:"user"`
	Tier       Tier     `json:"tier"`
	Multiplier float64  `json:"multiplier"`
	Expiry     int64    `json:"expiry"`
	Roll       uint32   `json:"roll"`
}

type SpellCastFailure struct {
	User   Identity `json:"user"`
	Tier   Tier     `json:"tier"`
	Refund uint64   `json:"refund,string"`
	Roll   uint32   `json:"roll"`
}

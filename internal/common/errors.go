// Package common defines shared constants and sentinel errors used across
// the spellcaster server and its client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrOutdatedRecord     = errors.New("record layout is outdated")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Input validation.
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrInvalidTier   = errors.New("invalid tier")

	// Oracle.
	ErrStalePrices = errors.New("stale prices")

	// Ledger and casting.
	ErrInsufficientRunes = errors.New("insufficient runes")
	ErrInsufficientBooks = errors.New("insufficient spellbooks")
	ErrBuffActive        = errors.New("buff already active for tier")

	// Checked arithmetic.
	ErrOverflow  = errors.New("arithmetic overflow")
	ErrUnderflow = errors.New("arithmetic underflow")

	// External collaborators.
	ErrBurnFailed     = errors.New("token burn failed")
	ErrTransferFailed = errors.New("currency transfer failed")
)

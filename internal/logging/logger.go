// Package logging is the structured logger every server component and the
// ledger collaborators receive. SlogLogger backs it in production; Nop is for
// tests and optional collaborators.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	log.Info(ctx, "spell cast", "owner", owner, "tier", tier, "roll", roll)
//
// With derives a logger that prefixes its own pairs to every record, which
// is how components tag their output ("module", "spell_service").
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

var (
	_ Logger = (*SlogLogger)(nil)
	_ Logger = Nop{}
)

// Nop discards every record.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }

// Package events delivers domain events after their transaction commits.
// Delivery is fire-and-forget: sinks never report errors to the caller and
// a failing sink never undoes a committed state change.
package events

import (
	"context"

	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
)

// Sink receives committed events.
type Sink interface {
	Emit(ctx context.Context, e models.Event)
}

// LogSink writes every event to the structured log.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(l logging.Logger) *LogSink {
	return &LogSink{logger: l.With("module", "events")}
}

func (s *LogSink) Emit(ctx context.Context, e models.Event) {
	s.logger.Info(ctx, "event", "id", e.ID.String(), "kind", string(e.Kind), "at", e.At, "payload", e.Payload)
}

// Fanout forwards each event to every sink in order.
type Fanout []Sink

func (f Fanout) Emit(ctx context.Context, e models.Event) {
	for _, s := range f {
		s.Emit(ctx, e)
	}
}

package events

import (
	"context"
	"sync"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/logging"
)

// Sink receives every published event.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

// Bus fans events out to registered sinks in registration order. A sink
// error is logged and never reaches the publisher: the mutation has already
// committed.
type Bus struct {
	mu     sync.RWMutex
	sinks  []Sink
	logger *logging.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger *logging.Logger) *Bus {
	return &Bus{logger: logger}
}

// Register adds a sink. Safe to call while events are flowing.
func (b *Bus) Register(s Sink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

// Publish implements Publisher.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	// Sinks run after the request's store work is done; a cancelled
	// request context must not drop the event.
	ctx = context.WithoutCancel(ctx)

	for _, s := range sinks {
		if err := s.Handle(ctx, ev); err != nil {
			b.logger.Warn("event sink failed",
				"sink", s.Name(),
				"event", ev.Type,
				"id", ev.EntityID,
				"error", err,
			)
		}
	}
}

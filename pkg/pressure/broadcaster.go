package pressure

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/lrucache/core/logger"
)

// Broadcaster fans pressure events out to every subscriber in-process.
// It implements Source and is the building block hosts use to forward
// their own low-memory notifications.
//
// Handlers run synchronously in the goroutine that calls Notify and must
// not call Subscribe, Notify, or an unsubscribe function of the same
// Broadcaster.
type Broadcaster struct {
	mu       sync.RWMutex
	handlers map[uuid.UUID]Handler
	logger   *slog.Logger
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithBroadcasterLogger sets the logger used to report handler panics.
func WithBroadcasterLogger(l *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		handlers: make(map[uuid.UUID]Handler),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers h. A nil handler is ignored.
func (b *Broadcaster) Subscribe(h Handler) func() {
	if h == nil {
		return func() {}
	}

	id := uuid.New()

	b.mu.Lock()
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			// Taking the write lock waits out any Notify in flight.
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Notify delivers ev to every subscriber and returns how many were called.
// A panicking handler is recovered and logged; the rest still run.
func (b *Broadcaster) Notify(ev Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, h := range b.handlers {
		if err := safeCall(h, ev); err != nil {
			b.logger.Error("pressure handler panicked",
				logger.Component("pressure"),
				slog.String("subscription_id", id.String()),
				logger.Error(err),
			)
		}
	}

	return len(b.handlers)
}

// Len returns the number of active subscriptions.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func safeCall(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	h(ev)
	return nil
}

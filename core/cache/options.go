package cache

import (
	"log/slog"

	"github.com/dmitrymomot/lrucache/pkg/pressure"
)

type options struct {
	logger *slog.Logger
	source pressure.Source
}

// Option configures an LRUCache.
type Option func(*options)

// WithLogger sets the logger for lifecycle messages.
// The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPressureSource subscribes the cache to memory-pressure events.
// Every event empties the cache. Close revokes the subscription.
func WithPressureSource(src pressure.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

package cache

import (
	"log/slog"

	"github.com/dmitrymomot/lrucache/core/logger"
)

// ClearReason tells observers why the cache was emptied.
type ClearReason string

const (
	ClearExplicit       ClearReason = "explicit"
	ClearMemoryPressure ClearReason = "memory_pressure"
)

// Observer receives cache events. Methods are called after the cache
// lock is released, so implementations may call back into the cache.
type Observer[K comparable] interface {
	// Hit is called when Get finds key.
	Hit(key K)
	// Miss is called when Get does not find key.
	Miss(key K)
	// Evicted is called when key is dropped to stay within capacity.
	Evicted(key K)
	// Cleared is called after all n entries were dropped at once.
	Cleared(n int, reason ClearReason)
}

// NopObserver ignores every event. It is the default.
type NopObserver[K comparable] struct{}

func (NopObserver[K]) Hit(K) {}
func (NopObserver[K]) Miss(K) {}
func (NopObserver[K]) Evicted(K) {}
func (NopObserver[K]) Cleared(int, ClearReason) {}

// LogObserver writes cache events to a logger at debug level.
type LogObserver[K comparable] struct {
	logger *slog.Logger
}

// NewLogObserver returns an observer that logs through l.
// A nil logger falls back to slog.Default().
func NewLogObserver[K comparable](l *slog.Logger) *LogObserver[K] {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver[K]{logger: l.With(logger.Component("lrucache"))}
}

func (o *LogObserver[K]) Hit(key K) {
	o.logger.Debug("cache hit", logger.Event("accessed"), logger.Key("key", key))
}

func (o *LogObserver[K]) Miss(key K) {
	o.logger.Debug("cache miss", logger.Event("missed"), logger.Key("key", key))
}

func (o *LogObserver[K]) Evicted(key K) {
	o.logger.Debug("cache entry evicted", logger.Event("evicted"), logger.Key("key", key))
}

func (o *LogObserver[K]) Cleared(n int, reason ClearReason) {
	o.logger.Debug("cache cleared",
		logger.Event("cleared"),
		logger.Count("entries", n),
		slog.String("reason", string(reason)),
	)
}

// multiObserver fans events out to several observers in order.
type multiObserver[K comparable] []Observer[K]

// MultiObserver combines observers into one.
func MultiObserver[K comparable](observers ...Observer[K]) Observer[K] {
	return multiObserver[K](observers)
}

func (m multiObserver[K]) Hit(key K) {
	for _, o := range m {
		o.Hit(key)
	}
}

func (m multiObserver[K]) Miss(key K) {
	for _, o := range m {
		o.Miss(key)
	}
}

func (m multiObserver[K]) Evicted(key K) {
	for _, o := range m {
		o.Evicted(key)
	}
}

func (m multiObserver[K]) Cleared(n int, reason ClearReason) {
	for _, o := range m {
		o.Cleared(n, reason)
	}
}

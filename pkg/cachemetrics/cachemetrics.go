// Package cachemetrics exports lrucache events as Prometheus counters.
//
//	reg := prometheus.NewRegistry()
//	metrics, err := cachemetrics.New[string](reg, cachemetrics.WithNamespace("api"))
//	if err != nil {
//		return err
//	}
//	c.SetObserver(metrics)
//
// Counters are labelled with the cache name so several caches can share
// one registry.
package cachemetrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/lrucache/core/cache"
)

// Collector implements cache.Observer by incrementing Prometheus counters.
type Collector[K comparable] struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	clears    *prometheus.CounterVec
	cleared   prometheus.Counter
}

type settings struct {
	namespace string
	name      string
}

// Option configures a Collector.
type Option func(*settings)

// WithNamespace sets the metric namespace. Defaults to "lrucache".
func WithNamespace(ns string) Option {
	return func(s *settings) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithCacheName sets the "cache" label value. Defaults to "default".
func WithCacheName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// New creates a Collector and registers its counters on reg.
func New[K comparable](reg prometheus.Registerer, opts ...Option) (*Collector[K], error) {
	s := settings{namespace: "lrucache", name: "default"}
	for _, opt := range opts {
		opt(&s)
	}

	labels := prometheus.Labels{"cache": s.name}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   s.namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	c := &Collector[K]{
		hits:      counter("hits_total", "Get calls that found the key."),
		misses:    counter("misses_total", "Get calls that did not find the key."),
		evictions: counter("evictions_total", "Entries evicted to stay within capacity."),
		cleared:   counter("cleared_entries_total", "Entries dropped by clears."),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   s.namespace,
			Name:        "clears_total",
			Help:        "Full clears by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
	}

	for _, col := range []prometheus.Collector{c.hits, c.misses, c.evictions, c.cleared, c.clears} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
	}

	return c, nil
}

// MustNew is like New but panics on error.
func MustNew[K comparable](reg prometheus.Registerer, opts ...Option) *Collector[K] {
	c, err := New[K](reg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Collector[K]) Hit(K) {
	c.hits.Inc()
}

func (c *Collector[K]) Miss(K) {
	c.misses.Inc()
}

func (c *Collector[K]) Evicted(K) {
	c.evictions.Inc()
}

func (c *Collector[K]) Cleared(n int, reason cache.ClearReason) {
	c.clears.WithLabelValues(string(reason)).Inc()
	c.cleared.Add(float64(n))
}

var _ cache.Observer[string] = (*Collector[string])(nil)

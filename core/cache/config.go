package cache

// Config holds the settings a host loads from the environment.
type Config struct {
	Capacity int `env:"CACHE_CAPACITY" envDefault:"128"`
}

// NewLRUCacheFromConfig creates a cache sized by cfg.
func NewLRUCacheFromConfig[K comparable, V any](cfg Config, opts ...Option) (*LRUCache[K, V], error) {
	return NewLRUCache[K, V](cfg.Capacity, opts...)
}

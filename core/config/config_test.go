package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lrucache/core/cache"
	"github.com/dmitrymomot/lrucache/core/config"
	"github.com/dmitrymomot/lrucache/pkg/pressure"
)

// Tests in this file use t.Setenv and a process-wide cache, so they do not
// run in parallel and each uses its own config type.

type cachedConfig struct {
	Name string `env:"CONFIG_TEST_CACHED_NAME" envDefault:"first"`
}

type requiredConfig struct {
	Token string `env:"CONFIG_TEST_REQUIRED_TOKEN,required"`
}

type mustConfig struct {
	Port int `env:"CONFIG_TEST_MUST_PORT,required"`
}

func TestLoad_CacheConfig(t *testing.T) {
	t.Setenv("CACHE_CAPACITY", "42")

	var cfg cache.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 42, cfg.Capacity)
}

func TestLoad_WatcherConfig(t *testing.T) {
	t.Setenv("PRESSURE_THRESHOLD", "75.5")
	t.Setenv("PRESSURE_INTERVAL", "250ms")

	var cfg pressure.WatcherConfig
	require.NoError(t, config.Load(&cfg))
	assert.InDelta(t, 75.5, cfg.Threshold, 1e-9)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 30*time.Second, cfg.Cooldown)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_CachedPerType(t *testing.T) {
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)

	t.Setenv("CONFIG_TEST_CACHED_NAME", "second")

	var again cachedConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, first, again)
}

func TestLoad_FailureNotCached(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_TEST_REQUIRED_TOKEN")

	t.Setenv("CONFIG_TEST_REQUIRED_TOKEN", "secret")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "secret", cfg.Token)
}

func TestLoad_Nil(t *testing.T) {
	var cfg *cachedConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilConfig)
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg mustConfig
		config.MustLoad(&cfg)
	})

	t.Setenv("CONFIG_TEST_MUST_PORT", "8080")
	assert.NotPanics(t, func() {
		var cfg mustConfig
		config.MustLoad(&cfg)
		assert.Equal(t, 8080, cfg.Port)
	})
}

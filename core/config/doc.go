// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import (
//		"github.com/dmitrymomot/lrucache/core/cache"
//		"github.com/dmitrymomot/lrucache/core/config"
//		"github.com/dmitrymomot/lrucache/pkg/pressure"
//	)
//
//	func main() {
//		var cacheCfg cache.Config
//
//		// Load with error handling
//		if err := config.Load(&cacheCfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		var watchCfg pressure.WatcherConfig
//		config.MustLoad(&watchCfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 cache.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 cache.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. A failed load is not cached,
// so fixing the environment and calling Load again succeeds.
package config

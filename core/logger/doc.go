// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers environment-specific configurations and a set of pre-built attributes so that
// every component logs with the same keys.
//
// # Features
//
//   - Built on Go's standard slog for compatibility and performance
//   - Environment-specific configurations (development, production)
//   - Attribute helpers for common logging patterns
//   - Support for both JSON and text output formats
//   - Type-safe attribute creation with nil safety
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/lrucache/core/logger"
//
//	// Create a development logger
//	log := logger.New(
//		logger.WithDevelopment("myapp"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	// Create a production logger
//	log := logger.New(logger.WithProduction("myapp"))
//
//	log.Info("Cache ready",
//		logger.Component("lrucache"),
//		logger.Capacity(1024),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	customLogger := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Attribute Helpers
//
//	log.Error("Memory sample failed",
//		logger.Error(err),
//		logger.Component("pressure"),
//	)
//
//	log.Debug("Cache cleared",
//		logger.Event("cleared"),
//		logger.Count("entries", n),
//		logger.Percent("used_percent", usage),
//	)
//
// Error, Errors, and Key return an empty slog.Attr for nil input, which
// slog drops, so callers never need to guard them.
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithOutput(&buf),
//	)
//
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger

package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load receives a nil pointer.
var ErrNilConfig = errors.New("config: nil destination")

var (
	dotenvOnce sync.Once

	mu     sync.Mutex
	loaded = map[reflect.Type]any{}
)

// Load fills cfg from the environment. The first call for a type parses
// the environment; later calls for the same type copy the cached result.
// A .env file in the working directory is read once, without overriding
// variables that are already set.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if v, ok := loaded[t]; ok {
		*cfg = v.(T)
		return nil
	}

	v, err := env.ParseAs[T]()
	if err != nil {
		return fmt.Errorf("config: load %s: %w", t, err)
	}

	loaded[t] = v
	*cfg = v
	return nil
}

// MustLoad is like Load but panics on error. Useful at startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

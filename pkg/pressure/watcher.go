package pressure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dmitrymomot/lrucache/core/logger"
)

// WatcherConfig controls when a Watcher reports memory pressure.
type WatcherConfig struct {
	// Threshold is the used-memory percentage at or above which the system is pressured.
	Threshold float64 `env:"PRESSURE_THRESHOLD" envDefault:"90"`
	// Interval is how often system memory is sampled.
	Interval time.Duration `env:"PRESSURE_INTERVAL" envDefault:"5s"`
	// Cooldown is the minimum gap between two notifications while pressure persists.
	// Zero notifies on every sample above the threshold.
	Cooldown time.Duration `env:"PRESSURE_COOLDOWN" envDefault:"30s"`
}

// DefaultWatcherConfig mirrors the env defaults.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Threshold: 90,
		Interval:  5 * time.Second,
		Cooldown:  30 * time.Second,
	}
}

// Validate reports whether the config can drive a Watcher.
func (c WatcherConfig) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.Threshold)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, c.Interval)
	}
	return nil
}

// MemoryReader samples system memory.
type MemoryReader func(ctx context.Context) (*mem.VirtualMemoryStat, error)

// WatcherStats provides observability metrics for monitoring and debugging.
type WatcherStats struct {
	Checks        int64 // Samples taken
	Notifications int64 // Pressure events delivered
	ReadErrors    int64 // Samples that failed
	Pressured     bool  // Whether the last sample was above the threshold
	IsRunning     bool  // Whether the polling loop is running
}

// Watcher samples system memory on an interval and notifies subscribers
// when usage crosses the configured threshold.
// It implements Source by delegating to its Broadcaster.
type Watcher struct {
	cfg         WatcherConfig
	clock       clockwork.Clock
	read        MemoryReader
	broadcaster *Broadcaster
	logger      *slog.Logger

	// State management
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	pressured bool
	lastFired time.Time
	running   atomic.Bool

	// Observability metrics
	checks        atomic.Int64
	notifications atomic.Int64
	readErrors    atomic.Int64
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithClock sets the clock driving the poll ticker and event timestamps.
func WithClock(c clockwork.Clock) WatcherOption {
	return func(w *Watcher) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithMemoryReader replaces the gopsutil system reader.
func WithMemoryReader(r MemoryReader) WatcherOption {
	return func(w *Watcher) {
		if r != nil {
			w.read = r
		}
	}
}

// WithBroadcaster makes the watcher publish through an existing Broadcaster,
// so host-raised and system-raised events reach the same subscribers.
func WithBroadcaster(b *Broadcaster) WatcherOption {
	return func(w *Watcher) {
		if b != nil {
			w.broadcaster = b
		}
	}
}

// WithWatcherLogger sets the logger for internal operations.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a Watcher. Call Start or Run to begin polling.
func NewWatcher(cfg WatcherConfig, opts ...WatcherOption) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:    cfg,
		clock:  clockwork.NewRealClock(),
		read:   mem.VirtualMemoryWithContext,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.broadcaster == nil {
		w.broadcaster = NewBroadcaster(WithBroadcasterLogger(w.logger))
	}

	return w, nil
}

// Subscribe implements Source.
func (w *Watcher) Subscribe(h Handler) func() {
	return w.broadcaster.Subscribe(h)
}

// Check takes one memory sample and notifies subscribers if it warrants it.
// It reports whether a notification was sent.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	w.checks.Add(1)

	vm, err := w.read(ctx)
	if err != nil {
		w.readErrors.Add(1)
		w.logger.WarnContext(ctx, "memory sample failed",
			logger.Component("pressure"),
			logger.Error(err))
		return false, fmt.Errorf("read system memory: %w", err)
	}

	now := w.clock.Now()
	over := vm.UsedPercent >= w.cfg.Threshold

	w.mu.Lock()
	fire := false
	if over {
		// Edge-triggered: fire on entering pressure, then at most once per cooldown.
		if !w.pressured || now.Sub(w.lastFired) >= w.cfg.Cooldown {
			fire = true
			w.lastFired = now
		}
	}
	w.pressured = over
	w.mu.Unlock()

	if !fire {
		return false, nil
	}

	ev := Event{
		UsedPercent: vm.UsedPercent,
		Available:   vm.Available,
		Total:       vm.Total,
		At:          now,
	}
	n := w.broadcaster.Notify(ev)
	w.notifications.Add(1)

	w.logger.InfoContext(ctx, "memory pressure detected",
		logger.Component("pressure"),
		slog.Float64("used_percent", vm.UsedPercent),
		slog.Float64("threshold", w.cfg.Threshold),
		logger.Count("subscribers", n))

	return true, nil
}

// Start runs the polling loop. It blocks until ctx is cancelled or Stop is called.
// Use Run for errgroup pattern or call this in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return ErrWatcherAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	w.running.Store(true)
	defer func() {
		w.running.Store(false)
		w.mu.Lock()
		if w.done == done {
			w.cancel = nil
			w.done = nil
		}
		w.mu.Unlock()
		cancel()
		close(done)
	}()

	w.logger.InfoContext(ctx, "pressure watcher started",
		logger.Component("pressure"),
		slog.Duration("interval", w.cfg.Interval),
		slog.Float64("threshold", w.cfg.Threshold))

	ticker := w.clock.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(context.Background(), "pressure watcher stopping",
				logger.Component("pressure"))
			return ctx.Err()
		case <-ticker.Chan():
			// Errors are logged in Check; a bad sample must not stop the loop.
			_, _ = w.Check(ctx)
		}
	}
}

// Stop cancels the polling loop and waits for it to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return ErrWatcherNotStarted
	}
	cancel := w.cancel
	done := w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (w *Watcher) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- w.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = w.Stop() // Start may already have returned on its own
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Stats returns current watcher statistics.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	pressured := w.pressured
	w.mu.Unlock()

	return WatcherStats{
		Checks:        w.checks.Load(),
		Notifications: w.notifications.Load(),
		ReadErrors:    w.readErrors.Load(),
		Pressured:     pressured,
		IsRunning:     w.running.Load(),
	}
}

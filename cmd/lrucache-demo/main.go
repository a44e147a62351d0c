// Command lrucache-demo runs a small thumbnail cache under a synthetic
// workload, wired to the system memory watcher and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lrucache/core/cache"
	"github.com/dmitrymomot/lrucache/core/config"
	"github.com/dmitrymomot/lrucache/core/logger"
	"github.com/dmitrymomot/lrucache/pkg/cachemetrics"
	"github.com/dmitrymomot/lrucache/pkg/pressure"
)

type demoConfig struct {
	MetricsAddr string        `env:"DEMO_METRICS_ADDR" envDefault:":9090"`
	Duration    time.Duration `env:"DEMO_DURATION" envDefault:"10s"`
	Rate        time.Duration `env:"DEMO_RATE" envDefault:"10ms"`
	Debug       bool          `env:"DEMO_DEBUG" envDefault:"false"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lrucache-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		demoCfg  demoConfig
		cacheCfg cache.Config
		watchCfg pressure.WatcherConfig
	)
	if err := config.Load(&demoCfg); err != nil {
		return err
	}
	if err := config.Load(&cacheCfg); err != nil {
		return err
	}
	if err := config.Load(&watchCfg); err != nil {
		return err
	}

	log := logger.New(logger.WithProduction("lrucache-demo"))
	if demoCfg.Debug {
		log = logger.New(logger.WithDevelopment("lrucache-demo"))
	}
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, demoCfg.Duration)
	defer cancel()

	watcher, err := pressure.NewWatcher(watchCfg, pressure.WithWatcherLogger(log))
	if err != nil {
		return fmt.Errorf("create pressure watcher: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := cachemetrics.New[string](reg, cachemetrics.WithCacheName("thumbnails"))
	if err != nil {
		return fmt.Errorf("register cache metrics: %w", err)
	}

	thumbs, err := cache.NewLRUCacheFromConfig[string, []byte](cacheCfg,
		cache.WithLogger(log),
		cache.WithPressureSource(watcher),
	)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer thumbs.Close()

	thumbs.SetObserver(cache.MultiObserver[string](cache.NewLogObserver[string](log), metrics))

	log.Info("cache ready",
		logger.Component("demo"),
		logger.Capacity(thumbs.Cap()),
		logger.Percent("pressure_threshold", watchCfg.Threshold))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(watcher.Run(gctx))
	g.Go(serveMetrics(gctx, demoCfg.MetricsAddr, reg, log))
	g.Go(workload(gctx, thumbs, demoCfg.Rate))

	if err := g.Wait(); err != nil {
		return err
	}

	// A host may also forward its own low-memory signal directly.
	thumbs.OnMemoryPressure()

	st := thumbs.Stats()
	log.Info("demo finished",
		logger.Component("demo"),
		slog.Int64("hits", st.Hits),
		slog.Int64("misses", st.Misses),
		slog.Int64("evictions", st.Evictions),
		slog.Int64("pressure_clears", st.PressureClears),
		logger.Count("len", st.Len))

	return nil
}

// workload reads thumbnails with a skewed key distribution and renders
// missing ones, the way an image view would while scrolling.
func workload(ctx context.Context, thumbs *cache.LRUCache[string, []byte], rate time.Duration) func() error {
	return func() error {
		r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
		ticker := time.NewTicker(rate)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				// Squaring biases toward low ids so a hot set stays resident.
				f := r.Float64()
				url := fmt.Sprintf("https://img.example.com/%d.png", int(f*f*float64(4*thumbs.Cap())))
				if _, ok := thumbs.Get(url); !ok {
					thumbs.Put(url, render(url))
				}
			}
		}
	}
}

func render(url string) []byte {
	return []byte("thumbnail:" + url)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *slog.Logger) func() error {
	return func() error {
		if addr == "" {
			<-ctx.Done()
			return nil
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("metrics server listening", logger.Component("demo"), slog.String("addr", addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("metrics server: %w", err)
		}
	}
}

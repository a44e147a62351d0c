// Package pressure delivers memory-pressure notifications to in-process
// subscribers such as caches that should drop their contents when the host
// runs low on memory.
//
// A Source hands out subscriptions that can be revoked. Once a revoke
// function returns, the handler is guaranteed not to be running and will
// never be called again, so owners can unsubscribe in their Close method
// without risking a late callback.
//
// Two sources are provided:
//
//   - Broadcaster: a plain in-process fan-out. Hosts that already receive
//     low-memory signals (cgroup notifications, orchestrator hooks, admin
//     endpoints) forward them with Notify.
//   - Watcher: samples system memory with gopsutil on a fixed interval and
//     notifies when usage reaches a threshold.
//
// # Usage
//
//	w, err := pressure.NewWatcher(pressure.WatcherConfig{
//		Threshold: 85,
//		Interval:  5 * time.Second,
//		Cooldown:  time.Minute,
//	}, pressure.WithWatcherLogger(log))
//	if err != nil {
//		return err
//	}
//
//	unsubscribe := w.Subscribe(func(ev pressure.Event) {
//		log.Warn("memory pressure", slog.Float64("used_percent", ev.UsedPercent))
//	})
//	defer unsubscribe()
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(w.Run(ctx))
//
// # Edge Triggering
//
// The Watcher fires once when usage first reaches the threshold. While
// usage stays above it, further notifications are spaced by Cooldown.
// Dropping below the threshold re-arms the trigger.
//
// # Handler Rules
//
// Handlers run synchronously in the notifying goroutine and should return
// quickly. They must not subscribe, unsubscribe, or notify on the same
// source. Panics are recovered and logged.
package pressure

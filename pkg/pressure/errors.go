package pressure

import "errors"

var (
	// ErrWatcherAlreadyStarted is returned when Start is called on a running watcher.
	ErrWatcherAlreadyStarted = errors.New("pressure watcher already started")

	// ErrWatcherNotStarted is returned when Stop is called on a watcher that is not running.
	ErrWatcherNotStarted = errors.New("pressure watcher not started")

	// ErrInvalidThreshold is returned when the usage threshold is outside (0, 100].
	ErrInvalidThreshold = errors.New("pressure threshold must be in (0, 100]")

	// ErrInvalidInterval is returned when the poll interval is not positive.
	ErrInvalidInterval = errors.New("pressure poll interval must be positive")
)

package pressure

import "time"

// Event describes one memory-pressure signal.
// Memory fields are zero when the signal did not come from a system reading.
type Event struct {
	UsedPercent float64   // Share of system memory in use, 0-100
	Available   uint64    // Bytes available to new allocations
	Total       uint64    // Total system memory in bytes
	At          time.Time // When the signal was raised
}

// Handler reacts to a pressure event.
type Handler func(Event)

// Source delivers pressure events to subscribers.
//
// Subscribe registers h and returns a function that revokes the
// registration. Once the revoke function returns, h is not running and
// will not be called again. Revoking more than once is safe.
type Source interface {
	Subscribe(h Handler) (unsubscribe func())
}

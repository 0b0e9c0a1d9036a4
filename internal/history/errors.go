package history

import "errors"

var (
	// ErrInvalidKey indicates a change or query without an AID or
	// characteristic name.
	ErrInvalidKey = errors.New("history: invalid key")

	// ErrInvalidRetention indicates a non-positive prune duration.
	ErrInvalidRetention = errors.New("history: retention must be positive")

	// ErrRecorderStarted indicates Start was called twice.
	ErrRecorderStarted = errors.New("history: recorder already started")
)

package bridge

import "errors"

// Domain errors for the bridge package.
var (
	// ErrRunning is returned when an accessory is registered after Start.
	ErrRunning = errors.New("bridge: already running")

	// ErrStopped is returned for operations on a stopped bridge.
	ErrStopped = errors.New("bridge: stopped")

	// ErrInvalidState is returned when a lifecycle step is called out of order.
	ErrInvalidState = errors.New("bridge: invalid state transition")

	// ErrAlreadyRegistered is returned when the same accessory is registered twice.
	ErrAlreadyRegistered = errors.New("bridge: accessory already registered")

	// ErrUnknownTopic is returned by Dispatch for a topic with no getter chain.
	ErrUnknownTopic = errors.New("bridge: no route for topic")
)

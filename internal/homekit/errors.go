package homekit

import "errors"

// Domain errors for the homekit package.
var (
	// ErrStarted is returned when accessories are added after Start.
	ErrStarted = errors.New("homekit: server already started")

	// ErrServerFailed is returned when the HAP server cannot be created.
	ErrServerFailed = errors.New("homekit: server failed")
)

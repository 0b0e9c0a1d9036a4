package adapter

import "errors"

// Adapter errors. Use errors.Is() to check for these in calling code.
var (
	// ErrUnknownAdapter is returned by Resolve alongside the null adapter.
	ErrUnknownAdapter = errors.New("adapter: unknown adapter")

	// ErrDuplicateAdapter is returned when registering a name twice.
	ErrDuplicateAdapter = errors.New("adapter: already registered")

	// ErrInvalidDescriptor is returned when registering a descriptor without a name.
	ErrInvalidDescriptor = errors.New("adapter: invalid descriptor")

	// ErrAdapterFailed wraps errors and recovered panics raised inside an adapter.
	ErrAdapterFailed = errors.New("adapter: transform failed")

	// ErrMalformedPayload is returned by adapters for payloads they cannot parse.
	ErrMalformedPayload = errors.New("adapter: malformed payload")
)

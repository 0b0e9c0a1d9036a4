package catalog

import "errors"

// Lookup errors. Use errors.Is() to check for these in calling code.
var (
	// ErrUnknownCategory is returned when a category name is not in the fixed set.
	ErrUnknownCategory = errors.New("catalog: unknown category")

	// ErrUnknownService is returned when a service type name cannot be resolved.
	ErrUnknownService = errors.New("catalog: unknown service type")

	// ErrUnknownCharacteristic is returned when a characteristic type name cannot be resolved.
	ErrUnknownCharacteristic = errors.New("catalog: unknown characteristic type")
)

package history

import (
	"context"
	"fmt"
	"time"
)

// Change sources.
const (
	SourceMQTT    = "mqtt"    // a broker message updated the value
	SourceHomeKit = "homekit" // a controller wrote the value
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Key identifies a characteristic across restarts: the accessory AID, the
// service's position within the accessory and the characteristic type name.
type Key struct {
	AID            uint64
	Service        int
	Characteristic string
}

// String returns the key as aid/service/characteristic.
func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%s", k.AID, k.Service, k.Characteristic)
}

// Change is one recorded value change.
type Change struct {
	Key

	// ID is set on entries read back from the store.
	ID int64

	// Accessory is the accessory display name, kept for readability.
	Accessory string

	// ServiceType is the service type name, used for telemetry tags.
	ServiceType string

	// Value is the internal value after decoding.
	Value any

	// Source is SourceMQTT or SourceHomeKit.
	Source string

	// CreatedAt is the time of the change (UTC). Zero means now.
	CreatedAt time.Time
}

// Repository stores characteristic values and their change log.
//
// Implementations must be safe for concurrent use and store UTC timestamps.
type Repository interface {
	// Record stores c as the last known value of its key and appends it to
	// the change log.
	Record(ctx context.Context, c Change) error

	// Latest returns the last known value of every recorded key.
	Latest(ctx context.Context) (map[Key]any, error)

	// History returns the most recent changes for key, newest first.
	// limit is clamped to [1, 200]; zero or less selects 50.
	History(ctx context.Context, key Key, limit int) ([]Change, error)

	// Prune deletes change log entries older than olderThan and returns
	// how many were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Logger defines the logging interface used by the recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

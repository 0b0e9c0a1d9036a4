// Package history persists characteristic values.
//
// A Recorder observes every tracked characteristic. Local writes (values
// arriving from the broker) are recorded with source "mqtt"; remote writes
// from HomeKit controllers with source "homekit". Changes are queued and
// written by a single background goroutine to a Repository, and optionally
// exported to a telemetry Sink such as InfluxDB.
//
// The SQLite repository keeps two tables:
//
//	characteristic_values   last known value per (aid, service, characteristic)
//	characteristic_history  append-only change log, pruned by retention
//
// At start-up Restore seeds characteristics from characteristic_values, so a
// restarted bridge reports the last state it saw instead of type defaults.
//
// Keys use the service's position within its accessory, which is stable as
// long as the definition file keeps its section order.
package history

// Package bridge routes characteristic values between HomeKit and MQTT.
//
// For every registered characteristic the bridge installs up to two hooks:
//
//   - a setter hook, when the characteristic has an outbound topic. A
//     remote write from a controller is encoded, passed through the
//     adapter's output transform and published.
//   - a getter hook, when the characteristic has an inbound topic. An
//     arriving message is passed through the adapter's input transform,
//     decoded and written to the characteristic.
//
// Getter hooks for one topic form an ordered chain. Topics match exactly;
// an unmatched topic is a warning. Several characteristics may share one
// inbound topic, and each handler in the chain runs even if an earlier one
// produced nothing.
//
// # Lifecycle
//
//	Idle ──Connect──▶ Connected ──Start──▶ Running ──Stop──▶ Stopped
//
// Accessories are registered while Idle or Connected. Stop is valid from
// any state, is idempotent, and no hook runs once it returns.
//
// # Warnings
//
// Recoverable problems (unknown adapter, adapter failure, conversion
// failure, unmatched topic) are logged at warn level and also published
// to the log topic so they can be watched from the broker side.
package bridge

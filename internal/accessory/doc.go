// Package accessory holds the in-memory model the bridge routes against.
//
// An Accessory owns ordered Services, a Service owns ordered
// Characteristics, and each Characteristic is a typed value handle:
//
//	c := accessory.NewCharacteristic(onType)
//	c.OnRemoteWrite(func(v any) { publish(v) })  // controller → broker
//	c.Observe(func(v any) { notify(v) })         // broker → controller
//	c.SetValue(true)
//
// The model knows nothing about HAP or MQTT; the homekit package mirrors
// it into the protocol server and the bridge package wires it to topics.
package accessory

// Package definition loads accessory definition files.
//
// Each file in the definitions directory describes one accessory in INI
// form. The [Accessory] section carries identity; every other section is
// a service whose keys are characteristic names and whose values route
// that characteristic:
//
//	[Accessory]
//	Category = Lightbulb
//	DisplayName = Desk Lamp
//
//	[Lightbulb]
//	On = stat/lamp/POWER cmnd/lamp/POWER tasmota.POWER
//
// The three tokens are the inbound topic, the outbound topic and the
// adapter name; "_" marks an unused token.
//
// Once the accessory authority has assigned identifiers, Stabilize writes
// them back as AID so they survive restarts. bridge.cfg holds the bridge
// identity and broker connection and is read by LoadBridgeDefinition.
package definition

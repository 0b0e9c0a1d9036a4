// Package adapter resolves dotted adapter names to payload transforms.
//
// An adapter sits between the codec and the broker. On the way in it
// turns a raw payload into a value (or reports it absent); on the way out
// it turns an encoded characteristic value into a payload.
//
// Adapters representing one channel of a composite value share state
// through the registry's GroupCache, keyed by GroupKey(topic):
//
//	reg := adapter.Default()
//	hue, _ := reg.Resolve("tasmota.Hue")
//	sat, _ := reg.Resolve("tasmota.Saturation")
//	hue.Output("cmnd/lamp/HSBColor", "30")  // "30,0,100"
//	sat.Output("cmnd/lamp/HSBColor", "60")  // "30,60,100"
//
// Built-in names: tasmota.POWER, tasmota.HOLD, tasmota.HSBColor,
// tasmota.Hue, tasmota.Saturation, tasmota.Brightness, tasmota.Dimmer and
// tasmota.ColorTemperature.
package adapter

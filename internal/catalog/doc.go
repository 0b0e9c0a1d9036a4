// Package catalog resolves HomeKit type names against the hap type library.
//
// Definition files refer to services and characteristics by their HomeKit
// names ("Lightbulb", "On", "CurrentTemperature"). Each name maps to the
// matching constructor in github.com/brutella/hap/characteristic or
// github.com/brutella/hap/service, and the type description (UUID, format,
// permissions, range, default value) is read from the characteristic that
// constructor builds. The HomeKit server mirrors accessories with the same
// constructors, so behaviour such as event-on-repeat for programmable
// switches and hap's range clamping carries over unchanged.
//
// # Lookups
//
//	svc, err := catalog.LookupService("Lightbulb")
//	if err != nil {
//	    // errors.Is(err, catalog.ErrUnknownService)
//	}
//	ct, _ := catalog.LookupCharacteristic("ColorTemperature")
//	fmt.Println(ct.UUID, ct.Format) // "CE" "uint32"
//	hc := ct.New()                  // fresh *characteristic.C
//
// The tables are fixed at compile time and safe for concurrent reads.
package catalog

// Package homekit exposes accessories to HomeKit controllers through
// github.com/brutella/hap.
//
// Server is the identity authority for the bridge: it assigns accessory
// identifiers (AIDs), mirrors each model accessory into a hap accessory
// and runs the HAP server. Values flow both ways:
//
//   - a controller write on a hap characteristic calls HandleRemoteWrite
//     on the model characteristic, which runs its remote-write hooks
//   - a local SetValue on the model characteristic is pushed to the hap
//     characteristic, which notifies subscribed controllers
//
// Pairing data lives in the store directory (accessory.state by default).
package homekit

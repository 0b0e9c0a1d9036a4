// Package codec converts characteristic values between their internal
// representation and broker wire text, keyed by the characteristic's
// declared format.
//
// Decoding booleans is deliberately lenient: "true" is true, and so is any
// other non-empty payload. Only an empty payload decodes to false.
package codec

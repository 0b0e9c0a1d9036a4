package definition

import "errors"

// Definition errors. Use errors.Is() to check for these in calling code.
var (
	// ErrMalformedRouting is returned for a routing value without exactly 3 tokens.
	ErrMalformedRouting = errors.New("definition: routing value must have 3 tokens")

	// ErrMissingIdentity is returned for a file without an [Accessory] section.
	ErrMissingIdentity = errors.New("definition: missing [Accessory] section")

	// ErrInvalidAID is returned for an AID that is not a positive integer.
	ErrInvalidAID = errors.New("definition: invalid AID")

	// ErrInvalidBridgeDefinition is returned for a bridge file with an unusable [MQTT] section.
	ErrInvalidBridgeDefinition = errors.New("definition: invalid bridge definition")
)

package mqtt

import "fmt"

// TopicPrefixBridge is the base for topics the bridge publishes about itself.
// It follows the stat/<device>/<key> layout used by Tasmota-style devices.
const TopicPrefixBridge = "stat/homekit"

// Topics provides builders for the bridge's own MQTT topics.
//
// Accessory topics are not built here; they come verbatim from the
// definition files.
type Topics struct{}

// Status returns the retained online/offline status topic (also the LWT topic).
//
// Example: stat/homekit/status
func (Topics) Status() string {
	return fmt.Sprintf("%s/status", TopicPrefixBridge)
}

// Package config handles loading and validating the bridge configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Merging broker settings from the bridge definition file
//   - Overriding with environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - The default HAP pin must be changed before pairing real controllers
//
// Usage:
//
//	cfg, err := config.Load("/etc/homekit-mqtt/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Definitions.Dir)
package config

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Definitions DefinitionsConfig `yaml:"definitions"`
	HAP         HAPConfig         `yaml:"hap"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Database    DatabaseConfig    `yaml:"database"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	API         APIConfig         `yaml:"api"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DefinitionsConfig locates the accessory definition directory.
type DefinitionsConfig struct {
	Dir string `yaml:"dir"`
}

// HAPConfig contains HomeKit Accessory Protocol server settings.
type HAPConfig struct {
	// Pin is the 8-digit setup code shown to controllers during pairing.
	Pin string `yaml:"pin"`

	// Address is the listen address of the HAP server. Empty picks a random port.
	Address string `yaml:"address"`

	// StorePath holds pairings and keys. Defaults to <definitions.dir>/accessory.state.
	StorePath string `yaml:"store_path"`
}

// DatabaseConfig contains SQLite database settings for value history.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// RetentionDays bounds the change log. Last known values are kept
	// regardless. Zero keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// LogTopic receives bridge warnings as plain text. Empty disables publishing them.
	LogTopic string `yaml:"log_topic"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains settings of the HTTP status API.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Broker settings from the bridge definition file are merged by the caller
// with MergeBroker, after which ApplyEnvOverrides and Validate run again so
// the environment keeps the last word.
//
// Environment variables follow the pattern: HOMEKIT_MQTT_SECTION_KEY
// For example: HOMEKIT_MQTT_DATABASE_PATH, HOMEKIT_MQTT_HAP_PIN
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Definitions: DefinitionsConfig{
			Dir: "etc/homekit-mqtt",
		},
		HAP: HAPConfig{
			Pin: "00102003",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homekit-mqtt-" + uuid.NewString()[:8],
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			LogTopic: "stat/homekit/log",
		},
		Database: DatabaseConfig{
			Path:          "./data/homekit-mqtt.db",
			Enabled:       true,
			WALMode:       true,
			BusyTimeout:   5,
			RetentionDays: 30,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8089,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMEKIT_MQTT_SECTION_KEY
func ApplyEnvOverrides(cfg *Config) {
	// Definitions and HAP
	if v := os.Getenv("HOMEKIT_MQTT_DEFINITIONS_DIR"); v != "" {
		cfg.Definitions.Dir = v
	}
	if v := os.Getenv("HOMEKIT_MQTT_HAP_PIN"); v != "" {
		cfg.HAP.Pin = v
	}
	if v := os.Getenv("HOMEKIT_MQTT_HAP_ADDRESS"); v != "" {
		cfg.HAP.Address = v
	}

	// MQTT
	if v := os.Getenv("HOMEKIT_MQTT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HOMEKIT_MQTT_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("HOMEKIT_MQTT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HOMEKIT_MQTT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Database
	if v := os.Getenv("HOMEKIT_MQTT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("HOMEKIT_MQTT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// API
	if v := os.Getenv("HOMEKIT_MQTT_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// Logging
	if v := os.Getenv("HOMEKIT_MQTT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// MergeBroker copies broker settings from the bridge definition file.
// Empty values and a zero port leave the current settings in place.
// Credentials are only taken as a pair.
func (c *Config) MergeBroker(host string, port int, username, password string) {
	if host != "" {
		c.MQTT.Broker.Host = host
	}
	if port != 0 {
		c.MQTT.Broker.Port = port
	}
	if username != "" && password != "" {
		c.MQTT.Auth.Username = username
		c.MQTT.Auth.Password = password
	}
}

// StorePath returns the HAP store directory, falling back to the
// accessory.state entry of the definitions directory.
func (c *Config) StorePath() string {
	if c.HAP.StorePath != "" {
		return c.HAP.StorePath
	}
	return filepath.Join(c.Definitions.Dir, "accessory.state")
}

var pinPattern = regexp.MustCompile(`^[0-9]{8}$`)

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Definitions.Dir == "" {
		errs = append(errs, "definitions.dir is required")
	}

	if !pinPattern.MatchString(c.HAP.Pin) {
		errs = append(errs, "hap.pin must be exactly 8 digits")
	}

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database is enabled")
	}
	if c.Database.RetentionDays < 0 {
		errs = append(errs, "database.retention_days must not be negative")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRetention returns the history retention as a Duration. Zero means keep
// everything.
func (c *Config) GetRetention() time.Duration {
	return time.Duration(c.Database.RetentionDays) * 24 * time.Hour
}

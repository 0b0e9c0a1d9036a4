package definition

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
)

// defaultBridgeName is used when bridge.cfg sets no DisplayName.
const defaultBridgeName = "MQTT"

// BridgeDefinition is the content of bridge.cfg: the identity of the bridge
// accessory and, optionally, the broker to connect to.
type BridgeDefinition struct {
	Name   string
	Info   accessory.Info
	Broker *BrokerDefinition // nil when the file has no [MQTT] section
}

// BrokerDefinition holds the [MQTT] section of bridge.cfg.
// Username and Password are either both set or both empty.
type BrokerDefinition struct {
	Host     string
	Port     int
	Username string
	Password string
}

// LoadBridgeDefinition reads bridge.cfg from dir.
//
// Parameters:
//   - dir: Definitions directory
//
// Returns:
//   - *BridgeDefinition: Parsed definition
//   - error: Wraps fs.ErrNotExist when the file is missing, or
//     ErrInvalidBridgeDefinition when the [MQTT] section is unusable
func LoadBridgeDefinition(dir string) (*BridgeDefinition, error) {
	path := filepath.Join(dir, BridgeFile)

	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("reading bridge definition %s: %w", path, err)
	}

	def := &BridgeDefinition{Name: defaultBridgeName}

	if ident, err := f.GetSection(identitySection); err == nil {
		if name := value(ident, "DisplayName"); name != "" {
			def.Name = name
		}
		def.Info = accessory.Info{
			FirmwareRevision: value(ident, "FirmwareRevision"),
			Manufacturer:     value(ident, "Manufacturer"),
			Model:            value(ident, "Model"),
			SerialNumber:     value(ident, "SerialNumber"),
		}
	}

	section, err := f.GetSection("MQTT")
	if err != nil {
		return def, nil
	}

	broker, err := parseBroker(section)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Broker = broker

	return def, nil
}

func parseBroker(section *ini.Section) (*BrokerDefinition, error) {
	host := value(section, "HostName")
	if host == "" {
		return nil, fmt.Errorf("%w: HostName is required", ErrInvalidBridgeDefinition)
	}

	rawPort := value(section, "Port")
	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid Port %q", ErrInvalidBridgeDefinition, rawPort)
	}

	broker := &BrokerDefinition{Host: host, Port: port}
	if section.HasKey("UserName") && section.HasKey("Password") {
		broker.Username = value(section, "UserName")
		broker.Password = value(section, "Password")
	}
	return broker, nil
}

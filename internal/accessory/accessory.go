package accessory

import (
	"fmt"
	"sync"

	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

// Info carries the optional identity fields shown in the accessory
// information service.
type Info struct {
	FirmwareRevision string
	Manufacturer     string
	Model            string
	SerialNumber     string
}

// Accessory is one exposed device: an identity plus an ordered list of services.
//
// Services[0] is always the AccessoryInformation service built from the
// name and Info. AID is zero until one is assigned.
type Accessory struct {
	AID      uint64
	Name     string
	Category catalog.Category
	Info     Info
	Services []*Service
}

// New creates an accessory with its information service pre-populated.
//
// Parameters:
//   - name: Display name shown by controllers
//   - category: Accessory category
//   - info: Optional identity fields (empty strings are kept as-is)
//
// Returns:
//   - *Accessory: Accessory with a single information service
func New(name string, category catalog.Category, info Info) *Accessory {
	a := &Accessory{
		Name:     name,
		Category: category,
		Info:     info,
	}

	svc := NewService(catalog.AccessoryInformation())
	values := map[string]any{
		"Name":             name,
		"Manufacturer":     info.Manufacturer,
		"Model":            info.Model,
		"SerialNumber":     info.SerialNumber,
		"FirmwareRevision": info.FirmwareRevision,
	}
	for _, c := range svc.Characteristics {
		if v, ok := values[c.Type.Name]; ok {
			c.value = v
		}
	}
	a.Services = append(a.Services, svc)

	return a
}

// AddService appends a service and returns it.
func (a *Accessory) AddService(svc *Service) *Service {
	a.Services = append(a.Services, svc)
	return svc
}

// InfoService returns the accessory information service.
func (a *Accessory) InfoService() *Service {
	if len(a.Services) == 0 {
		return nil
	}
	return a.Services[0]
}

// Characteristics calls fn for every characteristic of every service in order.
func (a *Accessory) Characteristics(fn func(svc *Service, c *Characteristic)) {
	for _, svc := range a.Services {
		for _, c := range svc.Characteristics {
			fn(svc, c)
		}
	}
}

// String returns a short identification for log messages.
func (a *Accessory) String() string {
	return fmt.Sprintf("%s (aid=%d)", a.Name, a.AID)
}

// Service is a typed group of characteristics within an accessory.
type Service struct {
	Type            catalog.ServiceType
	Characteristics []*Characteristic
}

// NewService creates a service holding one default-valued characteristic for
// every required characteristic of its type.
//
// Required names missing from the catalogue are skipped.
func NewService(t catalog.ServiceType) *Service {
	svc := &Service{Type: t}
	for _, name := range t.Required {
		ct, err := catalog.LookupCharacteristic(name)
		if err != nil {
			continue
		}
		svc.Characteristics = append(svc.Characteristics, NewCharacteristic(ct))
	}
	return svc
}

// AddCharacteristic adds c to the service. A characteristic of the same type
// already present is replaced at its original position; otherwise c is appended.
//
// Returns:
//   - bool: true if an existing characteristic was replaced
func (s *Service) AddCharacteristic(c *Characteristic) bool {
	for i, existing := range s.Characteristics {
		if existing.Type.UUID == c.Type.UUID {
			s.Characteristics[i] = c
			return true
		}
	}
	s.Characteristics = append(s.Characteristics, c)
	return false
}

// Characteristic returns the characteristic with the given type name, or nil.
func (s *Service) Characteristic(name string) *Characteristic {
	for _, c := range s.Characteristics {
		if c.Type.Name == name {
			return c
		}
	}
	return nil
}

// Routing binds a characteristic to broker topics. Empty fields are absent.
type Routing struct {
	TopicIn  string
	TopicOut string
	Adapter  string
}

// Characteristic is a typed value handle with local and remote write paths.
//
// SetValue is the local write: it stores the value and notifies observers
// (the authority's notify path). HandleRemoteWrite is called by the
// authority when a controller writes: it stores the value and then runs the
// remote-write hooks in registration order on the caller's goroutine.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Hooks and observers run without the value lock held.
type Characteristic struct {
	Type    catalog.CharacteristicType
	Routing Routing

	mu        sync.RWMutex
	value     any
	observers []func(any)
	hooks     []func(any)
}

// NewCharacteristic creates a characteristic holding the type's default value.
func NewCharacteristic(t catalog.CharacteristicType) *Characteristic {
	return &Characteristic{
		Type:  t,
		value: t.DefaultValue(),
	}
}

// Value returns the current value.
func (c *Characteristic) Value() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// SetValue stores v and notifies every observer.
func (c *Characteristic) SetValue(v any) {
	c.mu.Lock()
	c.value = v
	observers := c.observers
	c.mu.Unlock()

	for _, fn := range observers {
		fn(v)
	}
}

// Observe registers fn to be called after every local write.
func (c *Characteristic) Observe(fn func(v any)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// OnRemoteWrite appends a remote-write hook. Hooks already registered are
// kept and run first.
func (c *Characteristic) OnRemoteWrite(fn func(v any)) {
	c.mu.Lock()
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

// HandleRemoteWrite stores v and runs the remote-write hooks in order.
// Observers are not notified: the writer already knows the value.
func (c *Characteristic) HandleRemoteWrite(v any) {
	c.mu.Lock()
	c.value = v
	hooks := c.hooks
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(v)
	}
}

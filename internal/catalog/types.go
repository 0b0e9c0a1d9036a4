package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
)

// Format is the declared value-kind of a characteristic, using the
// accessory protocol's format identifiers.
type Format string

// Characteristic value formats.
const (
	FormatBool   Format = characteristic.FormatBool
	FormatUInt8  Format = characteristic.FormatUInt8
	FormatUInt16 Format = characteristic.FormatUInt16
	FormatUInt32 Format = characteristic.FormatUInt32
	FormatUInt64 Format = characteristic.FormatUInt64
	FormatInt32  Format = characteristic.FormatInt32
	FormatFloat  Format = characteristic.FormatFloat
	FormatString Format = characteristic.FormatString
	FormatData   Format = characteristic.FormatData
	FormatTLV8   Format = characteristic.FormatTLV8

	// Formats hap does not model. Definition payloads may still carry them.
	FormatInt        Format = "int"
	FormatArray      Format = "array"
	FormatDictionary Format = "dictionary"
)

// IsInteger reports whether f belongs to the integer family.
func (f Format) IsInteger() bool {
	switch f {
	case FormatUInt8, FormatUInt16, FormatUInt32, FormatUInt64, FormatInt32, FormatInt:
		return true
	}
	return false
}

// CharacteristicType describes one HomeKit characteristic type as hap
// defines it.
type CharacteristicType struct {
	Name        string
	UUID        string
	Format      Format
	Permissions []string
	Unit        string

	// MinValue, MaxValue and MinStep are nil when the type has no constraint.
	// Integer types hold int, float types hold float64.
	MinValue any
	MaxValue any
	MinStep  any

	defaultValue any
	ctor         func() *characteristic.C
}

// DefaultValue returns the value a freshly created characteristic holds.
func (t CharacteristicType) DefaultValue() any {
	if t.defaultValue != nil {
		return t.defaultValue
	}
	switch {
	case t.Format == FormatBool:
		return false
	case t.Format == FormatFloat:
		return float64(0)
	case t.Format.IsInteger():
		return int64(0)
	case t.Format == FormatArray:
		return []any{}
	case t.Format == FormatDictionary:
		return map[string]any{}
	default:
		return ""
	}
}

// New returns a fresh hap characteristic of this type.
func (t CharacteristicType) New() *characteristic.C {
	if t.ctor != nil {
		return t.ctor()
	}
	c := characteristic.New()
	c.Type = t.UUID
	c.Format = string(t.Format)
	c.Permissions = slices.Clone(t.Permissions)
	c.Unit = t.Unit
	return c
}

// ServiceType describes one HomeKit service type.
type ServiceType struct {
	Name string
	UUID string

	// Required lists the characteristic names every instance carries.
	Required []string
}

// LookupCharacteristic resolves a characteristic type by name.
func LookupCharacteristic(name string) (CharacteristicType, error) {
	ctor, ok := index().characteristics[canonical(name)]
	if !ok {
		return CharacteristicType{}, fmt.Errorf("%w: %q", ErrUnknownCharacteristic, name)
	}
	return describe(canonical(name), ctor), nil
}

// LookupService resolves a service type by name.
func LookupService(name string) (ServiceType, error) {
	ctor, ok := index().services[canonical(name)]
	if !ok {
		return ServiceType{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}

	s := ctor()
	t := ServiceType{Name: canonical(name), UUID: s.Type}
	for _, c := range s.Cs {
		if n, ok := index().names[c.Type]; ok {
			t.Required = append(t.Required, n)
		}
	}
	return t, nil
}

// AccessoryInformation returns the information service type every accessory carries.
func AccessoryInformation() ServiceType {
	t, _ := LookupService(ServiceAccessoryInformation)
	return t
}

// describe builds the type description from a fresh hap characteristic.
func describe(name string, ctor func() *characteristic.C) CharacteristicType {
	c := ctor()
	return CharacteristicType{
		Name:         name,
		UUID:         c.Type,
		Format:       Format(c.Format),
		Permissions:  slices.Clone(c.Permissions),
		Unit:         c.Unit,
		MinValue:     c.MinVal,
		MaxValue:     c.MaxVal,
		MinStep:      c.StepVal,
		defaultValue: widen(c.Val),
		ctor:         ctor,
	}
}

// widen converts hap's native int to the model's int64.
func widen(v any) any {
	if i, ok := v.(int); ok {
		return int64(i)
	}
	return v
}

// canonical maps alternative spellings used by other HomeKit stacks.
func canonical(name string) string {
	switch name {
	case "Fanv2":
		return "FanV2"
	case "PM2.5Density":
		return "PM2_5Density"
	}
	return name
}

type tables struct {
	characteristics map[string]func() *characteristic.C
	services        map[string]func() *service.S

	// names maps characteristic type UUIDs back to names.
	names map[string]string
}

var index = sync.OnceValue(func() *tables {
	t := &tables{
		characteristics: make(map[string]func() *characteristic.C, len(characteristicTable)),
		services:        make(map[string]func() *service.S, len(serviceTable)),
		names:           make(map[string]string, len(characteristicTable)),
	}
	for _, e := range characteristicTable {
		t.characteristics[e.name] = e.ctor
		t.names[e.ctor().Type] = e.name
	}
	for _, e := range serviceTable {
		t.services[e.name] = e.ctor
	}
	return t
})

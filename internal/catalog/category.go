package catalog

import (
	"fmt"

	hapaccessory "github.com/brutella/hap/accessory"
)

// Category is the HomeKit accessory category shown by controllers.
// Values match the accessory protocol's category identifiers.
type Category byte

// Accessory categories accepted in definition files.
const (
	CategoryOther              Category = Category(hapaccessory.TypeOther)
	CategoryBridge             Category = Category(hapaccessory.TypeBridge)
	CategoryFan                Category = Category(hapaccessory.TypeFan)
	CategoryGarageDoorOpener   Category = Category(hapaccessory.TypeGarageDoorOpener)
	CategoryLightbulb          Category = Category(hapaccessory.TypeLightbulb)
	CategoryDoorLock           Category = Category(hapaccessory.TypeDoorLock)
	CategoryOutlet             Category = Category(hapaccessory.TypeOutlet)
	CategorySwitch             Category = Category(hapaccessory.TypeSwitch)
	CategoryThermostat         Category = Category(hapaccessory.TypeThermostat)
	CategorySensor             Category = Category(hapaccessory.TypeSensor)
	CategoryAlarmSystem        Category = Category(hapaccessory.TypeSecuritySystem)
	CategoryDoor               Category = Category(hapaccessory.TypeDoor)
	CategoryWindow             Category = Category(hapaccessory.TypeWindow)
	CategoryWindowCovering     Category = Category(hapaccessory.TypeWindowCovering)
	CategoryProgrammableSwitch Category = Category(hapaccessory.TypeProgrammableSwitch)
	CategoryRangeExtender      Category = 16
	CategoryCamera             Category = Category(hapaccessory.TypeIPCamera)
)

var categoriesByName = map[string]Category{
	"Other":              CategoryOther,
	"Bridge":             CategoryBridge,
	"Fan":                CategoryFan,
	"GarageDoorOpener":   CategoryGarageDoorOpener,
	"Lightbulb":          CategoryLightbulb,
	"DoorLock":           CategoryDoorLock,
	"Outlet":             CategoryOutlet,
	"Switch":             CategorySwitch,
	"Thermostat":         CategoryThermostat,
	"Sensor":             CategorySensor,
	"AlarmSystem":        CategoryAlarmSystem,
	"Door":               CategoryDoor,
	"Window":             CategoryWindow,
	"WindowCovering":     CategoryWindowCovering,
	"ProgrammableSwitch": CategoryProgrammableSwitch,
	"RangeExtender":      CategoryRangeExtender,
	"Camera":             CategoryCamera,
}

// ParseCategory resolves a category name as written in a definition file.
// Names are case-sensitive.
func ParseCategory(name string) (Category, error) {
	c, ok := categoriesByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// String returns the definition-file name of the category.
func (c Category) String() string {
	for name, v := range categoriesByName {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("Category(%d)", byte(c))
}

package accessory

import (
	"sync"
	"testing"

	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

func mustChar(t *testing.T, name string) catalog.CharacteristicType {
	t.Helper()
	ct, err := catalog.LookupCharacteristic(name)
	if err != nil {
		t.Fatalf("LookupCharacteristic(%s): %v", name, err)
	}
	return ct
}

func mustService(t *testing.T, name string) catalog.ServiceType {
	t.Helper()
	st, err := catalog.LookupService(name)
	if err != nil {
		t.Fatalf("LookupService(%s): %v", name, err)
	}
	return st
}

func TestNew_InfoService(t *testing.T) {
	a := New("Desk Lamp", catalog.CategoryLightbulb, Info{Manufacturer: "Tasmota", Model: "Sonoff B1"})

	if len(a.Services) != 1 {
		t.Fatalf("len(Services) = %d, want 1", len(a.Services))
	}
	info := a.InfoService()
	if info.Type.Name != catalog.ServiceAccessoryInformation {
		t.Errorf("Services[0] = %s, want AccessoryInformation", info.Type.Name)
	}

	tests := map[string]any{
		"Name":         "Desk Lamp",
		"Manufacturer": "Tasmota",
		"Model":        "Sonoff B1",
		"SerialNumber": "",
		"Identify":     false,
	}
	for name, want := range tests {
		c := info.Characteristic(name)
		if c == nil {
			t.Errorf("info service lacks %s", name)
			continue
		}
		if got := c.Value(); got != want {
			t.Errorf("%s = %#v, want %#v", name, got, want)
		}
	}
}

func TestNewService_RequiredCharacteristics(t *testing.T) {
	svc := NewService(mustService(t, "Outlet"))

	if len(svc.Characteristics) != 2 {
		t.Fatalf("len(Characteristics) = %d, want 2", len(svc.Characteristics))
	}
	if svc.Characteristics[0].Type.Name != "On" || svc.Characteristics[1].Type.Name != "OutletInUse" {
		t.Errorf("order = %s, %s", svc.Characteristics[0].Type.Name, svc.Characteristics[1].Type.Name)
	}
}

func TestAddCharacteristic_ReplacesInPlace(t *testing.T) {
	svc := NewService(mustService(t, "Lightbulb"))
	svc.AddCharacteristic(NewCharacteristic(mustChar(t, "Brightness")))
	svc.AddCharacteristic(NewCharacteristic(mustChar(t, "Hue")))

	replacement := NewCharacteristic(mustChar(t, "Brightness"))
	replacement.Routing = Routing{TopicIn: "stat/lamp/RESULT"}

	if replaced := svc.AddCharacteristic(replacement); !replaced {
		t.Error("AddCharacteristic() = false, want true for duplicate type")
	}

	if len(svc.Characteristics) != 3 {
		t.Fatalf("len(Characteristics) = %d, want 3", len(svc.Characteristics))
	}
	if svc.Characteristics[1] != replacement {
		t.Error("replacement not at original position 1")
	}
	if svc.Characteristic("Hue") != svc.Characteristics[2] {
		t.Error("Hue moved")
	}
}

func TestAddCharacteristic_Appends(t *testing.T) {
	svc := NewService(mustService(t, "Switch"))
	if replaced := svc.AddCharacteristic(NewCharacteristic(mustChar(t, "Name"))); replaced {
		t.Error("AddCharacteristic() = true, want false for new type")
	}
	if len(svc.Characteristics) != 2 {
		t.Errorf("len(Characteristics) = %d, want 2", len(svc.Characteristics))
	}
}

func TestCharacteristic_SetValueNotifiesObservers(t *testing.T) {
	c := NewCharacteristic(mustChar(t, "On"))

	var seen []any
	c.Observe(func(v any) { seen = append(seen, v) })
	c.Observe(func(v any) { seen = append(seen, v) })

	c.SetValue(true)

	if c.Value() != true {
		t.Errorf("Value() = %v, want true", c.Value())
	}
	if len(seen) != 2 {
		t.Errorf("observers called %d times, want 2", len(seen))
	}
}

func TestCharacteristic_RemoteWriteHooksRunInOrder(t *testing.T) {
	c := NewCharacteristic(mustChar(t, "On"))

	var order []string
	c.OnRemoteWrite(func(any) { order = append(order, "first") })
	c.OnRemoteWrite(func(v any) {
		if c.Value() != v {
			t.Errorf("hook ran before value was stored")
		}
		order = append(order, "second")
	})
	observed := false
	c.Observe(func(any) { observed = true })

	c.HandleRemoteWrite(true)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hook order = %v", order)
	}
	if observed {
		t.Error("remote write must not notify observers")
	}
}

func TestCharacteristic_ConcurrentAccess(t *testing.T) {
	c := NewCharacteristic(mustChar(t, "Brightness"))
	c.OnRemoteWrite(func(any) {})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.SetValue(int64(i))
		}(i)
		go func(i int) {
			defer wg.Done()
			c.HandleRemoteWrite(int64(i))
			_ = c.Value()
		}(i)
	}
	wg.Wait()
}

func TestAccessory_Characteristics(t *testing.T) {
	a := New("Lamp", catalog.CategoryLightbulb, Info{})
	a.AddService(NewService(mustService(t, "Lightbulb")))

	count := 0
	a.Characteristics(func(svc *Service, c *Characteristic) { count++ })

	want := len(a.Services[0].Characteristics) + 1
	if count != want {
		t.Errorf("visited %d characteristics, want %d", count, want)
	}
	if a.String() != "Lamp (aid=0)" {
		t.Errorf("String() = %q", a.String())
	}
}

package homekit

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/brutella/hap/characteristic"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

type mockLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *mockLogger) Info(string, ...any)  {}
func (l *mockLogger) Error(string, ...any) {}

func (l *mockLogger) Warn(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}

func newServer(t *testing.T) (*Server, *mockLogger) {
	t.Helper()
	log := &mockLogger{}
	return New(Config{
		Name:      "MQTT",
		Pin:       "00102003",
		StorePath: t.TempDir(),
	}, log), log
}

func newLamp(t *testing.T, name string, aid uint64) *accessory.Accessory {
	t.Helper()
	st, err := catalog.LookupService("Lightbulb")
	if err != nil {
		t.Fatalf("LookupService: %v", err)
	}
	ct, err := catalog.LookupCharacteristic("Brightness")
	if err != nil {
		t.Fatalf("LookupCharacteristic: %v", err)
	}

	acc := accessory.New(name, catalog.CategoryLightbulb, accessory.Info{Manufacturer: "Tasmota"})
	acc.AID = aid
	svc := accessory.NewService(st)
	svc.AddCharacteristic(accessory.NewCharacteristic(ct))
	acc.AddService(svc)
	return acc
}

// -----------------------------------------------------------------------------
// AID assignment
// -----------------------------------------------------------------------------

func TestAddAccessory_AIDAssignment(t *testing.T) {
	tests := []struct {
		name     string
		recorded []uint64
		want     []uint64
		warns    int
	}{
		{name: "fresh", recorded: []uint64{0, 0, 0}, want: []uint64{2, 3, 4}},
		{name: "stabilized kept", recorded: []uint64{2, 5, 9}, want: []uint64{2, 5, 9}},
		{name: "new after stabilized", recorded: []uint64{3, 7, 0, 0}, want: []uint64{3, 7, 8, 9}},
		{name: "duplicate reassigned", recorded: []uint64{4, 4}, want: []uint64{4, 5}, warns: 1},
		{name: "bridge AID reassigned", recorded: []uint64{1}, want: []uint64{2}, warns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, log := newServer(t)
			for i, aid := range tt.recorded {
				acc := newLamp(t, "lamp", aid)
				if err := s.AddAccessory(acc); err != nil {
					t.Fatalf("AddAccessory() error = %v", err)
				}
				if acc.AID != tt.want[i] {
					t.Errorf("accessory %d AID = %d, want %d", i, acc.AID, tt.want[i])
				}
			}
			if log.warns != tt.warns {
				t.Errorf("warnings = %d, want %d", log.warns, tt.warns)
			}
		})
	}
}

func TestAddAccessory_AfterStart(t *testing.T) {
	s, _ := newServer(t)
	s.started = true

	if err := s.AddAccessory(newLamp(t, "late", 0)); !errors.Is(err, ErrStarted) {
		t.Errorf("AddAccessory() error = %v, want ErrStarted", err)
	}
}

// -----------------------------------------------------------------------------
// Mirroring
// -----------------------------------------------------------------------------

func TestMirror_Structure(t *testing.T) {
	s, _ := newServer(t)
	acc := newLamp(t, "Desk Lamp", 0)
	if err := s.AddAccessory(acc); err != nil {
		t.Fatalf("AddAccessory() error = %v", err)
	}

	a := s.accessories[0]
	if a.Id != acc.AID {
		t.Errorf("hap Id = %d, want %d", a.Id, acc.AID)
	}

	brightness := acc.Services[1].Characteristic("Brightness")
	hc := s.Characteristic(brightness)
	if hc == nil {
		t.Fatal("Brightness not mirrored")
	}
	if hc.Type != "8" {
		t.Errorf("Type = %q, want 8", hc.Type)
	}
	if hc.Format != "int32" || hc.Unit != "percentage" {
		t.Errorf("Format = %q, Unit = %q", hc.Format, hc.Unit)
	}
	if s.Characteristic(acc.InfoService().Characteristic("Identify")) == nil {
		t.Error("Identify not linked")
	}
}

func TestMirror_RemoteWrite(t *testing.T) {
	s, _ := newServer(t)
	acc := newLamp(t, "Desk Lamp", 0)
	if err := s.AddAccessory(acc); err != nil {
		t.Fatalf("AddAccessory() error = %v", err)
	}

	on := acc.Services[1].Characteristic("On")
	var got []any
	on.OnRemoteWrite(func(v any) { got = append(got, v) })

	hc := s.Characteristic(on)
	req, _ := http.NewRequest(http.MethodPut, "/characteristics", nil)
	hc.SetValueRequest(true, req)

	if len(got) != 1 || got[0] != true {
		t.Errorf("remote-write hooks saw %v, want [true]", got)
	}
	if on.Value() != true {
		t.Errorf("On = %v, want true", on.Value())
	}
}

func TestMirror_LocalWrite(t *testing.T) {
	s, _ := newServer(t)
	acc := newLamp(t, "Desk Lamp", 0)
	if err := s.AddAccessory(acc); err != nil {
		t.Fatalf("AddAccessory() error = %v", err)
	}

	on := acc.Services[1].Characteristic("On")
	hooks := 0
	on.OnRemoteWrite(func(any) { hooks++ })

	on.SetValue(true)

	if v := s.Characteristic(on).Val; v != true {
		t.Errorf("hap value = %v, want true", v)
	}
	if hooks != 0 {
		t.Errorf("local write ran %d remote-write hooks, want 0", hooks)
	}
}

func TestMirror_ClampsToRange(t *testing.T) {
	s, _ := newServer(t)
	acc := newLamp(t, "Desk Lamp", 0)
	ct, err := catalog.LookupCharacteristic("ColorTemperature")
	if err != nil {
		t.Fatalf("LookupCharacteristic: %v", err)
	}
	temp := accessory.NewCharacteristic(ct)
	acc.Services[1].AddCharacteristic(temp)
	if err := s.AddAccessory(acc); err != nil {
		t.Fatalf("AddAccessory() error = %v", err)
	}

	hc := s.Characteristic(temp)
	if hc.Format != "uint32" {
		t.Errorf("Format = %q, want uint32", hc.Format)
	}

	temp.SetValue(int64(600))
	if v := hc.Value(); v != 500 {
		t.Errorf("hap value = %v, want clamped to 500", v)
	}
}

func TestMirror_RepeatedEvents(t *testing.T) {
	st, err := catalog.LookupService("StatelessProgrammableSwitch")
	if err != nil {
		t.Fatalf("LookupService: %v", err)
	}
	acc := accessory.New("Button", catalog.CategoryProgrammableSwitch, accessory.Info{})
	svc := acc.AddService(accessory.NewService(st))

	s, _ := newServer(t)
	if err := s.AddAccessory(acc); err != nil {
		t.Fatalf("AddAccessory() error = %v", err)
	}

	event := svc.Characteristic("ProgrammableSwitchEvent")
	notified := 0
	s.Characteristic(event).OnCValueUpdate(func(*characteristic.C, interface{}, interface{}, *http.Request) {
		notified++
	})

	for i := 0; i < 3; i++ {
		event.SetValue(int64(1))
	}
	if notified != 3 {
		t.Errorf("notifications = %d, want 3", notified)
	}
}

func TestFromHAP(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{in: 5, want: int64(5)},
		{in: uint8(2), want: int64(2)},
		{in: uint32(7), want: int64(7)},
		{in: float32(0.5), want: 0.5},
		{in: true, want: true},
		{in: "x", want: "x"},
	}
	for _, tt := range tests {
		if got := fromHAP(tt.in); got != tt.want {
			t.Errorf("fromHAP(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestHapInfo_Defaults(t *testing.T) {
	info := hapInfo("Lamp", accessory.Info{}, 7)
	if info.Manufacturer == "" || info.Model != "Lamp" || info.SerialNumber != "homekit-mqtt-7" || info.Firmware == "" {
		t.Errorf("hapInfo() = %+v", info)
	}

	info = hapInfo("Lamp", accessory.Info{Manufacturer: "Sonoff", SerialNumber: "abc"}, 7)
	if info.Manufacturer != "Sonoff" || info.SerialNumber != "abc" {
		t.Errorf("hapInfo() = %+v, want recorded values kept", info)
	}
}

func TestStop_NotStarted(t *testing.T) {
	s, _ := newServer(t)
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

package definition

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gopkg.in/ini.v1"

	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

// mockLogger records warnings so tests can assert on skipped entries.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Info(string, ...any) {}

func (m *mockLogger) Warn(msg string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readAID(t *testing.T, path string) string {
	t.Helper()
	f, err := ini.Load(path)
	if err != nil {
		t.Fatalf("ini.Load(%s): %v", path, err)
	}
	return f.Section("Accessory").Key("AID").String()
}

const lampDef = `[Accessory]
Category = Lightbulb
Manufacturer = Tasmota
Model = Sonoff B1

[Lightbulb]
On = stat/lamp/POWER cmnd/lamp/POWER tasmota.POWER
Brightness = stat/lamp/RESULT cmnd/lamp/HSBColor tasmota.Brightness
`

const plugDef = `[Accessory]
Category = Outlet
DisplayName = Coffee Machine

[Outlet]
On = stat/plug/POWER cmnd/plug/POWER tasmota.POWER
OutletInUse = stat/plug/POWER _ tasmota.POWER
`

// -----------------------------------------------------------------------------
// ParseRouting
// -----------------------------------------------------------------------------

func TestParseRouting(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantIn  string
		wantOut string
		wantAd  string
		wantErr bool
	}{
		{name: "all present", value: "A B C", wantIn: "A", wantOut: "B", wantAd: "C"},
		{name: "extra whitespace", value: "  a/b \t c/d   x.y ", wantIn: "a/b", wantOut: "c/d", wantAd: "x.y"},
		{name: "absent topic in", value: "_ cmnd/x/POWER _", wantOut: "cmnd/x/POWER"},
		{name: "all absent", value: "_ _ _"},
		{name: "two tokens", value: "A B", wantErr: true},
		{name: "four tokens", value: "A B C D", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRouting(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRouting) {
					t.Fatalf("ParseRouting(%q) error = %v, want ErrMalformedRouting", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRouting(%q) error = %v", tt.value, err)
			}
			if r.TopicIn != tt.wantIn || r.TopicOut != tt.wantOut || r.Adapter != tt.wantAd {
				t.Errorf("ParseRouting(%q) = %+v, want {%s %s %s}", tt.value, r, tt.wantIn, tt.wantOut, tt.wantAd)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Load
// -----------------------------------------------------------------------------

func TestLoad_SkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lamp.cfg", lampDef)
	writeFile(t, dir, "plug.cfg", plugDef)
	writeFile(t, dir, "toaster.cfg", "[Accessory]\nCategory = Toaster\n")
	writeFile(t, dir, "notes.cfg", "[Lightbulb]\nOn = a b c\n")
	writeFile(t, dir, "bridge.cfg", "[Accessory]\nCategory = Bridge\n")
	writeFile(t, dir, "accessory.state/keys.cfg", lampDef)

	log := &mockLogger{}
	accs, err := NewLoader(dir, log).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(accs) != 2 {
		t.Fatalf("Load() returned %d accessories, want 2", len(accs))
	}
	if log.warnCount() != 2 {
		t.Errorf("warnings = %d, want 2 (unknown category, missing identity)", log.warnCount())
	}
}

func TestLoad_AccessoryContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lamp.living.cfg", lampDef)

	accs, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(accs) != 1 {
		t.Fatalf("len = %d, want 1", len(accs))
	}
	acc := accs[0]

	if acc.Name != "lamp" {
		t.Errorf("Name = %q, want lamp (base name up to first dot)", acc.Name)
	}
	if acc.Category != catalog.CategoryLightbulb {
		t.Errorf("Category = %v, want Lightbulb", acc.Category)
	}
	if acc.AID != 0 {
		t.Errorf("AID = %d, want 0 for a file without AID", acc.AID)
	}
	if acc.Info.Manufacturer != "Tasmota" || acc.Info.Model != "Sonoff B1" {
		t.Errorf("Info = %+v", acc.Info)
	}
	if len(acc.Services) != 2 {
		t.Fatalf("len(Services) = %d, want 2", len(acc.Services))
	}

	bulb := acc.Services[1]
	on := bulb.Characteristic("On")
	if on == nil {
		t.Fatal("Lightbulb lacks On")
	}
	if on.Routing.TopicIn != "stat/lamp/POWER" || on.Routing.TopicOut != "cmnd/lamp/POWER" || on.Routing.Adapter != "tasmota.POWER" {
		t.Errorf("On routing = %+v", on.Routing)
	}
	if bulb.Characteristic("Brightness") == nil {
		t.Error("Lightbulb lacks Brightness")
	}
}

func TestLoad_DisplayName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plug.cfg", plugDef)

	accs, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if accs[0].Name != "Coffee Machine" {
		t.Errorf("Name = %q, want Coffee Machine", accs[0].Name)
	}
	if got := accs[0].InfoService().Characteristic("Name").Value(); got != "Coffee Machine" {
		t.Errorf("info Name = %v", got)
	}
}

func TestLoad_MergeRule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plug.cfg", plugDef)

	accs, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	outlet := accs[0].Services[1]
	if len(outlet.Characteristics) != 2 {
		t.Fatalf("Outlet has %d characteristics, want 2 (required ones replaced in place)", len(outlet.Characteristics))
	}
	if outlet.Characteristics[0].Type.Name != "On" || outlet.Characteristics[1].Type.Name != "OutletInUse" {
		t.Errorf("order = %s, %s", outlet.Characteristics[0].Type.Name, outlet.Characteristics[1].Type.Name)
	}
	inUse := outlet.Characteristic("OutletInUse")
	if inUse.Routing.TopicOut != "" {
		t.Errorf("OutletInUse TopicOut = %q, want absent", inUse.Routing.TopicOut)
	}
}

func TestLoad_SkipsBadEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lamp.cfg", `[Accessory]
Category = Lightbulb

[Lightbulb]
On = only two
Sparkle = a b c
Brightness = stat/x cmnd/x _

[Teleporter]
On = a b c
`)

	log := &mockLogger{}
	accs, err := NewLoader(dir, log).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(accs) != 1 {
		t.Fatalf("len = %d, want 1", len(accs))
	}
	if len(accs[0].Services) != 2 {
		t.Errorf("len(Services) = %d, want 2 (unknown service skipped)", len(accs[0].Services))
	}

	bulb := accs[0].Services[1]
	if on := bulb.Characteristic("On"); on == nil || on.Routing.TopicIn != "" {
		t.Errorf("On should keep the template with no routing, got %+v", on)
	}
	if bulb.Characteristic("Brightness") == nil {
		t.Error("Brightness should be loaded")
	}
	if log.warnCount() != 3 {
		t.Errorf("warnings = %d, want 3", log.warnCount())
	}
}

func TestLoad_InformationSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lamp.cfg", `[Accessory]
Category = Lightbulb

[AccessoryInformation]
Identify = _ cmnd/lamp/Identify _
`)

	accs, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(accs[0].Services) != 1 {
		t.Fatalf("len(Services) = %d, want 1", len(accs[0].Services))
	}
	if got := accs[0].InfoService().Characteristic("Identify").Routing.TopicOut; got != "cmnd/lamp/Identify" {
		t.Errorf("Identify TopicOut = %q", got)
	}
}

func TestLoad_SortedByAID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cfg", "[Accessory]\nCategory = Switch\n")
	writeFile(t, dir, "b.cfg", "[Accessory]\nCategory = Switch\nAID = 9\n")
	writeFile(t, dir, "c.cfg", "[Accessory]\nCategory = Switch\nAID = 3\n")
	writeFile(t, dir, "sub/d.cfg", "[Accessory]\nCategory = Switch\n")

	accs, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var got []string
	for _, a := range accs {
		got = append(got, a.Name)
	}
	if want := "c,b,a,d"; strings.Join(got, ",") != want {
		t.Errorf("order = %s, want %s", strings.Join(got, ","), want)
	}
	if accs[0].AID != 3 || accs[1].AID != 9 {
		t.Errorf("AIDs = %d, %d, want 3, 9", accs[0].AID, accs[1].AID)
	}
}

func TestLoad_InvalidAID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cfg", "[Accessory]\nCategory = Switch\nAID = seven\n")
	writeFile(t, dir, "b.cfg", "[Accessory]\nCategory = Switch\nAID = 0\n")

	log := &mockLogger{}
	accs, err := NewLoader(dir, log).Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(accs) != 0 {
		t.Errorf("len = %d, want 0", len(accs))
	}
	if log.warnCount() != 2 {
		t.Errorf("warnings = %d, want 2", log.warnCount())
	}
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cfg", "[Accessory]\nCategory = Switch\nAID = 7\n")

	accs, err := NewLoader(dir, &mockLogger{}).Load(true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if accs[0].AID != 0 {
		t.Errorf("AID = %d, want 0 with override", accs[0].AID)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing"), &mockLogger{}).Load(false)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

// -----------------------------------------------------------------------------
// Stabilize
// -----------------------------------------------------------------------------

func TestStabilize_WritesAssignedAIDs(t *testing.T) {
	dir := t.TempDir()
	lamp := writeFile(t, dir, "lamp.cfg", lampDef)
	plug := writeFile(t, dir, "plug.cfg", plugDef)

	loader := NewLoader(dir, &mockLogger{})
	accs, err := loader.Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Assigned by the authority.
	accs[0].AID = 2
	accs[1].AID = 3

	if err := loader.Stabilize(); err != nil {
		t.Fatalf("Stabilize() error = %v", err)
	}
	if got := readAID(t, lamp); got != "2" {
		t.Errorf("lamp AID = %q, want 2", got)
	}
	if got := readAID(t, plug); got != "3" {
		t.Errorf("plug AID = %q, want 3", got)
	}

	// Routing survives the rewrite.
	again, err := NewLoader(dir, &mockLogger{}).Load(false)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if again[0].AID != 2 || again[1].AID != 3 {
		t.Errorf("reloaded AIDs = %d, %d", again[0].AID, again[1].AID)
	}
	if on := again[0].Services[1].Characteristic("On"); on.Routing.TopicOut != "cmnd/lamp/POWER" {
		t.Errorf("reloaded On routing = %+v", on.Routing)
	}
}

func TestStabilize_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lamp.cfg", "[Accessory]\nCategory = Lightbulb\nAID = 5\n")

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	loader := NewLoader(dir, &mockLogger{})
	if _, err := loader.Load(false); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := loader.Stabilize(); err != nil {
		t.Fatalf("Stabilize() error = %v", err)
	}
	if err := loader.Stabilize(); err != nil {
		t.Fatalf("second Stabilize() error = %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Error("file rewritten although AID was unchanged")
	}
}

func TestStabilize_SkipsUnassigned(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lamp.cfg", lampDef)

	loader := NewLoader(dir, &mockLogger{})
	if _, err := loader.Load(false); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := loader.Stabilize(); err != nil {
		t.Fatalf("Stabilize() error = %v", err)
	}
	if got := readAID(t, path); got != "" {
		t.Errorf("AID = %q, want none", got)
	}
}

func TestStabilize_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lamp.cfg", lampDef)
	plug := writeFile(t, dir, "plug.cfg", plugDef)

	loader := NewLoader(dir, &mockLogger{})
	accs, err := loader.Load(false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	accs[0].AID = 2
	accs[1].AID = 3

	// Point one entry at a directory that does not exist.
	loader.entries[0].path = filepath.Join(dir, "gone", "lamp.cfg")

	err = loader.Stabilize()
	if err == nil {
		t.Fatal("Stabilize() error = nil, want failure for the missing directory")
	}
	if !strings.Contains(err.Error(), "gone") {
		t.Errorf("error %q does not name the failing file", err)
	}
	if got := readAID(t, plug); got != "3" {
		t.Errorf("plug AID = %q, want 3 despite the other failure", got)
	}
}

// -----------------------------------------------------------------------------
// LoadBridgeDefinition
// -----------------------------------------------------------------------------

func TestLoadBridgeDefinition(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantHost string
		wantPort int
		wantUser string
		noBroker bool
		wantErr  bool
	}{
		{
			name:     "full",
			content:  "[Accessory]\nDisplayName = Attic\nManufacturer = me\n\n[MQTT]\nHostName = broker.lan\nPort = 8883\nUserName = hk\nPassword = secret\n",
			wantName: "Attic", wantHost: "broker.lan", wantPort: 8883, wantUser: "hk",
		},
		{
			name:     "username without password",
			content:  "[Accessory]\n[MQTT]\nHostName = localhost\nPort = 1883\nUserName = hk\n",
			wantName: "MQTT", wantHost: "localhost", wantPort: 1883,
		},
		{
			name:     "no mqtt section",
			content:  "[Accessory]\nModel = pi\n",
			wantName: "MQTT", noBroker: true,
		},
		{name: "missing host", content: "[MQTT]\nPort = 1883\n", wantErr: true},
		{name: "bad port", content: "[MQTT]\nHostName = x\nPort = abc\n", wantErr: true},
		{name: "port out of range", content: "[MQTT]\nHostName = x\nPort = 70000\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, BridgeFile, tt.content)

			def, err := LoadBridgeDefinition(dir)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBridgeDefinition) {
					t.Fatalf("error = %v, want ErrInvalidBridgeDefinition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadBridgeDefinition() error = %v", err)
			}
			if def.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", def.Name, tt.wantName)
			}
			if tt.noBroker {
				if def.Broker != nil {
					t.Errorf("Broker = %+v, want nil", def.Broker)
				}
				return
			}
			if def.Broker == nil {
				t.Fatal("Broker = nil")
			}
			if def.Broker.Host != tt.wantHost || def.Broker.Port != tt.wantPort || def.Broker.Username != tt.wantUser {
				t.Errorf("Broker = %+v", def.Broker)
			}
			if (def.Broker.Username == "") != (def.Broker.Password == "") {
				t.Error("credentials must be set as a pair")
			}
		})
	}
}

func TestLoadBridgeDefinition_Missing(t *testing.T) {
	_, err := LoadBridgeDefinition(t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

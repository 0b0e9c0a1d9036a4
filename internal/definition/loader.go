package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
	"github.com/nerrad567/homekit-mqtt/internal/catalog"
)

// Reserved names inside the definitions directory.
const (
	// BridgeFile holds the bridge identity and broker connection.
	BridgeFile = "bridge.cfg"

	// StateName is owned by the HAP server (pairings and keys).
	StateName = "accessory.state"

	// identitySection holds the per-accessory identity keys.
	identitySection = "Accessory"

	// absentToken marks an unused routing field.
	absentToken = "_"
)

// Logger defines the logging interface used by the Loader.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Loader reads accessory definition files from a directory and writes
// assigned AIDs back to them.
//
// A Loader is not safe for concurrent use; load, register, then stabilize
// from a single goroutine.
type Loader struct {
	dir     string
	logger  Logger
	entries []*entry
}

// entry ties a loaded accessory to its source file.
type entry struct {
	path    string
	file    *ini.File
	fileAID uint64 // 0 when the file has no AID
	acc     *accessory.Accessory
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, logger Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load parses every definition file under the directory, recursively.
//
// bridge.cfg and accessory.state (file or directory) are skipped. A file
// that cannot be parsed, lacks an [Accessory] section, carries an invalid
// AID or names an unknown category is logged and skipped. Within a file,
// unknown service or characteristic types and malformed routing values are
// logged and skipped individually.
//
// Accessories are returned ordered by the AID recorded in their file;
// files without an AID come last in directory order. With override set,
// recorded AIDs only affect ordering and every accessory comes back with
// AID 0 so the authority assigns a fresh one.
//
// Parameters:
//   - override: Discard recorded AIDs
//
// Returns:
//   - []*accessory.Accessory: Loaded accessories in AID order
//   - error: Only if the directory itself cannot be walked
func (l *Loader) Load(override bool) ([]*accessory.Accessory, error) {
	var files []*entry

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() == StateName {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() == BridgeFile {
			return nil
		}

		e, err := l.readFile(path)
		if err != nil {
			l.logger.Warn("skipping definition file", "path", path, "error", err)
			return nil
		}
		files = append(files, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning definitions in %s: %w", l.dir, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return sortKey(files[i]) < sortKey(files[j])
	})

	l.entries = l.entries[:0]
	accessories := make([]*accessory.Accessory, 0, len(files))
	for _, e := range files {
		acc, err := l.build(e)
		if err != nil {
			l.logger.Warn("skipping definition file", "path", e.path, "error", err)
			continue
		}
		if !override {
			acc.AID = e.fileAID
		}
		e.acc = acc
		l.entries = append(l.entries, e)
		accessories = append(accessories, acc)
		l.logger.Info("accessory loaded", "name", acc.Name, "path", e.path, "aid", acc.AID)
	}

	return accessories, nil
}

// sortKey places files without an AID after every stabilized one.
func sortKey(e *entry) uint64 {
	if e.fileAID == 0 {
		return math.MaxUint64
	}
	return e.fileAID
}

// readFile parses one file and its recorded AID.
func (l *Loader) readFile(path string) (*entry, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	ident, err := f.GetSection(identitySection)
	if err != nil {
		return nil, ErrMissingIdentity
	}

	e := &entry{path: path, file: f}
	if ident.HasKey("AID") {
		raw := strings.TrimSpace(ident.Key("AID").String())
		aid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || aid == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAID, raw)
		}
		e.fileAID = aid
	}
	return e, nil
}

// build turns a parsed file into an accessory.
func (l *Loader) build(e *entry) (*accessory.Accessory, error) {
	ident := e.file.Section(identitySection)

	category, err := catalog.ParseCategory(value(ident, "Category"))
	if err != nil {
		return nil, err
	}

	name := value(ident, "DisplayName")
	if name == "" {
		name = strings.SplitN(filepath.Base(e.path), ".", 2)[0]
	}

	acc := accessory.New(name, category, accessory.Info{
		FirmwareRevision: value(ident, "FirmwareRevision"),
		Manufacturer:     value(ident, "Manufacturer"),
		Model:            value(ident, "Model"),
		SerialNumber:     value(ident, "SerialNumber"),
	})

	for _, section := range e.file.Sections() {
		switch section.Name() {
		case ini.DefaultSection, identitySection:
			continue
		}

		svc, err := l.buildService(acc, section)
		if err != nil {
			l.logger.Warn("skipping service", "path", e.path, "service", section.Name(), "error", err)
			continue
		}
		if svc != acc.InfoService() {
			acc.AddService(svc)
		}
	}

	return acc, nil
}

// buildService creates the service for section, or extends the
// information service when the section names it.
func (l *Loader) buildService(acc *accessory.Accessory, section *ini.Section) (*accessory.Service, error) {
	var svc *accessory.Service
	if section.Name() == catalog.ServiceAccessoryInformation {
		svc = acc.InfoService()
	} else {
		t, err := catalog.LookupService(section.Name())
		if err != nil {
			return nil, err
		}
		svc = accessory.NewService(t)
	}

	for _, key := range section.Keys() {
		ct, err := catalog.LookupCharacteristic(key.Name())
		if err != nil {
			l.logger.Warn("skipping characteristic", "service", section.Name(), "characteristic", key.Name(), "error", err)
			continue
		}

		routing, err := ParseRouting(key.String())
		if err != nil {
			l.logger.Warn("skipping characteristic", "service", section.Name(), "characteristic", key.Name(), "error", err)
			continue
		}

		c := accessory.NewCharacteristic(ct)
		c.Routing = routing
		svc.AddCharacteristic(c)
	}

	return svc, nil
}

// value reads a key without creating it; Section.Key would add an empty
// key that Stabilize then writes back.
func value(section *ini.Section, name string) string {
	k, err := section.GetKey(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(k.String())
}

// ParseRouting splits a "topicIn topicOut adapter" value. Each token may
// be "_" for absent, which yields an empty field.
//
// Returns:
//   - accessory.Routing: Parsed routing
//   - error: ErrMalformedRouting unless there are exactly 3 tokens
func ParseRouting(value string) (accessory.Routing, error) {
	tokens := strings.Fields(value)
	if len(tokens) != 3 {
		return accessory.Routing{}, fmt.Errorf("%w: got %d in %q", ErrMalformedRouting, len(tokens), value)
	}

	for i, tok := range tokens {
		if tok == absentToken {
			tokens[i] = ""
		}
	}

	return accessory.Routing{
		TopicIn:  tokens[0],
		TopicOut: tokens[1],
		Adapter:  tokens[2],
	}, nil
}

// Stabilize writes each accessory's AID back into its source file when it
// differs from the recorded one. Call it after the authority has assigned
// AIDs. Accessories still without an AID are left alone.
//
// Files are replaced atomically. A failure on one file is logged and does
// not stop the others. A second call with unchanged AIDs writes nothing.
//
// Returns:
//   - error: All write failures joined, or nil
func (l *Loader) Stabilize() error {
	var errs []error

	for _, e := range l.entries {
		if e.acc.AID == 0 || e.acc.AID == e.fileAID {
			continue
		}

		e.file.Section(identitySection).Key("AID").SetValue(strconv.FormatUint(e.acc.AID, 10))
		if err := writeAtomic(e.path, e.file); err != nil {
			l.logger.Warn("failed to persist AID", "path", e.path, "aid", e.acc.AID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", e.path, err))
			continue
		}
		e.fileAID = e.acc.AID
		l.logger.Info("AID persisted", "path", e.path, "aid", e.acc.AID)
	}

	return errors.Join(errs...)
}

// writeAtomic writes f next to path and renames it into place.
func writeAtomic(path string, f *ini.File) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing: %w", err)
	}
	return nil
}

package homekit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/brutella/hap"
	hapaccessory "github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
)

// bridgeAID is reserved for the bridge accessory itself.
const bridgeAID = 1

// Fallback identity values; controllers reject empty information fields.
const (
	defaultManufacturer = "homekit-mqtt"
	defaultFirmware     = "1.0.0"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the bridge identity and HAP server settings.
type Config struct {
	// Name is the bridge accessory name shown during pairing.
	Name string

	// Info fills the bridge's information service.
	Info accessory.Info

	// Pin is the 8-digit setup code.
	Pin string

	// Address is the listen address; empty picks a random port.
	Address string

	// StorePath is the directory for pairing data.
	StorePath string
}

// Server is the HomeKit identity authority.
//
// Thread Safety: All methods are safe for concurrent use.
type Server struct {
	cfg    Config
	logger Logger

	mu          sync.Mutex
	bridge      *hapaccessory.Bridge
	accessories []*hapaccessory.A
	used        map[uint64]bool
	chars       map[*accessory.Characteristic]*characteristic.C

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// New creates a server for the bridge described by cfg.
func New(cfg Config, logger Logger) *Server {
	b := hapaccessory.NewBridge(hapInfo(cfg.Name, cfg.Info, bridgeAID))
	b.A.Id = bridgeAID

	return &Server{
		cfg:    cfg,
		logger: logger,
		bridge: b,
		used:   map[uint64]bool{bridgeAID: true},
		chars:  make(map[*accessory.Characteristic]*characteristic.C),
	}
}

// AddAccessory assigns acc an AID and mirrors it into a hap accessory.
//
// A recorded AID is kept unless it is taken or reserved for the bridge,
// in which case a fresh one is assigned. Fresh AIDs continue after the
// highest AID seen so far, so accessories added in AID order never collide.
//
// Returns:
//   - error: ErrStarted after Start
func (s *Server) AddAccessory(acc *accessory.Accessory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("%w: cannot add %s", ErrStarted, acc)
	}

	if acc.AID != 0 && s.used[acc.AID] {
		s.logger.Warn("AID already in use, reassigning", "accessory", acc.Name, "aid", acc.AID)
		acc.AID = 0
	}
	if acc.AID == 0 {
		acc.AID = s.nextAID()
	}
	s.used[acc.AID] = true

	s.accessories = append(s.accessories, s.mirror(acc))
	return nil
}

// nextAID returns one past the highest AID in use.
func (s *Server) nextAID() uint64 {
	var highest uint64
	for aid := range s.used {
		highest = max(highest, aid)
	}
	return highest + 1
}

// mirror builds the hap accessory for acc and links every characteristic.
func (s *Server) mirror(acc *accessory.Accessory) *hapaccessory.A {
	a := hapaccessory.New(hapInfo(acc.Name, acc.Info, acc.AID), byte(acc.Category))
	a.Id = acc.AID

	// hap builds its own information service; only Identify carries routing.
	if identify := acc.InfoService().Characteristic("Identify"); identify != nil {
		s.link(identify, a.Info.Identify.C)
	}

	for _, svc := range acc.Services[1:] {
		hs := service.New(svc.Type.UUID)
		for _, c := range svc.Characteristics {
			hc := newCharacteristic(c)
			s.link(c, hc)
			hs.AddC(hc)
		}
		a.AddS(hs)
	}
	return a
}

// link wires remote writes on hc into c and local writes on c into hc.
func (s *Server) link(c *accessory.Characteristic, hc *characteristic.C) {
	s.chars[c] = hc

	hc.OnCValueUpdate(func(_ *characteristic.C, newVal, _ interface{}, r *http.Request) {
		// Local updates arrive here too, without a request.
		if r == nil {
			return
		}
		c.HandleRemoteWrite(fromHAP(newVal))
	})

	c.Observe(func(v any) {
		hc.SetValueRequest(v, nil)
	})
}

// newCharacteristic creates the hap characteristic for c's type and seeds
// it with c's current value. hap clamps the seed to the type's range.
func newCharacteristic(c *accessory.Characteristic) *characteristic.C {
	hc := c.Type.New()
	hc.SetValueRequest(c.Value(), nil)
	return hc
}

// fromHAP widens hap's numeric values to the model's int64/float64.
func fromHAP(v interface{}) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func hapInfo(name string, info accessory.Info, aid uint64) hapaccessory.Info {
	out := hapaccessory.Info{
		Name:         name,
		Manufacturer: info.Manufacturer,
		Model:        info.Model,
		SerialNumber: info.SerialNumber,
		Firmware:     info.FirmwareRevision,
	}
	if out.Manufacturer == "" {
		out.Manufacturer = defaultManufacturer
	}
	if out.Model == "" {
		out.Model = name
	}
	if out.SerialNumber == "" {
		out.SerialNumber = fmt.Sprintf("%s-%d", defaultManufacturer, aid)
	}
	if out.Firmware == "" {
		out.Firmware = defaultFirmware
	}
	return out
}

// Characteristic returns the hap characteristic mirroring c, or nil.
func (s *Server) Characteristic(c *accessory.Characteristic) *characteristic.C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chars[c]
}

// Start creates the HAP server and serves in the background until ctx is
// cancelled or Stop is called.
//
// Returns:
//   - error: ErrStarted on a second call, ErrServerFailed if the server
//     cannot be created from the store and accessories
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrStarted
	}

	store := hap.NewFsStore(s.cfg.StorePath)
	srv, err := hap.NewServer(store, s.bridge.A, s.accessories...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerFailed, err)
	}
	srv.Pin = s.cfg.Pin
	srv.Addr = s.cfg.Address

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.serve(runCtx, srv, s.done)

	s.logger.Info("HAP server started",
		"name", s.cfg.Name,
		"address", s.cfg.Address,
		"accessories", len(s.accessories))
	return nil
}

func (s *Server) serve(ctx context.Context, srv *hap.Server, done chan struct{}) {
	defer close(done)

	err := srv.ListenAndServe(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return
	}

	s.logger.Error("HAP server stopped", "error", err)
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Stop cancels the server and waits for it to exit. Calling Stop on a
// server that never started, or more than once, is a no-op.
//
// Returns:
//   - error: The server's own failure, if it exited with one
func (s *Server) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("HAP server stopped")
	return s.err
}

package bridge

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/homekit-mqtt/internal/accessory"
	"github.com/nerrad567/homekit-mqtt/internal/adapter"
	"github.com/nerrad567/homekit-mqtt/internal/codec"
	"github.com/nerrad567/homekit-mqtt/internal/infrastructure/mqtt"
)

// State is the lifecycle state of the bridge.
type State int

// Bridge lifecycle states.
const (
	StateIdle State = iota
	StateConnected
	StateRunning
	StateStopped
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnected:
		return "connected"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Broker is the MQTT side of the bridge.
// *mqtt.Client satisfies this interface.
type Broker interface {
	// Connect opens the connection, waiting for the first attempt.
	Connect(ctx context.Context) error

	// Subscribe registers a handler for an exact topic.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// PublishAsync publishes without waiting for acknowledgement.
	PublishAsync(topic string, payload []byte, qos byte, retained bool) error

	// SetOnConnect registers a callback fired on every (re)connection.
	SetOnConnect(callback func())

	// SetOnDisconnect registers a callback fired when the connection is lost.
	SetOnDisconnect(callback func(err error))

	// Close disconnects from the broker.
	Close() error
}

// Authority is the HomeKit side of the bridge: it assigns accessory
// identifiers and serves accessories to controllers.
type Authority interface {
	// AddAccessory assigns acc an AID if it has none and publishes it.
	// Any hooks the authority attaches run before the bridge's own.
	AddAccessory(acc *accessory.Accessory) error

	// Start begins serving in the background.
	Start(ctx context.Context) error

	// Stop halts serving and waits for the server to exit.
	Stop() error
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Broker is the MQTT client.
	Broker Broker

	// Authority is the HomeKit accessory server.
	Authority Authority

	// Adapters resolves adapter names. Defaults to adapter.Default().
	Adapters *adapter.Registry

	// QoS is used for subscriptions and publishes.
	QoS byte

	// LogTopic receives a copy of every warning. Empty disables it.
	LogTopic string

	// Logger is an optional structured logger.
	Logger Logger
}

// getter is one handler in a topic's chain.
type getter struct {
	char    *accessory.Characteristic
	adapter *adapter.Adapter
	owner   string
}

// route is the ordered getter chain for one inbound topic.
type route struct {
	topic    string
	handlers []*getter
}

// Stats holds bridge counters.
type Stats struct {
	State       State
	Accessories int
	Routes      int

	// Dispatched counts inbound messages handed to Dispatch.
	Dispatched uint64

	// Unmatched counts inbound messages with no route.
	Unmatched uint64

	// Published counts outbound values accepted by the broker client.
	Published uint64

	// Dropped counts outbound values that could not be published.
	Dropped uint64

	// Failures counts adapter and conversion failures in either direction.
	Failures uint64

	// Connections counts broker (re)connections; Disconnects counts losses.
	Connections uint64
	Disconnects uint64
}

// Bridge routes values between registered characteristics and MQTT topics.
//
// Thread Safety: All methods are safe for concurrent use. Hooks run under
// a read lock; Stop takes the write lock, so no hook is running or will
// run once Stop returns.
type Bridge struct {
	broker    Broker
	authority Authority
	adapters  *adapter.Registry
	qos       byte
	logTopic  string
	logger    Logger

	mu         sync.RWMutex
	state      State
	routes     map[string]*route
	topics     []string // inbound topics in registration order
	registered map[*accessory.Accessory]struct{}

	dispatched atomic.Uint64
	unmatched  atomic.Uint64
	published  atomic.Uint64
	dropped    atomic.Uint64
	failures   atomic.Uint64

	connections atomic.Uint64
	disconnects atomic.Uint64
}

// NewBridge creates a new bridge in the Idle state.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.Broker == nil {
		return nil, fmt.Errorf("broker is required")
	}
	if opts.Authority == nil {
		return nil, fmt.Errorf("authority is required")
	}
	if opts.QoS > 2 {
		return nil, fmt.Errorf("%w: qos %d", mqtt.ErrInvalidQoS, opts.QoS)
	}

	adapters := opts.Adapters
	if adapters == nil {
		adapters = adapter.Default()
	}

	return &Bridge{
		broker:     opts.Broker,
		authority:  opts.Authority,
		adapters:   adapters,
		qos:        opts.QoS,
		logTopic:   opts.LogTopic,
		logger:     opts.Logger,
		routes:     make(map[string]*route),
		registered: make(map[*accessory.Accessory]struct{}),
	}, nil
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// RegisterAccessory hands acc to the authority and wires its routed
// characteristics.
//
// Characteristics with an outbound topic get a setter hook appended after
// any existing hooks. Characteristics with an inbound topic are appended to
// that topic's getter chain. An unknown adapter name is a warning and the
// characteristic is routed without transformation.
//
// Registering while Connected subscribes the new topics immediately.
//
// Returns:
//   - error: ErrRunning after Start, ErrStopped after Stop,
//     ErrAlreadyRegistered for a repeat, or the authority's error
func (b *Bridge) RegisterAccessory(acc *accessory.Accessory) error {
	b.mu.Lock()

	switch b.state {
	case StateRunning:
		b.mu.Unlock()
		return fmt.Errorf("%w: cannot register %s", ErrRunning, acc)
	case StateStopped:
		b.mu.Unlock()
		return fmt.Errorf("%w: cannot register %s", ErrStopped, acc)
	}
	if _, exists := b.registered[acc]; exists {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, acc)
	}

	if err := b.authority.AddAccessory(acc); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("adding %s to authority: %w", acc, err)
	}
	b.registered[acc] = struct{}{}

	var newTopics []string
	acc.Characteristics(func(_ *accessory.Service, c *accessory.Characteristic) {
		r := c.Routing
		if r.TopicIn == "" && r.TopicOut == "" {
			return
		}

		ad := b.resolveAdapter(acc, c)
		if r.TopicOut != "" {
			b.installSetter(c, ad)
		}
		if r.TopicIn != "" && b.installGetter(acc, c, ad) {
			newTopics = append(newTopics, r.TopicIn)
		}
	})

	connected := b.state == StateConnected
	b.mu.Unlock()

	b.logInfo("accessory registered", "accessory", acc.Name, "aid", acc.AID, "new_topics", len(newTopics))

	if connected {
		b.subscribe(newTopics)
	}
	return nil
}

func (b *Bridge) resolveAdapter(acc *accessory.Accessory, c *accessory.Characteristic) *adapter.Adapter {
	ad, err := b.adapters.Resolve(c.Routing.Adapter)
	if err != nil {
		b.warn("unknown adapter, passing values through",
			"accessory", acc.Name,
			"characteristic", c.Type.Name,
			"adapter", c.Routing.Adapter)
	}
	return ad
}

// installSetter appends the publish hook for a remote write.
func (b *Bridge) installSetter(c *accessory.Characteristic, ad *adapter.Adapter) {
	topic := c.Routing.TopicOut
	c.OnRemoteWrite(func(v any) {
		b.handleRemoteWrite(c, ad, topic, v)
	})
}

// installGetter appends c to the chain for its inbound topic and reports
// whether the topic is new.
func (b *Bridge) installGetter(acc *accessory.Accessory, c *accessory.Characteristic, ad *adapter.Adapter) bool {
	topic := c.Routing.TopicIn
	g := &getter{char: c, adapter: ad, owner: acc.Name}

	r, exists := b.routes[topic]
	if !exists {
		r = &route{topic: topic}
		b.routes[topic] = r
		b.topics = append(b.topics, topic)
	}
	r.handlers = append(r.handlers, g)
	return !exists
}

// Connect opens the broker connection and subscribes every inbound topic.
// The broker client replays the subscriptions on every reconnection.
//
// Returns:
//   - error: ErrInvalidState unless Idle, or the broker's connect error
func (b *Bridge) Connect(ctx context.Context) error {
	if state := b.State(); state != StateIdle {
		return fmt.Errorf("%w: connect while %s", ErrInvalidState, state)
	}

	b.broker.SetOnConnect(b.handleConnect)
	b.broker.SetOnDisconnect(b.handleDisconnect)
	if err := b.broker.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to broker: %w", err)
	}

	b.mu.Lock()
	if b.state == StateStopped {
		b.mu.Unlock()
		return ErrStopped
	}
	b.state = StateConnected
	topics := slices.Clone(b.topics)
	b.mu.Unlock()

	b.subscribe(topics)
	b.logInfo("bridge connected", "topics", len(topics))
	return nil
}

// handleConnect counts a (re)connection. The broker client restores its
// own subscriptions.
func (b *Bridge) handleConnect() {
	n := b.connections.Add(1)
	if n > 1 {
		b.logInfo("broker reconnected", "connections", n)
	}
}

// handleDisconnect counts a lost connection. The client logs the warning.
func (b *Bridge) handleDisconnect(err error) {
	n := b.disconnects.Add(1)
	b.logDebug("broker connection lost", "disconnects", n, "error", err)
}

func (b *Bridge) subscribe(topics []string) {
	for _, topic := range topics {
		if err := b.broker.Subscribe(topic, b.qos, b.handleMessage); err != nil {
			b.logWarn("subscribe failed", "topic", topic, "error", err)
		}
	}
}

// handleMessage is the broker callback. Dispatch logs its own warnings.
func (b *Bridge) handleMessage(topic string, payload []byte) error {
	_ = b.Dispatch(topic, payload)
	return nil
}

// Start starts the authority's server. Accessories can no longer be
// registered afterwards.
//
// Returns:
//   - error: ErrInvalidState unless Connected, or the authority's error
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateConnected {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, b.state)
	}
	if err := b.authority.Start(ctx); err != nil {
		return fmt.Errorf("starting authority: %w", err)
	}
	b.state = StateRunning

	b.logInfo("bridge started",
		"accessories", len(b.registered),
		"routes", len(b.routes))
	return nil
}

// Stop halts message delivery and the authority. It is safe to call from
// any state and more than once; only the first call does anything.
//
// Returns:
//   - error: Shutdown failures from the first call, joined
func (b *Bridge) Stop() error {
	b.mu.Lock()
	prev := b.state
	if prev == StateStopped {
		b.mu.Unlock()
		return nil
	}
	b.state = StateStopped
	b.mu.Unlock()

	var errs []error
	if prev == StateRunning {
		if err := b.authority.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping authority: %w", err))
		}
	}
	if prev != StateIdle {
		if err := b.broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing broker: %w", err))
		}
	}

	b.logInfo("bridge stopped", "previous_state", prev.String())
	return errors.Join(errs...)
}

// Dispatch runs the getter chain for topic. Matching is exact.
//
// Every handler in the chain runs in registration order; a handler whose
// adapter reports absent or fails does not stop the ones after it.
//
// Returns:
//   - error: ErrUnknownTopic (also logged as a warning) or ErrStopped
func (b *Bridge) Dispatch(topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state == StateStopped {
		return ErrStopped
	}
	b.dispatched.Add(1)

	r, ok := b.routes[topic]
	if !ok {
		b.unmatched.Add(1)
		b.warn("no route for topic, dropping message", "topic", topic)
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	text := string(payload)
	for _, g := range r.handlers {
		b.runGetter(g, topic, text)
	}
	return nil
}

// runGetter converts one inbound payload and writes it to the characteristic.
func (b *Bridge) runGetter(g *getter, topic, payload string) {
	v, ok, err := g.adapter.Input(topic, payload)
	if err != nil {
		b.failures.Add(1)
		b.warn("adapter input failed",
			"accessory", g.owner,
			"characteristic", g.char.Type.Name,
			"error", err)
		return
	}
	if !ok {
		return
	}

	decoded, err := codec.Decode(g.char.Type.Format, v)
	if err != nil {
		b.failures.Add(1)
		b.warn("decoding inbound value failed",
			"accessory", g.owner,
			"characteristic", g.char.Type.Name,
			"topic", topic,
			"error", err)
		return
	}

	g.char.SetValue(decoded)
}

// handleRemoteWrite converts a controller write and publishes it.
func (b *Bridge) handleRemoteWrite(c *accessory.Characteristic, ad *adapter.Adapter, topic string, v any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state == StateStopped {
		return
	}

	encoded, err := codec.Encode(c.Type.Format, v)
	if err != nil {
		b.failures.Add(1)
		b.warn("encoding outbound value failed",
			"characteristic", c.Type.Name,
			"topic", topic,
			"error", err)
		return
	}

	out, ok, err := ad.Output(topic, encoded)
	if err != nil {
		b.failures.Add(1)
		b.warn("adapter output failed",
			"characteristic", c.Type.Name,
			"error", err)
		return
	}
	if !ok {
		b.logDebug("adapter produced no payload", "characteristic", c.Type.Name, "topic", topic)
		return
	}

	b.publish(topic, codec.Text(out))
}

// publish sends payload without waiting. Publishes while disconnected
// are dropped.
func (b *Bridge) publish(topic, payload string) {
	err := b.broker.PublishAsync(topic, []byte(payload), b.qos, false)
	switch {
	case err == nil:
		b.published.Add(1)
		b.logDebug("published", "topic", topic, "payload", payload)
	case errors.Is(err, mqtt.ErrNotConnected):
		b.dropped.Add(1)
		b.logDebug("broker disconnected, dropping publish", "topic", topic)
	default:
		b.dropped.Add(1)
		b.logWarn("publish failed", "topic", topic, "error", err)
	}
}

// warn logs a warning and copies it to the log topic.
func (b *Bridge) warn(msg string, args ...any) {
	b.logWarn(msg, args...)

	if b.logTopic == "" {
		return
	}
	// Best effort; a disconnected broker just loses the copy.
	_ = b.broker.PublishAsync(b.logTopic, []byte(formatWarning(msg, args)), b.qos, false)
}

// formatWarning renders a message and its key/value pairs as one line.
func formatWarning(msg string, args []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	return sb.String()
}

// Topics returns the subscribed inbound topics in registration order.
func (b *Bridge) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.topics)
}

// Stats returns a snapshot of the bridge counters.
func (b *Bridge) Stats() Stats {
	b.mu.RLock()
	s := Stats{
		State:       b.state,
		Accessories: len(b.registered),
		Routes:      len(b.routes),
	}
	b.mu.RUnlock()

	s.Dispatched = b.dispatched.Load()
	s.Unmatched = b.unmatched.Load()
	s.Published = b.published.Load()
	s.Dropped = b.dropped.Load()
	s.Failures = b.failures.Load()
	s.Connections = b.connections.Load()
	s.Disconnects = b.disconnects.Load()
	return s
}

func (b *Bridge) logInfo(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Bridge) logWarn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func (b *Bridge) logDebug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// InputFunc converts an inbound payload into a value for the characteristic.
// Returning ok=false means "absent": nothing is written.
type InputFunc func(cache *GroupCache, topic, payload string) (value any, ok bool, err error)

// OutputFunc converts an encoded characteristic value into a payload.
// Returning ok=false means "absent": nothing is published.
type OutputFunc func(cache *GroupCache, topic string, value any) (payload any, ok bool, err error)

// Descriptor names a pair of transforms. A nil function passes values
// through unchanged in that direction.
type Descriptor struct {
	Name   string
	Input  InputFunc
	Output OutputFunc
}

// Registry maps dotted adapter names to descriptors and owns the group
// cache shared by every adapter it resolves.
//
// All public methods are thread-safe.
type Registry struct {
	descriptors map[string]Descriptor
	mu          sync.RWMutex
	cache       *GroupCache
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
		cache:       NewGroupCache(),
	}
}

// Default creates a registry populated with the built-in adapter catalogue.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range tasmotaDescriptors() {
		// Built-in names are unique.
		_ = r.Register(d)
	}
	return r
}

// Register adds a descriptor under its name.
//
// Returns:
//   - error: ErrInvalidDescriptor for an empty name, ErrDuplicateAdapter if taken
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAdapter, d.Name)
	}
	r.descriptors[d.Name] = d
	return nil
}

// Resolve looks up an adapter by dotted name.
//
// An empty name yields the null adapter with no error. An unknown name
// yields the null adapter together with ErrUnknownAdapter so the caller can
// warn; the returned adapter is always usable.
func (r *Registry) Resolve(name string) (*Adapter, error) {
	if name == "" {
		return r.null(""), nil
	}

	r.mu.RLock()
	d, ok := r.descriptors[name]
	r.mu.RUnlock()

	if !ok {
		return r.null(name), fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
	return &Adapter{desc: d, cache: r.cache}, nil
}

func (r *Registry) null(requested string) *Adapter {
	return &Adapter{desc: Descriptor{Name: requested}, cache: r.cache, null: true}
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cache returns the group cache shared by resolved adapters.
func (r *Registry) Cache() *GroupCache {
	return r.cache
}

// Adapter is a resolved descriptor bound to its registry's cache.
// Invocations never panic: panics and errors inside the transform are
// returned as ErrAdapterFailed.
type Adapter struct {
	desc  Descriptor
	cache *GroupCache
	null  bool
}

// Name returns the descriptor name, or the requested name for a null adapter.
func (a *Adapter) Name() string {
	return a.desc.Name
}

// IsNull reports whether a passes values through unchanged.
func (a *Adapter) IsNull() bool {
	return a.null
}

// Input runs the inbound transform.
//
// Returns:
//   - any: Value to decode and write
//   - bool: false when the adapter reports the value as absent
//   - error: ErrAdapterFailed wrapping the adapter's error or panic
func (a *Adapter) Input(topic, payload string) (value any, ok bool, err error) {
	if a.null || a.desc.Input == nil {
		return payload, true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			value, ok, err = nil, false, fmt.Errorf("%w: %s input on %s: panic: %v", ErrAdapterFailed, a.desc.Name, topic, r)
		}
	}()

	value, ok, err = a.desc.Input(a.cache, topic, payload)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s input on %s: %w", ErrAdapterFailed, a.desc.Name, topic, err)
	}
	return value, ok, nil
}

// Output runs the outbound transform.
//
// Returns:
//   - any: Payload to publish
//   - bool: false when the adapter reports the value as absent
//   - error: ErrAdapterFailed wrapping the adapter's error or panic
func (a *Adapter) Output(topic string, value any) (payload any, ok bool, err error) {
	if a.null || a.desc.Output == nil {
		return value, true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			payload, ok, err = nil, false, fmt.Errorf("%w: %s output on %s: panic: %v", ErrAdapterFailed, a.desc.Name, topic, r)
		}
	}()

	payload, ok, err = a.desc.Output(a.cache, topic, value)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s output on %s: %w", ErrAdapterFailed, a.desc.Name, topic, err)
	}
	return payload, ok, nil
}

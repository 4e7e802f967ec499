package transform

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownImplementation is returned when a label is not registered.
var ErrUnknownImplementation = errors.New("unknown implementation")

// Registry is a thread-safe registry of implementations keyed by label.
// It is shared by the CLI and the HTTP server, which may look labels up
// concurrently.
type Registry struct {
	mu    sync.RWMutex
	impls map[string]Implementation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]Implementation)}
}

// DefaultRegistry creates a Registry with the native library baselines
// pre-registered.
//
// Pre-registered implementations:
//   - "gonum": gonum.org/v1/gonum/dsp/fourier complex FFT
//   - "godsp": github.com/mjibson/go-dsp/fft
//
// Returns:
//   - *Registry: A new registry with the baselines registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(NewGonum())
	_ = r.Register(NewGoDSP())
	return r
}

// Register adds impl under its label. If an implementation with the same
// label already exists, it is replaced.
//
// Parameters:
//   - impl: The implementation to register.
//
// Returns:
//   - error: An error if impl is nil or has an empty label.
func (r *Registry) Register(impl Implementation) error {
	if impl == nil {
		return errors.New("transform: cannot register a nil implementation")
	}
	name := impl.Name()
	if name == "" {
		return errors.New("transform: implementation label cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.impls[name] = impl
	return nil
}

// Get returns the implementation registered under name.
//
// Parameters:
//   - name: The label to look up.
//
// Returns:
//   - Implementation: The registered implementation.
//   - error: ErrUnknownImplementation if the label is not registered.
func (r *Registry) Get(name string) (Implementation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownImplementation, name)
	}
	return impl, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.impls[name]
	return ok
}

// List returns the registered labels sorted alphabetically.
//
// Returns:
//   - []string: A sorted slice of labels.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.impls))
	for name := range r.impls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns a copy of the label to implementation map.
func (r *Registry) GetAll() map[string]Implementation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Implementation, len(r.impls))
	for name, impl := range r.impls {
		out[name] = impl
	}
	return out
}

// Select resolves labels to implementations, preserving the requested order.
// An empty list or the single label "all" selects every registered
// implementation in sorted order.
//
// Parameters:
//   - labels: The labels to resolve.
//
// Returns:
//   - []Implementation: The resolved implementations.
//   - error: ErrUnknownImplementation for the first unknown label.
func (r *Registry) Select(labels []string) ([]Implementation, error) {
	// One snapshot so a concurrent Register cannot split the selection.
	snapshot := r.GetAll()
	if len(labels) == 0 || (len(labels) == 1 && labels[0] == "all") {
		labels = make([]string, 0, len(snapshot))
		for name := range snapshot {
			labels = append(labels, name)
		}
		sort.Strings(labels)
	}
	out := make([]Implementation, 0, len(labels))
	for _, label := range labels {
		impl, ok := snapshot[label]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownImplementation, label)
		}
		out = append(out, impl)
	}
	return out, nil
}

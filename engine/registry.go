package engine

import "log/slog"

// Registry stores system descriptors keyed by name. It is a plain value
// built at startup and passed by reference — no package-level state — so
// tests can construct isolated registries.
type Registry struct {
	byName map[string]Descriptor
	order  []string // registration order, drives deterministic traversal
	log    *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{byName: map[string]Descriptor{}, log: log}
}

// Register stores a descriptor under its name. Registering a name twice is
// allowed — the new descriptor replaces the old — but is logged, since it
// usually signals a naming collision between packages.
func (r *Registry) Register(d Descriptor) {
	if _, exists := r.byName[d.Name]; exists {
		r.log.Warn("system re-registered, replacing previous descriptor", "system", d.Name)
	} else {
		r.order = append(r.order, d.Name)
	}
	r.byName[d.Name] = d
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.byName)
}

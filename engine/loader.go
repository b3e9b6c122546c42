package engine

import "log/slog"

// Loader topologically sorts registered systems by dependency, instantiates
// them, and drives their lifecycle. Setup, Update, Draw and DrawUI run in
// dependency order (dependencies first); Cleanup runs in reverse order so
// dependents tear down before the systems they rely on.
type Loader struct {
	registry *Registry
	systems  []System
	log      *slog.Logger
}

// NewLoader creates a loader over the given registry. A nil logger falls
// back to slog.Default.
func NewLoader(registry *Registry, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{registry: registry, log: log}
}

// dfs visit states.
const (
	unvisited = iota
	inProgress
	done
)

// InstantiateAll resolves the dependency graph with a depth-first
// topological sort and instantiates one system per descriptor, in sorted
// order. It fails with *MissingDependencyError if a declared dependency was
// never registered and *CircularDependencyError if the graph has a cycle;
// both are fatal at startup and meant to surface immediately.
func (l *Loader) InstantiateAll() ([]System, error) {
	state := map[string]int{}
	var sorted []string
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case inProgress:
			// Found a cycle: report every member in traversal order,
			// from the first visit of name to the top of the path.
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			return &CircularDependencyError{Cycle: append([]string(nil), path[start:]...)}
		}

		state[name] = inProgress
		path = append(path, name)

		desc, _ := l.registry.Get(name)
		for _, dep := range desc.Dependencies {
			if _, ok := l.registry.Get(dep); !ok {
				return &MissingDependencyError{Component: name, Missing: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[name] = done
		sorted = append(sorted, name)
		return nil
	}

	for _, name := range l.registry.Names() {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	l.systems = make([]System, 0, len(sorted))
	for _, name := range sorted {
		desc, _ := l.registry.Get(name)
		l.systems = append(l.systems, desc.New())
	}
	l.log.Debug("systems instantiated", "count", len(l.systems))
	return l.systems, nil
}

// Systems returns the instantiated systems in dependency order. Empty until
// InstantiateAll succeeds.
func (l *Loader) Systems() []System {
	return l.systems
}

// SetupAll calls Setup on every system in dependency order and registers
// each with the context, so a system's Setup can already reach its
// dependencies by name. The first Setup error aborts.
func (l *Loader) SetupAll(ctx *Context) error {
	for _, s := range l.systems {
		ctx.RegisterSystem(s.Name(), s)
	}
	for _, s := range l.systems {
		if err := s.Setup(ctx); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAll advances every system that implements Updater, in dependency
// order.
func (l *Loader) UpdateAll(dt float64, ctx *Context) {
	for _, s := range l.systems {
		if u, ok := s.(Updater); ok {
			u.Update(dt, ctx)
		}
	}
}

// DrawAll invokes Draw on every system that implements Drawer, in dependency
// order.
func (l *Loader) DrawAll(ctx *Context) {
	for _, s := range l.systems {
		if d, ok := s.(Drawer); ok {
			d.Draw(ctx)
		}
	}
}

// DrawUIAll invokes DrawUI on every system that implements UIDrawer, in
// dependency order.
func (l *Loader) DrawUIAll(ctx *Context) {
	for _, s := range l.systems {
		if d, ok := s.(UIDrawer); ok {
			d.DrawUI(ctx)
		}
	}
}

// CleanupAll invokes Cleanup on every system that implements Cleaner, in
// reverse dependency order.
func (l *Loader) CleanupAll() {
	for i := len(l.systems) - 1; i >= 0; i-- {
		if c, ok := l.systems[i].(Cleaner); ok {
			c.Cleanup()
		}
	}
}

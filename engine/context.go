package engine

import (
	"log/slog"

	"github.com/nathoo/scenecore/engine/bus"
)

// Context is the service locator passed to every system lifecycle call and
// every action. It is the only way scripts, actions and conditions reach
// named systems — there is no static coupling between the kernel and the
// domain systems it hosts.
type Context struct {
	Bus *bus.Bus
	Log *slog.Logger

	scene   string
	systems map[string]System
}

// NewContext creates a context wired to the given bus. A nil logger falls
// back to slog.Default.
func NewContext(b *bus.Bus, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		Bus:     b,
		Log:     log,
		systems: map[string]System{},
	}
}

// RegisterSystem makes a system reachable by name. Called by the loader for
// every instantiated system; tests may register fakes directly.
func (c *Context) RegisterSystem(name string, s System) {
	c.systems[name] = s
}

// GetSystem returns the system registered under name, or nil if absent.
// Callers assert to the concrete type or a capability interface.
func (c *Context) GetSystem(name string) System {
	return c.systems[name]
}

// Systems returns the full name → system map. The map is the context's own;
// callers must not mutate it.
func (c *Context) Systems() map[string]System {
	return c.systems
}

// Scene returns the name of the currently active scene ("" before the first
// scene starts).
func (c *Context) Scene() string {
	return c.scene
}

// SetScene records the currently active scene name. Called by the scene
// system on transitions; scripts scoped to a scene consult this.
func (c *Context) SetScene(name string) {
	c.scene = name
}

package engine

import (
	"log/slog"

	"github.com/nathoo/scenecore/engine/bus"
)

// Kernel wires the registry, loader, bus and context into one tick-driven
// unit. The host loop calls Boot once, then Tick/Draw/DrawUI each frame, and
// Shutdown at exit. Everything is single-threaded and cooperative: nothing
// here blocks, spawns goroutines, or needs locking.
type Kernel struct {
	Registry *Registry
	Loader   *Loader
	Bus      *bus.Bus
	Ctx      *Context

	log    *slog.Logger
	booted bool
}

// New creates a kernel with an empty registry. A nil logger falls back to
// slog.Default.
func New(log *slog.Logger) *Kernel {
	if log == nil {
		log = slog.Default()
	}
	registry := NewRegistry(log)
	b := bus.New()
	return &Kernel{
		Registry: registry,
		Loader:   NewLoader(registry, log),
		Bus:      b,
		Ctx:      NewContext(b, log),
		log:      log,
	}
}

// Register declares a system. Must be called before Boot.
func (k *Kernel) Register(d Descriptor) {
	k.Registry.Register(d)
}

// Boot instantiates all registered systems in dependency order and runs
// their Setup. Graph errors (*CircularDependencyError,
// *MissingDependencyError) are returned as-is and are fatal.
func (k *Kernel) Boot() error {
	if _, err := k.Loader.InstantiateAll(); err != nil {
		return err
	}
	if err := k.Loader.SetupAll(k.Ctx); err != nil {
		return err
	}
	k.booted = true
	k.log.Debug("kernel booted", "systems", len(k.Loader.Systems()))
	return nil
}

// Tick advances every updatable system by dt seconds, in dependency order.
func (k *Kernel) Tick(dt float64) {
	k.Loader.UpdateAll(dt, k.Ctx)
}

// Draw runs the world-space draw phase in dependency order.
func (k *Kernel) Draw() {
	k.Loader.DrawAll(k.Ctx)
}

// DrawUI runs the screen-space draw phase in dependency order.
func (k *Kernel) DrawUI() {
	k.Loader.DrawUIAll(k.Ctx)
}

// Shutdown tears systems down in reverse dependency order and clears the
// bus. Safe to call once after Boot; a kernel that never booted shuts down
// as a no-op.
func (k *Kernel) Shutdown() {
	if !k.booted {
		return
	}
	k.Loader.CleanupAll()
	k.Bus.Clear()
	k.booted = false
}

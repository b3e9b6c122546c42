// Package engine provides the orchestration kernel: a dependency-ordered
// system registry and loader, the shared context through which systems reach
// one another, and the Kernel that drives the per-tick lifecycle.
package engine

// System is the contract every loadable unit implements. Name must be unique
// across all registered systems; Dependencies lists the names of systems that
// must be set up before this one. Setup is called once, in dependency order,
// before the first tick.
type System interface {
	Name() string
	Dependencies() []string
	Setup(ctx *Context) error
}

// Updater is implemented by systems that need a per-tick update.
type Updater interface {
	Update(dt float64, ctx *Context)
}

// Drawer is implemented by systems that render in world coordinates.
type Drawer interface {
	Draw(ctx *Context)
}

// UIDrawer is implemented by systems that render in screen coordinates.
type UIDrawer interface {
	DrawUI(ctx *Context)
}

// Cleaner is implemented by systems that release resources at teardown.
// Cleanup is called in reverse dependency order: dependents before their
// dependencies.
type Cleaner interface {
	Cleanup()
}

// Saver is implemented by systems with persistent state. SaveState returns a
// JSON-serializable value; RestoreState receives the raw JSON produced from
// it. Systems with nothing to persist simply don't implement Saver.
type Saver interface {
	SaveState() any
	RestoreState(data []byte) error
}

// Descriptor declares a system to the registry: its unique name, its declared
// dependencies, and the factory that builds the instance. The registry stores
// the factory, not the instance — instantiation happens in dependency order
// during InstantiateAll.
type Descriptor struct {
	Name         string
	Dependencies []string
	New          func() System
}

// Package script implements the script manager: a registry of data-authored
// script definitions, event-driven trigger matching, condition evaluation
// with deferred re-check, and frame-by-frame execution of action sequences.
package script

import (
	"encoding/json"
	"log/slog"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/engine/action"
	"github.com/nathoo/scenecore/engine/bus"
	"github.com/nathoo/scenecore/types"
)

// SystemName is the manager's registration name in the kernel.
const SystemName = "script"

// state tracks a script's runtime flags alongside its immutable definition.
type state struct {
	def       types.ScriptDef
	hasRun    bool
	completed bool
}

// activeRun is one entry of the active-run table.
type activeRun struct {
	name string
	seq  *action.Sequence
}

// Manager loads script definitions, subscribes to the event bus, starts
// matching scripts as action sequences, and advances all active sequences
// once per tick. All state is owned by the manager and touched only from the
// tick thread.
type Manager struct {
	factory *action.Factory
	conds   *Conditions
	log     *slog.Logger

	ctx        *engine.Context
	scripts    map[string]*state
	order      []string // insertion order: authoring order is the tie-break
	active     []activeRun
	running    map[string]struct{} // names with an in-flight sequence
	pending    []string            // de-duplicated deferred re-check queue
	interacted map[string]struct{}
}

// NewManager creates a script manager over the given action factory and
// condition registry. A nil logger falls back to slog.Default.
func NewManager(factory *action.Factory, conds *Conditions, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		factory:    factory,
		conds:      conds,
		log:        log,
		scripts:    map[string]*state{},
		running:    map[string]struct{}{},
		interacted: map[string]struct{}{},
	}
}

// Name implements engine.System.
func (m *Manager) Name() string { return SystemName }

// Dependencies implements engine.System.
func (m *Manager) Dependencies() []string { return nil }

// Setup subscribes the manager's dispatcher to every event category and
// registers the script_completed condition check.
func (m *Manager) Setup(ctx *engine.Context) error {
	m.ctx = ctx
	ctx.Bus.SubscribeAll(m, m.dispatch)

	m.conds.Register("script_completed", func(cond types.Condition, _ *engine.Context) bool {
		name, _ := cond.Params["script"].(string)
		if name == "" {
			m.log.Warn("script_completed condition missing script field")
			return false
		}
		s, ok := m.scripts[name]
		return ok && s.completed == ExpectedBool(cond)
	})
	m.conds.Register("object_interacted", func(cond types.Condition, _ *engine.Context) bool {
		object, _ := cond.Params["object"].(string)
		if object == "" {
			return false
		}
		return m.HasInteractedWith(object) == ExpectedBool(cond)
	})
	return nil
}

// Cleanup cancels any in-flight sequences and drops all subscriptions.
func (m *Manager) Cleanup() {
	m.TeardownScene()
	if m.ctx != nil {
		m.ctx.Bus.UnregisterAll(m)
	}
	m.scripts = map[string]*state{}
	m.order = nil
	m.ctx = nil
}

// Load registers script definitions. Definitions without a name are dropped;
// re-registering a name replaces the previous definition and is logged.
// Insertion order is preserved: scripts matching the same event are
// evaluated in the order they were loaded.
func (m *Manager) Load(defs []types.ScriptDef) {
	for _, def := range defs {
		if def.Name == "" {
			m.log.Warn("dropping script definition without a name")
			continue
		}
		if _, exists := m.scripts[def.Name]; exists {
			m.log.Warn("script re-registered, replacing previous definition", "script", def.Name)
		} else {
			m.order = append(m.order, def.Name)
		}
		m.scripts[def.Name] = &state{def: def}
	}
	m.log.Debug("scripts loaded", "count", len(m.scripts))
}

// Scripts returns the names of all registered scripts in insertion order.
func (m *Manager) Scripts() []string {
	return append([]string(nil), m.order...)
}

// ActiveCount returns the number of in-flight sequences.
func (m *Manager) ActiveCount() int { return len(m.active) }

// IsActive reports whether the named script has an in-flight sequence. The
// running set, not the active table, is authoritative: during Update the
// table is swapped out while sequences advance, and the set is what keeps a
// re-triggering event from inserting a duplicate run for the same name.
func (m *Manager) IsActive(name string) bool {
	_, ok := m.running[name]
	return ok
}

// HasRun reports whether a run-once script has already started.
func (m *Manager) HasRun(name string) bool {
	s, ok := m.scripts[name]
	return ok && s.hasRun
}

// Completed reports whether the named script has completed at least once.
func (m *Manager) Completed(name string) bool {
	s, ok := m.scripts[name]
	return ok && s.completed
}

// Update advances every active sequence by one time-slice, publishes a
// completion event for each sequence that finished, then drains the
// pending-check queue. The drain runs strictly after sequence advancement,
// so a condition satisfied by this tick's completions is visible to the
// re-check.
func (m *Manager) Update(dt float64, ctx *engine.Context) {
	// Swap the table out before advancing: actions may publish events whose
	// handlers start new scripts, and those must land in a fresh table — a
	// sequence started during this update is not advanced until the next.
	runs := m.active
	m.active = nil

	var kept []activeRun
	var completed []string
	for _, run := range runs {
		done, err := run.seq.Execute(ctx)
		if err != nil {
			m.log.Warn("script sequence failed, dropping", "script", run.name, "error", err)
			delete(m.running, run.name)
			continue
		}
		if done {
			completed = append(completed, run.name)
			delete(m.running, run.name)
			continue
		}
		kept = append(kept, run)
	}
	m.active = append(kept, m.active...)

	for _, name := range completed {
		if s, ok := m.scripts[name]; ok {
			s.completed = true
		}
		m.log.Debug("script completed", "script", name)
		if err := ctx.Bus.Publish(CompletedEvent{Script: name}); err != nil {
			m.log.Warn("completion event handler failed", "script", name, "error", err)
		}
	}

	m.drainPending()
}

// Trigger starts the named script, honoring scene, run-once and condition
// restrictions. Returns true if a sequence was started.
func (m *Manager) Trigger(name string) bool {
	return m.trigger(name, false)
}

// ForceTrigger starts the named script, bypassing scene and run-once
// restrictions (conditions still apply). Used by debug tooling and hosts.
func (m *Manager) ForceTrigger(name string) bool {
	return m.trigger(name, true)
}

func (m *Manager) trigger(name string, force bool) bool {
	if m.ctx == nil {
		return false
	}
	s, ok := m.scripts[name]
	if !ok {
		m.log.Warn("script not found", "script", name)
		return false
	}
	if !force {
		if s.def.Scene != "" && s.def.Scene != m.ctx.Scene() {
			return false
		}
		if s.def.RunOnce && s.hasRun {
			return false
		}
	}
	if !m.conds.EvaluateAll(s.def.Conditions, m.ctx) {
		return false
	}
	m.start(s)
	return true
}

// ObjectInteracted records that the player interacted with a named object,
// for object_interacted conditions.
func (m *Manager) ObjectInteracted(object string) {
	m.interacted[object] = struct{}{}
}

// HasInteractedWith reports whether an object has been interacted with.
func (m *Manager) HasInteractedWith(object string) bool {
	_, ok := m.interacted[object]
	return ok
}

// TeardownScene drops all in-flight sequences and pending checks, cancelling
// the current action of each sequence. Called by the scene system on
// transitions; remaining actions do not run.
func (m *Manager) TeardownScene() {
	for _, run := range m.active {
		if m.ctx != nil {
			run.seq.Cancel(m.ctx)
		}
		delete(m.running, run.name)
	}
	m.active = nil
	m.pending = nil
}

// ResetSession clears run-once and completion bookkeeping for a new game.
func (m *Manager) ResetSession() {
	m.TeardownScene()
	for _, s := range m.scripts {
		s.hasRun = false
		s.completed = false
	}
	m.interacted = map[string]struct{}{}
}

// saveState is the manager's persistent payload.
type saveState struct {
	Interacted []string `json:"interacted_objects"`
	HasRun     []string `json:"has_run"`
	Completed  []string `json:"completed"`
}

// SaveState implements engine.Saver. Active sequences are deliberately not
// persisted: in-flight scripts restart from their triggers after a load.
func (m *Manager) SaveState() any {
	st := saveState{}
	for object := range m.interacted {
		st.Interacted = append(st.Interacted, object)
	}
	for _, name := range m.order {
		s := m.scripts[name]
		if s.hasRun {
			st.HasRun = append(st.HasRun, name)
		}
		if s.completed {
			st.Completed = append(st.Completed, name)
		}
	}
	return st
}

// RestoreState implements engine.Saver.
func (m *Manager) RestoreState(data []byte) error {
	var st saveState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	m.interacted = map[string]struct{}{}
	for _, object := range st.Interacted {
		m.interacted[object] = struct{}{}
	}
	for _, name := range st.HasRun {
		if s, ok := m.scripts[name]; ok {
			s.hasRun = true
		}
	}
	for _, name := range st.Completed {
		if s, ok := m.scripts[name]; ok {
			s.completed = true
		}
	}
	return nil
}

// dispatch is the generic trigger dispatcher, subscribed to every event
// category. For each registered script, in authoring order, it matches the
// trigger, applies scope and run-once restrictions, and either starts the
// script or queues it for a deferred condition re-check.
func (m *Manager) dispatch(ev bus.Event) error {
	for _, name := range m.order {
		s := m.scripts[name]
		if !Matches(s.def.Trigger, ev) {
			continue
		}
		// Scope mismatch is not "pending" — the script is simply
		// inapplicable here; no re-check is queued.
		if s.def.Scene != "" && s.def.Scene != m.ctx.Scene() {
			continue
		}
		if s.def.RunOnce && s.hasRun {
			continue
		}
		if m.conds.EvaluateAll(s.def.Conditions, m.ctx) {
			m.start(s)
		} else {
			// Conditions may legitimately become true one tick after
			// the triggering event; queue exactly one re-check.
			m.queuePending(name)
		}
	}
	return nil
}

// start builds the script's action sequence and inserts it into the
// active-run table. Unparseable action specs are dropped by the factory; the
// sequence runs with whatever parsed. Run-once scripts are marked as run at
// start time, whether or not any action parsed.
func (m *Manager) start(s *state) {
	if s.def.RunOnce {
		s.hasRun = true
	}
	if m.IsActive(s.def.Name) {
		m.log.Debug("script already active, not restarting", "script", s.def.Name)
		return
	}
	seq, dropped := m.factory.BuildSequence(s.def.Actions)
	if dropped > 0 {
		m.log.Warn("script actions dropped", "script", s.def.Name, "dropped", dropped)
	}
	if seq.Len() == 0 {
		m.log.Warn("script has no runnable actions", "script", s.def.Name)
		return
	}
	m.active = append(m.active, activeRun{name: s.def.Name, seq: seq})
	m.running[s.def.Name] = struct{}{}
	m.log.Debug("script started", "script", s.def.Name, "actions", seq.Len())
}

// queuePending adds a script name to the pending-check queue, idempotently.
func (m *Manager) queuePending(name string) {
	for _, queued := range m.pending {
		if queued == name {
			return
		}
	}
	m.pending = append(m.pending, name)
}

// drainPending re-evaluates each queued script's conditions exactly once.
// Entries are cleared regardless of outcome: a condition that never becomes
// true simply means the script never runs from that trigger.
func (m *Manager) drainPending() {
	if len(m.pending) == 0 {
		return
	}
	queued := m.pending
	m.pending = nil

	for _, name := range queued {
		s, ok := m.scripts[name]
		if !ok {
			continue
		}
		if s.def.RunOnce && s.hasRun {
			continue
		}
		if m.conds.EvaluateAll(s.def.Conditions, m.ctx) {
			m.start(s)
		}
	}
}

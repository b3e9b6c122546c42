// Package action implements the cooperative task model: single-step actions
// that report completion by polling, sequences that run them in order, and a
// predicate-wait primitive. Each Execute call is one time-slice; there is no
// preemption and nothing blocks.
package action

import (
	"github.com/nathoo/scenecore/engine"
)

// Action is a unit of cooperative work. Execute performs one time-slice and
// reports whether the action is complete; it may be called repeatedly until
// it returns true and must stay true (and side-effect free) afterwards.
// Reset returns the action to its pre-execution state for reuse.
type Action interface {
	Execute(ctx *engine.Context) (bool, error)
	Reset()
}

// Canceler is implemented by actions that need a teardown notification when
// their sequence is dropped mid-flight (scene teardown, session reset).
// Cancel must be safe to call at any point between Reset and completion.
type Canceler interface {
	Cancel(ctx *engine.Context)
}

// Sequence runs its actions to completion in order. It is itself an Action,
// so sequences nest. The cursor only advances when the action under it
// reports completion; the sequence is complete when the cursor passes the
// last action.
type Sequence struct {
	actions []Action
	cursor  int
}

// NewSequence creates a sequence over the given actions.
func NewSequence(actions []Action) *Sequence {
	return &Sequence{actions: actions}
}

// Len returns the number of contained actions.
func (s *Sequence) Len() int {
	return len(s.actions)
}

// Execute advances the action at the cursor. Returns true once every
// contained action has completed; an empty sequence is complete immediately.
func (s *Sequence) Execute(ctx *engine.Context) (bool, error) {
	if s.cursor >= len(s.actions) {
		return true, nil
	}
	done, err := s.actions[s.cursor].Execute(ctx)
	if err != nil {
		return false, err
	}
	if done {
		s.cursor++
	}
	return s.cursor >= len(s.actions), nil
}

// Reset rewinds the cursor and resets every contained action, nested
// sequences included.
func (s *Sequence) Reset() {
	s.cursor = 0
	for _, a := range s.actions {
		a.Reset()
	}
}

// Cancel notifies the in-flight action, if any, that the sequence is being
// dropped. Actions that don't implement Canceler are skipped.
func (s *Sequence) Cancel(ctx *engine.Context) {
	if s.cursor >= len(s.actions) {
		return
	}
	if c, ok := s.actions[s.cursor].(Canceler); ok {
		c.Cancel(ctx)
	}
}

// WaitForCondition blocks a sequence until its predicate holds. It is the
// sole suspension primitive: a sequence holding one at its cursor simply
// returns false every tick until the predicate is true. Purely stateless —
// Reset is a no-op.
type WaitForCondition struct {
	predicate   func(ctx *engine.Context) bool
	description string
}

// NewWaitForCondition creates a predicate wait. The description names what
// is being waited for, for debug logging only.
func NewWaitForCondition(predicate func(ctx *engine.Context) bool, description string) *WaitForCondition {
	return &WaitForCondition{predicate: predicate, description: description}
}

// Execute returns the predicate's current value.
func (w *WaitForCondition) Execute(ctx *engine.Context) (bool, error) {
	done := w.predicate(ctx)
	if done && w.description != "" {
		ctx.Log.Debug("wait condition met", "condition", w.description)
	}
	return done, nil
}

// Reset is a no-op; the wait carries no state.
func (w *WaitForCondition) Reset() {}

// Description returns what the wait is blocking on.
func (w *WaitForCondition) Description() string {
	return w.description
}

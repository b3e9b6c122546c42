// Package types defines the shared data structures for the SceneCore kernel.
// This package contains only type definitions — no logic, no methods.
package types

// Trigger specifies which published event starts a script. Event is the
// event tag; Filters are matched against the event's script data with
// AND-of-equalities semantics (every key must be present and equal).
type Trigger struct {
	Event   string
	Filters map[string]any
}

// Condition is a named predicate reference resolved through the condition
// registry. Check is the registry tag; Params carry condition-specific fields
// (e.g. {"item": "rusty_key"} or {"equals": true}).
type Condition struct {
	Check  string
	Params map[string]any
}

// ActionSpec is the tagged payload an action factory turns into a live
// Action. Type selects the constructor; Params carry type-specific fields.
type ActionSpec struct {
	Type   string
	Params map[string]any
}

// ScriptDef is a single script definition as authored in content files.
// Definitions are immutable after loading; runtime flags (has-run,
// completed) live in the script manager, not here.
type ScriptDef struct {
	Name       string
	Trigger    *Trigger // nil for manually triggered scripts
	Conditions []Condition
	Scene      string // restrict to one scene, "" for any
	RunOnce    bool
	Actions    []ActionSpec
}

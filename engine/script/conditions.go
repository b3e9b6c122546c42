package script

import (
	"log/slog"
	"sort"

	"github.com/nathoo/scenecore/engine"
	"github.com/nathoo/scenecore/types"
)

// ConditionFunc evaluates a named predicate against current system state.
// The condition's params carry check-specific fields.
type ConditionFunc func(cond types.Condition, ctx *engine.Context) bool

// Conditions maps check tags to predicates. Like the action factory, it is a
// plain value built at startup and passed by reference — no global registry.
type Conditions struct {
	checks map[string]ConditionFunc
	log    *slog.Logger
}

// NewConditions creates an empty condition registry. A nil logger falls back
// to slog.Default.
func NewConditions(log *slog.Logger) *Conditions {
	if log == nil {
		log = slog.Default()
	}
	return &Conditions{checks: map[string]ConditionFunc{}, log: log}
}

// Register binds a predicate to a check tag, replacing any previous binding.
func (c *Conditions) Register(tag string, fn ConditionFunc) {
	c.checks[tag] = fn
}

// Known reports whether a predicate is registered for tag.
func (c *Conditions) Known(tag string) bool {
	_, ok := c.checks[tag]
	return ok
}

// Tags returns every registered check tag, sorted.
func (c *Conditions) Tags() []string {
	tags := make([]string, 0, len(c.checks))
	for tag := range c.checks {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Evaluate runs a single condition. An unknown check tag evaluates false
// (fail-closed): a typo in content disables a script rather than crashing
// the session.
func (c *Conditions) Evaluate(cond types.Condition, ctx *engine.Context) bool {
	fn, ok := c.checks[cond.Check]
	if !ok {
		c.log.Warn("unknown condition check, evaluating false", "check", cond.Check)
		return false
	}
	return fn(cond, ctx)
}

// EvaluateAll returns true if every condition passes (AND semantics). An
// empty list is vacuously true.
func (c *Conditions) EvaluateAll(conds []types.Condition, ctx *engine.Context) bool {
	for _, cond := range conds {
		if !c.Evaluate(cond, ctx) {
			return false
		}
	}
	return true
}

// ExpectedBool reads the optional "equals" param shared by boolean checks,
// defaulting to true so {"check": "inventory_accessed"} means "accessed".
func ExpectedBool(cond types.Condition) bool {
	if v, ok := cond.Params["equals"].(bool); ok {
		return v
	}
	return true
}

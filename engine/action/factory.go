package action

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nathoo/scenecore/types"
)

// Constructor builds a live Action from a spec's params. It should return an
// error for malformed params rather than constructing a broken action.
type Constructor func(params map[string]any) (Action, error)

// Factory maps action type tags to constructors. It is a plain value built
// at startup and passed by reference, so tests can build isolated factories
// instead of mutating shared global state.
type Factory struct {
	constructors map[string]Constructor
	log          *slog.Logger
}

// NewFactory creates an empty factory. A nil logger falls back to
// slog.Default.
func NewFactory(log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	return &Factory{constructors: map[string]Constructor{}, log: log}
}

// Register binds a constructor to a type tag, replacing any previous
// binding.
func (f *Factory) Register(tag string, c Constructor) {
	f.constructors[tag] = c
}

// Known reports whether a constructor is registered for tag.
func (f *Factory) Known(tag string) bool {
	_, ok := f.constructors[tag]
	return ok
}

// Tags returns every registered type tag, sorted.
func (f *Factory) Tags() []string {
	tags := make([]string, 0, len(f.constructors))
	for tag := range f.constructors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// New builds an Action from a spec. Unknown tags and constructor failures
// return an error; callers log and drop the single spec, never a whole
// sequence.
func (f *Factory) New(spec types.ActionSpec) (Action, error) {
	c, ok := f.constructors[spec.Type]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", spec.Type)
	}
	a, err := c(spec.Params)
	if err != nil {
		return nil, fmt.Errorf("building action %q: %w", spec.Type, err)
	}
	return a, nil
}

// BuildSequence constructs actions from specs and wraps them in a Sequence.
// Unparseable specs are logged and dropped — the sequence runs with whatever
// parsed. Returns the sequence and how many specs were dropped.
func (f *Factory) BuildSequence(specs []types.ActionSpec) (*Sequence, int) {
	actions := make([]Action, 0, len(specs))
	dropped := 0
	for _, spec := range specs {
		a, err := f.New(spec)
		if err != nil {
			f.log.Warn("dropping action spec", "error", err)
			dropped++
			continue
		}
		actions = append(actions, a)
	}
	return NewSequence(actions), dropped
}

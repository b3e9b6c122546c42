package script

import (
	"reflect"

	"github.com/nathoo/scenecore/engine/bus"
	"github.com/nathoo/scenecore/types"
)

// Matches reports whether a trigger matches a published event: the event tag
// must equal the trigger's, and every filter key must be present in the
// event's script data with an equal value (AND of equalities, not a
// predicate language). A nil trigger never matches — such scripts only run
// when triggered by name.
func Matches(trigger *types.Trigger, ev bus.Event) bool {
	if trigger == nil || trigger.Event != ev.Tag() {
		return false
	}
	data := ev.ScriptData()
	for key, want := range trigger.Filters {
		got, ok := data[key]
		// DeepEqual, not ==: filter values compiled from authored tables
		// can be slices or maps, and interface == panics on those.
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

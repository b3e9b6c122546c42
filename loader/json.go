package loader

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nathoo/scenecore/types"
)

// LoadJSON parses the legacy JSON script format: a top-level object keyed by
// script name. Trigger, condition and action params are inline — every
// trigger key except "event" is a filter, every condition key except "check"
// is a param, every action key except "type" is a param. JSON objects carry
// no order, so scripts are returned sorted by name. Malformed script entries
// are logged and dropped.
func (l *Loader) LoadJSON(src []byte) ([]types.ScriptDef, error) {
	var file map[string]jsonScript
	if err := json.Unmarshal(src, &file); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(file))
	for name := range file {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]types.ScriptDef, 0, len(names))
	for _, name := range names {
		def, err := file[name].toDef(name)
		if err != nil {
			l.log.Warn("dropping malformed script", "script", name, "error", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

type jsonScript struct {
	Trigger    map[string]any   `json:"trigger"`
	Conditions []map[string]any `json:"conditions"`
	Scene      string           `json:"scene"`
	RunOnce    bool             `json:"run_once"`
	Actions    []map[string]any `json:"actions"`
}

func (s jsonScript) toDef(name string) (types.ScriptDef, error) {
	def := types.ScriptDef{
		Name:    name,
		Scene:   s.Scene,
		RunOnce: s.RunOnce,
	}

	if s.Trigger != nil {
		event, _ := s.Trigger["event"].(string)
		if event == "" {
			return def, fmt.Errorf("trigger has no event")
		}
		def.Trigger = &types.Trigger{
			Event:   event,
			Filters: inlineParams(s.Trigger, "event"),
		}
	}

	for i, c := range s.Conditions {
		check, _ := c["check"].(string)
		if check == "" {
			return def, fmt.Errorf("conditions[%d] has no check", i)
		}
		def.Conditions = append(def.Conditions, types.Condition{
			Check:  check,
			Params: inlineParams(c, "check"),
		})
	}

	for i, a := range s.Actions {
		actionType, _ := a["type"].(string)
		if actionType == "" {
			return def, fmt.Errorf("actions[%d] has no type", i)
		}
		def.Actions = append(def.Actions, types.ActionSpec{
			Type:   actionType,
			Params: inlineParams(a, "type"),
		})
	}

	return def, nil
}

// inlineParams copies every key except the discriminator into a params map.
// Returns nil for an empty result so defs compare cleanly.
func inlineParams(m map[string]any, discriminator string) map[string]any {
	if len(m) <= 1 {
		return nil
	}
	params := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k != discriminator {
			params[k] = normalizeValue(v)
		}
	}
	return params
}

// normalizeValue rewrites integral float64s as int, recursively. JSON
// decodes every number as float64, but Go event data and the Lua and YAML
// paths carry ints, and trigger filter equality would otherwise never hold
// for numeric values.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	case []any:
		for i, e := range val {
			val[i] = normalizeValue(e)
		}
	case map[string]any:
		for k, e := range val {
			val[k] = normalizeValue(e)
		}
	}
	return v
}

package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/scenecore/types"
)

// yamlFile is the YAML authoring format: a top-level scripts list, each
// entry mirroring ScriptDef with explicit params maps.
type yamlFile struct {
	Scripts []yamlScript `yaml:"scripts"`
}

type yamlScript struct {
	Name       string           `yaml:"name"`
	Trigger    *yamlTrigger     `yaml:"trigger"`
	Conditions []yamlCondition  `yaml:"conditions"`
	Scene      string           `yaml:"scene"`
	RunOnce    bool             `yaml:"run_once"`
	Actions    []yamlActionSpec `yaml:"actions"`
}

type yamlTrigger struct {
	Event   string         `yaml:"event"`
	Filters map[string]any `yaml:"filters"`
}

type yamlCondition struct {
	Check  string         `yaml:"check"`
	Params map[string]any `yaml:"params"`
}

type yamlActionSpec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// LoadYAML parses a YAML script document and returns its definitions in
// document order. Malformed script entries are logged and dropped.
func (l *Loader) LoadYAML(src []byte) ([]types.ScriptDef, error) {
	var file yamlFile
	if err := yaml.Unmarshal(src, &file); err != nil {
		return nil, err
	}

	defs := make([]types.ScriptDef, 0, len(file.Scripts))
	for i, s := range file.Scripts {
		def, err := s.toDef()
		if err != nil {
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("scripts[%d]", i)
			}
			l.log.Warn("dropping malformed script", "script", name, "error", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s yamlScript) toDef() (types.ScriptDef, error) {
	def := types.ScriptDef{
		Name:    s.Name,
		Scene:   s.Scene,
		RunOnce: s.RunOnce,
	}
	if s.Name == "" {
		return def, fmt.Errorf("name is required")
	}
	if s.Trigger != nil {
		if s.Trigger.Event == "" {
			return def, fmt.Errorf("trigger has no event")
		}
		def.Trigger = &types.Trigger{
			Event:   s.Trigger.Event,
			Filters: s.Trigger.Filters,
		}
	}
	for _, c := range s.Conditions {
		if c.Check == "" {
			return def, fmt.Errorf("condition has no check")
		}
		def.Conditions = append(def.Conditions, types.Condition{
			Check:  c.Check,
			Params: c.Params,
		})
	}
	for _, a := range s.Actions {
		if a.Type == "" {
			return def, fmt.Errorf("action has no type")
		}
		def.Actions = append(def.Actions, types.ActionSpec{
			Type:   a.Type,
			Params: a.Params,
		})
	}
	return def, nil
}

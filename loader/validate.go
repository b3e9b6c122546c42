package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/scenecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Options selects which referential checks Validate can perform. KnownActions
// and KnownChecks come from the host's registries; a nil set skips that
// check, since the loader cannot know what the host registered.
type Options struct {
	KnownActions map[string]bool
	KnownChecks  map[string]bool
}

// KnownSet builds a lookup set from registry tag listings.
func KnownSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[tag] = true
	}
	return set
}

// Validate checks loaded definitions for duplicates, dangling references and
// unknown tags. Errors make the content unloadable; warnings are returned
// for the caller to log. Returns (warnings, nil) on success.
func Validate(defs []types.ScriptDef, opts Options) ([]string, error) {
	ve := &ValidationError{}

	byName := map[string]bool{}
	for _, def := range defs {
		if byName[def.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate script name %q", def.Name))
		}
		byName[def.Name] = true
	}

	for _, def := range defs {
		if def.Trigger == nil {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"script %q has no trigger and can only be started manually", def.Name))
		}
		if len(def.Actions) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"script %q has no actions", def.Name))
		}

		for _, cond := range def.Conditions {
			if opts.KnownChecks != nil && !opts.KnownChecks[cond.Check] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"script %q uses unknown condition check %q", def.Name, cond.Check))
			}
			// Completion gates must point at a script that exists.
			if cond.Check == "script_completed" {
				target, _ := cond.Params["script"].(string)
				if target == "" {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"script %q: script_completed condition needs a script param", def.Name))
				} else if !byName[target] {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"script %q waits on undefined script %q", def.Name, target))
				}
			}
		}

		for _, act := range def.Actions {
			if opts.KnownActions != nil && !opts.KnownActions[act.Type] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"script %q uses unknown action type %q", def.Name, act.Type))
			}
		}
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

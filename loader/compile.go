package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/scenecore/types"
)

// rawScript holds a script table before compilation.
type rawScript struct {
	name  string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	scripts []rawScript
}

// compile converts the collected Lua tables into ScriptDefs. A table that
// fails to compile drops that script only.
func (l *Loader) compile(coll *collector) []types.ScriptDef {
	defs := make([]types.ScriptDef, 0, len(coll.scripts))
	for _, raw := range coll.scripts {
		def, err := compileScript(raw)
		if err != nil {
			l.log.Warn("dropping malformed script", "script", raw.name, "error", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

func compileScript(raw rawScript) (types.ScriptDef, error) {
	tbl := raw.table
	def := types.ScriptDef{
		Name:    raw.name,
		Scene:   getString(tbl, "scene"),
		RunOnce: getBool(tbl, "run_once"),
	}

	if trigTbl := getTable(tbl, "trigger"); trigTbl != nil {
		event := getString(trigTbl, "event")
		if event == "" {
			return def, fmt.Errorf("trigger has no event")
		}
		def.Trigger = &types.Trigger{
			Event:   event,
			Filters: tableToAnyMap(getTable(trigTbl, "filters")),
		}
	}

	if condTbl := getTable(tbl, "conditions"); condTbl != nil {
		var err error
		condTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok || err != nil {
				return
			}
			entry, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("conditions entries must be tables")
				return
			}
			check := getString(entry, "check")
			if check == "" {
				err = fmt.Errorf("condition has no check")
				return
			}
			def.Conditions = append(def.Conditions, types.Condition{
				Check:  check,
				Params: tableToAnyMap(getTable(entry, "params")),
			})
		})
		if err != nil {
			return def, err
		}
	}

	if actTbl := getTable(tbl, "actions"); actTbl != nil {
		var err error
		actTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok || err != nil {
				return
			}
			entry, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("actions entries must be tables")
				return
			}
			actionType := getString(entry, "type")
			if actionType == "" {
				err = fmt.Errorf("action has no type")
				return
			}
			def.Actions = append(def.Actions, types.ActionSpec{
				Type:   actionType,
				Params: tableToAnyMap(getTable(entry, "params")),
			})
		})
		if err != nil {
			return def, err
		}
	}

	return def, nil
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or false if missing.
func getBool(tbl *lua.LTable, key string) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return false
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively. Integral numbers
// come back as int so filter equality against event data behaves.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any, nil-safe.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

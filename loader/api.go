package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the script DSL constructors as Lua globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Script "name" { ... } — curried: Script("name") returns a function
	// that takes the definition table.
	L.SetGlobal("Script", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.scripts = append(coll.scripts, rawScript{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// On("event", { zone = "town" }) — trigger with optional filters.
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		event := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("event", lua.LString(event))
		if filters := L.OptTable(2, nil); filters != nil {
			tbl.RawSetString("filters", filters)
		}
		L.Push(tbl)
		return 1
	}))

	// If("check", { flag = "met_elder" }) — condition with optional params.
	L.SetGlobal("If", L.NewFunction(func(L *lua.LState) int {
		check := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("check", lua.LString(check))
		if params := L.OptTable(2, nil); params != nil {
			tbl.RawSetString("params", params)
		}
		L.Push(tbl)
		return 1
	}))

	// Do("dialog", { text = "..." }) — action with optional params.
	L.SetGlobal("Do", L.NewFunction(func(L *lua.LState) int {
		actionType := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionType))
		if params := L.OptTable(2, nil); params != nil {
			tbl.RawSetString("params", params)
		}
		L.Push(tbl)
		return 1
	}))

	// Completed("intro") — sugar for If("script_completed", { script = ... }).
	L.SetGlobal("Completed", L.NewFunction(func(L *lua.LState) int {
		script := L.CheckString(1)
		params := L.NewTable()
		params.RawSetString("script", lua.LString(script))
		tbl := L.NewTable()
		tbl.RawSetString("check", lua.LString("script_completed"))
		tbl.RawSetString("params", params)
		L.Push(tbl)
		return 1
	}))

	// Interacted("lever") — sugar for If("object_interacted", { object = ... }).
	L.SetGlobal("Interacted", L.NewFunction(func(L *lua.LState) int {
		object := L.CheckString(1)
		params := L.NewTable()
		params.RawSetString("object", lua.LString(object))
		tbl := L.NewTable()
		tbl.RawSetString("check", lua.LString("object_interacted"))
		tbl.RawSetString("params", params)
		L.Push(tbl)
		return 1
	}))
}

// Package loader loads script content files into ScriptDef values. Three
// authoring formats are supported: a Lua DSL (executed in a sandboxed VM
// that is discarded after loading — zero Lua at runtime), YAML documents,
// and JSON documents.
//
// Loading is forgiving: a malformed script entry is logged and dropped, and
// an unparseable file is logged and skipped, so one bad edit never takes the
// rest of the content down with it.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/scenecore/types"
)

// Loader parses script content files. A nil logger falls back to
// slog.Default.
type Loader struct {
	log *slog.Logger
}

// New creates a loader.
func New(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{log: log}
}

// Load reads every script file from dir (.lua, .yaml/.yml, .json), parses
// them, and returns the definitions in a stable order: files alphabetically,
// declaration order within each file. Alphabetical file order is the
// cross-file authoring order — scripts in "10_intro.lua" dispatch before
// scripts in "20_town.yaml". Files that fail to read or parse are logged
// and skipped.
func (l *Loader) Load(dir string) ([]types.ScriptDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading script directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".lua", ".yaml", ".yml", ".json":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no script files found in %s", dir)
	}
	sort.Strings(files)

	var defs []types.ScriptDef
	for _, f := range files {
		path := filepath.Join(dir, f)
		data, err := os.ReadFile(path)
		if err != nil {
			l.log.Warn("skipping unreadable script file", "file", f, "error", err)
			continue
		}
		var fileDefs []types.ScriptDef
		switch filepath.Ext(f) {
		case ".lua":
			fileDefs, err = l.LoadLua(data)
		case ".yaml", ".yml":
			fileDefs, err = l.LoadYAML(data)
		case ".json":
			fileDefs, err = l.LoadJSON(data)
		}
		if err != nil {
			l.log.Warn("skipping unparseable script file", "file", f, "error", err)
			continue
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

// LoadLua executes a Lua script file in a sandboxed VM and returns the
// definitions it declares, in declaration order. Malformed declarations are
// logged and dropped.
func (l *Loader) LoadLua(src []byte) ([]types.ScriptDef, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := L.DoString(string(src)); err != nil {
		return nil, err
	}
	return l.compile(coll), nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

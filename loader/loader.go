package loader

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/state"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	file      string // file currently executing
	games     []rawDef
	locations []rawDef
	items     []rawDef
	enemies   []rawDef
	quests    []rawDef
}

// Load reads all world files (.lua, .yaml, .yml) from dir. See LoadFS.
func Load(dir string, log *zap.Logger) (*state.Defs, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading world directory %s: not a directory", dir)
	}
	defs, err := LoadFS(os.DirFS(dir), log)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	return defs, nil
}

// LoadFS reads all world files from the root of fsys, compiles them into
// world definitions, validates references, and returns the immutable Defs.
// Validation warnings are logged; errors are returned as a
// *ValidationError. The Lua VM is discarded after loading.
func LoadFS(fsys fs.FS, log *zap.Logger) (*state.Defs, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading world files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isWorldFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua or .yaml world files found")
	}
	files = sortedWorldFiles(files)

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	defs := newDefs()
	seen := origins{}

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}

		if path.Ext(f) == ".lua" {
			coll.file = f
			if err := runLua(L, f, data); err != nil {
				return nil, fmt.Errorf("executing %s: %w", f, err)
			}
			continue
		}

		if err := loadYAML(f, data, defs, seen); err != nil {
			return nil, err
		}
	}

	if err := compile(coll, defs, seen); err != nil {
		return nil, fmt.Errorf("compiling world data: %w", err)
	}
	if _, ok := seen["Game:"]; !ok {
		return nil, fmt.Errorf("no Game definition found")
	}

	ve := validate(defs)
	for _, w := range ve.Warnings {
		log.Warn("world validation", zap.String("warning", w))
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}

	log.Info("world loaded",
		zap.String("title", defs.Game.Title),
		zap.Int("files", len(files)),
		zap.Int("locations", len(defs.Locations)),
		zap.Int("items", len(defs.Items)),
		zap.Int("enemies", len(defs.Enemies)),
		zap.Int("quests", len(defs.Quests)),
	)
	return defs, nil
}

func isWorldFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".lua", ".yaml", ".yml":
		return true
	}
	return false
}

// runLua compiles a chunk under its file name, so Lua errors point at the
// right file, and runs it.
func runLua(L *lua.LState, name string, src []byte) error {
	fn, err := L.Load(bytes.NewReader(src), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes globals that reach the filesystem or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// World files must not reseed or draw from Lua's RNG.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}

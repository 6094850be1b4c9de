package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerItemHelpers(L, coll)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", player = { ... } }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.games = append(coll.games, rawDef{id: coll.file, file: coll.file, table: tbl})
		return 0
	}))

	// Location "id" { ... } is curried: Location("id") returns a function that takes a table.
	L.SetGlobal("Location", curried(L, coll, &coll.locations))

	// Item "id" { type = "consumable", ... }
	L.SetGlobal("Item", curried(L, coll, &coll.items))

	// Enemy "id" { health = 30, attack = 6, ... }
	L.SetGlobal("Enemy", curried(L, coll, &coll.enemies))

	// Quest "id" { target = "Wolf", count = 3, reward = 50 }
	L.SetGlobal("Quest", curried(L, coll, &coll.quests))
}

// curried builds a constructor of the form Kind "id" { ... } that appends
// to dst.
func curried(L *lua.LState, coll *collector, dst *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, file: coll.file, table: tbl})
			return 0
		}))
		return 1
	})
}

// registerItemHelpers adds Potion, Weapon and Armor, which are Item with
// the type field filled in.
func registerItemHelpers(L *lua.LState, coll *collector) {
	kinds := map[string]string{
		"Potion": "consumable",
		"Weapon": "weapon",
		"Armor":  "armor",
	}
	for global, kind := range kinds {
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				tbl.RawSetString("type", lua.LString(kind))
				coll.items = append(coll.items, rawDef{id: id, file: coll.file, table: tbl})
				return 0
			}))
			return 1
		}))
	}
}

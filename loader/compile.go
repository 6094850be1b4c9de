// Package loader loads Lua and YAML world content into Go structs at load
// time. The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// rawDef holds one constructor call's table before compilation.
type rawDef struct {
	id    string
	file  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStrings converts the array part of a Lua table to a []string,
// in order. Non-string entries are skipped.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// newDefs returns empty definitions ready to be filled.
func newDefs() *state.Defs {
	return &state.Defs{
		Locations: map[string]types.LocationDef{},
		Items:     map[string]types.Item{},
		Enemies:   map[string]types.EnemyDef{},
		Quests:    map[string]types.QuestDef{},
	}
}

// compile converts all collected Lua data and adds it to defs. Redefining
// an id that already exists is an error.
func compile(coll *collector, defs *state.Defs, seen origins) error {
	for _, raw := range coll.games {
		if err := seen.claim("Game", "", raw.file); err != nil {
			return err
		}
		defs.Game = compileGame(raw.table)
	}

	for _, raw := range coll.locations {
		if err := seen.claim("Location", raw.id, raw.file); err != nil {
			return err
		}
		defs.Locations[raw.id] = compileLocation(raw)
	}

	for _, raw := range coll.items {
		if err := seen.claim("Item", raw.id, raw.file); err != nil {
			return err
		}
		defs.Items[raw.id] = compileItem(raw)
	}

	for _, raw := range coll.enemies {
		if err := seen.claim("Enemy", raw.id, raw.file); err != nil {
			return err
		}
		defs.Enemies[raw.id] = compileEnemy(raw)
	}

	for _, raw := range coll.quests {
		if err := seen.claim("Quest", raw.id, raw.file); err != nil {
			return err
		}
		defs.Quests[raw.id] = compileQuest(raw)
	}

	return nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	game := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Respawn: getString(tbl, "respawn"),
		Intro:   getString(tbl, "intro"),
	}
	if p := getTable(tbl, "player"); p != nil {
		game.Player = types.PlayerDef{
			Name:      getString(p, "name"),
			Health:    getInt(p, "health"),
			Attack:    getInt(p, "attack"),
			Defense:   getInt(p, "defense"),
			Gold:      getInt(p, "gold"),
			Inventory: tableToStrings(getTable(p, "inventory")),
		}
	}
	return game
}

func compileLocation(raw rawDef) types.LocationDef {
	tbl := raw.table
	return types.LocationDef{
		ID:          raw.id,
		Name:        nameOr(getString(tbl, "name"), raw.id),
		Description: getString(tbl, "description"),
		Exits:       lowerExits(tableToStringMap(getTable(tbl, "exits"))),
		Shop:        tableToStrings(getTable(tbl, "shop")),
		Enemies:     tableToStrings(getTable(tbl, "enemies")),
		Safe:        getBool(tbl, "safe", false),
	}
}

func compileItem(raw rawDef) types.Item {
	tbl := raw.table
	return types.Item{
		ID:    raw.id,
		Name:  nameOr(getString(tbl, "name"), raw.id),
		Kind:  types.ItemKind(getString(tbl, "type")),
		Value: getInt(tbl, "value"),
		Price: getInt(tbl, "price"),
	}
}

func compileEnemy(raw rawDef) types.EnemyDef {
	tbl := raw.table
	return types.EnemyDef{
		ID:         raw.id,
		Name:       nameOr(getString(tbl, "name"), raw.id),
		Level:      getInt(tbl, "level"),
		Health:     getInt(tbl, "health"),
		Attack:     getInt(tbl, "attack"),
		Defense:    getInt(tbl, "defense"),
		Gold:       getInt(tbl, "gold"),
		Experience: getInt(tbl, "experience"),
	}
}

func compileQuest(raw rawDef) types.QuestDef {
	tbl := raw.table
	return types.QuestDef{
		ID:          raw.id,
		Name:        nameOr(getString(tbl, "name"), raw.id),
		Description: getString(tbl, "description"),
		Target:      getString(tbl, "target"),
		Count:       getInt(tbl, "count"),
		Reward:      getInt(tbl, "reward"),
	}
}

// nameOr returns name, or a title-cased id when name is empty.
func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// lowerExits lowercases exit directions to match how commands are parsed.
// When two keys differ only in case, the one already in lower case wins.
func lowerExits(exits map[string]string) map[string]string {
	if exits == nil {
		return nil
	}
	out := make(map[string]string, len(exits))
	for _, dir := range sortedKeys(exits) {
		key := strings.ToLower(strings.TrimSpace(dir))
		if _, taken := out[key]; taken && key != dir {
			continue
		}
		out[key] = exits[dir]
	}
	return out
}

// origins remembers which file first defined each id, so duplicates can
// name both files.
type origins map[string]string

func (o origins) claim(kind, id, file string) error {
	key := kind + ":" + id
	if prev, ok := o[key]; ok {
		if id == "" {
			return fmt.Errorf("%s: %s{} already defined in %s", file, kind, prev)
		}
		return fmt.Errorf("%s: %s %q already defined in %s", file, kind, id, prev)
	}
	o[key] = file
	return nil
}

// sortedWorldFiles returns world files with game.lua or game.yaml first
// and the rest sorted alphabetically.
func sortedWorldFiles(files []string) []string {
	var first, others []string
	for _, f := range files {
		switch f {
		case "game.lua", "game.yaml", "game.yml":
			first = append(first, f)
		default:
			others = append(others, f)
		}
	}
	sort.Strings(first)
	sort.Strings(others)
	return append(first, others...)
}

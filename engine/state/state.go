// Package state manages the mutable game state and lookups against the
// immutable world definitions.
package state

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/wayfarer/types"
)

// Defs holds the immutable world definitions loaded from Lua or YAML.
type Defs struct {
	Game      types.GameDef
	Locations map[string]types.LocationDef
	Items     map[string]types.Item
	Enemies   map[string]types.EnemyDef
	Quests    map[string]types.QuestDef
}

// NewState creates a fresh game state from definitions. threshold is the
// experience needed for the first level-up.
func NewState(defs *Defs, threshold int) *types.State {
	pd := defs.Game.Player
	name := pd.Name
	if name == "" {
		name = "Wayfarer"
	}
	inv := []types.Item{}
	for _, id := range pd.Inventory {
		if it, ok := defs.Items[id]; ok {
			inv = append(inv, it)
		}
	}
	return &types.State{
		Player: types.Player{
			Name:      name,
			Level:     1,
			NextLevel: threshold,
			Health:    pd.Health,
			MaxHealth: pd.Health,
			Attack:    pd.Attack,
			Defense:   pd.Defense,
			Gold:      pd.Gold,
			Inventory: inv,
			Location:  defs.Game.Start,
			Quests:    map[string]types.QuestState{},
		},
		Mode: types.ModeExplore,
	}
}

// RespawnLocation returns where a defeated player wakes up.
func RespawnLocation(defs *Defs) string {
	if defs.Game.Respawn != "" {
		return defs.Game.Respawn
	}
	return defs.Game.Start
}

// CurrentLocation returns the definition of the player's location.
func CurrentLocation(s *types.State, defs *Defs) (types.LocationDef, bool) {
	loc, ok := defs.Locations[s.Player.Location]
	return loc, ok
}

// Directions returns the exit directions of a location in sorted order.
func Directions(loc types.LocationDef) []string {
	dirs := make([]string, 0, len(loc.Exits))
	for dir := range loc.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// ShopListing returns fresh copies of the items sold at a location.
func ShopListing(defs *Defs, loc types.LocationDef) []types.Item {
	items := make([]types.Item, 0, len(loc.Shop))
	for _, id := range loc.Shop {
		if it, ok := defs.Items[id]; ok {
			items = append(items, it)
		}
	}
	return items
}

// QuestList returns all quests sorted by id.
func QuestList(defs *Defs) []types.QuestDef {
	quests := make([]types.QuestDef, 0, len(defs.Quests))
	for _, q := range defs.Quests {
		quests = append(quests, q)
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].ID < quests[j].ID })
	return quests
}

// FindItem locates an inventory item by 1-based number or by name
// (case-insensitive). Returns -1 if nothing matches.
func FindItem(p *types.Player, ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(p.Inventory) {
			return n - 1
		}
		return -1
	}
	for i, it := range p.Inventory {
		if strings.EqualFold(it.Name, ref) || strings.EqualFold(it.ID, ref) {
			return i
		}
	}
	return -1
}

// RemoveItem drops the inventory entry at index i, preserving order.
func RemoveItem(p *types.Player, i int) types.Item {
	it := p.Inventory[i]
	p.Inventory = append(p.Inventory[:i:i], p.Inventory[i+1:]...)
	return it
}

// AttackPower is the player's attack including the equipped weapon.
func AttackPower(p *types.Player) int {
	if p.Weapon != nil {
		return p.Attack + p.Weapon.Value
	}
	return p.Attack
}

// DefensePower is the player's defense including the equipped armor.
func DefensePower(p *types.Player) int {
	if p.Armor != nil {
		return p.Defense + p.Armor.Value
	}
	return p.Defense
}

// InCombat reports whether a fight is in progress.
func InCombat(s *types.State) bool {
	return s.Mode == types.ModeCombat && s.Combat != nil
}

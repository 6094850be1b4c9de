package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
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

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known item types.
var validItemKinds = map[types.ItemKind]bool{
	types.ItemConsumable: true,
	types.ItemWeapon:     true,
	types.ItemArmor:      true,
}

// validate checks the compiled defs for referential integrity and
// consistency. Errors and warnings come back sorted so output is stable.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	validateGame(defs, ve)
	for _, id := range sortedKeys(defs.Locations) {
		validateLocation(defs.Locations[id], defs, ve)
	}
	for _, id := range sortedKeys(defs.Items) {
		validateItem(defs.Items[id], ve)
	}
	for _, id := range sortedKeys(defs.Enemies) {
		validateEnemy(defs.Enemies[id], ve)
	}
	for _, id := range sortedKeys(defs.Quests) {
		validateQuest(defs.Quests[id], defs, ve)
	}
	warnUnused(defs, ve)
	warnUnreachable(defs, ve)

	return ve
}

func validateGame(defs *state.Defs, ve *ValidationError) {
	g := defs.Game
	if g.Title == "" {
		ve.errorf("Game.title is required")
	}

	if g.Start == "" {
		ve.errorf("Game.start is required")
	} else if _, ok := defs.Locations[g.Start]; !ok {
		ve.errorf("start location %q not found in defined locations", g.Start)
	}

	if g.Respawn != "" {
		if loc, ok := defs.Locations[g.Respawn]; !ok {
			ve.errorf("respawn location %q not found in defined locations", g.Respawn)
		} else if !loc.Safe {
			ve.warnf("respawn location %q is not safe", g.Respawn)
		}
	} else if loc, ok := defs.Locations[g.Start]; ok && !loc.Safe {
		ve.warnf("start location %q is used for respawn but is not safe", g.Start)
	}

	p := g.Player
	if p.Health <= 0 {
		ve.errorf("Game.player.health must be positive, got %d", p.Health)
	}
	if p.Attack < 0 || p.Defense < 0 || p.Gold < 0 {
		ve.errorf("Game.player attack, defense and gold must not be negative")
	}
	for _, id := range p.Inventory {
		if _, ok := defs.Items[id]; !ok {
			ve.errorf("Game.player.inventory references undefined item %q", id)
		}
	}
}

func validateLocation(loc types.LocationDef, defs *state.Defs, ve *ValidationError) {
	for _, dir := range state.Directions(loc) {
		target := loc.Exits[dir]
		if _, ok := defs.Locations[target]; !ok {
			ve.errorf("location %q exit %q points to undefined location %q", loc.ID, dir, target)
		}
	}
	for _, id := range loc.Shop {
		if _, ok := defs.Items[id]; !ok {
			ve.errorf("location %q shop sells undefined item %q", loc.ID, id)
		}
	}
	for _, id := range loc.Enemies {
		if _, ok := defs.Enemies[id]; !ok {
			ve.errorf("location %q enemy pool references undefined enemy %q", loc.ID, id)
		}
	}
	if loc.Description == "" {
		ve.warnf("location %q has no description", loc.ID)
	}
	if loc.Safe && len(loc.Enemies) > 0 {
		ve.warnf("location %q is safe, so its enemies only appear when attacked", loc.ID)
	}
}

func validateItem(it types.Item, ve *ValidationError) {
	if !validItemKinds[it.Kind] {
		ve.errorf("item %q has unknown type %q (want consumable, weapon or armor)", it.ID, it.Kind)
	}
	if it.Price < 0 {
		ve.errorf("item %q has negative price %d", it.ID, it.Price)
	}
	if it.Value < 0 {
		ve.errorf("item %q has negative value %d", it.ID, it.Value)
	}
	if it.Kind == types.ItemConsumable && it.Value == 0 {
		ve.warnf("consumable %q heals nothing", it.ID)
	}
}

func validateEnemy(en types.EnemyDef, ve *ValidationError) {
	if en.Health <= 0 {
		ve.errorf("enemy %q health must be positive, got %d", en.ID, en.Health)
	}
	if en.Attack < 0 || en.Defense < 0 {
		ve.errorf("enemy %q attack and defense must not be negative", en.ID)
	}
	if en.Gold < 0 || en.Experience < 0 {
		ve.errorf("enemy %q rewards must not be negative", en.ID)
	}
}

func validateQuest(q types.QuestDef, defs *state.Defs, ve *ValidationError) {
	if q.Count <= 0 {
		ve.errorf("quest %q count must be positive, got %d", q.ID, q.Count)
	}
	if q.Reward < 0 {
		ve.errorf("quest %q reward must not be negative", q.ID)
	}
	if q.Target == "" {
		ve.errorf("quest %q has no target", q.ID)
		return
	}
	for _, en := range defs.Enemies {
		if strings.EqualFold(en.Name, q.Target) {
			return
		}
	}
	ve.errorf("quest %q targets %q, which is not the name of any enemy", q.ID, q.Target)
}

// warnUnused flags enemies no pool can produce and duplicate display names,
// which make name lookups ambiguous.
func warnUnused(defs *state.Defs, ve *ValidationError) {
	pooled := map[string]bool{}
	for _, loc := range defs.Locations {
		for _, id := range loc.Enemies {
			pooled[id] = true
		}
	}
	names := map[string]string{}
	for _, id := range sortedKeys(defs.Enemies) {
		if !pooled[id] {
			ve.warnf("enemy %q is not in any location's pool", id)
		}
		key := strings.ToLower(defs.Enemies[id].Name)
		if prev, ok := names[key]; ok {
			ve.warnf("enemies %q and %q share the name %q", prev, id, defs.Enemies[id].Name)
		}
		names[key] = id
	}

	items := map[string]string{}
	for _, id := range sortedKeys(defs.Items) {
		key := strings.ToLower(defs.Items[id].Name)
		if prev, ok := items[key]; ok {
			ve.warnf("items %q and %q share the name %q", prev, id, defs.Items[id].Name)
		}
		items[key] = id
	}
}

// warnUnreachable flags locations that cannot be walked to from the start.
func warnUnreachable(defs *state.Defs, ve *ValidationError) {
	if _, ok := defs.Locations[defs.Game.Start]; !ok {
		return
	}
	reached := map[string]bool{defs.Game.Start: true}
	queue := []string{defs.Game.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, target := range defs.Locations[id].Exits {
			if _, ok := defs.Locations[target]; ok && !reached[target] {
				reached[target] = true
				queue = append(queue, target)
			}
		}
	}
	for _, id := range sortedKeys(defs.Locations) {
		if !reached[id] {
			ve.warnf("location %q is unreachable from %q", id, defs.Game.Start)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

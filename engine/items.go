package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// useItem applies an inventory item. It returns false when nothing
// happened, so combat can skip the enemy's turn.
func (e *Engine) useItem(ref string, inCombat bool) ([]string, bool) {
	p := &e.State.Player
	if ref == "" {
		return e.usePrompt(inCombat), false
	}

	i := state.FindItem(p, ref)
	if i < 0 {
		return []string{"You don't have that."}, false
	}
	it := p.Inventory[i]

	switch it.Kind {
	case types.ItemConsumable:
		if p.Health >= p.MaxHealth {
			return []string{"You're already at full health."}, false
		}
		healed := min(it.Value, p.MaxHealth-p.Health)
		p.Health += healed
		state.RemoveItem(p, i)
		e.Log.Debug("item used", zap.String("item", it.ID), zap.Int("healed", healed))
		return []string{fmt.Sprintf("You use the %s and recover %d health. (%d/%d HP)", it.Name, healed, p.Health, p.MaxHealth)}, true

	case types.ItemWeapon, types.ItemArmor:
		if inCombat {
			return []string{"You can't change equipment in the middle of a fight."}, false
		}
		return e.equip(i), true

	default:
		return []string{fmt.Sprintf("You can't use the %s.", it.Name)}, false
	}
}

// equip moves the item at inventory index i into its slot, returning any
// previously equipped item to the inventory.
func (e *Engine) equip(i int) []string {
	p := &e.State.Player
	it := state.RemoveItem(p, i)

	slot := &p.Weapon
	stat := "attack"
	if it.Kind == types.ItemArmor {
		slot = &p.Armor
		stat = "defense"
	}

	var out []string
	if prev := *slot; prev != nil {
		p.Inventory = append(p.Inventory, *prev)
		out = append(out, fmt.Sprintf("You put away the %s.", prev.Name))
	}
	*slot = &it
	e.Log.Debug("item equipped", zap.String("item", it.ID))
	return append(out, fmt.Sprintf("You equip the %s. (+%d %s)", it.Name, it.Value, stat))
}

func (e *Engine) usePrompt(inCombat bool) []string {
	p := e.State.Player
	var names []string
	for i, it := range p.Inventory {
		if inCombat && it.Kind != types.ItemConsumable {
			continue
		}
		names = append(names, fmt.Sprintf("%d) %s", i+1, it.Name))
	}
	if len(names) == 0 {
		return []string{"You have nothing to use."}
	}
	return []string{"Use what? " + strings.Join(names, ", "), "(use <name or number>)"}
}

// inventoryLines lists the inventory with numbers and equipment.
func (e *Engine) inventoryLines() []string {
	p := e.State.Player
	var out []string
	if len(p.Inventory) == 0 {
		out = append(out, "You are carrying nothing.")
	} else {
		out = append(out, "You are carrying:")
		for i, it := range p.Inventory {
			out = append(out, fmt.Sprintf("  %d) %s", i+1, describeItem(it)))
		}
	}
	if p.Weapon != nil {
		out = append(out, "Weapon: "+describeItem(*p.Weapon))
	}
	if p.Armor != nil {
		out = append(out, "Armor: "+describeItem(*p.Armor))
	}
	out = append(out, fmt.Sprintf("Gold: %d", p.Gold))
	return out
}

func describeItem(it types.Item) string {
	switch it.Kind {
	case types.ItemConsumable:
		return fmt.Sprintf("%s (heals %d)", it.Name, it.Value)
	case types.ItemWeapon:
		return fmt.Sprintf("%s (+%d attack)", it.Name, it.Value)
	case types.ItemArmor:
		return fmt.Sprintf("%s (+%d defense)", it.Name, it.Value)
	default:
		return it.Name
	}
}

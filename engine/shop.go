package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/commerce"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// shopVerbs are the commands allowed while browsing a shop.
var shopVerbs = map[string]bool{
	"buy":       true,
	"sell":      true,
	"leave":     true,
	"browse":    true,
	"select":    true,
	"inventory": true,
	"stats":     true,
	"quests":    true,
	"use":       true,
}

// enterShop opens the shop at the current location.
func (e *Engine) enterShop() []string {
	loc, _ := state.CurrentLocation(e.State, e.Defs)
	if len(loc.Shop) == 0 {
		return []string{"There is no shop here."}
	}
	e.State.Mode = types.ModeShop
	e.State.Pending = ""
	return append([]string{fmt.Sprintf("Welcome to the shop in %s!", loc.Name)}, e.shopLines()...)
}

func (e *Engine) shopStep(intent types.Intent, result *types.Result) {
	if !shopVerbs[intent.Verb] {
		result.Output = append(result.Output, "You're browsing the shop. (buy <n>, sell <n>, leave)")
		return
	}

	switch intent.Verb {
	case "leave":
		e.State.Mode = types.ModeExplore
		e.State.Pending = ""
		result.Output = append(result.Output, "You leave the shop.")

	case "browse":
		result.Output = append(result.Output, e.shopLines()...)

	case "buy", "sell":
		if intent.Object == "" {
			e.State.Pending = intent.Verb
			result.Output = append(result.Output, e.promptLines(intent.Verb)...)
			return
		}
		e.trade(intent.Verb, intent.Object, result)

	case "select":
		if e.State.Pending == "" {
			result.Output = append(result.Output, "Buy or sell? (b <n>, s <n>)")
			return
		}
		e.trade(e.State.Pending, intent.Object, result)

	case "inventory":
		result.Output = append(result.Output, e.inventoryLines()...)
	case "stats":
		result.Output = append(result.Output, e.statsLines()...)
	case "quests":
		result.Output = append(result.Output, e.questLines()...)
	case "use":
		out, ok := e.useItem(intent.Object, false)
		if ok {
			e.tick()
		}
		result.Output = append(result.Output, out...)
	}
}

// trade runs a buy or sell. Selection errors keep the prompt open so the
// player can try another number.
func (e *Engine) trade(verb, choice string, result *types.Result) {
	p := &e.State.Player
	var err error

	if verb == "buy" {
		loc, _ := state.CurrentLocation(e.State, e.Defs)
		var it types.Item
		it, err = commerce.Buy(p, state.ShopListing(e.Defs, loc), choice)
		if err == nil {
			result.Output = append(result.Output, fmt.Sprintf("You bought the %s for %d gold. (%d gold left)", it.Name, it.Price, p.Gold))
			result.Events = append(result.Events, types.Event{Type: "bought", Data: map[string]any{"item": it.ID, "price": it.Price}})
			e.Log.Info("item bought", zap.String("item", it.ID), zap.Int("price", it.Price), zap.Int("gold", p.Gold))
		}
	} else {
		var it types.Item
		var price int
		it, price, err = commerce.Sell(p, choice, e.Rules.SellFallback)
		if err == nil {
			result.Output = append(result.Output, fmt.Sprintf("You sold the %s for %d gold. (%d gold)", it.Name, price, p.Gold))
			result.Events = append(result.Events, types.Event{Type: "sold", Data: map[string]any{"item": it.ID, "price": price}})
			e.Log.Info("item sold", zap.String("item", it.ID), zap.Int("price", price), zap.Int("gold", p.Gold))
		}
	}

	switch {
	case err == nil:
		e.State.Pending = ""
		e.tick()
	case errors.Is(err, commerce.ErrNotANumber), errors.Is(err, commerce.ErrOutOfRange):
		e.State.Pending = verb
		result.Output = append(result.Output, fmt.Sprintf("Sorry, %v.", err))
	default:
		e.State.Pending = ""
		result.Output = append(result.Output, fmt.Sprintf("Sorry, %v.", err))
	}
}

func (e *Engine) promptLines(verb string) []string {
	if verb == "buy" {
		return append(e.shopLines(), "Enter the number of the item to buy:")
	}
	p := e.State.Player
	if len(p.Inventory) == 0 {
		e.State.Pending = ""
		return []string{"You have nothing to sell."}
	}
	out := []string{"You can sell:"}
	for i, it := range p.Inventory {
		out = append(out, fmt.Sprintf("  %d) %s, %d gold", i+1, it.Name, commerce.SellPrice(it, e.Rules.SellFallback)))
	}
	return append(out, "Enter the number of the item to sell:")
}

func (e *Engine) shopLines() []string {
	loc, _ := state.CurrentLocation(e.State, e.Defs)
	out := []string{"For sale:"}
	for i, it := range state.ShopListing(e.Defs, loc) {
		out = append(out, fmt.Sprintf("  %d) %s, %d gold", i+1, describeItem(it), it.Price))
	}
	out = append(out, fmt.Sprintf("You have %d gold. (b <n> buy, s <n> sell, l leave)", e.State.Player.Gold))
	return out
}

// Package commerce implements buying from and selling to location shops.
package commerce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/wayfarer/types"
)

// DefaultSellFallback is what an item with no price sells for.
const DefaultSellFallback = 5

var (
	// ErrNotANumber is returned when a selection is not a whole number.
	ErrNotANumber = errors.New("please enter a number")
	// ErrOutOfRange is returned when a selection does not name a listed entry.
	ErrOutOfRange = errors.New("invalid selection")
	// ErrInsufficientGold is returned when the player cannot afford an item.
	ErrInsufficientGold = errors.New("not enough gold")
	// ErrNothingToSell is returned when the inventory is empty.
	ErrNothingToSell = errors.New("you have nothing to sell")
)

// ParseIndex converts a 1-based selection into a 0-based index into a
// list of n entries.
func ParseIndex(choice string, n int) (int, error) {
	num, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil {
		return 0, ErrNotANumber
	}
	if num < 1 || num > n {
		return 0, fmt.Errorf("%w: choose 1-%d", ErrOutOfRange, n)
	}
	return num - 1, nil
}

// Buy purchases the listed item at the 1-based choice. On any error the
// player is left unchanged.
func Buy(p *types.Player, listing []types.Item, choice string) (types.Item, error) {
	i, err := ParseIndex(choice, len(listing))
	if err != nil {
		return types.Item{}, err
	}
	it := listing[i]
	if p.Gold < it.Price {
		return types.Item{}, fmt.Errorf("%w: %s costs %d, you have %d", ErrInsufficientGold, it.Name, it.Price, p.Gold)
	}
	p.Gold -= it.Price
	p.Inventory = append(p.Inventory, it)
	return it, nil
}

// Sell sells the inventory item at the 1-based choice and returns it with
// the gold received. On any error the player is left unchanged.
func Sell(p *types.Player, choice string, fallback int) (types.Item, int, error) {
	if len(p.Inventory) == 0 {
		return types.Item{}, 0, ErrNothingToSell
	}
	i, err := ParseIndex(choice, len(p.Inventory))
	if err != nil {
		return types.Item{}, 0, err
	}
	it := p.Inventory[i]
	price := SellPrice(it, fallback)
	p.Inventory = append(p.Inventory[:i:i], p.Inventory[i+1:]...)
	p.Gold += price
	return it, price, nil
}

// SellPrice is half the buy price, at least 1, or the fallback when the
// item has no price.
func SellPrice(it types.Item, fallback int) int {
	if it.Price <= 0 {
		return fallback
	}
	return max(1, it.Price/2)
}

package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// displayName derives a human-readable name from an ID.
// "town_square" -> "Town Square", "deep_cave" -> "Deep Cave".
func displayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if r, size := utf8.DecodeRuneInString(w); size > 0 {
			words[i] = string(unicode.ToTitle(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

// locationName prefers the world's name for the location and falls back to
// one derived from its ID.
func (m Model) locationName() string {
	s := m.engine.State
	if loc, ok := state.CurrentLocation(s, m.defs); ok && loc.Name != "" {
		return loc.Name
	}
	return displayName(s.Player.Location)
}

// renderStatusBar produces a full-width inverted status line showing
// location, character vitals, any fight in progress, and the turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.State
	p := s.Player

	left := fmt.Sprintf(" %s | HP %d/%d | Lv %d | %dg", m.locationName(), p.Health, p.MaxHealth, p.Level, p.Gold)
	right := fmt.Sprintf("T:%d ", s.TurnCount)

	switch s.Mode {
	case types.ModeCombat:
		if s.Combat != nil {
			e := s.Combat.Enemy
			candidate := fmt.Sprintf("%s %d/%d | T:%d ", e.Name, e.Health, e.MaxHealth, s.TurnCount)
			if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
				right = candidate
			} else {
				right = fmt.Sprintf("FIGHT | T:%d ", s.TurnCount)
			}
		}
	case types.ModeShop:
		right = fmt.Sprintf("SHOP | T:%d ", s.TurnCount)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if s.Mode == types.ModeCombat {
		style = styleStatusBarFight
	}
	return style.Width(m.width).Render(bar)
}

// Package tui provides a Bubble Tea terminal UI for the Wayfarer game engine.
package tui

import "strings"

// History keeps recent commands for Up/Down recall. It is a fixed ring:
// once full, each new command overwrites the oldest one.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // steps back from the newest entry; 0 while editing fresh input
}

// NewHistory creates a history that remembers up to max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max)}
}

// Len returns the number of remembered commands.
func (h *History) Len() int { return h.size }

// at returns the i-th entry counting from the oldest.
func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records a submitted command. Bare menu numbers answer a one-off shop
// prompt and are not worth recalling, and a command equal to the previous
// one (ignoring case) is dropped.
func (h *History) Push(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" || isSelection(cmd) {
		return
	}
	if h.size > 0 && strings.EqualFold(h.at(h.size-1), cmd) {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = cmd
		h.size++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps back to an older command and stays on the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	if h.cursor < h.size {
		h.cursor++
	}
	return h.at(h.size - h.cursor), true
}

// Next steps forward to a newer command. Stepping past the newest returns
// false so the caller can clear the input line.
func (h *History) Next() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	if h.cursor == 0 {
		return "", false
	}
	return h.at(h.size - h.cursor), true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.cursor = 0
}

// isSelection reports whether cmd is a bare number such as "2".
func isSelection(cmd string) bool {
	for _, r := range cmd {
		if r < '0' || r > '9' {
			return false
		}
	}
	return cmd != ""
}

// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/wayfarer/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"ne": "northeast",
	"nw": "northwest",
	"se": "southeast",
	"sw": "southwest",
	"d":  "down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	// Look
	"l":       "look",
	"examine": "look",
	"x":       "look",

	// Movement
	"walk":   "go",
	"move":   "go",
	"head":   "go",
	"travel": "go",

	// Combat
	"a":      "attack",
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"kill":   "attack",
	"hunt":   "attack",

	"r":       "flee",
	"run":     "flee",
	"escape":  "flee",
	"retreat": "flee",

	// Items
	"u":     "use",
	"drink": "use",
	"quaff": "use",
	"eat":   "use",
	"equip": "use",
	"wield": "use",
	"wear":  "use",

	// Trade
	"trade":    "shop",
	"store":    "shop",
	"purchase": "buy",

	// Status
	"inv":       "inventory",
	"i":         "inventory",
	"q":         "quests",
	"quest":     "quests",
	"journal":   "quests",
	"status":    "stats",
	"stat":      "stats",
	"character": "stats",
	"char":      "stats",
}

// shopAliases take precedence while the player is browsing a shop.
var shopAliases = map[string]string{
	"b":      "buy",
	"s":      "sell",
	"l":      "leave",
	"exit":   "leave",
	"done":   "leave",
	"list":   "browse",
	"browse": "browse",
	"look":   "browse",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// A bare number answers a pending prompt.
	if len(words) == 1 && isNumber(words[0]) {
		return types.Intent{Verb: "select", Object: words[0]}
	}

	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return types.Intent{Verb: "go", Object: dir}
		}
		if directionNames[words[0]] {
			return types.Intent{Verb: "go", Object: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	return build(words)
}

// ParseShop parses input typed while browsing a shop, where the single
// letters b, s and l mean buy, sell and leave.
func ParseShop(input string) types.Intent {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return types.Intent{}
	}
	if alias, ok := shopAliases[words[0]]; ok {
		words[0] = alias
		return build(words)
	}
	return Parse(input)
}

func build(words []string) types.Intent {
	verb := words[0]
	rest := stripArticles(words[1:])
	object := strings.Join(rest, " ")
	if verb == "go" {
		if dir, ok := directionExpansions[object]; ok {
			object = dir
		}
	}
	return types.Intent{Verb: verb, Object: object}
}

// expandMultiWordVerbs handles "look at", "use item", "run away" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "use":
		// "use item" with no further words opens the item prompt.
		if words[1] == "item" && len(words) == 2 {
			return []string{"use"}
		}
	case "run", "go":
		if words[1] == "away" {
			return []string{"flee"}
		}
	case "check":
		if words[1] == "inventory" || words[1] == "bag" {
			return []string{"inventory"}
		}
		if words[1] == "quests" || words[1] == "quest" {
			return []string{"quests"}
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

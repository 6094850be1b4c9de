// Package types defines the shared data structures for the Wayfarer engine.
// It holds data definitions only; behavior lives in engine.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
}

// Event is emitted when the engine changes the game state.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
}

// ItemKind classifies what an item does when used.
type ItemKind string

const (
	ItemConsumable ItemKind = "consumable"
	ItemWeapon     ItemKind = "weapon"
	ItemArmor      ItemKind = "armor"
)

// Item is a carried or sold object. Value is the heal amount for
// consumables and the stat bonus for weapons and armor.
type Item struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Kind  ItemKind `json:"type"`
	Value int      `json:"value"`
	Price int      `json:"price"`
}

// EnemyDef is the immutable template an encounter is spawned from.
type EnemyDef struct {
	ID         string
	Name       string
	Level      int
	Health     int
	Attack     int
	Defense    int
	Gold       int
	Experience int
}

// Enemy is a live enemy instance owned by a single fight.
type Enemy struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Health     int    `json:"health"`
	MaxHealth  int    `json:"max_health"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Gold       int    `json:"gold"`
	Experience int    `json:"experience"`
}

// LocationDef is a node in the world graph.
type LocationDef struct {
	ID          string
	Name        string
	Description string
	Exits       map[string]string // direction → location id
	Shop        []string          // item ids on sale
	Enemies     []string          // enemy template ids
	Safe        bool              // no random encounters
}

// QuestDef is a kill quest: defeat Count enemies named Target.
type QuestDef struct {
	ID          string
	Name        string
	Description string
	Target      string
	Count       int
	Reward      int
}

// PlayerDef holds the starting character from the world file.
type PlayerDef struct {
	Name      string
	Health    int
	Attack    int
	Defense   int
	Gold      int
	Inventory []string // item ids
}

// GameDef holds game metadata from the world file.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting location id
	Respawn string // where a defeated player wakes up
	Intro   string
	Player  PlayerDef
}

// QuestState is the player's progress on one quest.
type QuestState struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// Player holds the player's runtime state.
type Player struct {
	Name       string                `json:"name"`
	Level      int                   `json:"level"`
	Experience int                   `json:"experience"`
	NextLevel  int                   `json:"next_level"`
	Health     int                   `json:"health"`
	MaxHealth  int                   `json:"max_health"`
	Attack     int                   `json:"attack"`
	Defense    int                   `json:"defense"`
	Gold       int                   `json:"gold"`
	Inventory  []Item                `json:"inventory"`
	Weapon     *Item                 `json:"weapon,omitempty"`
	Armor      *Item                 `json:"armor,omitempty"`
	Location   string                `json:"location"`
	Quests     map[string]QuestState `json:"quests"`
}

// Mode is what the player is currently doing.
type Mode string

const (
	ModeExplore Mode = "explore"
	ModeCombat  Mode = "combat"
	ModeShop    Mode = "shop"
)

// Outcome is the state of a fight.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "player_victory"
	OutcomeDefeat  Outcome = "player_defeat"
	OutcomeEscaped Outcome = "player_escaped"
)

// CombatState holds an active fight.
type CombatState struct {
	Enemy   Enemy
	Round   int
	Outcome Outcome
}

// State is the complete mutable game state.
type State struct {
	Player      Player
	Mode        Mode
	Combat      *CombatState // nil outside combat
	Pending     string       // "buy" or "sell" while a shop prompt waits for a number
	TurnCount   int
	RNGSeed     int64
	RNGPosition int64
}

// DamageRule selects the damage formula.
type DamageRule string

const (
	DamageDefense DamageRule = "defense" // max(1, attack - defense)
	DamageSpread  DamageRule = "spread"  // uniform in [attack-spread, attack+spread]
)

// Rules holds the tunable numbers of combat, progression and commerce.
type Rules struct {
	EncounterChance float64
	EscapeChance    float64
	DamageRule      DamageRule
	DamageSpread    int

	BaseThreshold   int
	ThresholdGrowth float64
	HealthPerLevel  int
	AttackPerLevel  int
	DefensePerLevel int
	SingleLevelUp   bool // only one level-up per experience grant

	SellFallback int // sell price of items with no price
}

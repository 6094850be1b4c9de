// Package engine provides the Step() orchestrator that wires together
// parsing, movement, encounters, combat, commerce and progression into a
// single turn.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/parser"
	"github.com/nathoo/wayfarer/engine/save"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// Engine holds the world definitions and the mutable game state.
type Engine struct {
	Defs  *state.Defs
	State *types.State
	Rules types.Rules
	RNG   *RNG
	Log   *zap.Logger

	seed        int64
	lastOutcome types.Outcome
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rules.
func WithRules(r types.Rules) Option {
	return func(e *Engine) { e.Rules = r }
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Log = l
		}
	}
}

// WithSeed seeds the engine's RNG.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New creates a new engine from definitions.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{
		Defs:  defs,
		Rules: DefaultRules(),
		Log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.State = state.NewState(defs, e.Rules.BaseThreshold)
	e.State.RNGSeed = e.seed
	e.RNG = NewRNG(e.seed)
	return e
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Restore replaces the game state with a loaded save and resumes its
// random stream.
func (e *Engine) Restore(sd *save.SaveData) {
	save.ApplySave(e.State, sd)
	e.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	e.lastOutcome = ""
	e.Log.Info("game restored",
		zap.String("save_id", sd.ID),
		zap.Int("turn", sd.Turn),
		zap.String("location", sd.Player.Location),
	)
}

// LastOutcome returns how the most recent fight ended, or "" if none has.
func (e *Engine) LastOutcome() types.Outcome {
	return e.lastOutcome
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	var intent types.Intent
	if e.State.Mode == types.ModeShop {
		intent = parser.ParseShop(input)
	} else {
		intent = parser.Parse(input)
	}

	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	switch {
	case state.InCombat(e.State):
		e.combatStep(intent, &result)
	case e.State.Mode == types.ModeShop:
		e.shopStep(intent, &result)
	default:
		e.exploreStep(intent, &result)
	}

	e.State.RNGPosition = e.RNG.Position()
	return result
}

func (e *Engine) combatStep(intent types.Intent, result *types.Result) {
	if !isCombatVerb(intent.Verb) {
		result.Output = append(result.Output, "You're in the middle of a fight! (attack, use <item>, run)")
		return
	}
	switch intent.Verb {
	case "inventory":
		result.Output = append(result.Output, e.inventoryLines()...)
	case "stats":
		result.Output = append(result.Output, e.statsLines()...)
	case "look":
		result.Output = append(result.Output, e.enemyStatus(), e.playerStatus())
	default:
		e.combatRound(intent, result)
	}
}

func (e *Engine) exploreStep(intent types.Intent, result *types.Result) {
	switch intent.Verb {
	case "go":
		e.move(intent.Object, result)

	case "look":
		result.Output = append(result.Output, e.describeLocation(e.State.Player.Location)...)

	case "attack":
		e.hunt(result)

	case "flee":
		result.Output = append(result.Output, "There is nothing to run from.")

	case "use":
		out, ok := e.useItem(intent.Object, false)
		if ok {
			e.tick()
		}
		result.Output = append(result.Output, out...)

	case "inventory":
		result.Output = append(result.Output, e.inventoryLines()...)

	case "stats":
		result.Output = append(result.Output, e.statsLines()...)

	case "quests":
		result.Output = append(result.Output, e.questLines()...)

	case "shop":
		result.Output = append(result.Output, e.enterShop()...)

	case "buy", "sell":
		result.Output = append(result.Output, e.enterShop()...)
		if e.State.Mode == types.ModeShop {
			e.shopStep(intent, result)
		}

	case "select":
		result.Output = append(result.Output, "Nothing is waiting for a number.")

	default:
		result.Output = append(result.Output, "Invalid command! Type help for a list of commands.")
	}
}

// move walks through an exit and rolls for an encounter on arrival.
func (e *Engine) move(direction string, result *types.Result) {
	if direction == "" {
		result.Output = append(result.Output, "Go where?")
		return
	}

	loc, _ := state.CurrentLocation(e.State, e.Defs)
	target, ok := loc.Exits[direction]
	if !ok {
		result.Output = append(result.Output, "You can't go that way!")
		return
	}

	from := e.State.Player.Location
	e.State.Player.Location = target
	e.tick()
	result.Events = append(result.Events, types.Event{Type: "moved", Data: map[string]any{"from": from, "to": target}})
	e.Log.Debug("player moved", zap.String("from", from), zap.String("to", target), zap.String("direction", direction))

	result.Output = append(result.Output, fmt.Sprintf("You go %s...", direction))
	result.Output = append(result.Output, e.describeLocation(target)...)

	if def, ok := e.rollEncounter(e.Defs.Locations[target]); ok {
		result.Events = append(result.Events, types.Event{Type: "encounter", Data: map[string]any{"enemy": def.ID}})
		result.Output = append(result.Output, e.startCombat(def)...)
	}
}

// hunt picks a fight with a random enemy from the location's pool and
// resolves the opening attack.
func (e *Engine) hunt(result *types.Result) {
	loc, _ := state.CurrentLocation(e.State, e.Defs)
	def, ok := e.pickEnemy(loc)
	if !ok {
		result.Output = append(result.Output, "There are no enemies here.")
		return
	}
	result.Output = append(result.Output, e.startCombat(def)...)
	e.combatRound(types.Intent{Verb: "attack"}, result)
}

func (e *Engine) tick() {
	e.State.TurnCount++
}

// describeLocation produces the standard location description output.
func (e *Engine) describeLocation(id string) []string {
	loc, ok := e.Defs.Locations[id]
	if !ok {
		return []string{"You are somewhere unknown."}
	}

	output := []string{
		loc.Name,
		strings.Repeat("-", len(loc.Name)),
		loc.Description,
	}
	if len(loc.Shop) > 0 {
		output = append(output, "There is a shop here. (shop)")
	}
	if dirs := state.Directions(loc); len(dirs) > 0 {
		output = append(output, "Exits: "+strings.Join(dirs, ", ")+".")
	}
	return output
}

func (e *Engine) statsLines() []string {
	p := e.State.Player
	return []string{
		fmt.Sprintf("%s, level %d", p.Name, p.Level),
		fmt.Sprintf("HP: %d/%d", p.Health, p.MaxHealth),
		fmt.Sprintf("Attack: %d  Defense: %d", state.AttackPower(&p), state.DefensePower(&p)),
		fmt.Sprintf("XP: %d/%d", p.Experience, p.NextLevel),
		fmt.Sprintf("Gold: %d", p.Gold),
	}
}

func (e *Engine) questLines() []string {
	quests := state.QuestList(e.Defs)
	if len(quests) == 0 {
		return []string{"You have no quests."}
	}
	out := []string{"Quests:"}
	for _, q := range quests {
		qs := e.State.Player.Quests[q.ID]
		status := fmt.Sprintf("%d/%d", qs.Progress, q.Count)
		if qs.Completed {
			status = "complete"
		}
		out = append(out, fmt.Sprintf("  %s: %s [%s]", q.Name, q.Description, status))
	}
	return out
}

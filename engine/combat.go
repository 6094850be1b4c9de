package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/progress"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// combatVerbs are the commands allowed during combat.
var combatVerbs = map[string]bool{
	"attack":    true,
	"use":       true,
	"flee":      true,
	"inventory": true,
	"stats":     true,
	"look":      true,
}

// isCombatVerb returns true if the verb is allowed during combat.
func isCombatVerb(verb string) bool {
	return combatVerbs[verb]
}

// DamageCalc computes the damage of one hit. The defense rule gives
// attack - defense; the spread rule rolls attack ± spread and ignores
// defense. Either way the result is at least 1.
func DamageCalc(attack, defense int, rules types.Rules, rng *RNG) int {
	var damage int
	switch rules.DamageRule {
	case types.DamageSpread:
		damage = rng.Between(attack-rules.DamageSpread, attack+rules.DamageSpread)
	default:
		damage = attack - defense
	}
	if damage < 1 {
		damage = 1
	}
	return damage
}

// Spawn creates a live enemy from its template. The template is never
// referenced by the fight.
func Spawn(def types.EnemyDef) types.Enemy {
	return types.Enemy{
		TemplateID: def.ID,
		Name:       def.Name,
		Level:      def.Level,
		Health:     def.Health,
		MaxHealth:  def.Health,
		Attack:     def.Attack,
		Defense:    def.Defense,
		Gold:       def.Gold,
		Experience: def.Experience,
	}
}

// startCombat enters combat against a fresh instance of def.
func (e *Engine) startCombat(def types.EnemyDef) []string {
	e.State.Mode = types.ModeCombat
	e.State.Pending = ""
	e.State.Combat = &types.CombatState{Enemy: Spawn(def), Outcome: types.OutcomeOngoing}
	e.Log.Info("combat started",
		zap.String("enemy", def.ID),
		zap.String("location", e.State.Player.Location),
	)
	return []string{
		fmt.Sprintf("A %s appears!", def.Name),
		e.enemyStatus(),
		"(attack, use <item>, run)",
	}
}

// combatRound resolves one player action and, unless the fight ended or
// the action was invalid, the enemy's reply.
func (e *Engine) combatRound(intent types.Intent, result *types.Result) {
	c := e.State.Combat

	switch intent.Verb {
	case "attack":
		e.playerAttack(result)

	case "use":
		out, ok := e.useItem(intent.Object, true)
		result.Output = append(result.Output, out...)
		if !ok {
			// Invalid item use costs nothing.
			return
		}

	case "flee":
		if e.RNG.Chance(e.Rules.EscapeChance) {
			result.Output = append(result.Output, "You turn and run... you escape!")
			e.tick()
			e.endCombat(types.OutcomeEscaped, result)
			return
		}
		result.Output = append(result.Output, "You try to run but can't escape!")
	}

	e.tick()

	if c.Enemy.Health <= 0 {
		e.victory(result)
		return
	}

	e.enemyAttack(result)
	if e.State.Player.Health <= 0 {
		e.defeat(result)
		return
	}

	c.Round++
	result.Output = append(result.Output, e.enemyStatus(), e.playerStatus())
}

func (e *Engine) playerAttack(result *types.Result) {
	c := e.State.Combat
	p := &e.State.Player
	damage := DamageCalc(state.AttackPower(p), c.Enemy.Defense, e.Rules, e.RNG)
	c.Enemy.Health -= damage
	if c.Enemy.Health < 0 {
		c.Enemy.Health = 0
	}
	result.Output = append(result.Output, fmt.Sprintf("You strike the %s for %d damage!", c.Enemy.Name, damage))
	result.Events = append(result.Events, types.Event{
		Type: "player_attack",
		Data: map[string]any{"damage": damage, "enemy_health": c.Enemy.Health},
	})
}

func (e *Engine) enemyAttack(result *types.Result) {
	c := e.State.Combat
	p := &e.State.Player
	damage := DamageCalc(c.Enemy.Attack, state.DefensePower(p), e.Rules, e.RNG)
	p.Health -= damage
	if p.Health < 0 {
		p.Health = 0
	}
	result.Output = append(result.Output, fmt.Sprintf("The %s hits you for %d damage!", c.Enemy.Name, damage))
	result.Events = append(result.Events, types.Event{
		Type: "enemy_attack",
		Data: map[string]any{"damage": damage, "player_health": p.Health},
	})
}

// victory pays out the enemy's rewards and advances quests.
func (e *Engine) victory(result *types.Result) {
	enemy := e.State.Combat.Enemy
	p := &e.State.Player

	result.Output = append(result.Output, fmt.Sprintf("You defeated the %s!", enemy.Name))
	p.Gold += enemy.Gold
	result.Output = append(result.Output, fmt.Sprintf("You gain %d gold and %d experience.", enemy.Gold, enemy.Experience))

	for _, up := range progress.GainExperience(p, enemy.Experience, e.Rules) {
		result.Output = append(result.Output,
			fmt.Sprintf("LEVEL UP! You are now level %d. (HP %d, ATK %d, DEF %d)", up.Level, up.MaxHealth, up.Attack, up.Defense))
		result.Events = append(result.Events, types.Event{Type: "level_up", Data: map[string]any{"level": up.Level}})
		e.Log.Info("level up", zap.Int("level", up.Level), zap.Int("next_level", up.NextLevel))
	}

	for _, u := range progress.RecordDefeat(p, state.QuestList(e.Defs), enemy.Name) {
		if u.Completed {
			result.Output = append(result.Output,
				fmt.Sprintf("Quest complete: %s! You receive %d gold.", u.Quest.Name, u.Reward))
			result.Events = append(result.Events, types.Event{Type: "quest_complete", Data: map[string]any{"quest": u.Quest.ID}})
			e.Log.Info("quest complete", zap.String("quest", u.Quest.ID), zap.Int("reward", u.Reward))
			continue
		}
		result.Output = append(result.Output,
			fmt.Sprintf("Quest progress: %s (%d/%d)", u.Quest.Name, u.Progress, u.Quest.Count))
		result.Events = append(result.Events, types.Event{Type: "quest_progress", Data: map[string]any{"quest": u.Quest.ID, "progress": u.Progress}})
	}

	e.endCombat(types.OutcomeVictory, result)
}

// defeat leaves the player at 1 health in the respawn location.
func (e *Engine) defeat(result *types.Result) {
	p := &e.State.Player
	p.Health = 1
	p.Location = state.RespawnLocation(e.Defs)

	name := p.Location
	if loc, ok := e.Defs.Locations[p.Location]; ok {
		name = loc.Name
	}
	result.Output = append(result.Output,
		"You have been defeated...",
		fmt.Sprintf("You wake up in %s, battered but alive.", name))
	e.endCombat(types.OutcomeDefeat, result)
}

func (e *Engine) endCombat(outcome types.Outcome, result *types.Result) {
	c := e.State.Combat
	c.Outcome = outcome
	result.Events = append(result.Events, types.Event{
		Type: "combat_end",
		Data: map[string]any{"outcome": string(outcome), "enemy": c.Enemy.TemplateID, "rounds": c.Round + 1},
	})
	e.Log.Info("combat ended",
		zap.String("outcome", string(outcome)),
		zap.String("enemy", c.Enemy.TemplateID),
		zap.Int("rounds", c.Round+1),
	)
	e.lastOutcome = outcome
	e.State.Combat = nil
	e.State.Mode = types.ModeExplore
}

func (e *Engine) enemyStatus() string {
	en := e.State.Combat.Enemy
	return fmt.Sprintf("%s: %d/%d HP", en.Name, en.Health, en.MaxHealth)
}

func (e *Engine) playerStatus() string {
	p := e.State.Player
	return fmt.Sprintf("You: %d/%d HP", p.Health, p.MaxHealth)
}

package engine

import (
	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/types"
)

// rollEncounter decides whether an enemy ambushes the player on arrival.
// Safe locations and locations without an enemy pool never roll.
func (e *Engine) rollEncounter(loc types.LocationDef) (types.EnemyDef, bool) {
	if loc.Safe || len(loc.Enemies) == 0 {
		return types.EnemyDef{}, false
	}
	if !e.RNG.Chance(e.Rules.EncounterChance) {
		return types.EnemyDef{}, false
	}
	return e.pickEnemy(loc)
}

// pickEnemy chooses one template uniformly from the location's pool.
func (e *Engine) pickEnemy(loc types.LocationDef) (types.EnemyDef, bool) {
	if len(loc.Enemies) == 0 {
		return types.EnemyDef{}, false
	}
	id := loc.Enemies[e.RNG.Pick(len(loc.Enemies))]
	def, ok := e.Defs.Enemies[id]
	if !ok {
		e.Log.Warn("enemy pool references unknown template",
			zap.String("location", loc.ID),
			zap.String("enemy", id),
		)
	}
	return def, ok
}

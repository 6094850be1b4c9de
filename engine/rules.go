package engine

import (
	"github.com/nathoo/wayfarer/engine/commerce"
	"github.com/nathoo/wayfarer/types"
)

// DefaultRules returns the standard tuning: 40% encounters, even escape
// odds, defense-aware damage and ×1.5 level thresholds.
func DefaultRules() types.Rules {
	return types.Rules{
		EncounterChance: 0.4,
		EscapeChance:    0.5,
		DamageRule:      types.DamageDefense,
		DamageSpread:    2,
		BaseThreshold:   100,
		ThresholdGrowth: 1.5,
		HealthPerLevel:  10,
		AttackPerLevel:  2,
		DefensePerLevel: 1,
		SellFallback:    commerce.DefaultSellFallback,
	}
}

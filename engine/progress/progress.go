// Package progress implements experience, level-ups and kill quests.
package progress

import (
	"strings"

	"github.com/nathoo/wayfarer/types"
)

// LevelUp describes one level gained.
type LevelUp struct {
	Level     int
	MaxHealth int
	Attack    int
	Defense   int
	NextLevel int
}

// QuestUpdate describes a quest counter that moved after a defeat.
type QuestUpdate struct {
	Quest     types.QuestDef
	Progress  int
	Completed bool // true only on the call that completed the quest
	Reward    int  // gold granted by this update
}

// GainExperience adds experience and applies every level-up it earns,
// one per threshold crossed. With r.SingleLevelUp set, at most one
// level-up is applied per call.
func GainExperience(p *types.Player, amount int, r types.Rules) []LevelUp {
	if amount <= 0 {
		return nil
	}
	p.Experience += amount

	var ups []LevelUp
	for p.NextLevel > 0 && p.Experience >= p.NextLevel {
		ups = append(ups, levelUp(p, r))
		if r.SingleLevelUp {
			break
		}
	}
	return ups
}

func levelUp(p *types.Player, r types.Rules) LevelUp {
	p.Level++
	p.Experience -= p.NextLevel
	p.NextLevel = NextThreshold(p.NextLevel, r.ThresholdGrowth)
	p.MaxHealth += r.HealthPerLevel
	p.Health = p.MaxHealth
	p.Attack += r.AttackPerLevel
	p.Defense += r.DefensePerLevel
	return LevelUp{
		Level:     p.Level,
		MaxHealth: p.MaxHealth,
		Attack:    p.Attack,
		Defense:   p.Defense,
		NextLevel: p.NextLevel,
	}
}

// NextThreshold grows a threshold by the growth factor, truncating.
// The result is never below 1.
func NextThreshold(current int, growth float64) int {
	next := int(float64(current) * growth)
	if next < 1 {
		return 1
	}
	return next
}

// RecordDefeat advances every incomplete quest that targets enemyName.
// A quest's gold reward is paid on the update that completes it.
func RecordDefeat(p *types.Player, quests []types.QuestDef, enemyName string) []QuestUpdate {
	if p.Quests == nil {
		p.Quests = map[string]types.QuestState{}
	}

	var updates []QuestUpdate
	for _, q := range quests {
		if !strings.EqualFold(q.Target, enemyName) {
			continue
		}
		qs := p.Quests[q.ID]
		if qs.Completed {
			continue
		}
		qs.Progress++
		u := QuestUpdate{Quest: q, Progress: qs.Progress}
		if qs.Progress >= q.Count {
			qs.Completed = true
			p.Gold += q.Reward
			u.Completed = true
			u.Reward = q.Reward
		}
		p.Quests[q.ID] = qs
		updates = append(updates, u)
	}
	return updates
}

package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/wayfarer/engine/save"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// testDefs builds a small world: a safe square with a market to the east
// and a forest full of wolves to the north.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Version: "1.0",
			Start:   "square",
			Player: types.PlayerDef{
				Name: "Hero", Health: 100, Attack: 10, Defense: 2, Gold: 30,
				Inventory: []string{"potion"},
			},
		},
		Locations: map[string]types.LocationDef{
			"square": {
				ID:          "square",
				Name:        "Town Square",
				Description: "A bustling square.",
				Exits:       map[string]string{"north": "forest", "east": "market"},
				Enemies:     []string{"rat"},
				Safe:        true,
			},
			"market": {
				ID:          "market",
				Name:        "Market",
				Description: "Stalls line the street.",
				Exits:       map[string]string{"west": "square"},
				Shop:        []string{"potion", "sword", "armor"},
				Safe:        true,
			},
			"forest": {
				ID:          "forest",
				Name:        "Forest",
				Description: "Dark and quiet.",
				Exits:       map[string]string{"south": "square", "north": "glade"},
				Enemies:     []string{"wolf"},
			},
			"glade": {
				ID:          "glade",
				Name:        "Glade",
				Description: "A calm clearing.",
				Exits:       map[string]string{"south": "forest"},
			},
		},
		Items: map[string]types.Item{
			"potion": {ID: "potion", Name: "Health Potion", Kind: types.ItemConsumable, Value: 25, Price: 10},
			"sword":  {ID: "sword", Name: "Iron Sword", Kind: types.ItemWeapon, Value: 5, Price: 25},
			"armor":  {ID: "armor", Name: "Leather Armor", Kind: types.ItemArmor, Value: 3, Price: 100},
		},
		Enemies: map[string]types.EnemyDef{
			"wolf": {ID: "wolf", Name: "Wolf", Health: 20, Attack: 6, Defense: 1, Gold: 5, Experience: 20},
			"rat":  {ID: "rat", Name: "Rat", Health: 5, Attack: 3, Defense: 0, Gold: 1, Experience: 5},
		},
		Quests: map[string]types.QuestDef{
			"wolves": {ID: "wolves", Name: "Wolf Hunt", Description: "Thin the pack.", Target: "Wolf", Count: 3, Reward: 40},
		},
	}
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func alwaysEncounter() Option {
	r := DefaultRules()
	r.EncounterChance = 1
	return WithRules(r)
}

func neverEncounter() Option {
	r := DefaultRules()
	r.EncounterChance = 0
	return WithRules(r)
}

func TestNew_InitialState(t *testing.T) {
	e := New(testDefs(), WithSeed(5))

	assert.Equal(t, "square", e.State.Player.Location)
	assert.Equal(t, 1, e.State.Player.Level)
	assert.Equal(t, 100, e.State.Player.NextLevel)
	assert.Equal(t, int64(5), e.State.RNGSeed)
	assert.Equal(t, types.ModeExplore, e.State.Mode)
	assert.Equal(t, types.Outcome(""), e.LastOutcome())
}

func TestStep_GoNorth_MovesPlayer(t *testing.T) {
	e := New(testDefs(), neverEncounter())
	result := e.Step("go north")

	if e.State.Player.Location != "forest" {
		t.Errorf("expected player in 'forest', got %q", e.State.Player.Location)
	}
	if !outputContains(result.Output, "Dark and quiet") {
		t.Errorf("expected location description, got %v", result.Output)
	}
	if e.State.TurnCount != 1 {
		t.Errorf("expected 1 turn, got %d", e.State.TurnCount)
	}
	if !hasEvent(result, "moved") {
		t.Error("expected moved event")
	}
}

func TestStep_DirectionShortcuts(t *testing.T) {
	e := New(testDefs(), neverEncounter())

	e.Step("n")
	e.Step("north")
	e.Step("s")
	assert.Equal(t, "forest", e.State.Player.Location)
}

func TestStep_GoInvalidDirection(t *testing.T) {
	e := New(testDefs())
	before := *e.State
	result := e.Step("go west")

	if e.State.Player.Location != "square" {
		t.Errorf("expected player still in 'square', got %q", e.State.Player.Location)
	}
	if !outputContains(result.Output, "can't go that way") {
		t.Errorf("expected 'can't go that way', got %v", result.Output)
	}
	assert.Equal(t, before.TurnCount, e.State.TurnCount)
	assert.Equal(t, int64(0), e.RNG.Position())
}

func TestStep_EmptyInput(t *testing.T) {
	e := New(testDefs())
	result := e.Step("   ")
	assert.True(t, outputContains(result.Output, "What do you want to do?"))
}

func TestStep_UnknownCommand(t *testing.T) {
	e := New(testDefs())
	result := e.Step("dance")
	assert.True(t, outputContains(result.Output, "Invalid command"))
	assert.Equal(t, 0, e.State.TurnCount)
}

func TestEncounter_UnsafeLocationTriggers(t *testing.T) {
	e := New(testDefs(), WithSeed(3), alwaysEncounter())
	result := e.Step("north")

	require.True(t, state.InCombat(e.State))
	assert.Equal(t, "Wolf", e.State.Combat.Enemy.Name)
	assert.True(t, outputContains(result.Output, "A Wolf appears!"))
	assert.True(t, hasEvent(result, "encounter"))
}

func TestEncounter_ChanceZeroNeverTriggers(t *testing.T) {
	e := New(testDefs(), WithSeed(3), neverEncounter())
	for i := 0; i < 20; i++ {
		e.Step("north")
		e.Step("south")
	}
	assert.False(t, state.InCombat(e.State))
}

func TestEncounter_SafeLocationNeverTriggers(t *testing.T) {
	e := New(testDefs(), WithSeed(3), alwaysEncounter())
	e.Step("east")

	assert.Equal(t, "market", e.State.Player.Location)
	assert.False(t, state.InCombat(e.State))
	assert.Equal(t, int64(0), e.RNG.Position(), "safe location should not roll")
}

func TestEncounter_EmptyPoolNeverTriggers(t *testing.T) {
	e := New(testDefs(), WithSeed(3), alwaysEncounter())
	e.State.Player.Location = "forest"
	e.Step("north")

	assert.Equal(t, "glade", e.State.Player.Location)
	assert.False(t, state.InCombat(e.State))
}

func TestEncounter_Rate(t *testing.T) {
	e := New(testDefs(), WithSeed(77))

	const trials = 5000
	hits := 0
	for i := 0; i < trials; i++ {
		e.State.Player.Location = "square"
		e.State.Mode = types.ModeExplore
		e.State.Combat = nil
		e.Step("north")
		if state.InCombat(e.State) {
			hits++
		}
	}
	ratio := float64(hits) / trials
	assert.InDelta(t, 0.4, ratio, 0.03)
}

func TestAttack_NoEnemiesHere(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "glade"
	before := e.State.Player

	result := e.Step("attack")

	assert.True(t, outputContains(result.Output, "There are no enemies here."))
	assert.Equal(t, before.Health, e.State.Player.Health)
	assert.Equal(t, before.Gold, e.State.Player.Gold)
	assert.Equal(t, "glade", e.State.Player.Location)
	assert.Equal(t, 0, e.State.TurnCount)
	assert.False(t, state.InCombat(e.State))
}

func TestAttack_PicksFightFromPool(t *testing.T) {
	e := New(testDefs(), WithSeed(1))
	e.State.Player.Location = "forest"

	result := e.Step("a")

	require.True(t, state.InCombat(e.State))
	assert.Equal(t, 20-9, e.State.Combat.Enemy.Health)
	assert.True(t, outputContains(result.Output, "A Wolf appears!"))
	assert.True(t, outputContains(result.Output, "You strike the Wolf"))
}

func TestFlee_OutsideCombat(t *testing.T) {
	e := New(testDefs())
	result := e.Step("run")
	assert.True(t, outputContains(result.Output, "nothing to run from"))
}

func TestUse_PotionAtFullHealthRefused(t *testing.T) {
	e := New(testDefs())
	result := e.Step("use potion")

	assert.True(t, outputContains(result.Output, "already at full health"))
	assert.Len(t, e.State.Player.Inventory, 1)
	assert.Equal(t, 0, e.State.TurnCount)
}

func TestUse_NoArgumentPrompts(t *testing.T) {
	e := New(testDefs())
	result := e.Step("use")
	assert.True(t, outputContains(result.Output, "Use what? 1) Health Potion"))
}

func TestUse_EquipSwapsWeapon(t *testing.T) {
	e := New(testDefs())
	p := &e.State.Player
	p.Inventory = append(p.Inventory, e.Defs.Items["sword"], types.Item{ID: "axe", Name: "Axe", Kind: types.ItemWeapon, Value: 7})

	e.Step("equip iron sword")
	require.NotNil(t, p.Weapon)
	assert.Equal(t, "sword", p.Weapon.ID)
	assert.Equal(t, 15, state.AttackPower(p))

	result := e.Step("wield axe")
	assert.Equal(t, "axe", p.Weapon.ID)
	assert.True(t, outputContains(result.Output, "You put away the Iron Sword"))
	assert.Equal(t, "sword", p.Inventory[len(p.Inventory)-1].ID)
	assert.Equal(t, 2, e.State.TurnCount)
}

func TestInventoryAndStats(t *testing.T) {
	e := New(testDefs())

	inv := e.Step("inventory")
	assert.True(t, outputContains(inv.Output, "1) Health Potion (heals 25)"))
	assert.True(t, outputContains(inv.Output, "Gold: 30"))

	stats := e.Step("stats")
	assert.True(t, outputContains(stats.Output, "Hero, level 1"))
	assert.True(t, outputContains(stats.Output, "HP: 100/100"))
	assert.True(t, outputContains(stats.Output, "XP: 0/100"))
}

func TestQuests_ShowProgress(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Quests["wolves"] = types.QuestState{Progress: 2}

	result := e.Step("quests")
	assert.True(t, outputContains(result.Output, "Wolf Hunt: Thin the pack. [2/3]"))
}

func TestLook_ShowsExitsAndShop(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"

	result := e.Step("look")
	assert.True(t, outputContains(result.Output, "Market"))
	assert.True(t, outputContains(result.Output, "There is a shop here."))
	assert.True(t, outputContains(result.Output, "Exits: west."))
}

func TestShop_NoShopHere(t *testing.T) {
	e := New(testDefs())

	for _, cmd := range []string{"shop", "buy 1", "sell 1"} {
		result := e.Step(cmd)
		assert.True(t, outputContains(result.Output, "There is no shop here."), cmd)
	}
	assert.Equal(t, types.ModeExplore, e.State.Mode)
}

func TestShop_BuyWithPrompt(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"

	result := e.Step("shop")
	require.Equal(t, types.ModeShop, e.State.Mode)
	assert.True(t, outputContains(result.Output, "1) Health Potion (heals 25), 10 gold"))

	e.Step("b")
	assert.Equal(t, "buy", e.State.Pending)

	result = e.Step("2")
	assert.True(t, outputContains(result.Output, "You bought the Iron Sword for 25 gold"))
	assert.Equal(t, 5, e.State.Player.Gold)
	assert.Equal(t, "", e.State.Pending)
	assert.Len(t, e.State.Player.Inventory, 2)
	assert.Equal(t, 1, e.State.TurnCount)
}

func TestShop_InsufficientGoldUnchanged(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"
	e.Step("shop")

	result := e.Step("buy 3")

	assert.Contains(t, result.Output, "Sorry, not enough gold: Leather Armor costs 100, you have 30.")
	assert.Equal(t, 30, e.State.Player.Gold)
	assert.Len(t, e.State.Player.Inventory, 1)
	assert.Len(t, state.ShopListing(e.Defs, e.Defs.Locations["market"]), 3)
	assert.Equal(t, 0, e.State.TurnCount)
}

func TestShop_InvalidSelectionKeepsPrompt(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"
	e.Step("shop")
	e.Step("b")

	result := e.Step("9")
	assert.Contains(t, result.Output, "Sorry, invalid selection: choose 1-3.")
	assert.Equal(t, "buy", e.State.Pending)
	result = e.Step("b abc")
	assert.Contains(t, result.Output, "Sorry, please enter a number.")
	assert.Equal(t, "buy", e.State.Pending)
	assert.Equal(t, 30, e.State.Player.Gold)

	e.Step("1")
	assert.Equal(t, 20, e.State.Player.Gold)
}

func TestShop_Sell(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"
	e.Step("shop")

	result := e.Step("s")
	assert.True(t, outputContains(result.Output, "1) Health Potion, 5 gold"))

	result = e.Step("1")
	assert.True(t, outputContains(result.Output, "You sold the Health Potion for 5 gold"))
	assert.Equal(t, 35, e.State.Player.Gold)
	assert.Empty(t, e.State.Player.Inventory)

	result = e.Step("sell")
	assert.True(t, outputContains(result.Output, "You have nothing to sell."))
	assert.Equal(t, "", e.State.Pending)
}

func TestShop_LeaveAndBlockedCommands(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"
	e.Step("shop")

	result := e.Step("go west")
	assert.True(t, outputContains(result.Output, "browsing the shop"))
	assert.Equal(t, "market", e.State.Player.Location)

	result = e.Step("l")
	assert.True(t, outputContains(result.Output, "You leave the shop."))
	assert.Equal(t, types.ModeExplore, e.State.Mode)
}

func TestShop_BuyFromExploreEntersShop(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Location = "market"

	e.Step("buy 1")

	assert.Equal(t, types.ModeShop, e.State.Mode)
	assert.Equal(t, 20, e.State.Player.Gold)
}

func TestSelect_WithoutPrompt(t *testing.T) {
	e := New(testDefs())
	result := e.Step("1")
	assert.True(t, outputContains(result.Output, "Nothing is waiting for a number."))
}

func TestRestore_ResumesRandomStream(t *testing.T) {
	defs := testDefs()
	rules := DefaultRules()
	rules.EncounterChance = 0
	rules.DamageRule = types.DamageSpread
	e := New(defs, WithSeed(11), WithRules(rules))
	e.State.Player.Location = "forest"
	e.Step("south")
	e.Step("north")

	data, err := save.Save(e.State, defs)
	require.NoError(t, err)

	next := e.Step("attack")

	other := New(defs, WithSeed(999), WithRules(rules))
	loaded, err := save.Load(data, defs)
	require.NoError(t, err)
	other.Restore(loaded)

	assert.Equal(t, e.State.Player.Location, other.State.Player.Location)
	assert.Equal(t, next.Output, other.Step("attack").Output)
	assert.Equal(t, e.State.RNGPosition, other.State.RNGPosition)
}

func TestStep_RecordsRNGPosition(t *testing.T) {
	e := New(testDefs(), WithSeed(8))
	e.Step("north")
	assert.Equal(t, e.RNG.Position(), e.State.RNGPosition)
	assert.NotZero(t, e.State.RNGPosition)
}

func TestSave_RefusedUntilFightEnds(t *testing.T) {
	defs := testDefs()
	e := New(defs, WithSeed(3), alwaysEncounter())
	e.Step("north")
	require.True(t, state.InCombat(e.State))

	_, err := save.Save(e.State, defs)
	assert.ErrorIs(t, err, save.ErrInCombat)

	for i := 0; i < 50 && state.InCombat(e.State); i++ {
		e.Step("attack")
	}
	require.False(t, state.InCombat(e.State))
	_, err = save.Save(e.State, defs)
	assert.NoError(t, err)
}

package state

import (
	"reflect"
	"testing"

	"github.com/nathoo/wayfarer/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title:   "Test Game",
			Author:  "Test",
			Version: "0.1.0",
			Start:   "square",
			Player: types.PlayerDef{
				Name:      "Tester",
				Health:    50,
				Attack:    8,
				Defense:   3,
				Gold:      20,
				Inventory: []string{"potion", "missing", "potion"},
			},
		},
		Locations: map[string]types.LocationDef{
			"square": {
				ID:    "square",
				Name:  "Town Square",
				Exits: map[string]string{"north": "forest", "east": "market", "down": "cellar"},
				Safe:  true,
			},
			"market": {
				ID:   "market",
				Name: "Market",
				Shop: []string{"sword", "nothing", "potion"},
				Safe: true,
			},
			"forest": {ID: "forest", Name: "Forest", Enemies: []string{"wolf"}},
			"cellar": {ID: "cellar", Name: "Cellar"},
		},
		Items: map[string]types.Item{
			"potion": {ID: "potion", Name: "Health Potion", Kind: types.ItemConsumable, Value: 20, Price: 10},
			"sword":  {ID: "sword", Name: "Iron Sword", Kind: types.ItemWeapon, Value: 5, Price: 50},
			"shield": {ID: "shield", Name: "Wooden Shield", Kind: types.ItemArmor, Value: 2, Price: 30},
		},
		Quests: map[string]types.QuestDef{
			"wolves": {ID: "wolves", Name: "Wolf Hunt", Target: "Wolf", Count: 3, Reward: 50},
			"bats":   {ID: "bats", Name: "Bat Cave", Target: "Bat", Count: 2, Reward: 20},
		},
	}
}

func TestNewState(t *testing.T) {
	s := NewState(testDefs(), 100)
	p := s.Player

	if p.Name != "Tester" {
		t.Errorf("name = %q, want Tester", p.Name)
	}
	if p.Level != 1 || p.Experience != 0 || p.NextLevel != 100 {
		t.Errorf("progression = level %d, xp %d, next %d", p.Level, p.Experience, p.NextLevel)
	}
	if p.Health != 50 || p.MaxHealth != 50 {
		t.Errorf("health = %d/%d, want 50/50", p.Health, p.MaxHealth)
	}
	if p.Location != "square" {
		t.Errorf("location = %q, want square", p.Location)
	}
	if s.Mode != types.ModeExplore {
		t.Errorf("mode = %q, want explore", s.Mode)
	}
	// Unknown item ids are skipped, duplicates kept.
	if len(p.Inventory) != 2 {
		t.Fatalf("inventory length = %d, want 2", len(p.Inventory))
	}
	if p.Quests == nil {
		t.Error("quests map should be initialized")
	}
}

func TestNewState_DefaultName(t *testing.T) {
	defs := testDefs()
	defs.Game.Player.Name = ""
	if got := NewState(defs, 100).Player.Name; got != "Wayfarer" {
		t.Errorf("name = %q, want Wayfarer", got)
	}
}

func TestNewState_InventoryIsCopied(t *testing.T) {
	defs := testDefs()
	s := NewState(defs, 100)
	s.Player.Inventory[0].Name = "Changed"
	if defs.Items["potion"].Name != "Health Potion" {
		t.Error("mutating inventory changed the item definition")
	}
}

func TestRespawnLocation(t *testing.T) {
	defs := testDefs()
	if got := RespawnLocation(defs); got != "square" {
		t.Errorf("respawn without override = %q, want square", got)
	}
	defs.Game.Respawn = "market"
	if got := RespawnLocation(defs); got != "market" {
		t.Errorf("respawn = %q, want market", got)
	}
}

func TestCurrentLocation(t *testing.T) {
	defs := testDefs()
	s := NewState(defs, 100)

	loc, ok := CurrentLocation(s, defs)
	if !ok || loc.ID != "square" {
		t.Errorf("CurrentLocation = %q, %v", loc.ID, ok)
	}

	s.Player.Location = "nowhere"
	if _, ok := CurrentLocation(s, defs); ok {
		t.Error("unknown location should not resolve")
	}
}

func TestDirections_Sorted(t *testing.T) {
	got := Directions(testDefs().Locations["square"])
	want := []string{"down", "east", "north"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Directions = %v, want %v", got, want)
	}
}

func TestShopListing(t *testing.T) {
	defs := testDefs()
	items := ShopListing(defs, defs.Locations["market"])
	if len(items) != 2 {
		t.Fatalf("listing length = %d, want 2 (unknown ids skipped)", len(items))
	}
	if items[0].ID != "sword" || items[1].ID != "potion" {
		t.Errorf("listing order = %s, %s", items[0].ID, items[1].ID)
	}

	items[0].Price = 0
	if defs.Items["sword"].Price != 50 {
		t.Error("listing should hold copies of the item definitions")
	}
}

func TestQuestList_SortedByID(t *testing.T) {
	quests := QuestList(testDefs())
	if len(quests) != 2 {
		t.Fatalf("quest count = %d, want 2", len(quests))
	}
	if quests[0].ID != "bats" || quests[1].ID != "wolves" {
		t.Errorf("quest order = %s, %s", quests[0].ID, quests[1].ID)
	}
}

func TestFindItem(t *testing.T) {
	p := &types.Player{Inventory: []types.Item{
		{ID: "potion", Name: "Health Potion"},
		{ID: "sword", Name: "Iron Sword"},
	}}

	tests := []struct {
		ref  string
		want int
	}{
		{"1", 0},
		{"2", 1},
		{"3", -1},
		{"0", -1},
		{"-1", -1},
		{"health potion", 0},
		{"IRON SWORD", 1},
		{"sword", 1},
		{"  potion  ", 0},
		{"axe", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := FindItem(p, tt.ref); got != tt.want {
			t.Errorf("FindItem(%q) = %d, want %d", tt.ref, got, tt.want)
		}
	}
}

func TestRemoveItem_PreservesOrder(t *testing.T) {
	p := &types.Player{Inventory: []types.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	full := p.Inventory

	removed := RemoveItem(p, 1)
	if removed.ID != "b" {
		t.Errorf("removed %q, want b", removed.ID)
	}
	if len(p.Inventory) != 2 || p.Inventory[0].ID != "a" || p.Inventory[1].ID != "c" {
		t.Errorf("inventory = %v", p.Inventory)
	}
	if full[1].ID != "b" {
		t.Error("RemoveItem should not overwrite the original backing array")
	}
}

func TestPowerIncludesEquipment(t *testing.T) {
	p := &types.Player{Attack: 8, Defense: 3}
	if AttackPower(p) != 8 || DefensePower(p) != 3 {
		t.Errorf("unequipped power = %d/%d", AttackPower(p), DefensePower(p))
	}

	p.Weapon = &types.Item{Kind: types.ItemWeapon, Value: 5}
	p.Armor = &types.Item{Kind: types.ItemArmor, Value: 2}
	if AttackPower(p) != 13 || DefensePower(p) != 5 {
		t.Errorf("equipped power = %d/%d, want 13/5", AttackPower(p), DefensePower(p))
	}
}

func TestInCombat(t *testing.T) {
	s := NewState(testDefs(), 100)
	if InCombat(s) {
		t.Error("fresh state should not be in combat")
	}
	s.Mode = types.ModeCombat
	if InCombat(s) {
		t.Error("combat mode without an enemy is not a fight")
	}
	s.Combat = &types.CombatState{Outcome: types.OutcomeOngoing}
	if !InCombat(s) {
		t.Error("expected InCombat")
	}
}

package worlds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/loader"
	"github.com/nathoo/wayfarer/types"
)

func TestDefault_Loads(t *testing.T) {
	defs, err := loader.LoadFS(Default(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "Wayfarer", defs.Game.Title)
	assert.Equal(t, "town_square", defs.Game.Start)
	assert.Equal(t, "town_square", state.RespawnLocation(defs))
}

func TestDefault_TownIsSafe(t *testing.T) {
	defs, err := loader.LoadFS(Default(), nil)
	require.NoError(t, err)

	for _, id := range []string{"town_square", "market", "tavern"} {
		loc, ok := defs.Locations[id]
		require.True(t, ok, id)
		assert.True(t, loc.Safe, id)
		assert.Empty(t, loc.Enemies, id)
	}
	assert.Equal(t, "Cliche Town Square", defs.Locations["town_square"].Name)
	assert.Equal(t, "market", defs.Locations["town_square"].Exits["north"])
	assert.Equal(t, "tavern", defs.Locations["town_square"].Exits["east"])
}

func TestDefault_ShopsAndItems(t *testing.T) {
	defs, err := loader.LoadFS(Default(), nil)
	require.NoError(t, err)

	listing := state.ShopListing(defs, defs.Locations["market"])
	require.NotEmpty(t, listing)
	assert.Equal(t, "Health Potion", listing[0].Name)

	assert.Equal(t, types.ItemWeapon, defs.Items["iron_sword"].Kind)
	assert.Equal(t, types.ItemArmor, defs.Items["chain_mail"].Kind)
	assert.Equal(t, types.ItemConsumable, defs.Items["ale"].Kind)
}

func TestDefault_EveryQuestIsWinnable(t *testing.T) {
	defs, err := loader.LoadFS(Default(), nil)
	require.NoError(t, err)

	pooled := map[string]bool{}
	for _, loc := range defs.Locations {
		for _, id := range loc.Enemies {
			pooled[defs.Enemies[id].Name] = true
		}
	}
	for _, q := range state.QuestList(defs) {
		assert.True(t, pooled[q.Target], "quest %s targets %s, which never spawns", q.ID, q.Target)
	}
}

package room

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameRoom(id int) Room {
	return Room{ID: id, Name: "game", IsGame: true, MaxUsers: 2, MaxSpectators: 10}
}

func TestRegistry_UpsertIsIdempotent(t *testing.T) {
	g := NewRegistry()
	r := gameRoom(1)
	r.UserCount = 1

	g.Upsert(r)
	once := g.List()
	g.Upsert(r)

	assert.Equal(t, once, g.List())
	assert.Equal(t, 1, g.Len())
}

func TestRegistry_RemoveTwiceIsNoop(t *testing.T) {
	g := NewRegistry()
	g.Upsert(gameRoom(7))

	assert.True(t, g.Remove(7))
	assert.False(t, g.Remove(7))
	_, ok := g.Get(7)
	assert.False(t, ok)
}

func TestRegistry_GetUnknownReturnsAbsent(t *testing.T) {
	_, ok := NewRegistry().Get(42)
	assert.False(t, ok)
}

func TestRegistry_SetOccupancy(t *testing.T) {
	cases := []struct {
		name        string
		users       int
		specs       int
		wantUsers   int
		wantSpecs   int
		wantClamped bool
	}{
		{name: "in range", users: 2, specs: 0, wantUsers: 2, wantSpecs: 0},
		{name: "negative users", users: -1, specs: 3, wantUsers: 0, wantSpecs: 3, wantClamped: true},
		{name: "over capacity", users: 5, specs: 11, wantUsers: 2, wantSpecs: 10, wantClamped: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewRegistry()
			g.Upsert(gameRoom(1))

			r, found, clamped := g.SetOccupancy(1, tc.users, tc.specs)
			require.True(t, found)
			assert.Equal(t, tc.wantClamped, clamped)
			assert.Equal(t, tc.wantUsers, r.UserCount)
			assert.Equal(t, tc.wantSpecs, r.SpectatorCount)

			stored, _ := g.Get(1)
			assert.Equal(t, r, stored)
		})
	}
}

func TestRegistry_SetOccupancyUnknownRoom(t *testing.T) {
	g := NewRegistry()
	_, found, _ := g.SetOccupancy(3, 1, 1)
	assert.False(t, found)
	assert.Zero(t, g.Len())
}

func TestRegistry_FilterVisible(t *testing.T) {
	hidden := gameRoom(2)
	hidden.IsHidden = true
	locked := gameRoom(3)
	locked.IsPasswordProtected = true
	lobby := gameRoom(4)
	lobby.IsGame = false

	g := NewRegistry()
	for _, r := range []Room{gameRoom(5), hidden, locked, lobby, gameRoom(1)} {
		g.Upsert(r)
	}

	// occupancy never changes visibility
	for _, id := range []int{2, 3, 4} {
		g.SetOccupancy(id, 2, 10)
	}

	visible := g.FilterVisible()
	require.Len(t, visible, 2)
	assert.Equal(t, 1, visible[0].ID)
	assert.Equal(t, 5, visible[1].ID)
}

func TestRoom_SlotsAndHints(t *testing.T) {
	r := gameRoom(1)
	r.UserCount = 1
	assert.Equal(t, 1, r.PlayerSlotsFree())
	assert.Equal(t, 10, r.SpectatorSlotsFree())
	assert.True(t, r.CanPlay())
	assert.Equal(t, "Player slots: 1  -  Spectator slots: 10", r.Details())

	r.UserCount = 2
	r.SpectatorCount = 10
	assert.False(t, r.CanPlay())
	assert.False(t, r.CanWatch())
}

func TestRegistry_ListOrdersExtremeIDs(t *testing.T) {
	g := NewRegistry()
	for _, id := range []int{math.MaxInt, -1, 5, math.MinInt + 1} {
		g.Upsert(gameRoom(id))
	}

	var ids []int
	for _, r := range g.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{math.MinInt + 1, -1, 5, math.MaxInt}, ids)
}

package room

import (
	"cmp"
	"maps"
	"slices"
)

// Registry maps room id to Room. A room missing from the registry does not exist
// as far as the rest of the client is concerned.
//
// Registry is not safe for concurrent use; it is owned by the pump goroutine.
type Registry struct {
	rooms map[int]Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[int]Room)}
}

// Upsert inserts or replaces the room stored at r.ID.
func (g *Registry) Upsert(r Room) {
	g.rooms[r.ID] = r
}

// Remove deletes id and reports whether it was present. Removing an unknown id is a no-op.
func (g *Registry) Remove(id int) bool {
	if _, ok := g.rooms[id]; !ok {
		return false
	}
	delete(g.rooms, id)
	return true
}

func (g *Registry) Get(id int) (Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// SetOccupancy overwrites the counts of a known room, clamped to its capacity.
// found is false when id is unknown; clamped is true when the counts had to be corrected.
func (g *Registry) SetOccupancy(id, users, spectators int) (r Room, found, clamped bool) {
	r, found = g.rooms[id]
	if !found {
		return Room{}, false, false
	}
	r.UserCount = users
	r.SpectatorCount = spectators
	r, clamped = r.Clamp()
	g.rooms[id] = r
	return r, true, clamped
}

func (g *Registry) Len() int { return len(g.rooms) }

// List returns a snapshot sorted by id. Callers must not rely on it matching server order.
func (g *Registry) List() []Room {
	return slices.SortedFunc(maps.Values(g.rooms), byID)
}

func (g *Registry) FilterVisible() []Room {
	out := make([]Room, 0, len(g.rooms))
	for _, r := range g.List() {
		if Visible(r) {
			out = append(out, r)
		}
	}
	return out
}

func byID(a, b Room) int { return cmp.Compare(a.ID, b.ID) }

package room

import "fmt"

// Room is the local mirror of one authority-owned game room.
// Only the reconciler mutates UserCount and SpectatorCount.
type Room struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	GroupID             string `json:"group_id,omitempty"`
	IsGame              bool   `json:"is_game"`
	IsHidden            bool   `json:"is_hidden"`
	IsPasswordProtected bool   `json:"is_password_protected"`
	MaxUsers            int    `json:"max_users"`
	MaxSpectators       int    `json:"max_spectators"`
	UserCount           int    `json:"user_count"`
	SpectatorCount      int    `json:"spectator_count"`
}

func (r Room) PlayerSlotsFree() int    { return r.MaxUsers - r.UserCount }
func (r Room) SpectatorSlotsFree() int { return r.MaxSpectators - r.SpectatorCount }

// CanPlay and CanWatch are display hints only. The authority has the last word on capacity.
func (r Room) CanPlay() bool  { return r.PlayerSlotsFree() >= 1 }
func (r Room) CanWatch() bool { return r.SpectatorSlotsFree() >= 1 }

func (r Room) Details() string {
	return fmt.Sprintf("Player slots: %d  -  Spectator slots: %d", r.PlayerSlotsFree(), r.SpectatorSlotsFree())
}

// Visible is the games list predicate. Password protected rooms are skipped since
// joining them would need a password prompt.
func Visible(r Room) bool {
	return r.IsGame && !r.IsHidden && !r.IsPasswordProtected
}

// Clamp forces both occupancy counts into [0, capacity] and reports whether anything changed.
func (r Room) Clamp() (Room, bool) {
	users := clamp(r.UserCount, r.MaxUsers)
	specs := clamp(r.SpectatorCount, r.MaxSpectators)
	changed := users != r.UserCount || specs != r.SpectatorCount
	r.UserCount = users
	r.SpectatorCount = specs
	return r, changed
}

func clamp(v, hi int) int {
	if hi < 0 {
		hi = 0
	}
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

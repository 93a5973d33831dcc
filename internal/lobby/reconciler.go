package lobby

import (
	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/types"
	"go.uber.org/zap"
)

// Reconciler folds authority notifications into the room registry, in arrival order, and
// returns the events the UI should see. It never blocks and never fails: notifications that
// reference unknown rooms are races with local cleanup, not faults.
type Reconciler struct {
	rooms *room.Registry
	log   *zap.Logger
}

func NewReconciler(rooms *room.Registry, log *zap.Logger) *Reconciler {
	return &Reconciler{rooms: rooms, log: log}
}

func (r *Reconciler) Apply(n types.Notification) []Event {
	switch v := n.(type) {
	case types.RoomListSnapshot:
		return r.applySnapshot(v.Rooms)

	case types.RoomAdded:
		return r.addRoom(v.Room)

	case types.RoomRemoved:
		if !r.rooms.Remove(v.RoomID) {
			r.log.Debug("remove for unknown room", zap.Int("room_id", v.RoomID))
			return nil
		}
		return []Event{RoomRemovedUI{RoomID: v.RoomID}}

	case types.OccupancyChanged:
		updated, found, clamped := r.rooms.SetOccupancy(v.RoomID, v.UserCount, v.SpectatorCount)
		if !found {
			r.log.Debug("occupancy for unknown room", zap.Int("room_id", v.RoomID))
			return nil
		}
		events := []Event{RoomUpdatedUI{RoomID: v.RoomID, Room: updated}}
		if clamped {
			events = append(events, r.clampedEvent(v.RoomID, v.UserCount, v.SpectatorCount, updated))
		}
		return events

	case types.RoomCreationFailed:
		return []Event{RoomCreationFailedUI{Reason: v.Reason}}

	case types.RoomJoinSucceeded:
		return []Event{RoomJoinedUI{RoomID: v.RoomID, RoomName: v.RoomName, IsPlayer: v.IsPlayer}}

	case types.RoomJoinFailed:
		return []Event{RoomJoinFailedUI{Reason: v.Reason}}

	case types.UserEnteredRoom:
		return []Event{UserEnteredUI{User: v.User, IsPlayer: v.IsPlayer}}

	case types.UserLeftRoom:
		if v.IsSelf {
			return nil
		}
		return []Event{UserLeftUI{User: v.User}}

	default:
		// chat and connection notifications do not touch rooms
		return nil
	}
}

// addRoom applies the visibility gate. A duplicate add for a known room keeps the counts
// already reconciled, since those in the add are only as fresh as the room's creation.
// Any other change it carries is reported as an update.
func (r *Reconciler) addRoom(in room.Room) []Event {
	if !room.Visible(in) {
		return nil
	}
	existing, known := r.rooms.Get(in.ID)
	if known {
		in.UserCount = existing.UserCount
		in.SpectatorCount = existing.SpectatorCount
	}
	stored, clamped := in.Clamp()
	r.rooms.Upsert(stored)

	var events []Event
	switch {
	case !known:
		events = append(events, RoomAddedUI{Room: stored})
	case stored != existing:
		events = append(events, RoomUpdatedUI{RoomID: stored.ID, Room: stored})
	}
	if clamped {
		events = append(events, r.clampedEvent(in.ID, in.UserCount, in.SpectatorCount, stored))
	}
	return events
}

// applySnapshot makes the registry match a full list: visible rooms are added, known rooms
// missing from the list are removed.
func (r *Reconciler) applySnapshot(list []room.Room) []Event {
	seen := make(map[int]bool, len(list))
	var events []Event
	for _, rm := range list {
		if !room.Visible(rm) {
			continue
		}
		seen[rm.ID] = true
		if existing, known := r.rooms.Get(rm.ID); known {
			updated, _, clamped := r.rooms.SetOccupancy(rm.ID, rm.UserCount, rm.SpectatorCount)
			if updated != existing {
				events = append(events, RoomUpdatedUI{RoomID: rm.ID, Room: updated})
			}
			if clamped {
				events = append(events, r.clampedEvent(rm.ID, rm.UserCount, rm.SpectatorCount, updated))
			}
			continue
		}
		events = append(events, r.addRoom(rm)...)
	}
	for _, known := range r.rooms.List() {
		if !seen[known.ID] {
			r.rooms.Remove(known.ID)
			events = append(events, RoomRemovedUI{RoomID: known.ID})
		}
	}
	return events
}

func (r *Reconciler) clampedEvent(id, users, spectators int, stored room.Room) Event {
	r.log.Warn("occupancy out of range, clamped",
		zap.Int("room_id", id),
		zap.Int("user_count", users),
		zap.Int("spectator_count", spectators),
		zap.Int("max_users", stored.MaxUsers),
		zap.Int("max_spectators", stored.MaxSpectators),
	)
	return OccupancyClampedUI{RoomID: id, ReportedUsers: users, ReportedSpectators: spectators, Room: stored}
}

// Replay folds ns into a fresh registry. Two replays of the same sequence always agree.
func Replay(ns []types.Notification) *room.Registry {
	rooms := room.NewRegistry()
	rc := NewReconciler(rooms, zap.NewNop())
	for _, n := range ns {
		rc.Apply(n)
	}
	return rooms
}

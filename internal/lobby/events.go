package lobby

import (
	"github.com/DoyleJ11/lobby-sync/internal/chat"
	"github.com/DoyleJ11/lobby-sync/internal/room"
)

// Event is the closed set of things the client reports to whatever renders it.
type Event interface{ isEvent() }

type RoomAddedUI struct {
	Room room.Room
}

type RoomRemovedUI struct {
	RoomID int
}

type RoomUpdatedUI struct {
	RoomID int
	Room   room.Room
}

type RoomCreationFailedUI struct {
	Reason string
}

type RoomJoinedUI struct {
	RoomID   int
	RoomName string
	IsPlayer bool
}

type RoomJoinFailedUI struct {
	Reason string
}

type UserEnteredUI struct {
	User     string
	IsPlayer bool
}

type UserLeftUI struct {
	User string
}

type ChatAppendedUI struct {
	Entry chat.Entry
}

// SuggestLeaveUI asks the user whether to give up waiting for a second player.
type SuggestLeaveUI struct {
	RoomID int
}

// OccupancyClampedUI reports counts from the authority that were outside the room's capacity.
type OccupancyClampedUI struct {
	RoomID             int
	ReportedUsers      int
	ReportedSpectators int
	Room               room.Room
}

type DisconnectedUI struct {
	Reason string
}

func (RoomAddedUI) isEvent()          {}
func (RoomRemovedUI) isEvent()        {}
func (RoomUpdatedUI) isEvent()        {}
func (RoomCreationFailedUI) isEvent() {}
func (RoomJoinedUI) isEvent()         {}
func (RoomJoinFailedUI) isEvent()     {}
func (UserEnteredUI) isEvent()        {}
func (UserLeftUI) isEvent()           {}
func (ChatAppendedUI) isEvent()       {}
func (SuggestLeaveUI) isEvent()       {}
func (OccupancyClampedUI) isEvent()   {}
func (DisconnectedUI) isEvent()       {}

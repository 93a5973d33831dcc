package types

import "github.com/DoyleJ11/lobby-sync/internal/room"

// Notification is the closed set of messages the authority pushes to the client.
type Notification interface{ isNotification() }

// RoomListSnapshot is the full room list delivered once after connecting.
type RoomListSnapshot struct {
	Rooms []room.Room
}

// RoomAdded carries the room as created. Its counts go stale immediately;
// later changes only arrive as OccupancyChanged.
type RoomAdded struct {
	Room room.Room
}

type RoomRemoved struct {
	RoomID int
}

type OccupancyChanged struct {
	RoomID         int
	UserCount      int
	SpectatorCount int
}

type RoomCreationFailed struct {
	Reason string
}

type RoomJoinSucceeded struct {
	RoomID      int
	RoomName    string
	IsPlayer    bool
	PlayerCount int // players in the room including the local user
}

type RoomJoinFailed struct {
	Reason string
}

type UserEnteredRoom struct {
	User     string
	RoomID   int
	IsPlayer bool
}

type UserLeftRoom struct {
	User   string
	RoomID int
	IsSelf bool
}

type PublicMessage struct {
	Sender string
	IsSelf bool
	Text   string
}

// ConnectionLost is raised locally by a transport when the link to the authority drops.
type ConnectionLost struct {
	Reason string
}

func (RoomListSnapshot) isNotification()   {}
func (RoomAdded) isNotification()          {}
func (RoomRemoved) isNotification()        {}
func (OccupancyChanged) isNotification()   {}
func (RoomCreationFailed) isNotification() {}
func (RoomJoinSucceeded) isNotification()  {}
func (RoomJoinFailed) isNotification()     {}
func (UserEnteredRoom) isNotification()    {}
func (UserLeftRoom) isNotification()       {}
func (PublicMessage) isNotification()      {}
func (ConnectionLost) isNotification()     {}

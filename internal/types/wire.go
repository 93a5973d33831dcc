package types

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lobby-sync/internal/room"
)

var ErrUnknownMessage = errors.New("unknown message type")
var ErrMalformed = errors.New("malformed message")

// Client -> Server message types
const (
	MsgCreateRoom = "CreateRoom"
	MsgJoinRoom   = "JoinRoom"
	MsgLeaveRoom  = "LeaveRoom"
	MsgPublicMsg  = "PublicMessage"
)

// Server -> Client message types
const (
	MsgRoomList          = "RoomList"
	MsgRoomAdded         = "RoomAdded"
	MsgRoomRemoved       = "RoomRemoved"
	MsgUserCountChange   = "UserCountChange"
	MsgRoomCreationError = "RoomCreationError"
	MsgRoomJoin          = "RoomJoin"
	MsgRoomJoinError     = "RoomJoinError"
	MsgUserEnterRoom     = "UserEnterRoom"
	MsgUserExitRoom      = "UserExitRoom"
	MsgPublicMessage     = "PublicMessage"
)

type ClientMessage struct {
	Type          string `json:"type"`
	Name          string `json:"name,omitempty"`
	GroupID       string `json:"group_id,omitempty"`
	IsGame        bool   `json:"is_game,omitempty"`
	MaxUsers      int    `json:"max_users,omitempty"`
	MaxSpectators int    `json:"max_spectators,omitempty"`
	RoomID        int    `json:"room_id,omitempty"`
	AsSpectator   bool   `json:"as_spectator,omitempty"`
	Text          string `json:"text,omitempty"`
}

type ServerMessage struct {
	Type           string      `json:"type"`
	Room           *room.Room  `json:"room,omitempty"`
	Rooms          []room.Room `json:"rooms,omitempty"`
	RoomID         int         `json:"room_id"`
	RoomName       string      `json:"room_name,omitempty"`
	UserCount      int         `json:"user_count"`
	SpectatorCount int         `json:"spectator_count"`
	PlayerCount    int         `json:"player_count,omitempty"`
	User           string      `json:"user,omitempty"`
	IsPlayer       bool        `json:"is_player,omitempty"`
	IsSelf         bool        `json:"is_self,omitempty"`
	Text           string      `json:"text,omitempty"`
	Error          string      `json:"error,omitempty"`
}

func EncodeRequest(req Request) (ClientMessage, error) {
	switch r := req.(type) {
	case CreateRoom:
		return ClientMessage{
			Type:          MsgCreateRoom,
			Name:          r.Name,
			GroupID:       r.GroupID,
			IsGame:        r.IsGame,
			MaxUsers:      r.MaxUsers,
			MaxSpectators: r.MaxSpectators,
		}, nil
	case JoinRoom:
		return ClientMessage{Type: MsgJoinRoom, RoomID: r.RoomID, AsSpectator: r.AsSpectator}, nil
	case LeaveRoom:
		return ClientMessage{Type: MsgLeaveRoom}, nil
	case SendPublicMessage:
		return ClientMessage{Type: MsgPublicMsg, Text: r.Text}, nil
	default:
		return ClientMessage{}, fmt.Errorf("encode %T: %w", req, ErrUnknownMessage)
	}
}

func DecodeRequest(m ClientMessage) (Request, error) {
	switch m.Type {
	case MsgCreateRoom:
		return CreateRoom{
			Name:          m.Name,
			GroupID:       m.GroupID,
			IsGame:        m.IsGame,
			MaxUsers:      m.MaxUsers,
			MaxSpectators: m.MaxSpectators,
		}, nil
	case MsgJoinRoom:
		return JoinRoom{RoomID: m.RoomID, AsSpectator: m.AsSpectator}, nil
	case MsgLeaveRoom:
		return LeaveRoom{}, nil
	case MsgPublicMsg:
		return SendPublicMessage{Text: m.Text}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", m.Type, ErrUnknownMessage)
	}
}

// EncodeNotification is used by the authority. ConnectionLost never goes over the wire.
func EncodeNotification(n Notification) (ServerMessage, error) {
	switch v := n.(type) {
	case RoomListSnapshot:
		return ServerMessage{Type: MsgRoomList, Rooms: v.Rooms}, nil
	case RoomAdded:
		r := v.Room
		return ServerMessage{Type: MsgRoomAdded, Room: &r, RoomID: r.ID}, nil
	case RoomRemoved:
		return ServerMessage{Type: MsgRoomRemoved, RoomID: v.RoomID}, nil
	case OccupancyChanged:
		return ServerMessage{
			Type:           MsgUserCountChange,
			RoomID:         v.RoomID,
			UserCount:      v.UserCount,
			SpectatorCount: v.SpectatorCount,
		}, nil
	case RoomCreationFailed:
		return ServerMessage{Type: MsgRoomCreationError, Error: v.Reason}, nil
	case RoomJoinSucceeded:
		return ServerMessage{
			Type:        MsgRoomJoin,
			RoomID:      v.RoomID,
			RoomName:    v.RoomName,
			IsPlayer:    v.IsPlayer,
			PlayerCount: v.PlayerCount,
		}, nil
	case RoomJoinFailed:
		return ServerMessage{Type: MsgRoomJoinError, Error: v.Reason}, nil
	case UserEnteredRoom:
		return ServerMessage{Type: MsgUserEnterRoom, User: v.User, RoomID: v.RoomID, IsPlayer: v.IsPlayer}, nil
	case UserLeftRoom:
		return ServerMessage{Type: MsgUserExitRoom, User: v.User, RoomID: v.RoomID, IsSelf: v.IsSelf}, nil
	case PublicMessage:
		return ServerMessage{Type: MsgPublicMessage, User: v.Sender, IsSelf: v.IsSelf, Text: v.Text}, nil
	default:
		return ServerMessage{}, fmt.Errorf("encode %T: %w", n, ErrUnknownMessage)
	}
}

func DecodeNotification(m ServerMessage) (Notification, error) {
	switch m.Type {
	case MsgRoomList:
		return RoomListSnapshot{Rooms: m.Rooms}, nil
	case MsgRoomAdded:
		if m.Room == nil {
			return nil, fmt.Errorf("%s without room: %w", m.Type, ErrMalformed)
		}
		return RoomAdded{Room: *m.Room}, nil
	case MsgRoomRemoved:
		return RoomRemoved{RoomID: m.RoomID}, nil
	case MsgUserCountChange:
		return OccupancyChanged{RoomID: m.RoomID, UserCount: m.UserCount, SpectatorCount: m.SpectatorCount}, nil
	case MsgRoomCreationError:
		return RoomCreationFailed{Reason: m.Error}, nil
	case MsgRoomJoin:
		return RoomJoinSucceeded{RoomID: m.RoomID, RoomName: m.RoomName, IsPlayer: m.IsPlayer, PlayerCount: m.PlayerCount}, nil
	case MsgRoomJoinError:
		return RoomJoinFailed{Reason: m.Error}, nil
	case MsgUserEnterRoom:
		if m.User == "" {
			return nil, fmt.Errorf("%s without user: %w", m.Type, ErrMalformed)
		}
		return UserEnteredRoom{User: m.User, RoomID: m.RoomID, IsPlayer: m.IsPlayer}, nil
	case MsgUserExitRoom:
		if m.User == "" {
			return nil, fmt.Errorf("%s without user: %w", m.Type, ErrMalformed)
		}
		return UserLeftRoom{User: m.User, RoomID: m.RoomID, IsSelf: m.IsSelf}, nil
	case MsgPublicMessage:
		return PublicMessage{Sender: m.User, IsSelf: m.IsSelf, Text: m.Text}, nil
	default:
		return nil, fmt.Errorf("decode %q: %w", m.Type, ErrUnknownMessage)
	}
}

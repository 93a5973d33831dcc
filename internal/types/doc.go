// Package types holds the messages exchanged with the authority and their JSON wire form.
//
// Client -> Server (ClientMessage)
// CreateRoom:
//   name: string
//   group_id: string
//   is_game: boolean
//   max_users: number
//   max_spectators: number
//
// JoinRoom:
//   room_id: number
//   as_spectator: boolean
//
// LeaveRoom: {}
//
// PublicMessage:
//   text: string
//
// Server -> Client (ServerMessage)
// RoomList:
//   rooms: Room[]
//
// RoomAdded:
//   room: Room
//
// RoomRemoved:
//   room_id: number
//
// UserCountChange:
//   room_id: number
//   user_count: number
//   spectator_count: number
//
// RoomCreationError / RoomJoinError:
//   error: string
//
// RoomJoin:
//   room_id: number
//   room_name: string
//   is_player: boolean
//   player_count: number // players in the room including the joiner
//
// UserEnterRoom:
//   user: string
//   room_id: number
//   is_player: boolean
//
// UserExitRoom:
//   user: string
//   room_id: number
//   is_self: boolean
//
// PublicMessage:
//   user: string // sender
//   is_self: boolean
//   text: string
//
// Room: id|name|group_id|is_game|is_hidden|is_password_protected|max_users|max_spectators|
// user_count|spectator_count
package types

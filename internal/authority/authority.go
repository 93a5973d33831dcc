package authority

import (
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Failure reasons sent back verbatim to clients.
const (
	ReasonNameRequired  = "room name is required"
	ReasonNameInUse     = "room name already in use"
	ReasonBadCapacity   = "invalid room capacity"
	ReasonRoomNotFound  = "room not found"
	ReasonRoomFull      = "room is full"
	ReasonAlreadyInRoom = "already in this room"
)

const (
	recordTimeout = 2 * time.Second
	inboxSize     = 64
)

// Audit event kinds.
const (
	KindCreated = "created"
	KindJoined  = "joined"
	KindLeft    = "left"
	KindRemoved = "removed"
)

type Msg interface{ isAuthorityMsg() }

type Connect struct {
	ClientID string
	User     string
	Outbox   chan types.ServerMessage // closed by the authority when the client is gone
}

type Disconnect struct{ ClientID string }

type FromClient struct {
	ClientID string
	Req      types.Request
}

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (Connect) isAuthorityMsg()    {}
func (Disconnect) isAuthorityMsg() {}
func (FromClient) isAuthorityMsg() {}
func (GetState) isAuthorityMsg()   {}
func (Shutdown) isAuthorityMsg()   {}

type View struct {
	Rooms      []room.Room
	NumClients int
}

// Recorder persists room lifecycle events. Failures are logged, never fatal.
type Recorder interface {
	RecordRoomEvent(ctx context.Context, roomID int, kind, user, detail string) error
}

type client struct {
	id        string
	user      string
	outbox    chan types.ServerMessage
	roomID    int
	spectator bool
}

type roomState struct {
	room       room.Room
	key        string
	players    map[string]bool
	spectators map[string]bool
}

func (rs *roomState) occupants() []string {
	ids := slices.Collect(maps.Keys(rs.players))
	ids = append(ids, slices.Collect(maps.Keys(rs.spectators))...)
	slices.Sort(ids)
	return ids
}

func (rs *roomState) syncCounts() {
	rs.room.UserCount = len(rs.players)
	rs.room.SpectatorCount = len(rs.spectators)
}

// Authority owns every room and every connected client. All state lives on one goroutine;
// the outside world talks to it through Inbox.
type Authority struct {
	inbox   chan Msg
	rooms   map[int]*roomState
	nextID  int
	clients map[string]*client
	slow    []string
	fold    cases.Caser
	rec     Recorder
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New starts the authority. rec may be nil.
func New(parent context.Context, rec Recorder, log *zap.Logger) *Authority {
	ctx, cancel := context.WithCancel(parent)

	a := &Authority{
		inbox:   make(chan Msg, inboxSize),
		rooms:   make(map[int]*roomState),
		clients: make(map[string]*client),
		fold:    cases.Fold(),
		rec:     rec,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go a.loop()
	return a
}

func (a *Authority) Inbox() chan<- Msg { return a.inbox }

// Done is closed once the authority has shut down.
func (a *Authority) Done() <-chan struct{} { return a.done }

func (a *Authority) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.ctx.Done():
			a.shutdown()
			return

		case m := <-a.inbox:
			switch msg := m.(type) {
			case Connect:
				c := &client{id: msg.ClientID, user: msg.User, outbox: msg.Outbox}
				a.clients[c.id] = c
				a.send(c, types.RoomListSnapshot{Rooms: a.roomList()})
				a.log.Info("client connected", zap.String("client", c.id), zap.String("user", c.user))

			case Disconnect:
				a.drop(msg.ClientID)

			case FromClient:
				c := a.clients[msg.ClientID]
				if c == nil {
					break
				}
				a.handle(c, msg.Req)

			case GetState:
				msg.Reply <- View{Rooms: a.roomList(), NumClients: len(a.clients)}

			case Shutdown:
				a.shutdown()
				return
			}
			a.reapSlow()
		}
	}
}

func (a *Authority) handle(c *client, req types.Request) {
	switch r := req.(type) {
	case types.CreateRoom:
		a.createRoom(c, r)
	case types.JoinRoom:
		a.join(c, r.RoomID, r.AsSpectator)
	case types.LeaveRoom:
		a.leave(c)
	case types.SendPublicMessage:
		rs := a.rooms[c.roomID]
		if rs == nil {
			a.log.Debug("public message outside a room", zap.String("user", c.user))
			return
		}
		for _, id := range rs.occupants() {
			if to := a.clients[id]; to != nil {
				a.send(to, types.PublicMessage{Sender: c.user, IsSelf: to.id == c.id, Text: r.Text})
			}
		}
	}
}

func (a *Authority) createRoom(c *client, r types.CreateRoom) {
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		a.send(c, types.RoomCreationFailed{Reason: ReasonNameRequired})
		return
	case r.MaxUsers < 1 || r.MaxSpectators < 0:
		a.send(c, types.RoomCreationFailed{Reason: ReasonBadCapacity})
		return
	}
	key := a.fold.String(name)
	for _, rs := range a.rooms {
		if rs.key == key {
			a.send(c, types.RoomCreationFailed{Reason: ReasonNameInUse})
			return
		}
	}

	a.nextID++
	rs := &roomState{
		room: room.Room{
			ID:            a.nextID,
			Name:          name,
			GroupID:       r.GroupID,
			IsGame:        r.IsGame,
			MaxUsers:      r.MaxUsers,
			MaxSpectators: r.MaxSpectators,
		},
		key:        key,
		players:    map[string]bool{},
		spectators: map[string]bool{},
	}
	a.rooms[rs.room.ID] = rs
	a.broadcast(types.RoomAdded{Room: rs.room})
	a.record(rs.room.ID, KindCreated, c.user, name)
	a.log.Info("room created", zap.Int("room_id", rs.room.ID), zap.String("name", name), zap.String("by", c.user))

	// the creator joins as the first player
	a.join(c, rs.room.ID, false)
}

func (a *Authority) join(c *client, roomID int, asSpectator bool) {
	rs := a.rooms[roomID]
	if rs == nil {
		a.send(c, types.RoomJoinFailed{Reason: ReasonRoomNotFound})
		return
	}
	if c.roomID == roomID {
		a.send(c, types.RoomJoinFailed{Reason: ReasonAlreadyInRoom})
		return
	}
	if asSpectator && len(rs.spectators) >= rs.room.MaxSpectators ||
		!asSpectator && len(rs.players) >= rs.room.MaxUsers {
		a.send(c, types.RoomJoinFailed{Reason: ReasonRoomFull})
		return
	}
	if c.roomID != 0 {
		a.leave(c)
	}

	if asSpectator {
		rs.spectators[c.id] = true
	} else {
		rs.players[c.id] = true
	}
	rs.syncCounts()
	c.roomID = roomID
	c.spectator = asSpectator

	for _, id := range rs.occupants() {
		if other := a.clients[id]; other != nil && other.id != c.id {
			a.send(other, types.UserEnteredRoom{User: c.user, RoomID: roomID, IsPlayer: !asSpectator})
		}
	}
	a.send(c, types.RoomJoinSucceeded{
		RoomID:      roomID,
		RoomName:    rs.room.Name,
		IsPlayer:    !asSpectator,
		PlayerCount: len(rs.players),
	})
	a.broadcast(types.OccupancyChanged{RoomID: roomID, UserCount: rs.room.UserCount, SpectatorCount: rs.room.SpectatorCount})
	a.record(roomID, KindJoined, c.user, role(asSpectator))
}

// leave takes c out of its room. The last one out removes the room.
func (a *Authority) leave(c *client) {
	rs := a.rooms[c.roomID]
	if rs == nil {
		c.roomID = 0
		return
	}
	roomID := c.roomID
	for _, id := range rs.occupants() {
		if to := a.clients[id]; to != nil {
			a.send(to, types.UserLeftRoom{User: c.user, RoomID: roomID, IsSelf: to.id == c.id})
		}
	}
	delete(rs.players, c.id)
	delete(rs.spectators, c.id)
	rs.syncCounts()
	c.roomID = 0
	c.spectator = false
	a.record(roomID, KindLeft, c.user, "")

	if len(rs.players)+len(rs.spectators) == 0 {
		delete(a.rooms, roomID)
		a.broadcast(types.RoomRemoved{RoomID: roomID})
		a.record(roomID, KindRemoved, "", rs.room.Name)
		a.log.Info("room removed", zap.Int("room_id", roomID))
		return
	}
	a.broadcast(types.OccupancyChanged{RoomID: roomID, UserCount: rs.room.UserCount, SpectatorCount: rs.room.SpectatorCount})
}

func (a *Authority) drop(id string) {
	c := a.clients[id]
	if c == nil {
		return
	}
	a.leave(c)
	delete(a.clients, id)
	close(c.outbox) // Tell client no more messages
	a.log.Info("client gone", zap.String("client", id), zap.String("user", c.user))
}

func (a *Authority) reapSlow() {
	for len(a.slow) > 0 {
		id := a.slow[0]
		a.slow = a.slow[1:]
		a.drop(id)
	}
}

func (a *Authority) send(c *client, n types.Notification) {
	m, err := types.EncodeNotification(n)
	if err != nil {
		a.log.Error("encode notification", zap.Error(err))
		return
	}
	select {
	case c.outbox <- m:
		//ok
	default:
		// Client is slow/full - drop it once the current message is handled.
		if !slices.Contains(a.slow, c.id) {
			a.slow = append(a.slow, c.id)
		}
	}
}

func (a *Authority) broadcast(n types.Notification) {
	for _, id := range slices.Sorted(maps.Keys(a.clients)) {
		a.send(a.clients[id], n)
	}
}

func (a *Authority) roomList() []room.Room {
	out := make([]room.Room, 0, len(a.rooms))
	for _, id := range slices.Sorted(maps.Keys(a.rooms)) {
		out = append(out, a.rooms[id].room)
	}
	return out
}

func (a *Authority) record(roomID int, kind, user, detail string) {
	if a.rec == nil {
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, recordTimeout)
	defer cancel()
	if err := a.rec.RecordRoomEvent(ctx, roomID, kind, user, detail); err != nil {
		a.log.Warn("record room event", zap.Int("room_id", roomID), zap.String("kind", kind), zap.Error(err))
	}
}

func (a *Authority) shutdown() {
	for id, c := range a.clients {
		close(c.outbox)
		delete(a.clients, id)
	}
	clear(a.rooms)
	a.cancel()
}

func role(spectator bool) string {
	if spectator {
		return "spectator"
	}
	return "player"
}

package lobby

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lobby-sync/internal/chat"
	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/timeout"
	"github.com/DoyleJ11/lobby-sync/internal/types"
	"go.uber.org/zap"
)

var ErrNotActive = errors.New("session is not active")

// Transport is the session adapter to the authority. Bind installs the one handler that
// ProcessEvents dispatches to; ProcessEvents must refuse to run from inside that handler.
type Transport interface {
	Sender
	Self() string
	Bind(func(types.Notification)) error
	Unbind()
	ProcessEvents() error
	Close() error
}

// JoinedRoom is the room the local user is currently in.
type JoinedRoom struct {
	RoomID   int
	RoomName string
	IsPlayer bool
}

// Session ties the client core together. It is single threaded: Pump, OnTick and the intent
// methods must all be called from the same goroutine.
type Session struct {
	tr         Transport
	rooms      *room.Registry
	reconciler *Reconciler
	dispatcher *Dispatcher
	monitor    *timeout.Monitor
	chat       *chat.Log
	log        *zap.Logger

	active  bool
	current *JoinedRoom
	pending []Event
}

func NewSession(tr Transport, rooms *room.Registry, log *zap.Logger) *Session {
	log = log.With(zap.String("self", tr.Self()))
	return &Session{
		tr:         tr,
		rooms:      rooms,
		reconciler: NewReconciler(rooms, log.Named("reconciler")),
		dispatcher: NewDispatcher(tr, log.Named("dispatcher")),
		monitor:    timeout.NewMonitor(),
		chat:       chat.NewLog(),
		log:        log,
	}
}

// Activate binds the session's notification handler. Either all notifications reach the
// session or none do.
func (s *Session) Activate() error {
	if s.active {
		return nil
	}
	if err := s.tr.Bind(s.handle); err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	s.active = true
	return nil
}

func (s *Session) Deactivate() {
	if !s.active {
		return
	}
	s.tr.Unbind()
	s.active = false
}

func (s *Session) Active() bool { return s.active }

// Pump applies every notification queued since the last pump and returns the resulting events.
func (s *Session) Pump() ([]Event, error) {
	if !s.active {
		return nil, ErrNotActive
	}
	if err := s.tr.ProcessEvents(); err != nil {
		return nil, err
	}
	out := s.pending
	s.pending = nil
	return out, nil
}

// OnTick advances the waiting-for-opponent countdown by dt seconds.
func (s *Session) OnTick(dt float64) []Event {
	if !s.monitor.Advance(dt) {
		return nil
	}
	s.monitor.Stop()
	ev := SuggestLeaveUI{}
	if s.current != nil {
		ev.RoomID = s.current.RoomID
	}
	s.log.Info("no opponent joined, suggesting leave", zap.Int("room_id", ev.RoomID))
	return []Event{ev}
}

func (s *Session) handle(n types.Notification) {
	s.pending = append(s.pending, s.reconciler.Apply(n)...)

	switch v := n.(type) {
	case types.RoomJoinSucceeded:
		s.current = &JoinedRoom{RoomID: v.RoomID, RoomName: v.RoomName, IsPlayer: v.IsPlayer}
		s.chat.Reset()
		s.monitor.Stop()
		s.system("Game joined as " + role(v.IsPlayer))
		// a lone player gets asked to leave if nobody shows up
		if v.IsPlayer && v.PlayerCount == 1 {
			s.monitor.Start(timeout.DefaultSeconds)
		}
		s.log.Info("room joined", zap.Int("room_id", v.RoomID), zap.Bool("player", v.IsPlayer))

	case types.UserEnteredRoom:
		if v.IsPlayer {
			s.monitor.Stop()
		}
		if s.current != nil {
			s.system(fmt.Sprintf("User %s joined this game as %s", v.User, role(v.IsPlayer)))
		}

	case types.UserLeftRoom:
		if v.IsSelf {
			if s.current != nil && s.current.RoomID == v.RoomID {
				s.leftRoom()
			}
			return
		}
		if s.current != nil {
			s.system(fmt.Sprintf("User %s left the game", v.User))
		}

	case types.PublicMessage:
		sender := v.Sender
		if v.IsSelf {
			sender = ""
		}
		s.pending = append(s.pending, ChatAppendedUI{Entry: s.chat.Append(sender, v.Text)})

	case types.ConnectionLost:
		s.monitor.Stop()
		s.current = nil
		s.pending = append(s.pending, DisconnectedUI{Reason: v.Reason})
		s.log.Info("disconnected", zap.String("reason", v.Reason))
	}
}

func (s *Session) system(text string) {
	s.pending = append(s.pending, ChatAppendedUI{Entry: s.chat.AppendSystem(text)})
}

func (s *Session) leftRoom() {
	s.monitor.Stop()
	s.chat.Reset()
	s.current = nil
}

func role(isPlayer bool) string {
	if isPlayer {
		return "player"
	}
	return "spectator"
}

// CreateGame creates the default two-player room named after the local user.
func (s *Session) CreateGame() error {
	return s.dispatcher.CreateRoom(s.tr.Self()+"'s game", DefaultGroupID)
}

func (s *Session) CreateRoom(displayName, groupID string) error {
	return s.dispatcher.CreateRoom(displayName, groupID)
}

func (s *Session) JoinAsPlayer(roomID int) error    { return s.dispatcher.JoinAsPlayer(roomID) }
func (s *Session) JoinAsSpectator(roomID int) error { return s.dispatcher.JoinAsSpectator(roomID) }

// LeaveRoom leaves without waiting for the authority: the countdown and chat of the room
// are dropped as soon as the request is out.
func (s *Session) LeaveRoom() error {
	if err := s.dispatcher.LeaveRoom(); err != nil {
		return err
	}
	s.leftRoom()
	return nil
}

func (s *Session) SendChatMessage(text string) (bool, error) {
	return s.dispatcher.SendChatMessage(text)
}

// Logout closes the transport. The resulting ConnectionLost arrives on the next pump.
func (s *Session) Logout() error {
	return s.tr.Close()
}

// Rooms is the games list: every known room that passes the visibility predicate.
func (s *Session) Rooms() []room.Room { return s.rooms.FilterVisible() }

func (s *Session) Room(id int) (room.Room, bool) { return s.rooms.Get(id) }

func (s *Session) Chat() []chat.Entry { return s.chat.Entries() }

func (s *Session) Current() (JoinedRoom, bool) {
	if s.current == nil {
		return JoinedRoom{}, false
	}
	return *s.current, true
}

func (s *Session) TimeoutState() (timeout.State, float64) {
	return s.monitor.State(), s.monitor.Remaining()
}

func (s *Session) Self() string    { return s.tr.Self() }
func (s *Session) Connected() bool { return s.tr.Connected() }

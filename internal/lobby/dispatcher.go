package lobby

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/lobby-sync/internal/types"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var ErrNotConnected = errors.New("not connected to the authority")

// Room creation policy. These are not user input.
const (
	DefaultGroupID       = "games"
	DefaultMaxUsers      = 2
	DefaultMaxSpectators = 10
)

// Sender is the outbound half of the transport.
type Sender interface {
	Send(types.Request) error
	Connected() bool
}

// Dispatcher turns user intents into requests. Each call sends exactly one request or is
// rejected locally; it never waits for the outcome.
//
// Joins are not checked against local capacity. The games list greys out full rooms, but that
// hint can be stale when two users click the last slot together, so the authority decides
// and answers with RoomJoinFailed.
type Dispatcher struct {
	tr  Sender
	log *zap.Logger
}

func NewDispatcher(tr Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{tr: tr, log: log}
}

func (d *Dispatcher) CreateRoom(displayName, groupID string) error {
	return d.send(types.CreateRoom{
		Name:          norm.NFC.String(displayName),
		GroupID:       groupID,
		IsGame:        true,
		MaxUsers:      DefaultMaxUsers,
		MaxSpectators: DefaultMaxSpectators,
	})
}

func (d *Dispatcher) JoinAsPlayer(roomID int) error {
	return d.send(types.JoinRoom{RoomID: roomID})
}

func (d *Dispatcher) JoinAsSpectator(roomID int) error {
	return d.send(types.JoinRoom{RoomID: roomID, AsSpectator: true})
}

// LeaveRoom is always allowed. With the link down there is nothing to tell the authority:
// it already dropped the user from every room.
func (d *Dispatcher) LeaveRoom() error {
	if !d.tr.Connected() {
		d.log.Debug("leave while disconnected, nothing sent")
		return nil
	}
	return d.send(types.LeaveRoom{})
}

// SendChatMessage reports false with no error when text is blank: nothing is sent and
// nothing is logged locally. The own-message echo comes back as a PublicMessage like
// everyone else's, so the chat log has a single order decided by the authority.
func (d *Dispatcher) SendChatMessage(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		d.log.Debug("blank chat message rejected")
		return false, nil
	}
	if err := d.send(types.SendPublicMessage{Text: norm.NFC.String(text)}); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) send(req types.Request) error {
	if !d.tr.Connected() {
		return ErrNotConnected
	}
	if err := d.tr.Send(req); err != nil {
		d.log.Error("send failed", zap.String("request", fmt.Sprintf("%T", req)), zap.Error(err))
		return fmt.Errorf("send %T: %w", req, err)
	}
	return nil
}

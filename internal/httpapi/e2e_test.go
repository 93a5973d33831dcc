package httpapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DoyleJ11/lobby-sync/internal/authority"
	"github.com/DoyleJ11/lobby-sync/internal/lobby"
	"github.com/DoyleJ11/lobby-sync/internal/room"
	"github.com/DoyleJ11/lobby-sync/internal/timeout"
	"github.com/DoyleJ11/lobby-sync/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func dialSession(t *testing.T, srv *httptest.Server, user string) *lobby.Session {
	t.Helper()
	log := zaptest.NewLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := transport.Dial(ctx, url, user, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	s := lobby.NewSession(conn, room.NewRegistry(), log)
	require.NoError(t, s.Activate())
	return s
}

// waitFor pumps s until an event matches.
func waitFor(t *testing.T, s *lobby.Session, match func(lobby.Event) bool) lobby.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := s.Pump()
		require.NoError(t, err)
		for _, e := range events {
			if match(e) {
				return e
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s: no matching event", s.Self())
	return nil
}

func is[T lobby.Event](e lobby.Event) bool {
	_, ok := e.(T)
	return ok
}

func TestEndToEnd_TwoPlayersMeetAndChat(t *testing.T) {
	a := newAuthority(t)
	srv := httptest.NewServer(SetupRoutes(a, nil, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)

	alice := dialSession(t, srv, "alice")
	bob := dialSession(t, srv, "bob")

	require.NoError(t, alice.CreateGame())
	joined := waitFor(t, alice, is[lobby.RoomJoinedUI]).(lobby.RoomJoinedUI)
	assert.Equal(t, "alice's game", joined.RoomName)
	assert.True(t, joined.IsPlayer)
	state, _ := alice.TimeoutState()
	assert.Equal(t, timeout.StateRunning, state)

	added := waitFor(t, bob, func(e lobby.Event) bool {
		v, ok := e.(lobby.RoomAddedUI)
		return ok && v.Room.ID == joined.RoomID
	}).(lobby.RoomAddedUI)
	assert.True(t, added.Room.CanPlay())

	require.NoError(t, bob.JoinAsPlayer(joined.RoomID))
	waitFor(t, bob, is[lobby.RoomJoinedUI])
	entered := waitFor(t, alice, is[lobby.UserEnteredUI]).(lobby.UserEnteredUI)
	assert.Equal(t, lobby.UserEnteredUI{User: "bob", IsPlayer: true}, entered)
	state, _ = alice.TimeoutState()
	assert.Equal(t, timeout.StateIdle, state)

	sent, err := alice.SendChatMessage("glhf")
	require.NoError(t, err)
	require.True(t, sent)

	isChat := func(e lobby.Event) bool {
		v, ok := e.(lobby.ChatAppendedUI)
		return ok && !v.Entry.System
	}
	got := waitFor(t, bob, isChat).(lobby.ChatAppendedUI)
	assert.Equal(t, "alice", got.Entry.Label())
	assert.Equal(t, "glhf", got.Entry.Text)
	echo := waitFor(t, alice, isChat).(lobby.ChatAppendedUI)
	assert.Equal(t, "Me", echo.Entry.Label())

	require.NoError(t, alice.Logout())
	lost := waitFor(t, alice, is[lobby.DisconnectedUI]).(lobby.DisconnectedUI)
	assert.Equal(t, "closed by client", lost.Reason)
	left := waitFor(t, bob, is[lobby.UserLeftUI]).(lobby.UserLeftUI)
	assert.Equal(t, "alice", left.User)
}

func TestEndToEnd_FullRoomRejectsJoin(t *testing.T) {
	a := newAuthority(t)
	srv := httptest.NewServer(SetupRoutes(a, nil, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)

	alice := dialSession(t, srv, "alice")
	bob := dialSession(t, srv, "bob")
	carol := dialSession(t, srv, "carol")

	require.NoError(t, alice.CreateGame())
	roomID := waitFor(t, alice, is[lobby.RoomJoinedUI]).(lobby.RoomJoinedUI).RoomID
	require.NoError(t, bob.JoinAsPlayer(roomID))
	waitFor(t, bob, is[lobby.RoomJoinedUI])

	// carol's list may still show a free slot; the authority decides
	require.NoError(t, carol.JoinAsPlayer(roomID))
	failed := waitFor(t, carol, is[lobby.RoomJoinFailedUI]).(lobby.RoomJoinFailedUI)
	assert.Equal(t, authority.ReasonRoomFull, failed.Reason)

	require.NoError(t, carol.JoinAsSpectator(roomID))
	watching := waitFor(t, carol, is[lobby.RoomJoinedUI]).(lobby.RoomJoinedUI)
	assert.False(t, watching.IsPlayer)

	require.NoError(t, alice.CreateGame())
	dup := waitFor(t, alice, is[lobby.RoomCreationFailedUI]).(lobby.RoomCreationFailedUI)
	assert.Equal(t, authority.ReasonNameInUse, dup.Reason)
}

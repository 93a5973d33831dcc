package lobby

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/lobby-sync/internal/transport"
	"github.com/DoyleJ11/lobby-sync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_ChatMessage(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		wantSent bool
		wantReqs []types.Request
	}{
		{name: "empty", text: "", wantSent: false},
		{name: "whitespace only", text: "  \t\n", wantSent: false},
		{name: "hello", text: "hello", wantSent: true, wantReqs: []types.Request{types.SendPublicMessage{Text: "hello"}}},
		{
			name:     "decomposed accents are composed",
			text:     "cafe\u0301",
			wantSent: true,
			wantReqs: []types.Request{types.SendPublicMessage{Text: "caf\u00e9"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := transport.NewMemory("alice")
			d := NewDispatcher(tr, zap.NewNop())

			sent, err := d.SendChatMessage(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSent, sent)
			if tc.wantReqs == nil {
				assert.Empty(t, tr.Sent())
				return
			}
			assert.Equal(t, tc.wantReqs, tr.Sent())
		})
	}
}

func TestDispatcher_CreateRoomUsesPolicyDefaults(t *testing.T) {
	tr := transport.NewMemory("alice")
	d := NewDispatcher(tr, zap.NewNop())

	require.NoError(t, d.CreateRoom("alice's game", DefaultGroupID))
	assert.Equal(t, []types.Request{types.CreateRoom{
		Name:          "alice's game",
		GroupID:       "games",
		IsGame:        true,
		MaxUsers:      2,
		MaxSpectators: 10,
	}}, tr.Sent())
}

func TestDispatcher_JoinsPassThroughWithoutCapacityCheck(t *testing.T) {
	tr := transport.NewMemory("alice")
	d := NewDispatcher(tr, zap.NewNop())

	// room 4 is unknown locally and could be full: the authority decides
	require.NoError(t, d.JoinAsPlayer(4))
	require.NoError(t, d.JoinAsSpectator(4))
	require.NoError(t, d.LeaveRoom())

	assert.Equal(t, []types.Request{
		types.JoinRoom{RoomID: 4},
		types.JoinRoom{RoomID: 4, AsSpectator: true},
		types.LeaveRoom{},
	}, tr.Sent())
}

func TestDispatcher_NotConnected(t *testing.T) {
	tr := transport.NewMemory("alice")
	tr.Drop("eof")
	d := NewDispatcher(tr, zap.NewNop())

	err := d.JoinAsPlayer(1)
	if err == nil || !errors.Is(err, ErrNotConnected) {
		t.Fatalf("want ErrNotConnected, got %v", err)
	}
	sent, err := d.SendChatMessage("hi")
	assert.False(t, sent)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDispatcher_LeaveAllowedWhileDisconnected(t *testing.T) {
	tr := transport.NewMemory("alice")
	tr.Drop("eof")
	d := NewDispatcher(tr, zap.NewNop())

	require.NoError(t, d.LeaveRoom())
	assert.Empty(t, tr.Sent())
}

func TestDispatcher_SendErrorIsWrapped(t *testing.T) {
	tr := transport.NewMemory("alice")
	tr.FailSends(transport.ErrSendBufferFull)
	d := NewDispatcher(tr, zap.NewNop())

	assert.ErrorIs(t, d.LeaveRoom(), transport.ErrSendBufferFull)
}

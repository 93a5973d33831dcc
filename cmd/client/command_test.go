package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want command
	}{
		{line: "", want: command{kind: cmdNone}},
		{line: "   ", want: command{kind: cmdNone}},
		{line: "hello there", want: command{kind: cmdChat, text: "hello there"}},
		{line: "/create", want: command{kind: cmdCreate}},
		{line: "/JOIN 3", want: command{kind: cmdJoin, roomID: 3}},
		{line: "/watch 12", want: command{kind: cmdWatch, roomID: 12}},
		{line: "/leave", want: command{kind: cmdLeave}},
		{line: "/rooms", want: command{kind: cmdRooms}},
		{line: "/logout", want: command{kind: cmdQuit}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := parseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"/join", "/join x", "/watch 1 2"} {
		_, err := parseCommand(line)
		assert.Error(t, err, line)
	}

	_, err := parseCommand("/dance")
	assert.ErrorIs(t, err, errUnknownCommand)
}

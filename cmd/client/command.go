package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

type commandKind int

const (
	cmdNone commandKind = iota
	cmdChat
	cmdCreate
	cmdJoin
	cmdWatch
	cmdLeave
	cmdRooms
	cmdQuit
)

type command struct {
	kind   commandKind
	roomID int
	text   string
}

const helpText = `/create          create "<you>'s game"
/join <room>     join as player
/watch <room>    join as spectator
/leave           leave the current room
/rooms           list open games
/quit            log out
anything else is sent as chat`

// parseCommand reads one line of user input. Lines not starting with "/" are chat.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdChat, text: line}, nil
	}

	fields := strings.Fields(line)
	switch name := strings.ToLower(fields[0]); name {
	case "/create":
		return command{kind: cmdCreate}, nil
	case "/join", "/watch":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: %s <room>", name)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("bad room id %q", fields[1])
		}
		kind := cmdJoin
		if name == "/watch" {
			kind = cmdWatch
		}
		return command{kind: kind, roomID: id}, nil
	case "/leave":
		return command{kind: cmdLeave}, nil
	case "/rooms":
		return command{kind: cmdRooms}, nil
	case "/quit", "/logout":
		return command{kind: cmdQuit}, nil
	default:
		return command{}, fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
}

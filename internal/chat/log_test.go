package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headers(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.ShowHeader {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestLog_GroupsConsecutiveSender(t *testing.T) {
	l := NewLog()
	l.Append("Alice", "hi")
	l.Append("Alice", "there")
	l.Append("Bob", "hey")

	assert.Equal(t, []string{"hi", "hey"}, headers(l.Entries()))
}

func TestLog_SelfMessagesRenderAsMe(t *testing.T) {
	l := NewLog()
	first := l.Append("", "hello")
	second := l.Append("", "again")

	assert.True(t, first.ShowHeader)
	assert.Equal(t, "Me", first.Label())
	assert.False(t, second.ShowHeader)
}

func TestLog_SystemLinesDoNotBreakGrouping(t *testing.T) {
	l := NewLog()
	l.Append("Alice", "one")
	sys := l.AppendSystem("User Bob joined this game as spectator")
	next := l.Append("Alice", "two")

	assert.True(t, sys.System)
	assert.False(t, sys.ShowHeader)
	assert.False(t, next.ShowHeader)
	assert.Equal(t, 3, l.Len())
}

func TestLog_ResetStartsNewGroup(t *testing.T) {
	l := NewLog()
	l.Append("Alice", "one")
	l.Reset()

	e := l.Append("Alice", "two")
	assert.True(t, e.ShowHeader)
	assert.Equal(t, 1, l.Len())
}

package chat

// SelfLabel is shown instead of the empty sender used for the local user's own messages.
const SelfLabel = "Me"

type Entry struct {
	Sender string // "" means the local user
	Text   string
	System bool
	// ShowHeader is true when Sender differs from the previous chat (non-system) entry.
	ShowHeader bool
}

// Label is the header text for the entry's sender.
func (e Entry) Label() string {
	if e.Sender == "" {
		return SelfLabel
	}
	return e.Sender
}

// Log is an append-only, arrival-ordered chat buffer.
type Log struct {
	entries    []Entry
	lastSender string
	hasLast    bool
}

func NewLog() *Log {
	return &Log{}
}

// Append adds a chat message. The header is attached only when the sender changes.
func (l *Log) Append(sender, text string) Entry {
	e := Entry{
		Sender:     sender,
		Text:       text,
		ShowHeader: !l.hasLast || sender != l.lastSender,
	}
	l.entries = append(l.entries, e)
	l.lastSender = sender
	l.hasLast = true
	return e
}

// AppendSystem adds a system line. It does not touch sender grouping.
func (l *Log) AppendSystem(text string) Entry {
	e := Entry{Text: text, System: true}
	l.entries = append(l.entries, e)
	return e
}

func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }

// Reset clears the log for a new room session.
func (l *Log) Reset() {
	l.entries = nil
	l.lastSender = ""
	l.hasLast = false
}

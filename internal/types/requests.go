package types

// Request is the closed set of messages the client sends to the authority.
// Requests are fire-and-forget: outcomes come back as independent notifications.
type Request interface{ isRequest() }

type CreateRoom struct {
	Name          string
	GroupID       string
	IsGame        bool
	MaxUsers      int
	MaxSpectators int
}

type JoinRoom struct {
	RoomID      int
	AsSpectator bool
}

type LeaveRoom struct{}

type SendPublicMessage struct {
	Text string
}

func (CreateRoom) isRequest()        {}
func (JoinRoom) isRequest()          {}
func (LeaveRoom) isRequest()         {}
func (SendPublicMessage) isRequest() {}

package transport

import (
	"errors"
	"sync"

	"github.com/DoyleJ11/lobby-sync/internal/types"
)

var ErrClosed = errors.New("transport: closed")

// Memory is an in-process transport. Deliver plays the authority; Sent shows what the client sent.
type Memory struct {
	Queue

	self      string
	mu        sync.Mutex
	sent      []types.Request
	connected bool
	sendErr   error
}

func NewMemory(self string) *Memory {
	return &Memory{self: self, connected: true}
}

func (m *Memory) Self() string { return m.self }

func (m *Memory) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Memory) Send(req types.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrClosed
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, req)
	return nil
}

func (m *Memory) ProcessEvents() error {
	_, err := m.Process()
	return err
}

func (m *Memory) Close() error {
	m.Drop("closed by client")
	return nil
}

// Deliver queues notifications as if they came from the authority.
func (m *Memory) Deliver(ns ...types.Notification) {
	for _, n := range ns {
		m.Push(n)
	}
}

// Drop marks the link as down and queues a ConnectionLost.
func (m *Memory) Drop(reason string) {
	m.mu.Lock()
	was := m.connected
	m.connected = false
	m.mu.Unlock()
	if was {
		m.Push(types.ConnectionLost{Reason: reason})
	}
}

// FailSends makes every following Send return err; nil restores normal sends.
func (m *Memory) FailSends(err error) {
	m.mu.Lock()
	m.sendErr = err
	m.mu.Unlock()
}

func (m *Memory) Sent() []types.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Request, len(m.sent))
	copy(out, m.sent)
	return out
}

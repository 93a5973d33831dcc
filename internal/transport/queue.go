package transport

import (
	"errors"
	"sync"

	"github.com/DoyleJ11/lobby-sync/internal/types"
)

var ErrReentrantPump = errors.New("transport: ProcessEvents called from inside a handler")
var ErrAlreadyBound = errors.New("transport: handler already bound")

// Handler receives one notification at a time on the pumping goroutine.
type Handler = func(types.Notification)

// Queue buffers inbound notifications until the owner pumps them.
// Push may be called from any goroutine; Process must only be called by the pump driver.
type Queue struct {
	mu      sync.Mutex
	items   []types.Notification
	handler Handler
	pumping bool
	dropped int
}

func (q *Queue) Push(n types.Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

func (q *Queue) Bind(h Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.handler != nil {
		return ErrAlreadyBound
	}
	q.handler = h
	return nil
}

func (q *Queue) Unbind() {
	q.mu.Lock()
	q.handler = nil
	q.mu.Unlock()
}

// Process dispatches everything queued at the time of the call. Notifications pushed while
// the batch runs wait for the next call. Notifications with no bound handler are dropped.
// It returns the number dispatched.
func (q *Queue) Process() (int, error) {
	q.mu.Lock()
	if q.pumping {
		q.mu.Unlock()
		return 0, ErrReentrantPump
	}
	batch := q.items
	q.items = nil
	q.pumping = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.pumping = false
		q.mu.Unlock()
	}()

	n := 0
	for _, item := range batch {
		// re-read per item: a handler may unbind mid-batch
		q.mu.Lock()
		h := q.handler
		if h == nil {
			q.dropped++
		}
		q.mu.Unlock()
		if h == nil {
			continue
		}
		h(item)
		n++
	}
	return n, nil
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped counts notifications discarded because nothing was bound.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

package timeout

import "math"

// DefaultSeconds is how long a lone player waits before being asked to leave.
const DefaultSeconds = 20.0

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateExpired State = "expired"
)

// Monitor counts down while the local user is the only player in a room.
// It is advanced by the frame clock, not by a timer, and checks its state on every tick.
type Monitor struct {
	state     State
	remaining float64
}

func NewMonitor() *Monitor {
	return &Monitor{state: StateIdle}
}

// Start begins a new countdown for a new room session.
func (m *Monitor) Start(seconds float64) {
	m.state = StateRunning
	m.remaining = seconds
}

// Stop cancels a running countdown, or acknowledges an expired one.
func (m *Monitor) Stop() {
	m.state = StateIdle
	m.remaining = 0
}

// Advance moves the countdown by dt seconds and reports whether it expired on this tick.
// Expiry fires once the remaining time, rounded half to even, reaches zero, so it lands up
// to half a second before the true zero crossing. Negative deltas are ignored.
func (m *Monitor) Advance(dt float64) bool {
	if m.state != StateRunning || dt < 0 {
		return false
	}
	m.remaining -= dt
	if math.RoundToEven(m.remaining) > 0 {
		return false
	}
	m.state = StateExpired
	m.remaining = 0
	return true
}

func (m *Monitor) Running() bool      { return m.state == StateRunning }
func (m *Monitor) Remaining() float64 { return m.remaining }
func (m *Monitor) State() State       { return m.state }

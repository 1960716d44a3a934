package counter

import "time"

// State is the posture tracked by the rep state machine.
type State int

const (
	// StateUp means the body is standing (knee angle above UpThreshold).
	StateUp State = iota
	// StateDown means the body is at the squat bottom.
	StateDown
)

// String returns the lowercase state label used in status events.
func (s State) String() string {
	if s == StateDown {
		return "down"
	}
	return "up"
}

// StepResult describes the outcome of feeding one smoothed angle to the
// state machine.
type StepResult struct {
	State   State
	Count   int
	Counted bool // True when this step counted a rep
}

// Machine is the hysteresis rep state machine. It transitions between
// up and down on two separate thresholds and counts a rep on each
// qualifying down→up cycle, debounced by a cooldown.
//
// The loop goroutine is the only writer; it is not safe for concurrent
// mutation. Concurrent observers should read through Session snapshots.
type Machine struct {
	cfg     Config
	state   State
	count   int
	lastRep time.Time
}

// NewMachine creates a rep state machine in the up state with a zero count.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Step feeds one smoothed angle measured at the given time.
//
// up→down fires when the angle drops below DownThreshold; nothing is
// counted on the way down. down→up fires when the angle rises above
// UpThreshold; the posture change is unconditional, but the rep is only
// counted when the cooldown since the last counted rep has elapsed. A rep
// that bounces back up too quickly still resets posture tracking without
// double-counting.
func (m *Machine) Step(angle float64, now time.Time) StepResult {
	switch {
	case m.state == StateUp && angle < m.cfg.DownThreshold:
		m.state = StateDown

	case m.state == StateDown && angle > m.cfg.UpThreshold:
		counted := false
		if now.Sub(m.lastRep) > m.cfg.Cooldown {
			m.count++
			m.lastRep = now
			counted = true
		}
		m.state = StateUp
		return StepResult{State: m.state, Count: m.count, Counted: counted}
	}

	return StepResult{State: m.state, Count: m.count}
}

// State returns the current posture state.
func (m *Machine) State() State {
	return m.state
}

// Count returns the cumulative rep count.
func (m *Machine) Count() int {
	return m.count
}

// Reset returns the machine to its initial state with a zero count.
func (m *Machine) Reset() {
	m.state = StateUp
	m.count = 0
	m.lastRep = time.Time{}
}

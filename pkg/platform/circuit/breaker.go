// Package circuit tracks consecutive failures of an external dependency so
// health checks and metrics can report it as down.
package circuit

import "sync"

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports a transition caused by the last recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker opens after a run of failures and closes again after a run of
// successes. It never rejects calls; callers consult IsOpen.
type Breaker struct {
	name       string
	openAfter  int
	closeAfter int

	mu    sync.Mutex
	state State
	// streak counts consecutive outcomes of the same kind: positive for
	// successes, negative for failures.
	streak int
}

type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
// Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.openAfter = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit. Default 1.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.closeAfter = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, openAfter: 5, closeAfter: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) IsOpen() bool { return b.State() == StateOpen }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Record records the outcome of one call.
func (b *Breaker) Record(err error) StateChange {
	if err != nil {
		return b.RecordFailure()
	}
	return b.RecordSuccess()
}

func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.streak = min(b.streak, 0) - 1
	if b.state == StateClosed && -b.streak >= b.openAfter {
		b.state = StateOpen
		return StateChange{Opened: true}
	}
	return StateChange{}
}

func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.streak = max(b.streak, 0) + 1
	if b.state == StateOpen && b.streak >= b.closeAfter {
		b.state = StateClosed
		b.streak = 0
		return StateChange{Closed: true}
	}
	return StateChange{}
}

// Reset closes the circuit and forgets the current streak.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.streak = 0
}

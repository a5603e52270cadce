/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Liveness state machine. Each connection owns one
instance; monitors for different connections run independently, so one
unresponsive peer never blocks heartbeats or fanout for the others.
*/
package chat

import (
	"sync"
	"time"
)

// Liveness is the per-connection heartbeat state machine with two states,
// ALIVE and SUSPECT. Arming a probe transitions ALIVE to SUSPECT and starts a
// death timer; a pong disarms the timer and returns the state to ALIVE. If the
// timer fires while still SUSPECT, the connection is declared dead (onExpire)
// and the machine is terminal.
type Liveness struct {
	mu sync.Mutex

	// timeout is how long a probe may stay unanswered.
	timeout time.Duration

	// onExpire is invoked exactly once, without holding mu, when the
	// connection is declared dead.
	onExpire func()

	// death is the armed timeout for the outstanding probe, nil while ALIVE.
	death *time.Timer

	suspect bool
	stopped bool
}

// NewLiveness constructs a monitor that calls onExpire when a probe times out.
func NewLiveness(timeout time.Duration, onExpire func()) *Liveness {
	return &Liveness{
		timeout:  timeout,
		onExpire: onExpire,
	}
}

// Arm records that a probe is about to be sent: ALIVE transitions to SUSPECT
// and the death timer starts. It returns false, and the caller must not send
// a probe, when one is already outstanding or the monitor is stopped.
func (l *Liveness) Arm() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped || l.suspect {
		return false
	}

	l.suspect = true
	l.death = time.AfterFunc(l.timeout, l.expire)

	return true
}

// Pong records a heartbeat response: the death timer is cancelled and the
// state returns to ALIVE. Pongs after stop are ignored.
func (l *Liveness) Pong() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}

	l.suspect = false
	l.disarm()
}

// Stop cancels any armed timer and makes the monitor terminal. It is called on
// every removal path so no timer outlives its connection.
func (l *Liveness) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true
	l.disarm()
}

// disarm stops and clears the death timer. Callers must hold mu.
func (l *Liveness) disarm() {
	if l.death != nil {
		l.death.Stop()
		l.death = nil
	}
}

// expire fires when the death timer elapses. A pong or stop that won the race
// turns it into a no-op; otherwise the machine goes terminal and onExpire runs
// outside the lock.
func (l *Liveness) expire() {
	l.mu.Lock()

	if l.stopped || !l.suspect {
		l.mu.Unlock()
		return
	}

	l.stopped = true
	l.death = nil
	l.mu.Unlock()

	l.onExpire()
}

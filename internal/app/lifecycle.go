package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/multbell/internal/domain"
	"github.com/bft-labs/multbell/internal/ports"
)

// ShutdownTimeout bounds how long Stop waits for the listener goroutine.
// An alert that is already playing finishes first.
const ShutdownTimeout = 10 * time.Second

// State is the listener's lifecycle state. Idle and Processing are the two
// phases of a running listener.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateIdle
	StateProcessing
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateIdle:
		return "Idle"
	case StateProcessing:
		return "Processing"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Running reports whether s is one of the running phases.
func (s State) Running() bool {
	return s == StateIdle || s == StateProcessing
}

var transitions = map[State][]State{
	StateStopped:    {StateStarting},
	StateStarting:   {StateIdle, StateStopping, StateCrashed},
	StateIdle:       {StateProcessing, StateStopping, StateCrashed},
	StateProcessing: {StateIdle, StateStopping, StateCrashed},
	StateStopping:   {StateStopped, StateCrashed},
	StateCrashed:    {StateStarting},
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle manages the listener state machine.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       ports.Logger
	eventEmitter EventEmitter
}

// NewLifecycle creates a lifecycle in StateStopped. emitter may be nil.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateStopped,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to newState, or returns an error if the move is not
// allowed from the current state.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state
	if !allowed(oldState, newState) {
		l.mu.Unlock()
		if oldState == StateStopped || oldState == StateCrashed {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}
	l.state = newState
	l.mu.Unlock()

	l.emit(oldState, newState, reason)
	return nil
}

// transitionFrom moves from -> to only if the current state is from.
// Used for the per-datagram phase flips, which lose to a concurrent Stop.
func (l *Lifecycle) transitionFrom(from, to State, reason string) bool {
	l.mu.Lock()
	if l.state != from {
		l.mu.Unlock()
		return false
	}
	l.state = to
	l.mu.Unlock()

	l.emit(from, to, reason)
	return true
}

func (l *Lifecycle) emit(oldState, newState State, reason string) {
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	fields := []ports.Field{
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	}
	// Idle/Processing flips happen once per datagram.
	if oldState.Running() && newState.Running() {
		l.logger.Debug("state transition", fields...)
		return
	}
	l.logger.Info("state transition", fields...)
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanStart returns true if Start() can be called.
func (l *Lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateStopped || l.state == StateCrashed
}

// CanStop returns true if Stop() can be called.
func (l *Lifecycle) CanStop() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateStarting || l.state.Running()
}

// SetCancel stores the cancel function for shutdown.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel triggers shutdown.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish.
// Returns ErrShutdownTimeout if the timeout expires.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, forcing exit",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}

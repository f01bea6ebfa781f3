package multbell

import "github.com/bft-labs/multbell/internal/app"

// State is the lifecycle state of a Multbell instance.
type State int

const (
	// StateStopped is the initial state, and the state after a clean Stop.
	StateStopped State = iota
	// StateStarting is held while the socket is bound and plugins start.
	StateStarting
	// StateIdle means the listener is waiting for a datagram.
	StateIdle
	// StateProcessing means a datagram is being classified, printed or
	// alerted on.
	StateProcessing
	// StateStopping is held while Stop waits for the listener.
	StateStopping
	// StateCrashed follows a failed Start or a shutdown timeout. Start may
	// be called again.
	StateCrashed
)

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

// Running reports whether the listener loop is active.
func (s State) Running() bool {
	return s == StateIdle || s == StateProcessing
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateIdle:
		return StateIdle
	case app.StateProcessing:
		return StateProcessing
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}

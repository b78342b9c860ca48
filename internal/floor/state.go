// Package floor holds the floor-selection state machine.
//
// The Controller consumes raw labels and debounced commands from the gesture
// package and mutates a State, returning Effects for collaborators (sound,
// display, lift link) to carry out. Nothing here blocks or locks: a State and
// its Engine belong to one update loop.
package floor

import "fmt"

// Mode is the controller's top-level state.
type Mode int

const (
	// AwaitingStart waits for the confirm pose to be held before arming.
	AwaitingStart Mode = iota
	// Selecting accepts directional commands and a final confirm.
	Selecting
)

func (m Mode) String() string {
	switch m {
	case AwaitingStart:
		return "awaiting_start"
	case Selecting:
		return "selecting"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is the controller's mutable state.
type State struct {
	Mode Mode
	// Counter is the pending, unconfirmed delta.
	Counter int
	// Floor is the last confirmed floor.
	Floor int
	// InitProgress counts consecutive raw confirm frames while awaiting start.
	InitProgress int
}

// NewState returns the boot state.
func NewState() State {
	return State{Mode: AwaitingStart}
}

// PredictedFloor is the floor the user would land on if they confirmed now.
func (s State) PredictedFloor() int {
	return s.Floor + s.Counter
}

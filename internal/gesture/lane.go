package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidLane is returned when a lane configuration cannot be used.
var ErrInvalidLane = errors.New("invalid lane")

// Policy selects how a lane buffers labels.
type Policy int

const (
	// PolicyShared lanes vote over one window that receives every label not
	// claimed by an exclusive lane, so off-target labels push old hits out.
	PolicyShared Policy = iota
	// PolicyExclusive lanes own a window that only ever receives the lane's
	// target label. Other labels neither append nor reset progress.
	PolicyExclusive
)

func (p Policy) String() string {
	switch p {
	case PolicyShared:
		return "shared"
	case PolicyExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "shared" or "exclusive".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "shared":
		return PolicyShared, nil
	case "exclusive":
		return PolicyExclusive, nil
	default:
		return PolicyShared, fmt.Errorf("unknown lane policy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if p != PolicyShared && p != PolicyExclusive {
		return nil, fmt.Errorf("unknown lane policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Lane is one debounce channel: a target label that must be held for
// Threshold frames before the lane fires.
type Lane struct {
	Target        Label  `json:"label"`
	Threshold     int    `json:"threshold"`
	Increment     int    `json:"increment"`
	ConfirmsFloor bool   `json:"confirms_floor"`
	Policy        Policy `json:"policy"`
}

// Validate checks a single lane in isolation.
func (l Lane) Validate() error {
	if !l.Target.Valid() {
		return fmt.Errorf("%w: unknown target %s", ErrInvalidLane, l.Target)
	}
	if l.Target == Neutral {
		return fmt.Errorf("%w: neutral cannot be a lane target", ErrInvalidLane)
	}
	if l.Threshold < 1 {
		return fmt.Errorf("%w: %s threshold must be at least 1, got %d", ErrInvalidLane, l.Target, l.Threshold)
	}
	if l.Policy != PolicyShared && l.Policy != PolicyExclusive {
		return fmt.Errorf("%w: %s has unknown policy %s", ErrInvalidLane, l.Target, l.Policy)
	}
	return nil
}

// DefaultLanes returns the canonical lane set.
func DefaultLanes() []Lane {
	return []Lane{
		{Target: AllUp, Threshold: 20, Increment: 10, Policy: PolicyShared},
		{Target: AllDown, Threshold: 20, Increment: -10, Policy: PolicyShared},
		{Target: Confirm, Threshold: 30, ConfirmsFloor: true, Policy: PolicyExclusive},
		{Target: PointUp, Threshold: 15, Increment: 1, Policy: PolicyShared},
		{Target: PointDown, Threshold: 15, Increment: -1, Policy: PolicyShared},
	}
}

// evaluationRank orders lanes when more than one could fire on the same frame:
// whole-hand gestures before single-finger ones, matching classifier precedence.
var evaluationRank = map[Label]int{
	AllUp:     0,
	AllDown:   1,
	Confirm:   2,
	PointUp:   3,
	PointDown: 4,
}

// Command is a debounced event raised when a lane fires.
type Command struct {
	Lane Lane
}

// Label returns the target label of the lane that fired.
func (c Command) Label() Label { return c.Lane.Target }

// Increment returns the signed counter change carried by the command.
func (c Command) Increment() int { return c.Lane.Increment }

// ConfirmsFloor reports whether the command commits the pending counter.
func (c Command) ConfirmsFloor() bool { return c.Lane.ConfirmsFloor }

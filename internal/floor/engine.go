package floor

import "github.com/ayusman/floorsign/internal/gesture"

// Frame is the outcome of one Engine step.
type Frame struct {
	Label    gesture.Label
	HandSeen bool
	Command  *gesture.Command
	Effects  []Effect
}

// LaneProgress reports how close a lane is to firing.
type LaneProgress struct {
	Label     gesture.Label `json:"label"`
	Count     int           `json:"count"`
	Threshold int           `json:"threshold"`
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Mode           Mode           `json:"mode"`
	Floor          int            `json:"floor"`
	Counter        int            `json:"counter"`
	PredictedFloor int            `json:"predicted_floor"`
	InitProgress   int            `json:"init_progress"`
	InitThreshold  int            `json:"init_threshold"`
	Label          gesture.Label  `json:"label"`
	HandSeen       bool           `json:"hand_seen"`
	Lanes          []LaneProgress `json:"lanes"`
}

// Engine runs the stabilizer and controller for one update loop.
type Engine struct {
	stabilizer *gesture.Stabilizer
	controller *Controller
	state      State
	lastLabel  gesture.Label
	handSeen   bool
}

// NewEngine validates the lanes and the initial threshold and returns an
// engine in the boot state.
func NewEngine(lanes []gesture.Lane, initialThreshold int) (*Engine, error) {
	stabilizer, err := gesture.NewStabilizer(lanes)
	if err != nil {
		return nil, err
	}

	controller, err := NewController(initialThreshold)
	if err != nil {
		return nil, err
	}

	return &Engine{
		stabilizer: stabilizer,
		controller: controller,
		state:      NewState(),
	}, nil
}

// Restore sets the confirmed floor, e.g. from persisted history at boot.
func (e *Engine) Restore(floor int) {
	e.state.Floor = floor
}

// SetLanes replaces the lane set. The controller state is kept, so a
// selection in progress survives; the new lanes start with empty windows.
func (e *Engine) SetLanes(lanes []gesture.Lane) error {
	stabilizer, err := gesture.NewStabilizer(lanes)
	if err != nil {
		return err
	}
	e.stabilizer = stabilizer
	return nil
}

// Step processes one frame. ok is false when no hand was detected; such a
// frame changes nothing and only yields a display update.
//
// The stabilizer is only fed while selecting, and is reset whenever the mode
// changes so window content never carries over between selection cycles.
func (e *Engine) Step(label gesture.Label, ok bool) Frame {
	e.handSeen = ok
	if !ok {
		d := e.controller.display(&e.state, e.lastLabel, false, gesture.Neutral, HighlightNone)
		return Frame{Effects: []Effect{UpdateDisplay(d)}}
	}
	e.lastLabel = label

	mode := e.state.Mode

	var cmd *gesture.Command
	if mode == Selecting {
		if c, fired := e.stabilizer.Update(label); fired {
			cmd = &c
		}
	}

	effects := e.controller.Apply(&e.state, label, cmd)

	if e.state.Mode != mode {
		e.stabilizer.Reset()
	}

	return Frame{
		Label:    label,
		HandSeen: true,
		Command:  cmd,
		Effects:  effects,
	}
}

// State returns a copy of the controller state.
func (e *Engine) State() State {
	return e.state
}

// Lanes returns the lanes in evaluation order.
func (e *Engine) Lanes() []gesture.Lane {
	return e.stabilizer.Lanes()
}

// Snapshot returns the current state together with lane progress.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:           e.state.Mode,
		Floor:          e.state.Floor,
		Counter:        e.state.Counter,
		PredictedFloor: e.state.PredictedFloor(),
		InitProgress:   e.state.InitProgress,
		InitThreshold:  e.controller.InitialThreshold,
		Label:          e.lastLabel,
		HandSeen:       e.handSeen,
	}

	for _, lane := range e.stabilizer.Lanes() {
		count, threshold, _ := e.stabilizer.Progress(lane.Target)
		snap.Lanes = append(snap.Lanes, LaneProgress{
			Label:     lane.Target,
			Count:     count,
			Threshold: threshold,
		})
	}

	return snap
}

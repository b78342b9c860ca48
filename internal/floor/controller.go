package floor

import (
	"fmt"

	"github.com/ayusman/floorsign/internal/gesture"
)

// DefaultInitialThreshold is how many consecutive confirm frames arm the
// controller.
const DefaultInitialThreshold = 30

// Controller applies labels and commands to a State.
type Controller struct {
	InitialThreshold int
}

// NewController creates a Controller. The threshold must be at least 1.
func NewController(initialThreshold int) (*Controller, error) {
	if initialThreshold < 1 {
		return nil, fmt.Errorf("initial threshold must be at least 1, got %d", initialThreshold)
	}
	return &Controller{InitialThreshold: initialThreshold}, nil
}

// Apply advances s by one frame. label is the raw label for the frame and cmd
// the debounced command, nil when no lane fired. The returned effects always
// end with a display update.
func (c *Controller) Apply(s *State, label gesture.Label, cmd *gesture.Command) []Effect {
	var effects []Effect
	active := gesture.Neutral
	highlight := HighlightNone

	switch s.Mode {
	case AwaitingStart:
		// Commands are ignored until armed; only raw confirm frames count.
		if label == gesture.Confirm {
			s.InitProgress++
		} else {
			s.InitProgress = 0
		}

		// ">=" with a reset on transition, not on match.
		if s.InitProgress >= c.InitialThreshold {
			s.Floor += s.Counter
			s.Counter = 0
			s.InitProgress = 0
			s.Mode = Selecting
			effects = append(effects, PlaySound(ClipInitialize))
		}

	case Selecting:
		if cmd == nil {
			break
		}
		active = cmd.Label()

		if cmd.ConfirmsFloor() {
			previous := s.Floor
			delta := s.Counter
			s.Floor += s.Counter
			s.Counter = 0
			s.Mode = AwaitingStart
			effects = append(effects,
				PlaySound(ClipConfirm),
				Confirmed(Confirmation{Floor: s.Floor, PreviousFloor: previous, Delta: delta}),
			)
			break
		}

		s.Counter += cmd.Increment()
		highlight = highlightFor(cmd.Increment())
		effects = append(effects, PlaySound(ClipFloorChanging))
	}

	return append(effects, UpdateDisplay(c.display(s, label, true, active, highlight)))
}

func (c *Controller) display(s *State, label gesture.Label, handSeen bool, active gesture.Label, h Highlight) Display {
	return Display{
		Floor:          s.Floor,
		PredictedFloor: s.PredictedFloor(),
		ActiveLane:     active,
		Mode:           s.Mode,
		Highlight:      h,
		Label:          label,
		HandSeen:       handSeen,
	}
}

package floor

import (
	"fmt"

	"github.com/ayusman/floorsign/internal/gesture"
)

// EffectKind tells a collaborator what to do with an Effect.
type EffectKind int

const (
	// EffectPlaySound asks for Clip to be played.
	EffectPlaySound EffectKind = iota
	// EffectUpdateDisplay carries the values to render.
	EffectUpdateDisplay
	// EffectConfirmed announces a newly confirmed floor.
	EffectConfirmed
)

func (k EffectKind) String() string {
	switch k {
	case EffectPlaySound:
		return "play_sound"
	case EffectUpdateDisplay:
		return "update_display"
	case EffectConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Clip names a sound.
type Clip string

const (
	ClipInitialize    Clip = "initialize"
	ClipFloorChanging Clip = "floor_changing"
	ClipConfirm       Clip = "confirm"
)

// Highlight is the visual variant shown when the counter changes.
type Highlight string

const (
	HighlightNone      Highlight = ""
	HighlightUp        Highlight = "up"
	HighlightDown      Highlight = "down"
	HighlightExtraUp   Highlight = "extra_up"
	HighlightExtraDown Highlight = "extra_down"
)

// highlightFor picks the variant from the sign and size of the increment.
func highlightFor(increment int) Highlight {
	switch {
	case increment > 1:
		return HighlightExtraUp
	case increment == 1:
		return HighlightUp
	case increment == -1:
		return HighlightDown
	case increment < -1:
		return HighlightExtraDown
	default:
		return HighlightNone
	}
}

// Display is what the UI should show after a frame.
type Display struct {
	Floor          int           `json:"floor"`
	PredictedFloor int           `json:"predicted_floor"`
	ActiveLane     gesture.Label `json:"active_lane"`
	Mode           Mode          `json:"mode"`
	Highlight      Highlight     `json:"highlight,omitempty"`
	Label          gesture.Label `json:"label"`
	HandSeen       bool          `json:"hand_seen"`
}

// Confirmation describes a committed selection.
type Confirmation struct {
	Floor         int `json:"floor"`
	PreviousFloor int `json:"previous_floor"`
	Delta         int `json:"delta"`
}

// Effect is a side-effect request for an external collaborator.
// Only the field matching Kind is meaningful.
type Effect struct {
	Kind         EffectKind
	Clip         Clip
	Display      Display
	Confirmation Confirmation
}

// PlaySound builds a sound effect.
func PlaySound(c Clip) Effect {
	return Effect{Kind: EffectPlaySound, Clip: c}
}

// UpdateDisplay builds a display effect.
func UpdateDisplay(d Display) Effect {
	return Effect{Kind: EffectUpdateDisplay, Display: d}
}

// Confirmed builds a confirmation effect.
func Confirmed(c Confirmation) Effect {
	return Effect{Kind: EffectConfirmed, Confirmation: c}
}

package gesture

import "github.com/ayusman/floorsign/internal/detector"

// Classifier maps hand landmarks to a Label.
type Classifier struct {
	// Margin is how far, in normalized image units, a finger's base must sit
	// above (or below) the wrist before the finger counts as pointing.
	Margin float64
}

// NewClassifier creates a Classifier with the given wrist margin.
func NewClassifier(margin float64) *Classifier {
	return &Classifier{Margin: margin}
}

// Classify returns the label for a hand. The boolean is false when there is no
// hand, in which case the frame carries no label at all.
//
// Checks run in a fixed order and the first match wins. Confirm must be
// tested before the lone index checks because its pose also has the index
// finger up.
func (c *Classifier) Classify(hand *detector.HandLandmarks) (Label, bool) {
	if hand == nil {
		return Neutral, false
	}

	switch {
	case c.all(hand, up):
		return AllUp, true
	case c.all(hand, down):
		return AllDown, true
	case c.pointing(hand, detector.Index, up) &&
		c.pointing(hand, detector.Middle, up) &&
		!c.pointing(hand, detector.Ring, up) &&
		!c.pointing(hand, detector.Pinky, up):
		return Confirm, true
	case c.pointing(hand, detector.Index, up):
		return PointUp, true
	case c.pointing(hand, detector.Index, down):
		return PointDown, true
	default:
		return Neutral, true
	}
}

type direction int

const (
	up direction = iota
	down
)

var nonThumb = [...]detector.Finger{detector.Index, detector.Middle, detector.Ring, detector.Pinky}

func (c *Classifier) all(hand *detector.HandLandmarks, dir direction) bool {
	for _, f := range nonThumb {
		if !c.pointing(hand, f, dir) {
			return false
		}
	}
	return true
}

// pointing reports whether the finger's joints are strictly ordered in dir and
// its base clears the wrist by Margin. Y grows downwards in image space.
func (c *Classifier) pointing(hand *detector.HandLandmarks, f detector.Finger, dir direction) bool {
	j := hand.Joints(f)
	wrist := hand.Points[detector.Wrist].Y

	tip := j[detector.JointTip].Y
	dist := j[detector.JointDistal].Y
	prox := j[detector.JointProximal].Y
	base := j[detector.JointBase].Y

	if dir == up {
		return tip < dist && dist < prox && prox < base && base < wrist-c.Margin
	}
	return tip > dist && dist > prox && prox > base && base > wrist+c.Margin
}

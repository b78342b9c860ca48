// Package gesture turns per-frame hand poses into debounced commands.
//
// A Classifier maps one hand to a coarse Label. A Stabilizer keeps voting
// windows of recent labels and raises a Command when a lane's window is
// unanimous for its target label.
package gesture

import "fmt"

// Label is the coarse pose of one hand in one frame.
type Label int

const (
	Neutral Label = iota
	AllUp
	AllDown
	Confirm
	PointUp
	PointDown
	numLabels
)

var labelNames = [numLabels]string{
	Neutral:   "neutral",
	AllUp:     "all_up",
	AllDown:   "all_down",
	Confirm:   "confirm",
	PointUp:   "point_up",
	PointDown: "point_down",
}

// Labels returns every label in declaration order.
func Labels() []Label {
	out := make([]Label, 0, numLabels)
	for l := Neutral; l < numLabels; l++ {
		out = append(out, l)
	}
	return out
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return l >= Neutral && l < numLabels
}

func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel parses the text form of a label, e.g. "point_up".
func ParseLabel(s string) (Label, error) {
	for l, name := range labelNames {
		if name == s {
			return Label(l), nil
		}
	}
	return Neutral, fmt.Errorf("unknown gesture label %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("unknown gesture label %d", int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

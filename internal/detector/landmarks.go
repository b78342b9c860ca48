// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger identifies one finger of a hand.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	numFingers
)

// Joint positions within a finger chain, ordered from the tip to the base.
const (
	JointTip = iota
	JointDistal
	JointProximal
	JointBase
	NumJoints
)

// fingerJoints maps each finger to its landmark indices, tip first.
// The thumb uses IP/MCP/CMC in place of DIP/PIP/MCP.
var fingerJoints = [numFingers][NumJoints]int{
	Thumb:  {ThumbTip, ThumbIP, ThumbMCP, ThumbCMC},
	Index:  {IndexTip, IndexDIP, IndexPIP, IndexMCP},
	Middle: {MiddleTip, MiddleDIP, MiddlePIP, MiddleMCP},
	Ring:   {RingTip, RingDIP, RingPIP, RingMCP},
	Pinky:  {PinkyTip, PinkyDIP, PinkyPIP, PinkyMCP},
}

var fingerNames = [numFingers]string{"thumb", "index", "middle", "ring", "pinky"}

// String returns the lower-case finger name.
func (f Finger) String() string {
	if f < 0 || f >= numFingers {
		return "unknown"
	}
	return fingerNames[f]
}

// FingerJoints returns the landmark indices of a finger ordered tip, distal,
// proximal, base. It panics on an unknown finger.
func FingerJoints(f Finger) [NumJoints]int {
	return fingerJoints[f]
}

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
// Coordinates are normalized image coordinates: Y grows downwards.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Joints returns the four landmarks of a finger ordered tip to base.
func (h *HandLandmarks) Joints(f Finger) [NumJoints]Point3D {
	var out [NumJoints]Point3D
	for i, idx := range fingerJoints[f] {
		out[i] = h.Points[idx]
	}
	return out
}

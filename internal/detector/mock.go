package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FingerPose is the shape a fixture finger is posed in.
type FingerPose int

const (
	// PoseCurled folds the finger so it points neither up nor down.
	PoseCurled FingerPose = iota
	// PoseUp extends the finger above the wrist.
	PoseUp
	// PoseDown extends the finger below the wrist.
	PoseDown
)

// Fixture geometry. The wrist sits in the middle of the frame so fingers can
// point both ways; extended fingers clear the wrist by 0.1.
const (
	fixtureWristX = 0.5
	fixtureWristY = 0.5
)

var fixtureFingerX = map[Finger]float64{
	Index:  0.58,
	Middle: 0.52,
	Ring:   0.46,
	Pinky:  0.40,
}

// tip, distal, proximal, base
var fixtureChains = map[FingerPose][NumJoints]float64{
	PoseUp:     {0.15, 0.22, 0.30, 0.40},
	PoseDown:   {0.85, 0.78, 0.70, 0.60},
	PoseCurled: {0.44, 0.40, 0.36, 0.42},
}

// PoseLandmarks builds a right hand with the four non-thumb fingers posed as
// given. The thumb is always tucked against the palm.
func PoseLandmarks(index, middle, ring, pinky FingerPose) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: fixtureWristX, Y: fixtureWristY}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.48, Z: -0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.45, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.47, Z: -0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.49, Z: -0.03}

	poses := map[Finger]FingerPose{Index: index, Middle: middle, Ring: ring, Pinky: pinky}
	for finger, pose := range poses {
		chain := fixtureChains[pose]
		for j, idx := range FingerJoints(finger) {
			landmarks.Points[idx] = Point3D{X: fixtureFingerX[finger], Y: chain[j]}
		}
	}

	return landmarks
}

// AllUpLandmarks returns an open hand with every non-thumb finger pointing up.
func AllUpLandmarks() HandLandmarks {
	return PoseLandmarks(PoseUp, PoseUp, PoseUp, PoseUp)
}

// AllDownLandmarks returns a hand with every non-thumb finger pointing down.
func AllDownLandmarks() HandLandmarks {
	return PoseLandmarks(PoseDown, PoseDown, PoseDown, PoseDown)
}

// ConfirmLandmarks returns the victory sign: index and middle up, ring and pinky curled.
func ConfirmLandmarks() HandLandmarks {
	return PoseLandmarks(PoseUp, PoseUp, PoseCurled, PoseCurled)
}

// PointUpLandmarks returns a hand pointing up with the index finger only.
func PointUpLandmarks() HandLandmarks {
	return PoseLandmarks(PoseUp, PoseCurled, PoseCurled, PoseCurled)
}

// PointDownLandmarks returns a hand pointing down with the index finger only.
func PointDownLandmarks() HandLandmarks {
	return PoseLandmarks(PoseDown, PoseCurled, PoseCurled, PoseCurled)
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(PoseCurled, PoseCurled, PoseCurled, PoseCurled)
}

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

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointingLandmarks returns a right hand with the index finger extended
// upward, its tip at normalized height y. The other fingers are curled
// below the tip.
func PointingLandmarks(y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist below the fingertip
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: y + 0.35, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: y + 0.30, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: y + 0.26, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: y + 0.22, Z: -0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.53, Y: y + 0.21, Z: -0.02}

	// Index finger extended
	landmarks.Points[IndexMCP] = Point3D{X: 0.53, Y: y + 0.20, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.53, Y: y + 0.12, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.53, Y: y + 0.06, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.53, Y: y, Z: 0.0}

	// Remaining fingers curled
	for i, base := range []int{MiddleMCP, RingMCP, PinkyMCP} {
		x := 0.50 - float64(i)*0.04
		landmarks.Points[base] = Point3D{X: x, Y: y + 0.21, Z: -0.02}
		landmarks.Points[base+1] = Point3D{X: x, Y: y + 0.18, Z: -0.05}
		landmarks.Points[base+2] = Point3D{X: x - 0.01, Y: y + 0.21, Z: -0.04}
		landmarks.Points[base+3] = Point3D{X: x - 0.02, Y: y + 0.23, Z: -0.02}
	}

	return landmarks
}

package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns a fixed result, or plays back a per-frame sequence when one
// is queued.
type MockDetector struct {
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetSequence queues per-frame results; each Detect call consumes one
// entry until the queue is empty, then SetHands results apply again.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.queue = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// frac builds a pixel-space point from frame-relative fractions.
func frac(w, h int, x, y float64) Point3D {
	return Point3D{X: x * float64(w), Y: y * float64(h), Z: 0}
}

// baseHand returns a hand with wrist, knuckles and every finger curled
// (each tip below its PIP joint). Fixtures extend fingers from here.
func baseHand(w, h int) HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = frac(w, h, 0.50, 0.80)

	// Thumb folded across the palm: tip below the IP joint.
	lm.Points[ThumbCMC] = frac(w, h, 0.55, 0.75)
	lm.Points[ThumbMCP] = frac(w, h, 0.58, 0.70)
	lm.Points[ThumbIP] = frac(w, h, 0.60, 0.66)
	lm.Points[ThumbTip] = frac(w, h, 0.61, 0.69)

	lm.Points[IndexMCP] = frac(w, h, 0.55, 0.68)
	lm.Points[IndexPIP] = frac(w, h, 0.56, 0.60)
	lm.Points[IndexDIP] = frac(w, h, 0.55, 0.64)
	lm.Points[IndexTip] = frac(w, h, 0.54, 0.68)

	lm.Points[MiddleMCP] = frac(w, h, 0.50, 0.66)
	lm.Points[MiddlePIP] = frac(w, h, 0.50, 0.58)
	lm.Points[MiddleDIP] = frac(w, h, 0.49, 0.62)
	lm.Points[MiddleTip] = frac(w, h, 0.48, 0.66)

	lm.Points[RingMCP] = frac(w, h, 0.45, 0.68)
	lm.Points[RingPIP] = frac(w, h, 0.45, 0.61)
	lm.Points[RingDIP] = frac(w, h, 0.44, 0.65)
	lm.Points[RingTip] = frac(w, h, 0.43, 0.69)

	lm.Points[PinkyMCP] = frac(w, h, 0.40, 0.70)
	lm.Points[PinkyPIP] = frac(w, h, 0.40, 0.64)
	lm.Points[PinkyDIP] = frac(w, h, 0.39, 0.67)
	lm.Points[PinkyTip] = frac(w, h, 0.38, 0.71)

	return lm
}

// extendIndex straightens the index finger upward.
func extendIndex(lm *HandLandmarks, w, h int) {
	lm.Points[IndexPIP] = frac(w, h, 0.56, 0.55)
	lm.Points[IndexDIP] = frac(w, h, 0.57, 0.45)
	lm.Points[IndexTip] = frac(w, h, 0.57, 0.35)
}

// FistLandmarks returns a closed fist: no finger extended.
func FistLandmarks(w, h int) HandLandmarks {
	return baseHand(w, h)
}

// PointerUpLandmarks returns a hand with only the index finger extended.
func PointerUpLandmarks(w, h int) HandLandmarks {
	lm := baseHand(w, h)
	extendIndex(&lm, w, h)
	return lm
}

// PinchCloseLandmarks returns a hand with thumb and index extended and
// their tips within pinch range of each other.
func PinchCloseLandmarks(w, h int) HandLandmarks {
	lm := baseHand(w, h)
	extendIndex(&lm, w, h)
	lm.Points[ThumbIP] = frac(w, h, 0.58, 0.50)
	lm.Points[ThumbTip] = frac(w, h, 0.60, 0.37)
	return lm
}

// SpreadPinchLandmarks returns thumb and index extended but far apart,
// which reads as a pointer rather than a pinch.
func SpreadPinchLandmarks(w, h int) HandLandmarks {
	lm := baseHand(w, h)
	extendIndex(&lm, w, h)
	lm.Points[ThumbIP] = frac(w, h, 0.68, 0.62)
	lm.Points[ThumbTip] = frac(w, h, 0.78, 0.55)
	return lm
}

// TwoFingersLandmarks returns index and middle extended (a "peace" pose).
func TwoFingersLandmarks(w, h int) HandLandmarks {
	lm := baseHand(w, h)
	extendIndex(&lm, w, h)
	lm.Points[MiddlePIP] = frac(w, h, 0.50, 0.52)
	lm.Points[MiddleDIP] = frac(w, h, 0.50, 0.42)
	lm.Points[MiddleTip] = frac(w, h, 0.50, 0.30)
	return lm
}

// OpenHandLandmarks returns a hand with all four fingers extended.
func OpenHandLandmarks(w, h int) HandLandmarks {
	lm := TwoFingersLandmarks(w, h)
	lm.Points[RingPIP] = frac(w, h, 0.43, 0.55)
	lm.Points[RingDIP] = frac(w, h, 0.42, 0.45)
	lm.Points[RingTip] = frac(w, h, 0.42, 0.35)
	lm.Points[PinkyPIP] = frac(w, h, 0.37, 0.60)
	lm.Points[PinkyDIP] = frac(w, h, 0.35, 0.50)
	lm.Points[PinkyTip] = frac(w, h, 0.34, 0.42)
	return lm
}

// Package gesture derives discrete interaction gestures from smoothed hand
// landmarks and stabilizes the resulting label stream.
package gesture

import (
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

// Gesture is a discrete interaction mode derived from finger geometry.
type Gesture int

const (
	// Idle means no actionable pose.
	Idle Gesture = iota
	// PointerUp means the index finger is raised for drawing.
	PointerUp
	// PinchClose means thumb and index tips are pinched together.
	PinchClose
	// OpenHand means all four fingers are extended.
	OpenHand
	// MultipleFingersUp means more than one finger is raised without
	// matching a more specific pose.
	MultipleFingersUp
)

// String returns the wire/display name of the gesture.
func (g Gesture) String() string {
	switch g {
	case PointerUp:
		return "pointer_up"
	case PinchClose:
		return "pinch_close"
	case OpenHand:
		return "open_hand"
	case MultipleFingersUp:
		return "multiple_fingers_up"
	default:
		return "idle"
	}
}

// DefaultPinchDistancePx is the thumb-to-index tip distance below which an
// extended thumb+index pair reads as a pinch.
const DefaultPinchDistancePx = 50.0

// fingerJoints maps each non-thumb finger to its (tip, knuckle) pair.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Classify maps a smoothed landmark set to a gesture. It is a pure
// function; all temporal stabilization happens downstream.
//
// A finger is "extended" when its tip sits above its knuckle in image
// coordinates (smaller Y). First match wins:
//  1. index only                    -> PointerUp
//  2. thumb+index, tips near        -> PinchClose (else PointerUp)
//  3. all four fingers              -> OpenHand
//  4. more than one finger          -> MultipleFingersUp
//  5. otherwise                     -> Idle
func Classify(lm *detector.HandLandmarks, pinchDistPx float64) Gesture {
	if lm == nil {
		return Idle
	}
	if pinchDistPx <= 0 {
		pinchDistPx = DefaultPinchDistancePx
	}

	var extended [4]bool
	count := 0
	for i, j := range fingerJoints {
		extended[i] = lm.Points[j[0]].Y < lm.Points[j[1]].Y
		if extended[i] {
			count++
		}
	}
	indexOnly := extended[0] && count == 1
	thumbUp := lm.Points[detector.ThumbTip].Y < lm.Points[detector.ThumbIP].Y

	switch {
	case indexOnly && !thumbUp:
		return PointerUp
	case indexOnly && thumbUp:
		d := detector.PixelDistance(lm.Points[detector.ThumbTip], lm.Points[detector.IndexTip])
		if d < pinchDistPx {
			return PinchClose
		}
		return PointerUp
	case count == 4:
		return OpenHand
	case count > 1:
		return MultipleFingersUp
	default:
		return Idle
	}
}

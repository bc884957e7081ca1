// Package track provides the per-frame stabilization stages between raw
// landmark detections and the gesture classifier: geometric validity
// checks, exponential smoothing, and detection hysteresis.
package track

import (
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

// ValidityParams bound the landmark bounding box relative to the frame.
type ValidityParams struct {
	// MinBoxFrac is the minimum box width/height as a fraction of the
	// corresponding frame dimension.
	MinBoxFrac float64
	// MaxBoxFrac is the maximum box width/height as a fraction of the
	// corresponding frame dimension.
	MaxBoxFrac float64
	// MaxOverhangFrac is how far the box may extend beyond any frame
	// edge, as a fraction of the corresponding frame dimension.
	MaxOverhangFrac float64
}

// DefaultValidityParams returns the standard plausibility bounds.
func DefaultValidityParams() ValidityParams {
	return ValidityParams{
		MinBoxFrac:      0.02,
		MaxBoxFrac:      0.90,
		MaxOverhangFrac: 0.30,
	}
}

// Valid reports whether a detected landmark set is geometrically plausible
// for the given frame size. Finger topology is not checked; point
// correspondence is trusted to the upstream detector.
func Valid(lm *detector.HandLandmarks, frameW, frameH int, p ValidityParams) bool {
	if lm == nil || frameW <= 0 || frameH <= 0 {
		return false
	}

	minX, minY, maxX, maxY := lm.Bounds()
	boxW := maxX - minX
	boxH := maxY - minY
	fw := float64(frameW)
	fh := float64(frameH)

	// Too small to be a real hand.
	if boxW < p.MinBoxFrac*fw || boxH < p.MinBoxFrac*fh {
		return false
	}

	// Implausibly large.
	if boxW > p.MaxBoxFrac*fw || boxH > p.MaxBoxFrac*fh {
		return false
	}

	// Mostly off-screen.
	if minX < -p.MaxOverhangFrac*fw || minY < -p.MaxOverhangFrac*fh {
		return false
	}
	if maxX > fw+p.MaxOverhangFrac*fw || maxY > fh+p.MaxOverhangFrac*fh {
		return false
	}

	return true
}

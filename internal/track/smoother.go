package track

import (
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

// DefaultSmoothingAlpha is the blend weight given to the newest sample.
const DefaultSmoothingAlpha = 0.5

// Smoother low-pass filters a stream of landmark sets with a per-point
// exponential moving average. One instance tracks one hand; construct it
// once per session and Reset it whenever tracking is lost so the next
// valid frame reinitializes instead of blending against stale state.
type Smoother struct {
	alpha float64
	state detector.HandLandmarks
	warm  bool
}

// NewSmoother creates a Smoother with the given blend factor.
// Factors outside (0, 1] fall back to the default.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}
	return &Smoother{alpha: alpha}
}

// Smooth folds the raw landmarks into the running state and returns the
// smoothed set. The first call after a reset passes the input through
// unchanged.
func (s *Smoother) Smooth(raw *detector.HandLandmarks) *detector.HandLandmarks {
	if raw == nil {
		return nil
	}

	if !s.warm {
		s.state = *raw
		s.warm = true
		out := s.state
		return &out
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		prev := s.state.Points[i]
		cur := raw.Points[i]
		s.state.Points[i] = detector.Point3D{
			X: prev.X*(1-s.alpha) + cur.X*s.alpha,
			Y: prev.Y*(1-s.alpha) + cur.Y*s.alpha,
			Z: prev.Z*(1-s.alpha) + cur.Z*s.alpha,
		}
	}
	s.state.Handedness = raw.Handedness
	s.state.Score = raw.Score

	out := s.state
	return &out
}

// Reset clears the stored state.
func (s *Smoother) Reset() {
	s.warm = false
}

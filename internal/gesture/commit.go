package gesture

import (
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

// DefaultCommitFrames is how many consecutive identical raw gestures are
// required before a change may be published.
const DefaultCommitFrames = 5

// Published is the gesture/landmark state exposed to the rest of the
// system. Landmarks is nil while no hand is tracked.
type Published struct {
	Gesture   Gesture
	Landmarks *detector.HandLandmarks
}

// CommitBuffer is the consumer-side stability gate in front of the
// published state. A change goes out only once the raw gesture has been
// identical for CommitFrames consecutive frames, and only if it is
// materially different from what was last published: either the gesture
// value changed, or landmark presence flipped between nil and non-nil.
// Redundantly re-publishing an unchanged state every stable frame would
// churn every downstream consumer for nothing.
type CommitBuffer struct {
	commitFrames int

	lastRaw Gesture
	stable  int
	primed  bool

	published Published
}

// NewCommitBuffer creates a CommitBuffer publishing Idle with no
// landmarks. commitFrames values below one fall back to the default.
func NewCommitBuffer(commitFrames int) *CommitBuffer {
	if commitFrames < 1 {
		commitFrames = DefaultCommitFrames
	}
	return &CommitBuffer{commitFrames: commitFrames}
}

// Update folds in one frame's stabilized gesture and landmark snapshot.
// It returns the current published state and whether this call changed it.
func (c *CommitBuffer) Update(raw Gesture, lm *detector.HandLandmarks) (Published, bool) {
	if c.primed && raw == c.lastRaw {
		c.stable++
	} else {
		c.lastRaw = raw
		c.stable = 1
		c.primed = true
	}

	if c.stable < c.commitFrames {
		return c.published, false
	}

	gestureChanged := raw != c.published.Gesture
	presenceFlipped := (lm == nil) != (c.published.Landmarks == nil)
	if !gestureChanged && !presenceFlipped {
		return c.published, false
	}

	c.published = Published{Gesture: raw, Landmarks: lm}
	return c.published, true
}

// State returns the last published state.
func (c *CommitBuffer) State() Published {
	return c.published
}

// Reset clears the stability counter and the published state.
func (c *CommitBuffer) Reset() {
	c.lastRaw = Idle
	c.stable = 0
	c.primed = false
	c.published = Published{}
}

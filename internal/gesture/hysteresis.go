package gesture

// DefaultStayFrames is how many consecutive disagreeing updates it takes
// before the held gesture changes.
const DefaultStayFrames = 3

// Hysteresis suppresses flicker in the raw gesture stream. The held value
// only changes after the input has disagreed with it for StayFrames
// consecutive updates.
//
// In the default (loose) mode the disagreement counter advances on any
// value that differs from the held gesture, so an oscillating input still
// flips the output to whatever value is current on the deciding update.
// Strict mode requires the same new value to repeat instead.
type Hysteresis struct {
	stayFrames int
	strict     bool

	current   Gesture
	frames    int
	candidate Gesture
}

// NewHysteresis creates a Hysteresis holding Idle. stayFrames values below
// one fall back to the default; strict selects the tighter acceptance rule.
func NewHysteresis(stayFrames int, strict bool) *Hysteresis {
	if stayFrames < 1 {
		stayFrames = DefaultStayFrames
	}
	return &Hysteresis{stayFrames: stayFrames, strict: strict}
}

// Update folds in one raw gesture and returns the stabilized value.
func (h *Hysteresis) Update(raw Gesture) Gesture {
	if raw == h.current {
		h.frames = 0
		return h.current
	}

	if h.strict {
		if raw != h.candidate {
			h.candidate = raw
			h.frames = 0
		}
	}

	h.frames++
	if h.frames >= h.stayFrames {
		h.current = raw
		h.frames = 0
	}
	return h.current
}

// Current returns the held gesture without updating it.
func (h *Hysteresis) Current() Gesture {
	return h.current
}

// Reset returns the filter to Idle.
func (h *Hysteresis) Reset() {
	h.current = Idle
	h.candidate = Idle
	h.frames = 0
}

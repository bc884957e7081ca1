package track

// DefaultMissBudget is how many consecutive missed frames are tolerated
// before tracking is released.
const DefaultMissBudget = 5

// DetectionHysteresis keeps a sticky "hand present" state across brief
// detector dropouts. Tracking engages immediately on any valid detection
// and releases only once the miss counter exceeds the budget.
type DetectionHysteresis struct {
	missBudget int
	misses     int
	tracking   bool
}

// NewDetectionHysteresis creates a DetectionHysteresis with the given
// miss budget. Budgets below zero fall back to the default.
func NewDetectionHysteresis(missBudget int) *DetectionHysteresis {
	if missBudget < 0 {
		missBudget = DefaultMissBudget
	}
	return &DetectionHysteresis{missBudget: missBudget}
}

// Update folds in one frame's detection result and returns whether the
// hand is considered tracked.
func (d *DetectionHysteresis) Update(detected bool) bool {
	if detected {
		d.tracking = true
		d.misses = 0
		return d.tracking
	}

	d.misses++
	if d.misses > d.missBudget {
		d.tracking = false
	}
	return d.tracking
}

// IsTracking returns the current tracking state without updating it.
func (d *DetectionHysteresis) IsTracking() bool {
	return d.tracking
}

// Reset clears tracking state and the miss counter.
func (d *DetectionHysteresis) Reset() {
	d.tracking = false
	d.misses = 0
}

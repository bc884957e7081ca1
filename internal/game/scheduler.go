package game

import (
	"sync"
	"time"
)

// Default scheduler timing.
const (
	// DefaultQuietPeriod is the debounce window after the last canvas
	// mutation before a classification fires.
	DefaultQuietPeriod = 250 * time.Millisecond
	// DefaultDrawInterval is the minimum spacing between classification
	// triggers while actively drawing, layered on top of the debounce.
	DefaultDrawInterval = 350 * time.Millisecond
)

// Scheduler coalesces bursts of canvas mutations into single
// classification runs. Every Touch cancels the pending timer and
// reschedules after the quiet period; a busy flag drops runs that would
// overlap an in-flight one rather than queuing them (the next mutation
// reschedules anyway). There is never more than one pending request.
type Scheduler struct {
	quiet        time.Duration
	drawInterval time.Duration
	run          func()

	mu       sync.Mutex
	timer    *time.Timer
	busy     bool
	lastDraw time.Time
	closed   bool
}

// NewScheduler creates a Scheduler invoking run after each quiet period.
// Non-positive durations fall back to the defaults.
func NewScheduler(quiet, drawInterval time.Duration, run func()) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if drawInterval <= 0 {
		drawInterval = DefaultDrawInterval
	}
	return &Scheduler{
		quiet:        quiet,
		drawInterval: drawInterval,
		run:          run,
	}
}

// Touch notes a canvas mutation: any pending classification is canceled
// and a new one is scheduled after the quiet period.
func (s *Scheduler) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

// TouchDraw is Touch rate-limited for active drawing: at most one
// trigger per draw interval, so continuous strokes do not reschedule the
// debounce forever.
func (s *Scheduler) TouchDraw() {
	s.mu.Lock()
	if s.closed || time.Since(s.lastDraw) < s.drawInterval {
		s.mu.Unlock()
		return
	}
	s.lastDraw = time.Now()
	s.mu.Unlock()

	s.Touch()
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closed || s.busy {
		// In-flight classification: drop, don't queue.
		s.mu.Unlock()
		return
	}
	s.busy = true
	s.mu.Unlock()

	s.run()

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Close cancels any pending classification; subsequent touches are
// ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

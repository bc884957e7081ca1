package game

import (
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amechi-aduba/drawVSAI-react/internal/classifier"
	"github.com/amechi-aduba/drawVSAI-react/internal/sketch"
)

var testCategories = []string{"apple", "house", "star"}

// inkedCanvas returns a raster with enough ink to pass the ratio gate.
func inkedCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 60; y < 140; y++ {
		for x := 60; x < 140; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return img
}

func newTestEngine(t *testing.T, cfg Config, model classifier.Classifier, onClear func()) *Engine {
	t.Helper()
	e, err := New(cfg, testCategories, model, sketch.NewPreprocessor(sketch.DefaultParams()), onClear)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEngine_ScoresOnceAfterStreak(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	var clears atomic.Int32

	// EMAFactor -1 disables smoothing so guesses track the raw
	// classifier output tick for tick.
	e := newTestEngine(t, Config{
		EMAFactor:     -1,
		StreakToScore: 1,
		RestartDelay:  time.Hour, // keep the won round live for assertions
	}, mock, func() { clears.Add(1) })
	e.StartRoundWith("star")

	img := inkedCanvas()
	wrong := classifier.Peaked(len(testCategories), 1, 0.9)  // "house"
	right := classifier.Peaked(len(testCategories), 2, 0.9)  // "star"
	mock.SetSequence([][]float32{wrong, wrong, right, right, right})

	for i := 0; i < 2; i++ {
		if err := e.Tick(img); err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
		if s := e.Snapshot(); s.Score != 0 {
			t.Fatalf("score = %d after wrong tick %d, want 0", s.Score, i+1)
		}
	}

	if err := e.Tick(img); err != nil {
		t.Fatalf("tick 3: %v", err)
	}
	s := e.Snapshot()
	if s.Score != 1 {
		t.Fatalf("score = %d after correct tick, want 1", s.Score)
	}
	if !s.Won {
		t.Error("round should be marked won")
	}
	if got := clears.Load(); got != 1 {
		t.Errorf("canvas cleared %d times, want 1", got)
	}

	// Further matching ticks must not score again within the round.
	e.Tick(img)
	e.Tick(img)
	if s := e.Snapshot(); s.Score != 1 {
		t.Errorf("score = %d after extra ticks, want 1", s.Score)
	}
	if got := clears.Load(); got != 1 {
		t.Errorf("canvas cleared %d times after extra ticks, want 1", got)
	}
}

func TestEngine_EmptyCanvasShowsPlaceholder(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	e := newTestEngine(t, Config{}, mock, nil)
	e.StartRoundWith("star")

	if err := e.Tick(image.NewRGBA(image.Rect(0, 0, 200, 200))); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if s := e.Snapshot(); s.Guess != "..." {
		t.Errorf("guess = %q, want placeholder", s.Guess)
	}
	if mock.Calls() != 0 {
		t.Errorf("classifier called %d times on an empty canvas, want 0", mock.Calls())
	}
}

func TestEngine_ClassifierFailureIsRecoverable(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	mock.SetError(errors.New("inference exploded"))
	e := newTestEngine(t, Config{}, mock, nil)
	e.StartRoundWith("star")

	if err := e.Tick(inkedCanvas()); err != nil {
		t.Fatalf("Tick() should swallow classifier errors, got %v", err)
	}
	if s := e.Snapshot(); s.Guess != "..." {
		t.Errorf("guess = %q, want placeholder after failure", s.Guess)
	}

	// The engine keeps working once the classifier recovers.
	mock.SetError(nil)
	mock.SetProbs(classifier.Peaked(len(testCategories), 2, 0.9))
	if err := e.Tick(inkedCanvas()); err != nil {
		t.Fatalf("Tick() after recovery error = %v", err)
	}
	if s := e.Snapshot(); s.Guess != "star" {
		t.Errorf("guess = %q after recovery, want star", s.Guess)
	}
}

func TestEngine_EMASeededByFirstVector(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	mock.SetProbs(classifier.Peaked(len(testCategories), 0, 0.9)) // "apple"
	e := newTestEngine(t, Config{EMAFactor: 0.8}, mock, nil)
	e.StartRoundWith("star")

	if err := e.Tick(inkedCanvas()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	s := e.Snapshot()
	if s.Guess != "apple" {
		t.Errorf("guess = %q, want apple from the seeding vector", s.Guess)
	}
	if s.Margin <= 0 {
		t.Errorf("margin = %f, want > 0", s.Margin)
	}
}

func TestEngine_EMAResistsOneOffFlips(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	e := newTestEngine(t, Config{EMAFactor: 0.8}, mock, nil)
	e.StartRoundWith("star")

	img := inkedCanvas()
	mock.SetSequence([][]float32{
		classifier.Peaked(len(testCategories), 1, 0.9), // house
		classifier.Peaked(len(testCategories), 2, 0.9), // one star blip
	})

	e.Tick(img)
	e.Tick(img)

	// 80% history weight: a single blip cannot overturn the guess.
	if s := e.Snapshot(); s.Guess != "house" {
		t.Errorf("guess = %q, want house despite one-off star vector", s.Guess)
	}
}

func TestEngine_RestartAfterDelay(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	mock.SetProbs(classifier.Peaked(len(testCategories), 2, 0.9))
	e := newTestEngine(t, Config{
		EMAFactor:    -1,
		RestartDelay: 20 * time.Millisecond,
	}, mock, nil)
	e.StartRoundWith("star")

	if err := e.Tick(inkedCanvas()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	won := e.Snapshot()
	if !won.Won {
		t.Fatal("round should be won")
	}

	time.Sleep(60 * time.Millisecond)

	s := e.Snapshot()
	if s.Won {
		t.Error("new round should not be marked won")
	}
	if s.RoundID == won.RoundID {
		t.Error("round ID should change on restart")
	}
	if s.Streak != 0 || s.Guess != "..." {
		t.Errorf("new round state = %+v, want cleared streak and placeholder", s)
	}
	if s.Score != 1 {
		t.Errorf("score = %d, should survive the restart", s.Score)
	}
}

func TestEngine_StartRoundWithCancelsPendingRestart(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	mock.SetProbs(classifier.Peaked(len(testCategories), 2, 0.9))
	e := newTestEngine(t, Config{
		EMAFactor:    -1,
		RestartDelay: 30 * time.Millisecond,
	}, mock, nil)
	e.StartRoundWith("star")
	e.Tick(inkedCanvas())

	// A forced reset must cancel the pending timer so it cannot fire
	// late into the new round.
	e.StartRoundWith("apple")
	id := e.Snapshot().RoundID

	time.Sleep(60 * time.Millisecond)
	if got := e.Snapshot().RoundID; got != id {
		t.Error("stale restart timer replaced the forced round")
	}
}

func TestEngine_TargetComparisonIsNormalized(t *testing.T) {
	mock := classifier.NewMock(len(testCategories))
	mock.SetProbs(classifier.Peaked(len(testCategories), 2, 0.9)) // "star"
	e := newTestEngine(t, Config{EMAFactor: -1, RestartDelay: time.Hour}, mock, nil)
	e.StartRoundWith("  STAR ")

	e.Tick(inkedCanvas())
	if s := e.Snapshot(); s.Score != 1 {
		t.Errorf("score = %d, want 1 with case-folded target", s.Score)
	}
}

func TestEngine_ConstructionErrors(t *testing.T) {
	pre := sketch.NewPreprocessor(sketch.DefaultParams())

	if _, err := New(Config{}, testCategories, nil, pre, nil); err == nil {
		t.Error("expected error for nil classifier")
	}
	if _, err := New(Config{}, nil, classifier.NewMock(3), pre, nil); err == nil {
		t.Error("expected error for empty categories")
	}
}

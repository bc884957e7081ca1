// Package game implements the live sketch classification loop and the
// round state machine: target words, guess smoothing, streaks and score.
package game

import (
	"fmt"
	"image"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amechi-aduba/drawVSAI-react/internal/classifier"
	"github.com/amechi-aduba/drawVSAI-react/internal/sketch"
)

// Config holds the round engine's tunable parameters.
type Config struct {
	// EMAFactor is the weight on history when smoothing probability
	// vectors, in [0, 1). Zero selects the default (0.8); a negative
	// value disables smoothing entirely.
	EMAFactor float64
	// StreakToScore is how many consecutive correct ticks win a round.
	StreakToScore int
	// MinInkRatio gates inference: below it the canvas is considered
	// empty and the placeholder guess is shown.
	MinInkRatio float64
	// RestartDelay is how long after a win the next round starts.
	RestartDelay time.Duration
	// Placeholder is the guess shown before the model has anything to
	// say.
	Placeholder string
}

// DefaultConfig returns the standard engine parameters.
func DefaultConfig() Config {
	return Config{
		EMAFactor:     0.8,
		StreakToScore: 1,
		MinInkRatio:   0.01,
		RestartDelay:  800 * time.Millisecond,
		Placeholder:   "...",
	}
}

// Snapshot is a point-in-time view of the round state for display.
type Snapshot struct {
	RoundID string  `json:"round_id"`
	Target  string  `json:"target"`
	Guess   string  `json:"guess"`
	Margin  float64 `json:"margin"`
	Score   int     `json:"score"`
	Streak  int     `json:"streak"`
	Won     bool    `json:"won"`
}

// Engine drives rounds of the drawing game. Each Tick preprocesses the
// canvas, runs the classifier, smooths the probabilities and updates the
// correctness streak; reaching the streak threshold scores the round,
// clears the canvas and schedules a restart.
//
// Ticks are serialized by the engine mutex, so EMA and streak state are
// always updated in arrival order.
type Engine struct {
	cfg        Config
	categories []string
	model      classifier.Classifier
	pre        *sketch.Preprocessor
	rng        *rand.Rand
	onClear    func()

	mu      sync.Mutex
	roundID string
	target  string
	guess   string
	margin  float64
	score   int
	streak  int
	scored  bool
	ema     []float32
	restart *time.Timer
	closed  bool
}

// New creates an Engine and starts its first round. The classifier and
// category list must already be loaded; a nil or empty one is a
// construction error since the feature cannot run without them.
func New(cfg Config, categories []string, model classifier.Classifier, pre *sketch.Preprocessor, onClear func()) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("no classifier")
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories")
	}

	def := DefaultConfig()
	if cfg.EMAFactor == 0 {
		cfg.EMAFactor = def.EMAFactor
	}
	if cfg.StreakToScore < 1 {
		cfg.StreakToScore = def.StreakToScore
	}
	if cfg.MinInkRatio <= 0 {
		cfg.MinInkRatio = def.MinInkRatio
	}
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = def.RestartDelay
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = def.Placeholder
	}

	e := &Engine{
		cfg:        cfg,
		categories: categories,
		model:      model,
		pre:        pre,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		onClear:    onClear,
	}
	e.StartRound()
	return e, nil
}

// StartRound begins a new round with a uniformly random target word.
// Each round is independent; repeats are allowed.
func (e *Engine) StartRound() {
	e.mu.Lock()
	word := e.categories[e.rng.Intn(len(e.categories))]
	e.startRoundLocked(word)
	e.mu.Unlock()
}

// StartRoundWith begins a new round with a fixed target word.
func (e *Engine) StartRoundWith(word string) {
	e.mu.Lock()
	e.startRoundLocked(word)
	e.mu.Unlock()
}

func (e *Engine) startRoundLocked(word string) {
	if e.restart != nil {
		e.restart.Stop()
		e.restart = nil
	}
	e.roundID = uuid.New().String()
	e.target = word
	e.guess = e.cfg.Placeholder
	e.margin = 0
	e.streak = 0
	e.scored = false
	e.ema = nil
	log.Printf("round %s started, target %q", e.roundID, e.target)
}

// Tick classifies the current canvas snapshot and advances round state.
// Classifier failures are recoverable: the guess degrades to the
// placeholder and the round continues.
func (e *Engine) Tick(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("engine is closed")
	}

	in, err := e.pre.Process(img)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}

	if in.InkRatio < e.cfg.MinInkRatio {
		e.guess = e.cfg.Placeholder
		e.margin = 0
		return nil
	}

	probs, err := e.model.Predict(in.Tensor)
	if err != nil {
		log.Printf("classification failed: %v", err)
		e.guess = e.cfg.Placeholder
		e.margin = 0
		return nil
	}
	if len(probs) != len(e.categories) {
		log.Printf("classifier returned %d probabilities, want %d", len(probs), len(e.categories))
		e.guess = e.cfg.Placeholder
		e.margin = 0
		return nil
	}

	e.smooth(probs)
	best, runnerUp := argmax2(e.ema)
	e.guess = e.categories[best]
	e.margin = float64(e.ema[best] - e.ema[runnerUp])

	if sameWord(e.guess, e.target) {
		e.streak++
	} else {
		e.streak = 0
	}

	if e.streak >= e.cfg.StreakToScore && !e.scored {
		e.scored = true
		e.score++
		log.Printf("round %s won: %q (margin %.3f), score %d", e.roundID, e.guess, e.margin, e.score)
		if e.onClear != nil {
			e.onClear()
		}
		e.restart = time.AfterFunc(e.cfg.RestartDelay, e.StartRound)
	}

	return nil
}

// smooth folds a probability vector into the per-category EMA, seeding
// it with the round's first vector.
func (e *Engine) smooth(probs []float32) {
	if e.cfg.EMAFactor < 0 {
		e.ema = probs
		return
	}
	if e.ema == nil {
		e.ema = make([]float32, len(probs))
		copy(e.ema, probs)
		return
	}
	f := float32(e.cfg.EMAFactor)
	for i, p := range probs {
		e.ema[i] = e.ema[i]*f + p*(1-f)
	}
}

// Snapshot returns the current round state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		RoundID: e.roundID,
		Target:  e.target,
		Guess:   e.guess,
		Margin:  e.margin,
		Score:   e.score,
		Streak:  e.streak,
		Won:     e.scored,
	}
}

// Close cancels any pending restart and stops the engine. The score is
// not persisted anywhere; a session's score dies with it.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.restart != nil {
		e.restart.Stop()
		e.restart = nil
	}
}

// sameWord compares a guess and target after case-folding and trimming.
func sameWord(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// argmax2 returns the indices of the largest and second-largest values.
func argmax2(v []float32) (best, runnerUp int) {
	if len(v) < 2 {
		return 0, 0
	}
	best, runnerUp = 0, 1
	if v[1] > v[0] {
		best, runnerUp = 1, 0
	}
	for i := 2; i < len(v); i++ {
		switch {
		case v[i] > v[best]:
			runnerUp = best
			best = i
		case v[i] > v[runnerUp]:
			runnerUp = i
		}
	}
	return best, runnerUp
}

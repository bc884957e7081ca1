// Package app wires the drawVSAI pipeline together: camera frames in,
// stabilized gestures out, brush strokes onto the canvas and
// classification ticks into the game engine.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/amechi-aduba/drawVSAI-react/internal/canvas"
	"github.com/amechi-aduba/drawVSAI-react/internal/capture"
	"github.com/amechi-aduba/drawVSAI-react/internal/classifier"
	"github.com/amechi-aduba/drawVSAI-react/internal/config"
	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
	"github.com/amechi-aduba/drawVSAI-react/internal/game"
	"github.com/amechi-aduba/drawVSAI-react/internal/gesture"
	"github.com/amechi-aduba/drawVSAI-react/internal/sketch"
	"github.com/amechi-aduba/drawVSAI-react/internal/store"
	"github.com/amechi-aduba/drawVSAI-react/internal/track"
)

// IdleTimeoutMs is how long after the last motion the pipeline drops
// back to the idle frame rate.
const IdleTimeoutMs = 2000

// Config holds configuration options for the application.
type Config struct {
	Store      *store.Store
	Params     config.Params
	Model      classifier.Classifier
	Categories []string
}

// State is a point-in-time view of the whole application, broadcast to
// connected clients.
type State struct {
	Enabled       bool                    `json:"enabled"`
	Tracking      bool                    `json:"tracking"`
	Gesture       string                  `json:"gesture"`
	Landmarks     *detector.HandLandmarks `json:"landmarks,omitempty"`
	CanvasVersion uint64                  `json:"canvas_version"`
	Game          game.Snapshot           `json:"game"`
	LastError     string                  `json:"last_error,omitempty"`
}

// App orchestrates the capture, tracking, gesture and game layers.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	canvas   *canvas.Canvas
	engine   *game.Engine
	sched    *game.Scheduler

	validity track.ValidityParams
	smoother *track.Smoother
	detHyst  *track.DetectionHysteresis
	gestHyst *gesture.Hysteresis
	commit   *gesture.CommitBuffer

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	published gesture.Published
	tracking  bool
	lastErr   string
}

// New creates an App instance. The classifier must already be loaded;
// the game cannot run without it.
func New(cfg Config) (*App, error) {
	p := cfg.Params

	cv := canvas.New(capture.DefaultWidth, capture.DefaultHeight)

	sk := sketch.NewPreprocessor(sketch.Params{
		TargetSize:   p.TargetSize,
		PadFactor:    p.PadFactor,
		NoiseFloor:   p.NoiseFloor,
		ContrastGain: p.ContrastGain,
	})

	engine, err := game.New(game.Config{
		EMAFactor:     p.EMAFactor,
		StreakToScore: p.StreakToScore,
		MinInkRatio:   p.MinInkRatio,
		RestartDelay:  p.RestartDelay,
	}, cfg.Categories, cfg.Model, sk, cv.Clear)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	a := &App{
		config: cfg,
		camera: capture.NewCamera(p.CameraID),
		motion: capture.NewMotionDetector(1.0),
		canvas: cv,
		engine: engine,

		validity: track.ValidityParams{
			MinBoxFrac:      p.MinBoxFrac,
			MaxBoxFrac:      p.MaxBoxFrac,
			MaxOverhangFrac: p.MaxOverhangFrac,
		},
		smoother: track.NewSmoother(p.SmoothingAlpha),
		detHyst:  track.NewDetectionHysteresis(p.MissBudget),
		gestHyst: gesture.NewHysteresis(p.StayFrames, p.StrictHold),
		commit:   gesture.NewCommitBuffer(p.CommitFrames),
	}
	a.sched = game.NewScheduler(p.QuietPeriod, p.DrawInterval, a.classifyOnce)

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// classifyOnce snapshots the canvas and runs one classification tick.
func (a *App) classifyOnce() {
	if err := a.engine.Tick(a.canvas.Snapshot()); err != nil {
		a.recordError(err)
	}
}

// SetEnabled enables or disables the drawing pipeline.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the pipeline is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start begins the frame pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.Params.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Drawing pipeline started")
	return nil
}

// Stop halts the frame pipeline and releases capture resources. The
// game engine and canvas survive a Stop; Close tears them down.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Drawing pipeline stopped")
}

// Close stops the pipeline and shuts down the game engine and the
// classification scheduler.
func (a *App) Close() {
	a.Stop()
	a.sched.Close()
	a.engine.Close()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Canvas returns the drawing canvas.
func (a *App) Canvas() *canvas.Canvas {
	return a.canvas
}

// Engine returns the game engine.
func (a *App) Engine() *game.Engine {
	return a.engine
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// State returns the current application state for broadcast.
func (a *App) State() State {
	a.mu.RLock()
	enabled := a.enabled
	tracking := a.tracking
	pub := a.published
	lastErr := a.lastErr
	a.mu.RUnlock()

	return State{
		Enabled:       enabled,
		Tracking:      tracking,
		Gesture:       pub.Gesture.String(),
		Landmarks:     pub.Landmarks,
		CanvasVersion: a.canvas.Version(),
		Game:          a.engine.Snapshot(),
		LastError:     lastErr,
	}
}

// LastError returns the most recent pipeline error message, or an empty
// string. Errors are sticky until the next successful publish.
func (a *App) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

func (a *App) recordError(err error) {
	log.Printf("Pipeline error: %v", err)
	a.mu.Lock()
	a.lastErr = err.Error()
	a.mu.Unlock()
}

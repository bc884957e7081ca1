package app

import (
	"time"

	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
	"github.com/amechi-aduba/drawVSAI-react/internal/gesture"
	"github.com/amechi-aduba/drawVSAI-react/internal/track"
)

// runPipeline is the main frame loop. It paces the camera between idle
// and active FPS on motion, stabilizes hand detections, and turns
// committed gestures into canvas actions:
//
//  1. Read a frame, run motion detection for FPS pacing
//  2. Detect hands, keep the first one that passes the validity filter
//  3. Detection hysteresis decides whether we are tracking at all
//  4. Landmark smoothing, gesture classification, gesture hysteresis
//  5. Commit buffer publishes only held, materially changed states
//  6. The published gesture drives the canvas: pointer strokes, pinch
//     lifts the pen, open hand clears
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	idleFPS := a.config.Params.IdleFPS
	activeFPS := a.config.Params.ActiveFPS

	frameInterval := time.Second / time.Duration(idleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.recordError(err)
				continue
			}

			// FPS pacing only; detection runs in both modes so a still
			// hand does not lose tracking.
			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(activeFPS)
					frameInterval = time.Second / time.Duration(activeFPS)
					ticker.Reset(frameInterval)
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeoutMs*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(idleFPS)
				frameInterval = time.Second / time.Duration(idleFPS)
				ticker.Reset(frameInterval)
			}

			hands, err := a.detector.Detect(frame)
			w, h := frame.Cols(), frame.Rows()
			frame.Close()

			if err != nil {
				a.recordError(err)
				continue
			}

			var hand *detector.HandLandmarks
			if len(hands) > 0 && track.Valid(&hands[0], w, h, a.validity) {
				hand = &hands[0]
			}

			a.step(hand)
		}
	}
}

// step advances the stabilization chain by one frame and applies the
// resulting gesture to the canvas.
func (a *App) step(hand *detector.HandLandmarks) {
	tracking := a.detHyst.Update(hand != nil)

	a.mu.Lock()
	a.tracking = tracking
	a.mu.Unlock()

	if !tracking {
		// Full reset so a returning hand starts from fresh state.
		a.smoother.Reset()
		a.gestHyst.Reset()
		if pub, ok := a.commit.Update(gesture.Idle, nil); ok {
			a.publish(pub)
		}
		a.canvas.PenUp()
		return
	}

	if hand == nil {
		// Inside the miss budget the published state holds, but the
		// smoother must not blend the next valid frame against stale
		// landmarks: force it to reinitialize. Lift the pen too, so a
		// hand returning elsewhere does not draw a connecting segment.
		a.smoother.Reset()
		a.canvas.PenUp()
		return
	}

	smoothed := a.smoother.Smooth(hand)
	raw := gesture.Classify(smoothed, a.config.Params.PinchDistancePx)
	held := a.gestHyst.Update(raw)

	if pub, ok := a.commit.Update(held, smoothed); ok {
		a.publish(pub)
		if pub.Gesture == gesture.OpenHand {
			a.canvas.Clear()
			a.sched.Touch()
		}
	}

	// The committed gesture drives per-frame actions with the freshest
	// fingertip position.
	switch a.commit.State().Gesture {
	case gesture.PointerUp:
		tip := smoothed.Points[detector.IndexTip]
		a.canvas.StrokeTo(tip.X, tip.Y)
		a.sched.TouchDraw()
	case gesture.PinchClose:
		a.canvas.PenUp()
	}
}

// publish records a newly committed state and clears the sticky error.
func (a *App) publish(pub gesture.Published) {
	a.mu.Lock()
	a.published = pub
	a.lastErr = ""
	a.mu.Unlock()
}

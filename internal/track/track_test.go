package track

import (
	"math"
	"testing"

	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

const frameW, frameH = 640, 480

// handBox returns landmarks spread uniformly across the given pixel box.
func handBox(minX, minY, maxX, maxY float64) detector.HandLandmarks {
	lm := detector.HandLandmarks{}
	for i := 0; i < detector.NumLandmarks; i++ {
		t := float64(i) / float64(detector.NumLandmarks-1)
		lm.Points[i] = detector.Point3D{
			X: minX + t*(maxX-minX),
			Y: minY + t*(maxY-minY),
		}
	}
	return lm
}

func TestValid(t *testing.T) {
	p := DefaultValidityParams()

	tests := []struct {
		name string
		lm   detector.HandLandmarks
		want bool
	}{
		{"plausible hand", handBox(200, 150, 400, 350), true},
		{"box narrower than 2% of frame width", handBox(300, 100, 300 + 0.01*frameW, 300), false},
		{"box shorter than 2% of frame height", handBox(100, 240, 400, 240 + 0.01*frameH), false},
		{"box wider than 90% of frame", handBox(10, 100, 10 + 0.95*frameW, 300), false},
		{"box taller than 90% of frame", handBox(200, 5, 400, 5 + 0.95*frameH), false},
		{"hand mostly off the left edge", handBox(-0.4*frameW, 100, 100, 300), false},
		{"hand mostly off the bottom edge", handBox(200, 300, 400, frameH + 0.4*frameH), false},
		{"slight overhang is tolerated", handBox(-0.1*frameW, 100, 200, 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(&tt.lm, frameW, frameH, p); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil landmarks rejected", func(t *testing.T) {
		if Valid(nil, frameW, frameH, p) {
			t.Error("expected nil landmarks to be invalid")
		}
	})
}

func TestSmoother(t *testing.T) {
	t.Run("first frame passes through", func(t *testing.T) {
		s := NewSmoother(0.5)
		raw := handBox(100, 100, 300, 300)

		out := s.Smooth(&raw)

		for i := 0; i < detector.NumLandmarks; i++ {
			if out.Points[i] != raw.Points[i] {
				t.Fatalf("point %d changed on first frame: %+v != %+v", i, out.Points[i], raw.Points[i])
			}
		}
	})

	t.Run("subsequent frames blend at alpha", func(t *testing.T) {
		s := NewSmoother(0.5)
		first := handBox(0, 0, 0, 0)
		s.Smooth(&first)

		second := detector.HandLandmarks{}
		for i := 0; i < detector.NumLandmarks; i++ {
			second.Points[i] = detector.Point3D{X: 10, Y: 20, Z: 4}
		}

		out := s.Smooth(&second)
		for i := 0; i < detector.NumLandmarks; i++ {
			p := out.Points[i]
			if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-10) > 1e-9 || math.Abs(p.Z-2) > 1e-9 {
				t.Fatalf("point %d = %+v, want (5, 10, 2)", i, p)
			}
		}
	})

	t.Run("reset forces reinitialization", func(t *testing.T) {
		s := NewSmoother(0.5)
		first := handBox(0, 0, 0, 0)
		s.Smooth(&first)
		s.Reset()

		raw := handBox(100, 100, 300, 300)
		out := s.Smooth(&raw)
		if out.Points[0] != raw.Points[0] {
			t.Errorf("expected pass-through after reset, got %+v", out.Points[0])
		}
	})

	t.Run("nil input returns nil", func(t *testing.T) {
		s := NewSmoother(0.5)
		if s.Smooth(nil) != nil {
			t.Error("expected nil output for nil input")
		}
	})
}

func TestDetectionHysteresis(t *testing.T) {
	t.Run("engages immediately on detection", func(t *testing.T) {
		d := NewDetectionHysteresis(5)
		if !d.Update(true) {
			t.Error("expected tracking after first detection")
		}
	})

	t.Run("releases only after the budget is exceeded", func(t *testing.T) {
		d := NewDetectionHysteresis(5)
		d.Update(true)

		// 5 misses are tolerated.
		for i := 1; i <= 5; i++ {
			if !d.Update(false) {
				t.Fatalf("tracking dropped after %d misses, budget is 5", i)
			}
		}
		// The 6th consecutive miss exceeds the budget.
		if d.Update(false) {
			t.Error("expected tracking released on the 6th miss")
		}
	})

	t.Run("re-engages on the next detection", func(t *testing.T) {
		d := NewDetectionHysteresis(5)
		d.Update(true)
		for i := 0; i < 6; i++ {
			d.Update(false)
		}
		if !d.Update(true) {
			t.Error("expected tracking to re-engage immediately")
		}
	})

	t.Run("a detection resets the miss counter", func(t *testing.T) {
		d := NewDetectionHysteresis(5)
		d.Update(true)
		for i := 0; i < 4; i++ {
			d.Update(false)
		}
		d.Update(true)
		// The budget is available again in full.
		for i := 1; i <= 5; i++ {
			if !d.Update(false) {
				t.Fatalf("tracking dropped after %d misses following a detection", i)
			}
		}
	})
}

package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(val uint8) *gocv.Mat {
	mat := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(float64(val), float64(val), float64(val), 0))
	return &mat
}

func TestMockCamera(t *testing.T) {
	frame := solidFrame(128)
	defer frame.Close()

	t.Run("read before open fails", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame}, false)
		if _, err := cam.ReadFrame(); err == nil {
			t.Error("expected error reading a closed camera")
		}
	})

	t.Run("plays frames in order and runs out", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame, frame}, false)
		cam.Open()
		defer cam.Close()

		for i := 0; i < 2; i++ {
			f, err := cam.ReadFrame()
			if err != nil {
				t.Fatalf("frame %d: %v", i, err)
			}
			f.Close()
		}
		if _, err := cam.ReadFrame(); err == nil {
			t.Error("expected error after the last frame")
		}
	})

	t.Run("loop wraps around", func(t *testing.T) {
		cam := NewMockCamera([]*gocv.Mat{frame}, true)
		cam.Open()
		defer cam.Close()

		for i := 0; i < 5; i++ {
			f, err := cam.ReadFrame()
			if err != nil {
				t.Fatalf("frame %d: %v", i, err)
			}
			f.Close()
		}
	})

	t.Run("implements Camera interface", func(t *testing.T) {
		var _ Camera = (*MockCamera)(nil)
	})
}

func TestMotionDetector(t *testing.T) {
	t.Run("first frame is baseline", func(t *testing.T) {
		m := NewMotionDetector(1.0)
		defer m.Close()

		frame := solidFrame(100)
		defer frame.Close()

		if detected, _ := m.Detect(frame); detected {
			t.Error("baseline frame should not report motion")
		}
	})

	t.Run("identical frames report no motion", func(t *testing.T) {
		m := NewMotionDetector(1.0)
		defer m.Close()

		a := solidFrame(100)
		defer a.Close()
		b := solidFrame(100)
		defer b.Close()

		m.Detect(a)
		if detected, pct := m.Detect(b); detected {
			t.Errorf("identical frames reported motion (%.2f%% change)", pct)
		}
	})

	t.Run("large change reports motion", func(t *testing.T) {
		m := NewMotionDetector(1.0)
		defer m.Close()

		dark := solidFrame(10)
		defer dark.Close()
		bright := solidFrame(250)
		defer bright.Close()

		m.Detect(dark)
		if detected, pct := m.Detect(bright); !detected {
			t.Errorf("full-frame change not detected (%.2f%% change)", pct)
		}
	})

	t.Run("reset re-establishes the baseline", func(t *testing.T) {
		m := NewMotionDetector(1.0)
		defer m.Close()

		dark := solidFrame(10)
		defer dark.Close()
		bright := solidFrame(250)
		defer bright.Close()

		m.Detect(dark)
		m.Reset()
		if detected, _ := m.Detect(bright); detected {
			t.Error("first frame after reset should not report motion")
		}
	})
}

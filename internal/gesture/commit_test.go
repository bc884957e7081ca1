package gesture

import (
	"testing"

	"github.com/amechi-aduba/drawVSAI-react/internal/detector"
)

func TestCommitBuffer(t *testing.T) {
	hand := detector.PointerUpLandmarks(640, 480)

	t.Run("publishes exactly once on the 5th stable frame", func(t *testing.T) {
		c := NewCommitBuffer(5)

		for i := 1; i <= 4; i++ {
			if _, changed := c.Update(PointerUp, &hand); changed {
				t.Fatalf("published after %d frames, want 5", i)
			}
		}

		pub, changed := c.Update(PointerUp, &hand)
		if !changed {
			t.Fatal("expected publish on the 5th frame")
		}
		if pub.Gesture != PointerUp || pub.Landmarks == nil {
			t.Errorf("published = %+v, want PointerUp with landmarks", pub)
		}

		// Further stable frames change nothing.
		for i := 0; i < 10; i++ {
			if _, changed := c.Update(PointerUp, &hand); changed {
				t.Fatal("republished an unchanged state")
			}
		}
	})

	t.Run("a differing frame restarts the count", func(t *testing.T) {
		c := NewCommitBuffer(5)
		for i := 0; i < 4; i++ {
			c.Update(PointerUp, &hand)
		}
		c.Update(Idle, nil) // breaks the run

		for i := 1; i <= 4; i++ {
			if _, changed := c.Update(PointerUp, &hand); changed {
				t.Fatalf("published after %d frames of the new run", i)
			}
		}
		if _, changed := c.Update(PointerUp, &hand); !changed {
			t.Error("expected publish once the new run reached 5")
		}
	})

	t.Run("landmark presence flip is material", func(t *testing.T) {
		c := NewCommitBuffer(5)
		for i := 0; i < 5; i++ {
			c.Update(PointerUp, &hand)
		}

		// Same gesture, landmarks gone: the run is unbroken (counter
		// stays >= 5) so the presence flip publishes immediately.
		pub, changed := c.Update(PointerUp, nil)
		if !changed {
			t.Fatal("expected presence flip to publish")
		}
		if pub.Landmarks != nil {
			t.Error("published landmarks should be nil")
		}
	})

	t.Run("initial idle run publishes nothing", func(t *testing.T) {
		c := NewCommitBuffer(5)
		// Idle with no landmarks matches the zero published state, so
		// even a long stable run is not a material change.
		for i := 0; i < 8; i++ {
			if _, changed := c.Update(Idle, nil); changed {
				t.Fatal("published a state identical to the initial one")
			}
		}
	})

	t.Run("reset clears published state", func(t *testing.T) {
		c := NewCommitBuffer(5)
		for i := 0; i < 5; i++ {
			c.Update(OpenHand, &hand)
		}
		c.Reset()
		if st := c.State(); st.Gesture != Idle || st.Landmarks != nil {
			t.Errorf("State() after reset = %+v, want zero state", st)
		}
	})
}

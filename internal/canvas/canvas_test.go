package canvas

import (
	"testing"
)

func TestCanvas_StrokeTo(t *testing.T) {
	t.Run("stamps ink at the point", func(t *testing.T) {
		c := New(100, 100)
		c.StrokeTo(50, 50)

		if a := c.Snapshot().RGBAAt(50, 50).A; a == 0 {
			t.Error("expected ink at stroke point")
		}
	})

	t.Run("connects consecutive points", func(t *testing.T) {
		c := New(100, 100)
		c.StrokeTo(10, 50)
		c.StrokeTo(90, 50)

		img := c.Snapshot()
		// The midpoint lies on the connecting segment.
		if a := img.RGBAAt(50, 50).A; a == 0 {
			t.Error("expected ink along the connecting segment")
		}
	})

	t.Run("pen up breaks the segment", func(t *testing.T) {
		c := New(100, 100)
		c.StrokeTo(10, 50)
		c.PenUp()
		c.StrokeTo(90, 50)

		if a := c.Snapshot().RGBAAt(50, 50).A; a != 0 {
			t.Error("expected no ink between disconnected strokes")
		}
	})

	t.Run("out-of-bounds strokes are clipped", func(t *testing.T) {
		c := New(100, 100)
		c.StrokeTo(-20, -20) // must not panic
		c.StrokeTo(150, 150)
	})
}

func TestCanvas_Clear(t *testing.T) {
	c := New(100, 100)
	c.StrokeTo(50, 50)
	c.Clear()

	img := c.Snapshot()
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d after clear, want 0", i, v)
		}
	}
}

func TestCanvas_Version(t *testing.T) {
	c := New(100, 100)
	v0 := c.Version()

	c.StrokeTo(10, 10)
	if c.Version() == v0 {
		t.Error("stroke did not bump version")
	}

	v1 := c.Version()
	c.Clear()
	if c.Version() == v1 {
		t.Error("clear did not bump version")
	}
}

func TestCanvas_SnapshotIsACopy(t *testing.T) {
	c := New(100, 100)
	snap := c.Snapshot()
	c.StrokeTo(50, 50)

	if a := snap.RGBAAt(50, 50).A; a != 0 {
		t.Error("mutation after Snapshot leaked into the copy")
	}
}

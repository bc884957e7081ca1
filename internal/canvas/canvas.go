// Package canvas provides the shared drawing raster the fingertip draws
// on and the sketch classifier reads from.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"
)

// Default raster settings.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultBrush  = 6
)

// Canvas is a fixed-size RGBA raster. Strokes are written by the gesture
// pipeline and pointer input; snapshots are read by the classification
// loop. Both sides run on their own goroutines, so every operation takes
// the canvas mutex.
type Canvas struct {
	mu      sync.Mutex
	img     *image.RGBA
	brush   int
	ink     color.RGBA
	anchor  image.Point
	penDown bool
	version uint64
}

// New creates a transparent canvas of the given size. Non-positive
// dimensions fall back to the defaults.
func New(w, h int) *Canvas {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		brush: DefaultBrush,
		ink:   color.RGBA{A: 255},
	}
}

// Bounds returns the raster rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// SetBrush sets the stroke radius in pixels. Values below one are ignored.
func (c *Canvas) SetBrush(radius int) {
	if radius < 1 {
		return
	}
	c.mu.Lock()
	c.brush = radius
	c.mu.Unlock()
}

// StrokeTo extends the current stroke to (x, y). If the pen was up, a new
// stroke starts with a single stamp at the point.
func (c *Canvas) StrokeTo(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	to := image.Pt(int(math.Round(x)), int(math.Round(y)))
	if !c.penDown {
		c.stamp(to)
	} else {
		c.segment(c.anchor, to)
	}
	c.anchor = to
	c.penDown = true
	c.version++
}

// PenUp ends the current stroke; the next StrokeTo starts a new one
// instead of connecting across the gap.
func (c *Canvas) PenUp() {
	c.mu.Lock()
	c.penDown = false
	c.mu.Unlock()
}

// Clear blanks the raster and lifts the pen.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
	c.penDown = false
	c.version++
}

// Snapshot returns a deep copy of the raster for classification or
// streaming.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// Version returns a counter that increments on every mutation, letting
// callers skip work when nothing changed.
func (c *Canvas) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// segment stamps the brush along the line from a to b.
func (c *Canvas) segment(a, b image.Point) {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		c.stamp(b)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.stamp(image.Pt(
			a.X+int(math.Round(t*dx)),
			a.Y+int(math.Round(t*dy)),
		))
	}
}

// stamp fills a brush-radius disc at p, clipped to the raster.
func (c *Canvas) stamp(p image.Point) {
	r := c.brush
	bounds := c.img.Bounds()
	for y := p.Y - r; y <= p.Y+r; y++ {
		for x := p.X - r; x <= p.X+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			ddx, ddy := x-p.X, y-p.Y
			if ddx*ddx+ddy*ddy <= r*r {
				c.img.SetRGBA(x, y, c.ink)
			}
		}
	}
}

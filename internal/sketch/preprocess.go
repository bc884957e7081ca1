// Package sketch turns the drawing raster into a model input tensor.
package sketch

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Params control how the raster is cropped and rasterized into the model
// input. These varied across versions of the game, so they are
// configuration rather than constants.
type Params struct {
	// TargetSize is the side length of the square model input.
	TargetSize int
	// PadFactor scales the larger ink box dimension to get the square
	// crop size, leaving a margin around the drawing.
	PadFactor float64
	// AlphaThreshold is the minimum pixel alpha counted as ink when
	// scanning the raster.
	AlphaThreshold uint8
	// NoiseFloor zeroes output intensities below it.
	NoiseFloor float32
	// ContrastGain multiplies surviving intensities, clamped to 1.0.
	ContrastGain float32
}

// DefaultParams returns the standard preprocessing parameters.
func DefaultParams() Params {
	return Params{
		TargetSize:     28,
		PadFactor:      1.18,
		AlphaThreshold: 8,
		NoiseFloor:     0.08,
		ContrastGain:   1.6,
	}
}

// Input is a preprocessed sketch: a single-channel intensity tensor
// (ink high, background zero) plus the fraction of output pixels that
// are ink. Callers use InkRatio to skip inference on near-empty canvases.
type Input struct {
	Tensor   []float32
	Size     int
	InkRatio float64
}

// Preprocessor crops, normalizes and rasterizes canvas snapshots.
type Preprocessor struct {
	params Params
}

// NewPreprocessor creates a Preprocessor with the given parameters,
// filling in defaults for zero values.
func NewPreprocessor(p Params) *Preprocessor {
	def := DefaultParams()
	if p.TargetSize <= 0 {
		p.TargetSize = def.TargetSize
	}
	if p.PadFactor < 1 {
		p.PadFactor = def.PadFactor
	}
	if p.AlphaThreshold == 0 {
		p.AlphaThreshold = def.AlphaThreshold
	}
	if p.NoiseFloor <= 0 {
		p.NoiseFloor = def.NoiseFloor
	}
	if p.ContrastGain <= 0 {
		p.ContrastGain = def.ContrastGain
	}
	return &Preprocessor{params: p}
}

// Process converts a canvas snapshot into a model input. An empty canvas
// yields a zero tensor with InkRatio 0 and no error.
func (p *Preprocessor) Process(img *image.RGBA) (*Input, error) {
	ts := p.params.TargetSize
	out := &Input{
		Tensor: make([]float32, ts*ts),
		Size:   ts,
	}

	box, ok := p.inkBounds(img)
	if !ok {
		return out, nil
	}

	crop := p.cropSquare(img, box)
	gray, side := composeGray(img, crop)

	mat, err := gocv.NewMatFromBytes(side, side, gocv.MatTypeCV8UC1, gray)
	if err != nil {
		return nil, fmt.Errorf("wrap crop: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	// Area interpolation averages source pixels, which is the smoothing
	// the downstream model expects on a downscale.
	gocv.Resize(mat, &resized, image.Pt(ts, ts), 0, 0, gocv.InterpolationArea)

	pixels := resized.ToBytes()
	ink := 0
	for i, b := range pixels {
		v := 1 - float32(b)/255
		if v < p.params.NoiseFloor {
			v = 0
		} else {
			v *= p.params.ContrastGain
			if v > 1 {
				v = 1
			}
		}
		out.Tensor[i] = v
		if v > 0 {
			ink++
		}
	}
	out.InkRatio = float64(ink) / float64(len(out.Tensor))

	return out, nil
}

// inkBounds scans the raster for pixels above the alpha threshold and
// returns their bounding box.
func (p *Preprocessor) inkBounds(img *image.RGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Max.X, y):img.PixOffset(b.Max.X, y)]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] > p.params.AlphaThreshold {
				px := b.Min.X + x
				if px < minX {
					minX = px
				}
				if px > maxX {
					maxX = px
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// cropSquare computes the padded square crop centered on the ink box,
// clamped to the canvas bounds.
func (p *Preprocessor) cropSquare(img *image.RGBA, box image.Rectangle) image.Rectangle {
	bounds := img.Bounds()
	longest := box.Dx()
	if box.Dy() > longest {
		longest = box.Dy()
	}

	side := int(math.Ceil(float64(longest) * p.params.PadFactor))
	if side > bounds.Dx() {
		side = bounds.Dx()
	}
	if side > bounds.Dy() {
		side = bounds.Dy()
	}
	if side < 1 {
		side = 1
	}

	x0 := box.Min.X + box.Dx()/2 - side/2
	y0 := box.Min.Y + box.Dy()/2 - side/2
	x0 = clamp(x0, bounds.Min.X, bounds.Max.X-side)
	y0 = clamp(y0, bounds.Min.Y, bounds.Max.Y-side)

	return image.Rect(x0, y0, x0+side, y0+side)
}

// composeGray renders the crop region composited over white into a
// single-channel buffer. The raster is alpha-premultiplied, so the
// over-white value is luminance + (255 - alpha).
func composeGray(img *image.RGBA, crop image.Rectangle) ([]byte, int) {
	side := crop.Dx()
	gray := make([]byte, side*side)

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			o := img.PixOffset(crop.Min.X+x, crop.Min.Y+y)
			r, g, b, a := img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3]
			lum := (int(r) + int(g) + int(b)) / 3
			v := lum + 255 - int(a)
			if v > 255 {
				v = 255
			}
			gray[y*side+x] = byte(v)
		}
	}
	return gray, side
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

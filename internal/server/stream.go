package server

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/amechi-aduba/drawVSAI-react/internal/canvas"
	"github.com/amechi-aduba/drawVSAI-react/internal/capture"
)

// StreamHandler serves MJPEG frames from the camera.
type StreamHandler struct {
	camera capture.Camera
}

// NewStreamHandler creates a new StreamHandler with the given camera.
func NewStreamHandler(camera capture.Camera) *StreamHandler {
	return &StreamHandler{camera: camera}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeMJPEGHeaders(w)

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		writeMJPEGFrame(w, buf.GetBytes())
		buf.Close()

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// CanvasStreamHandler serves MJPEG frames of the drawing canvas,
// composited over white. Frames are only re-encoded when the canvas
// version changes.
type CanvasStreamHandler struct {
	canvas *canvas.Canvas
}

// NewCanvasStreamHandler creates a new CanvasStreamHandler.
func NewCanvasStreamHandler(c *canvas.Canvas) *CanvasStreamHandler {
	return &CanvasStreamHandler{canvas: c}
}

// ServeHTTP streams the canvas to connected clients.
func (h *CanvasStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeMJPEGHeaders(w)

	var lastVersion uint64
	var lastJPEG []byte

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		if v := h.canvas.Version(); v != lastVersion || lastJPEG == nil {
			jpeg, err := encodeCanvas(h.canvas.Snapshot())
			if err != nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			lastVersion = v
			lastJPEG = jpeg
		}

		writeMJPEGFrame(w, lastJPEG)

		time.Sleep(100 * time.Millisecond) // ~10 FPS is plenty for a sketch
	}
}

// encodeCanvas composites the transparent canvas over white and encodes
// it as JPEG.
func encodeCanvas(img *image.RGBA) ([]byte, error) {
	white := image.NewRGBA(img.Bounds())
	draw.Draw(white, white.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(white, white.Bounds(), img, img.Bounds().Min, draw.Over)

	mat, err := gocv.ImageToMatRGBA(white)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	buf, err := gocv.IMEncode(".jpg", bgr)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func writeMJPEGHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeMJPEGFrame(w http.ResponseWriter, jpeg []byte) {
	fmt.Fprintf(w, "--frame\r\n")
	fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
	fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
	w.Write(jpeg)
	fmt.Fprintf(w, "\r\n")

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

package opengl

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/go-theft-auto/glquad"
)

type captureRequest struct {
	frame int
	path  string
}

// CaptureAfter makes Run save the framebuffer to path as JPEG once frame
// frames were rendered, and then close the window.
func (w *Window) CaptureAfter(frame int, path string) {
	w.capture = &captureRequest{frame: max(frame, 1), path: path}
}

// Capture reads the back buffer and writes it to path as JPEG. Call it after
// rendering and before SwapBuffers.
func (w *Window) Capture(path string) error {
	width, height := w.win.GetFramebufferSize()
	pixels, err := readFrame(Context{}, w.probe, width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encodeFrame(f, pixels, width, height); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	w.logger.Info("framebuffer captured", "path", path, "width", width, "height", height)
	return nil
}

// readFrame reads the RGBA pixels of a width by height framebuffer.
func readFrame(ctx glquad.GL, probe *glquad.Probe, width, height int) ([]byte, error) {
	pixels := make([]byte, width*height*4)
	if err := probe.Do("glReadPixels", func() {
		ctx.ReadPixels(0, 0, int32(width), int32(height), pixels)
	}); err != nil {
		return nil, fmt.Errorf("read framebuffer: %w", err)
	}
	return pixels, nil
}

// encodeFrame writes RGBA pixels read from GL as a JPEG. Rows are flipped
// since the GL origin is bottom-left.
func encodeFrame(out io.Writer, pixels []byte, width, height int) error {
	if len(pixels) != width*height*4 {
		return fmt.Errorf("got %d bytes for a %dx%d frame", len(pixels), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4
	for y := range height {
		src := (height - 1 - y) * rowLen
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], pixels[src:src+rowLen])
	}
	return jpeg.Encode(out, img, &jpeg.Options{Quality: 90})
}

package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/nfnt/resize"
)

// Capture output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Capture saves rendered frames to disk. Frames rendered above the
// requested output size are downsampled, which is how supersampled
// screenshots get their edge quality.
type Capture struct {
	dir         string
	format      string
	supersample int
}

// NewCapture creates a capture writer. Unknown formats fall back to
// PNG, supersample factors below 1 are clamped to 1.
func NewCapture(dir, format string, supersample int) *Capture {
	if format != FormatWebP {
		format = FormatPNG
	}
	if supersample < 1 {
		supersample = 1
	}
	return &Capture{
		dir:         dir,
		format:      format,
		supersample: supersample,
	}
}

// Scale returns the supersampling factor renders should use.
func (c *Capture) Scale() int {
	return c.supersample
}

// Save writes the image to a timestamped file in the capture directory,
// downsampling to width x height when the render is larger. Returns the
// file name written.
func (c *Capture) Save(img image.Image, width, height int) (string, error) {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	}

	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating capture dir: %w", err)
		}
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("capture_%s.%s", timestamp, c.format)
	if c.dir != "" {
		filename = filepath.Join(c.dir, filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	switch c.format {
	case FormatWebP:
		err = nativewebp.Encode(file, img, nil)
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", c.format, err)
	}

	return filename, nil
}

// Package environment loads equirectangular radiance maps for
// image-based lighting.
package environment

import (
	"bytes"
	"fmt"
	"image"
	gomath "math"

	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"

	"github.com/aa1412666/meshview/internal/engine/texture"
)

// Map is a decoded equirectangular environment image holding linear
// radiance values.
type Map struct {
	Path      string
	Width     int
	Height    int
	Pixels    []float32 // rgb triples, row by row
	Intensity float32
}

// Decode parses environment map bytes. Radiance .hdr files keep their
// full dynamic range; LDR formats (PNG, JPEG, TGA, BMP) are linearized
// with a 2.2 gamma ramp.
func Decode(data []byte) (*Map, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("environment: decode: %w", err)
	}

	b := img.Bounds()
	m := &Map{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Pixels:    make([]float32, 0, b.Dx()*b.Dy()*3),
		Intensity: 1,
	}
	if m.Width == 0 || m.Height == 0 {
		return nil, fmt.Errorf("environment: empty image")
	}

	if radiance, ok := img.(hdr.Image); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := radiance.HDRAt(x, y).HDRRGBA()
				m.Pixels = append(m.Pixels, float32(r), float32(g), float32(bl))
			}
		}
		return m, nil
	}

	ldr := texture.ToNRGBA(img)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := ldr.NRGBAAt(x, y)
			m.Pixels = append(m.Pixels, linearize(c.R), linearize(c.G), linearize(c.B))
		}
	}
	return m, nil
}

// At returns the radiance at the given pixel. Out-of-range
// coordinates are clamped to the edge.
func (m *Map) At(x, y int) (r, g, b float32) {
	x = clampInt(x, 0, m.Width-1)
	y = clampInt(y, 0, m.Height-1)
	i := (y*m.Width + x) * 3
	return m.Pixels[i], m.Pixels[i+1], m.Pixels[i+2]
}

func linearize(v uint8) float32 {
	return float32(gomath.Pow(float64(v)/255.0, 2.2))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

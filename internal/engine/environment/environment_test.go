package environment

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"testing"
)

func TestDecodeLDR(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	m, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Width != 2 || m.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", m.Width, m.Height)
	}
	if m.Intensity != 1 {
		t.Errorf("intensity = %f, want 1", m.Intensity)
	}

	// Gray 128 linearizes to (128/255)^2.2
	wantGray := float32(gomath.Pow(128.0/255.0, 2.2))
	r, _, _ := m.At(0, 0)
	if gomath.Abs(float64(r-wantGray)) > 1e-4 {
		t.Errorf("gray pixel = %f, want %f", r, wantGray)
	}
	r, g, b := m.At(1, 0)
	if r != 1 || g != 1 || b != 1 {
		t.Errorf("white pixel = (%f, %f, %f), want (1, 1, 1)", r, g, b)
	}
}

func TestDecodeRadiance(t *testing.T) {
	// Minimal flat (non-RLE) Radiance file: 2x2, all pixels one unit
	// of radiance. (128, 128, 128, 129) decodes to roughly 1.0.
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\n")
	buf.WriteString("FORMAT=32-bit_rle_rgbe\n")
	buf.WriteString("\n")
	buf.WriteString("-Y 2 +X 2\n")
	for i := 0; i < 4; i++ {
		buf.Write([]byte{128, 128, 128, 129})
	}

	m, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode radiance: %v", err)
	}
	if m.Width != 2 || m.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", m.Width, m.Height)
	}

	r, g, b := m.At(0, 0)
	for i, v := range []float32{r, g, b} {
		if v < 0.9 || v > 1.1 {
			t.Errorf("channel %d = %f, want about 1.0", i, v)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("not an image at all")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestAtClamps(t *testing.T) {
	m := &Map{
		Width:  2,
		Height: 1,
		Pixels: []float32{1, 2, 3, 4, 5, 6},
	}

	r, g, b := m.At(-5, 0)
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("clamped low = (%f, %f, %f)", r, g, b)
	}
	r, g, b = m.At(9, 9)
	if r != 4 || g != 5 || b != 6 {
		t.Errorf("clamped high = (%f, %f, %f)", r, g, b)
	}
}

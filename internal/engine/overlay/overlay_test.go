package overlay

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestRasterizeSize(t *testing.T) {
	img := Rasterize("AB")

	face := basicfont.Face7x13
	wantW := 2*face.Advance + 2*rasterPad
	wantH := face.Ascent + face.Descent + 2*rasterPad

	if got := img.Bounds().Dx(); got != wantW {
		t.Errorf("width = %d, want %d", got, wantW)
	}
	if got := img.Bounds().Dy(); got != wantH {
		t.Errorf("height = %d, want %d", got, wantH)
	}
}

func TestRasterizeDrawsGlyphs(t *testing.T) {
	img := Rasterize("X")

	opaque := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A != 0 {
				opaque++
			}
		}
	}
	if opaque == 0 {
		t.Fatal("no opaque pixels drawn")
	}

	// Padding rows and columns stay transparent.
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}

func TestRasterizeEmpty(t *testing.T) {
	img := Rasterize("")
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		t.Errorf("bounds = %v, want positive size", img.Bounds())
	}
}

func TestDefaultHintFitsFace(t *testing.T) {
	// Face7x13 only carries printable ASCII; anything outside would
	// silently drop from the rendered hint.
	for i, r := range DefaultHint {
		if r < 0x20 || r > 0x7e {
			t.Errorf("rune %q at byte %d outside the 7x13 face range", r, i)
		}
	}
}

// Package texture provides image decoding and GPU texture upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

// MaxDimension caps texture sizes before upload. Larger images are
// scaled down to protect GPU memory and stay within common limits.
const MaxDimension = 4096

// Decode parses texture bytes in any registered format (PNG, JPEG,
// TGA, BMP) into NRGBA pixels, clamped to MaxDimension.
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return ClampSize(ToNRGBA(img), MaxDimension), nil
}

// ToNRGBA converts any image to NRGBA with a zero-origin bounds.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ClampSize scales the image down so neither dimension exceeds max,
// preserving aspect ratio. Images within the limit pass through.
func ClampSize(img *image.NRGBA, max int) *image.NRGBA {
	b := img.Bounds()
	if max <= 0 || (b.Dx() <= max && b.Dy() <= max) {
		return img
	}
	return ToNRGBA(resize.Thumbnail(uint(max), uint(max), img, resize.Lanczos3))
}

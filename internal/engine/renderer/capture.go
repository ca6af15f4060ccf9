package renderer

import (
	"image"

	"github.com/aa1412666/meshview/internal/engine/camera"
	"github.com/aa1412666/meshview/internal/engine/framebuffer"
	"github.com/aa1412666/meshview/internal/engine/scene"
)

// Snapshot renders one frame into an offscreen framebuffer of the given
// size and returns the pixels with rows top-down. The previous
// framebuffer, viewport and camera aspect are restored afterwards.
func (r *Renderer) Snapshot(sc *scene.Scene, cam *camera.Perspective, width, height int) (*image.RGBA, error) {
	fb, err := framebuffer.New(int32(width), int32(height))
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	restore := fb.BindWithViewport()
	prevAspect := cam.Aspect
	cam.SetViewport(width, height)

	r.Render(sc, cam)
	img := fb.ReadImage()

	cam.Aspect = prevAspect
	restore()
	return img, nil
}

package camera

import (
	gomath "math"

	"github.com/aa1412666/meshview/pkg/math"
)

// DefaultFitOffset is the padding factor applied when framing a model.
const DefaultFitOffset = 1.25

// minNear is the smallest allowed near plane. Degenerate bounds would
// otherwise produce a zero near plane and a broken projection.
const minNear = 0.001

// FitToBounds frames the camera on the given bounds: the camera moves
// to an offset three-quarter view at a distance where the largest
// extent fills the vertical field of view, with the clip planes scaled
// to match. The orbit target (if controls are given) moves to the
// bounds center.
func FitToBounds(cam *Perspective, ctl *OrbitControls, bounds math.AABB, offset float32) {
	if bounds.IsEmpty() {
		return
	}
	if offset <= 0 {
		offset = DefaultFitOffset
	}

	center := bounds.Center()
	maxDim := bounds.MaxDim()

	halfFov := float64(cam.FOV) / 2
	dist := float32(gomath.Abs(float64(maxDim)/2/gomath.Tan(halfFov))) * offset

	cam.Position = center.Add(math.Vec3{X: dist, Y: dist * 0.6, Z: dist})
	cam.Target = center

	near := dist / 100
	if near < minNear {
		near = minNear
	}
	far := dist * 100
	if far <= near {
		far = near * 1000
	}
	cam.Near = near
	cam.Far = far

	if ctl != nil {
		ctl.MinRadius = dist * 0.05
		ctl.MaxRadius = dist * 20
		if ctl.MinRadius < minNear {
			ctl.MinRadius = minNear
		}
		ctl.SyncFromCamera()
	}
}

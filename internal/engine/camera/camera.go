// Package camera provides the perspective camera and orbit controls.
package camera

import (
	gomath "math"

	"github.com/aa1412666/meshview/pkg/math"
)

// DefaultFOV is the vertical field of view for new cameras, in radians.
const DefaultFOV = float32(gomath.Pi / 4) // 45 degrees

// Perspective is a perspective projection camera.
type Perspective struct {
	FOV    float32 // Vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// NewPerspective creates a camera with default framing, a few units
// back from the origin. Auto-fit replaces this once a model loads.
func NewPerspective(fov, aspect float32) *Perspective {
	return &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
		Position: math.Vec3{X: 0, Y: 0, Z: 5},
		Target:   math.Vec3{},
		Up:       math.Vec3{Y: 1},
	}
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewMatrix returns the view matrix looking from Position to Target.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// SetViewport updates the aspect ratio for a drawable of the given size.
func (c *Perspective) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

package camera

import (
	gomath "math"

	"github.com/aa1412666/meshview/pkg/math"
)

// OrbitControls rotates, zooms and pans a camera around a target point.
// Input arrives as impulses (Rotate/Zoom/Pan); Update consumes them with
// exponential damping so motion eases out over a few frames.
type OrbitControls struct {
	cam *Perspective

	// Target is the point the camera orbits and looks at.
	Target math.Vec3

	// Spherical coordinates of the camera relative to Target.
	radius float32
	theta  float32 // azimuth around +Y, radians; 0 places the camera on +Z
	phi    float32 // polar angle from +Y, radians

	// Pending input, consumed by Update.
	rotateVel math.Vec2
	panVel    math.Vec2
	zoomVel   float32

	// Damping is the decay rate of pending input, per second.
	Damping     float32
	RotateSpeed float32 // radians per pixel of drag
	ZoomSpeed   float32 // log-radius per wheel notch
	PanSpeed    float32 // fraction of radius per pixel

	// Constraints
	MinRadius float32
	MaxRadius float32
	MinPolar  float32
	MaxPolar  float32
}

// NewOrbitControls creates controls driving the given camera, adopting
// its current position and target.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	c := &OrbitControls{
		cam:         cam,
		Damping:     6.0,
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
		PanSpeed:    0.002,
		MinRadius:   0.01,
		MaxRadius:   1e6,
		MinPolar:    0.05,
		MaxPolar:    gomath.Pi - 0.05,
	}
	c.SyncFromCamera()
	return c
}

// Rotate queues an orbital rotation from a mouse drag, in pixels.
func (c *OrbitControls) Rotate(dx, dy float32) {
	c.rotateVel.X += dx * c.RotateSpeed
	c.rotateVel.Y += dy * c.RotateSpeed
}

// Zoom queues a dolly toward (positive delta) or away from the target.
func (c *OrbitControls) Zoom(delta float32) {
	c.zoomVel += delta * c.ZoomSpeed
}

// Pan queues a translation of the target within the view plane, in
// pixels of mouse drag.
func (c *OrbitControls) Pan(dx, dy float32) {
	c.panVel.X += dx * c.PanSpeed
	c.panVel.Y += dy * c.PanSpeed
}

// Radius returns the current orbit distance.
func (c *OrbitControls) Radius() float32 {
	return c.radius
}

// Update consumes a damped share of the pending input and repositions
// the camera. dt is the frame time in seconds.
func (c *OrbitControls) Update(dt float32) {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	decay := float32(gomath.Exp(float64(-c.Damping * dt)))
	step := 1 - decay

	c.theta -= c.rotateVel.X * step
	c.phi -= c.rotateVel.Y * step
	if c.phi < c.MinPolar {
		c.phi = c.MinPolar
	}
	if c.phi > c.MaxPolar {
		c.phi = c.MaxPolar
	}

	c.radius *= float32(gomath.Exp(float64(-c.zoomVel * step)))
	if c.radius < c.MinRadius {
		c.radius = c.MinRadius
	}
	if c.radius > c.MaxRadius {
		c.radius = c.MaxRadius
	}

	if c.panVel.X != 0 || c.panVel.Y != 0 {
		// Pan scales with distance for a consistent feel
		right, up := c.viewAxes()
		k := c.radius * step
		c.Target = c.Target.
			Add(right.Scale(-c.panVel.X * k)).
			Add(up.Scale(c.panVel.Y * k))
	}

	c.rotateVel = c.rotateVel.Scale(decay)
	c.zoomVel *= decay
	c.panVel = c.panVel.Scale(decay)

	c.apply()
}

// Retarget moves the orbit target, keeping the camera's spherical
// offset. Used by auto-fit and focus picking.
func (c *OrbitControls) Retarget(target math.Vec3) {
	c.Target = target
	c.apply()
}

// SyncFromCamera adopts the camera's current position and target as
// the orbit state.
func (c *OrbitControls) SyncFromCamera() {
	c.Target = c.cam.Target
	offset := c.cam.Position.Sub(c.cam.Target)

	c.radius = offset.Length()
	if c.radius < c.MinRadius {
		c.radius = c.MinRadius
	}

	c.theta = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))

	cosPhi := float64(offset.Y / c.radius)
	if cosPhi > 1 {
		cosPhi = 1
	}
	if cosPhi < -1 {
		cosPhi = -1
	}
	c.phi = float32(gomath.Acos(cosPhi))
	if c.phi < c.MinPolar {
		c.phi = c.MinPolar
	}
	if c.phi > c.MaxPolar {
		c.phi = c.MaxPolar
	}

	c.apply()
}

// apply writes the spherical state back to the camera.
func (c *OrbitControls) apply() {
	sinPhi := float32(gomath.Sin(float64(c.phi)))
	offset := math.Vec3{
		X: c.radius * sinPhi * float32(gomath.Sin(float64(c.theta))),
		Y: c.radius * float32(gomath.Cos(float64(c.phi))),
		Z: c.radius * sinPhi * float32(gomath.Cos(float64(c.theta))),
	}
	c.cam.Position = c.Target.Add(offset)
	c.cam.Target = c.Target
}

// viewAxes returns the camera's right and up vectors in world space.
func (c *OrbitControls) viewAxes() (right, up math.Vec3) {
	forward := c.Target.Sub(c.cam.Position).Normalize()
	right = forward.Cross(c.cam.Up).Normalize()
	up = right.Cross(forward)
	return right, up
}

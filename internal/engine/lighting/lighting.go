// Package lighting provides the light rig for viewer scenes.
package lighting

import (
	"github.com/aa1412666/meshview/pkg/math"
)

// RimIntensityFactor scales the rim light relative to the key light.
const RimIntensityFactor = 0.3

// Hemisphere is a gradient ambient light. Surfaces facing up receive
// the sky color, surfaces facing down the ground color, with a smooth
// blend in between.
type Hemisphere struct {
	SkyColor    [3]float32 // RGB, 0-1 range
	GroundColor [3]float32 // RGB, 0-1 range
	Intensity   float32
}

// Directional is an infinitely distant light such as the sun.
type Directional struct {
	Color      [3]float32 // RGB, 0-1 range
	Intensity  float32
	Direction  math.Vec3 // normalized, points toward the light
	CastShadow bool
}

// NewDirectional creates a white directional light shining from the
// given position toward the origin. The stored direction points at the
// light, ready for N·L shading.
func NewDirectional(position math.Vec3, intensity float32, castShadow bool) Directional {
	dir := position.Normalize()
	if dir == (math.Vec3{}) {
		dir = math.Vec3{Y: 1} // overhead when no position is given
	}
	return Directional{
		Color:      [3]float32{1, 1, 1},
		Intensity:  intensity,
		Direction:  dir,
		CastShadow: castShadow,
	}
}

// Rim derives a fill light opposite the key light at reduced
// intensity, separating the model's silhouette from the background.
// Rim lights never cast shadows.
func Rim(key Directional) Directional {
	return Directional{
		Color:     key.Color,
		Intensity: key.Intensity * RimIntensityFactor,
		Direction: key.Direction.Scale(-1),
	}
}

// ScaledSky returns the sky color premultiplied by intensity for GPU upload.
func (h Hemisphere) ScaledSky() [3]float32 {
	return scale(h.SkyColor, h.Intensity)
}

// ScaledGround returns the ground color premultiplied by intensity for GPU upload.
func (h Hemisphere) ScaledGround() [3]float32 {
	return scale(h.GroundColor, h.Intensity)
}

// ScaledColor returns the light color premultiplied by intensity for GPU upload.
func (d Directional) ScaledColor() [3]float32 {
	return scale(d.Color, d.Intensity)
}

func scale(c [3]float32, k float32) [3]float32 {
	return [3]float32{c[0] * k, c[1] * k, c[2] * k}
}

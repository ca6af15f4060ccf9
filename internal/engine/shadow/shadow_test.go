package shadow

import (
	gomath "math"
	"testing"

	"github.com/aa1412666/meshview/internal/engine/lighting"
	"github.com/aa1412666/meshview/pkg/math"
)

func TestLightMatrixCoversBounds(t *testing.T) {
	light := lighting.NewDirectional(math.Vec3{X: 5, Y: 10, Z: 7}, 1.2, true)
	bounds := math.AABB{Min: math.Vec3{X: -2, Y: 0, Z: -3}, Max: math.Vec3{X: 2, Y: 4, Z: 3}}

	m := LightMatrix(light, bounds)

	// Every corner of the shadowed bounds must land inside the light's
	// clip volume
	for _, corner := range bounds.Corners() {
		ndc := m.TransformVec3(corner)
		if ndc.X < -1.01 || ndc.X > 1.01 || ndc.Y < -1.01 || ndc.Y > 1.01 {
			t.Errorf("corner %v projects outside the frustum: %v", corner, ndc)
		}
		if ndc.Z < -1.01 || ndc.Z > 1.01 {
			t.Errorf("corner %v outside the depth range: %v", corner, ndc)
		}
	}
}

func TestLightMatrixVerticalLight(t *testing.T) {
	light := lighting.NewDirectional(math.Vec3{Y: 10}, 1, true)
	bounds := math.AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	m := LightMatrix(light, bounds)
	ndc := m.TransformVec3(bounds.Center())
	for _, v := range []float32{ndc.X, ndc.Y, ndc.Z} {
		if gomath.IsNaN(float64(v)) {
			t.Fatalf("vertical light produced NaN: %v", ndc)
		}
	}
}

func TestLightMatrixDegenerateBounds(t *testing.T) {
	light := lighting.NewDirectional(math.Vec3{X: 1, Y: 2, Z: 3}, 1, true)
	point := math.Vec3{X: 4, Y: 5, Z: 6}
	bounds := math.AABB{Min: point, Max: point}

	m := LightMatrix(light, bounds)
	ndc := m.TransformVec3(point)
	for _, v := range []float32{ndc.X, ndc.Y, ndc.Z} {
		if gomath.IsNaN(float64(v)) {
			t.Fatalf("degenerate bounds produced NaN: %v", ndc)
		}
	}
}

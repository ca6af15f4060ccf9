package scene

import (
	gomath "math"
	"testing"

	"github.com/aa1412666/meshview/pkg/math"
)

func TestGenerateDisc(t *testing.T) {
	const radius = 5.0
	const segments = 64

	positions, normals, indices := GenerateDisc(radius, segments)

	if len(positions) != (segments+1)*3 {
		t.Fatalf("position floats = %d, want %d", len(positions), (segments+1)*3)
	}
	if len(normals) != len(positions) {
		t.Fatalf("normal floats = %d, want %d", len(normals), len(positions))
	}
	if len(indices) != segments*3 {
		t.Fatalf("indices = %d, want %d", len(indices), segments*3)
	}

	// Center vertex at the origin
	if positions[0] != 0 || positions[1] != 0 || positions[2] != 0 {
		t.Errorf("center = (%f, %f, %f), want origin", positions[0], positions[1], positions[2])
	}

	// Ring vertices on the radius, flat on the XZ plane, facing +Y
	for i := 1; i <= segments; i++ {
		x, y, z := positions[i*3], positions[i*3+1], positions[i*3+2]
		if y != 0 {
			t.Fatalf("ring vertex %d not on the XZ plane: y = %f", i, y)
		}
		d := gomath.Hypot(float64(x), float64(z))
		if gomath.Abs(d-radius) > 1e-4 {
			t.Fatalf("ring vertex %d at distance %f, want %f", i, d, float64(radius))
		}
		if normals[i*3] != 0 || normals[i*3+1] != 1 || normals[i*3+2] != 0 {
			t.Fatalf("normal %d not +Y", i)
		}
	}

	// First triangle winds counter-clockwise seen from above
	v := func(idx uint32) math.Vec3 {
		return math.Vec3{X: positions[idx*3], Y: positions[idx*3+1], Z: positions[idx*3+2]}
	}
	a, b, c := v(indices[0]), v(indices[1]), v(indices[2])
	if n := b.Sub(a).Cross(c.Sub(a)); n.Y <= 0 {
		t.Errorf("first triangle faces %v, want +Y", n)
	}
}

func TestGenerateDiscMinimumSegments(t *testing.T) {
	positions, _, indices := GenerateDisc(1, 0)
	if len(positions) < 4*3 || len(indices) < 3*3 {
		t.Errorf("degenerate segment count not clamped: %d positions, %d indices",
			len(positions)/3, len(indices)/3)
	}
}

func TestNewGround(t *testing.T) {
	g := NewGround(8)
	if g.Radius != 8 {
		t.Errorf("radius = %f, want 8", g.Radius)
	}
	if len(g.Positions) == 0 || len(g.Indices) == 0 {
		t.Error("ground disc has no geometry")
	}
}

package scene

import (
	gomath "math"
)

// DefaultGroundRadius is the radius of the ground disc in world units.
const DefaultGroundRadius = 10.0

// DefaultGroundSegments is the number of segments in the ground disc.
const DefaultGroundSegments = 64

// Ground is a flat circular disc under the model that receives
// shadows. The renderer fades it out toward the rim.
type Ground struct {
	Radius    float32
	Positions []float32 // xyz triples
	Normals   []float32 // xyz triples, all +Y
	Indices   []uint32
}

// NewGround creates a ground disc of the given radius on the XZ plane
// at the origin.
func NewGround(radius float32) *Ground {
	positions, normals, indices := GenerateDisc(radius, DefaultGroundSegments)
	return &Ground{
		Radius:    radius,
		Positions: positions,
		Normals:   normals,
		Indices:   indices,
	}
}

// GenerateDisc creates a triangle-fan disc on the XZ plane centered at
// the origin, facing +Y. Vertex layout: center first, then the ring.
func GenerateDisc(radius float32, segments int) (positions, normals []float32, indices []uint32) {
	if segments < 3 {
		segments = 3
	}

	positions = make([]float32, 0, (segments+1)*3)
	normals = make([]float32, 0, (segments+1)*3)
	indices = make([]uint32, 0, segments*3)

	positions = append(positions, 0, 0, 0)
	normals = append(normals, 0, 1, 0)

	for i := 0; i < segments; i++ {
		a := float64(i) / float64(segments) * 2 * gomath.Pi
		positions = append(positions,
			radius*float32(gomath.Cos(a)), 0, radius*float32(gomath.Sin(a)))
		normals = append(normals, 0, 1, 0)
	}

	for i := 0; i < segments; i++ {
		next := uint32((i+1)%segments) + 1
		// Wind counter-clockwise seen from above so the disc faces +Y
		indices = append(indices, 0, next, uint32(i)+1)
	}
	return positions, normals, indices
}

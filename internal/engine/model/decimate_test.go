package model

import (
	"testing"
)

// gridPrimitive builds an n by n vertex grid in the XZ plane with
// 2*(n-1)^2 triangles.
func gridPrimitive(n int) Primitive {
	var p Primitive
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			p.Positions = append(p.Positions, float32(x), 0, float32(z))
		}
	}
	for z := 0; z < n-1; z++ {
		for x := 0; x < n-1; x++ {
			i := uint32(z*n + x)
			p.Indices = append(p.Indices,
				i, i+1, i+uint32(n),
				i+1, i+uint32(n)+1, i+uint32(n))
		}
	}
	p.Material = NoMaterial
	return p
}

func TestDecimateReducesTriangles(t *testing.T) {
	p := gridPrimitive(11) // 200 triangles
	before := p.TriangleCount()

	reduced := p.Decimate(0.3)
	after := reduced.TriangleCount()

	if after >= before {
		t.Errorf("decimation did not reduce: %d -> %d triangles", before, after)
	}
	if after == 0 {
		t.Error("decimation removed all triangles")
	}
	if len(reduced.Normals) != len(reduced.Positions) {
		t.Errorf("normal count %d does not match position count %d",
			len(reduced.Normals), len(reduced.Positions))
	}
}

func TestDecimateInvalidRatio(t *testing.T) {
	p := gridPrimitive(4)
	for _, ratio := range []float64{0, -1, 1, 2} {
		if got := p.Decimate(ratio); got.TriangleCount() != p.TriangleCount() {
			t.Errorf("ratio %f changed the primitive", ratio)
		}
	}
}

func TestDecimateEmptyPrimitive(t *testing.T) {
	var p Primitive
	if got := p.Decimate(0.5); got.TriangleCount() != 0 {
		t.Errorf("empty primitive grew triangles: %d", got.TriangleCount())
	}
}

func TestDecimateModelSharesMaterials(t *testing.T) {
	m := Model{
		Nodes:     []Node{{Mesh: 0}},
		Roots:     []int{0},
		Meshes:    []Mesh{{Primitives: []Primitive{gridPrimitive(11)}}},
		Materials: []Material{{Name: "paint"}},
	}

	reduced := m.Decimate(0.3)
	if reduced.TriangleCount() >= m.TriangleCount() {
		t.Errorf("model decimation did not reduce: %d -> %d",
			m.TriangleCount(), reduced.TriangleCount())
	}
	if len(reduced.Materials) != 1 || reduced.Materials[0].Name != "paint" {
		t.Error("decimated model should share the original materials")
	}
	if m.TriangleCount() != 200 {
		t.Errorf("original model modified, %d triangles", m.TriangleCount())
	}
}

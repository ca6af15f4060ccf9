package model

import (
	"github.com/fogleman/simplify"

	"github.com/aa1412666/meshview/pkg/math"
)

// Decimate returns a copy of the model with each primitive reduced to
// roughly the given fraction of its triangles. Materials are shared
// with the original. Texture coordinates are dropped; the reduced
// geometry is a preview, not a replacement asset.
func (m *Model) Decimate(ratio float64) *Model {
	out := &Model{
		Name:      m.Name,
		Nodes:     append([]Node(nil), m.Nodes...),
		Roots:     append([]int(nil), m.Roots...),
		Meshes:    make([]Mesh, len(m.Meshes)),
		Materials: m.Materials,
	}
	for i := range m.Meshes {
		src := &m.Meshes[i]
		dst := Mesh{Name: src.Name, Primitives: make([]Primitive, len(src.Primitives))}
		for j := range src.Primitives {
			dst.Primitives[j] = *src.Primitives[j].Decimate(ratio)
		}
		out.Meshes[i] = dst
	}
	return out
}

// Decimate reduces the primitive to roughly the given fraction of its
// triangles using quadric edge collapse. Ratios outside (0, 1) return
// the primitive unchanged.
func (p *Primitive) Decimate(ratio float64) *Primitive {
	if ratio <= 0 || ratio >= 1 {
		return p
	}

	var tris []*simplify.Triangle
	p.EachTriangle(func(a, b, c math.Vec3) {
		// Degenerate triangles confuse the quadric solver
		if b.Sub(a).Cross(c.Sub(a)).Length() < 1e-8 {
			return
		}
		tris = append(tris, simplify.NewTriangle(
			simplify.Vector{X: float64(a.X), Y: float64(a.Y), Z: float64(a.Z)},
			simplify.Vector{X: float64(b.X), Y: float64(b.Y), Z: float64(b.Z)},
			simplify.Vector{X: float64(c.X), Y: float64(c.Y), Z: float64(c.Z)},
		))
	})
	if len(tris) == 0 {
		return p
	}

	reduced := simplify.NewMesh(tris).Simplify(ratio)

	out := &Primitive{Material: p.Material}
	lookup := make(map[simplify.Vector]uint32)
	var normalSum []math.Vec3

	add := func(v simplify.Vector) uint32 {
		if idx, ok := lookup[v]; ok {
			return idx
		}
		idx := uint32(len(out.Positions) / 3)
		lookup[v] = idx
		out.Positions = append(out.Positions, float32(v.X), float32(v.Y), float32(v.Z))
		normalSum = append(normalSum, math.Vec3{})
		return idx
	}
	toVec3 := func(v simplify.Vector) math.Vec3 {
		return math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
	}

	for _, t := range reduced.Triangles {
		i0, i1, i2 := add(t.V1), add(t.V2), add(t.V3)
		out.Indices = append(out.Indices, i0, i1, i2)

		// Accumulate area-weighted face normals at shared vertices
		a, b, c := toVec3(t.V1), toVec3(t.V2), toVec3(t.V3)
		face := b.Sub(a).Cross(c.Sub(a))
		normalSum[i0] = normalSum[i0].Add(face)
		normalSum[i1] = normalSum[i1].Add(face)
		normalSum[i2] = normalSum[i2].Add(face)
	}

	out.Normals = make([]float32, 0, len(normalSum)*3)
	for _, n := range normalSum {
		n = n.Normalize()
		out.Normals = append(out.Normals, n.X, n.Y, n.Z)
	}
	return out
}

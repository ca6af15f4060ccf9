// Package model provides the CPU-side scene graph produced by the asset
// loader, ready for GPU upload by the renderer.
package model

import (
	"image"

	"github.com/aa1412666/meshview/pkg/math"
)

// NoMesh marks a node without mesh data.
const NoMesh = -1

// NoMaterial marks a primitive without a material.
const NoMaterial = -1

// Model is a loaded asset: a node tree with flat mesh and material
// storage, referenced by index.
type Model struct {
	Name      string
	Nodes     []Node
	Roots     []int
	Meshes    []Mesh
	Materials []Material
}

// Node is one element of the transform hierarchy.
type Node struct {
	Name        string
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
	// Matrix overrides the TRS fields when the source stored a raw
	// matrix for this node.
	Matrix   *math.Mat4
	Children []int
	Mesh     int // index into Model.Meshes, NoMesh when absent

	CastShadow    bool
	ReceiveShadow bool
}

// Mesh groups primitives sharing one transform.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Primitive is one draw call worth of geometry.
type Primitive struct {
	Positions []float32 // xyz triples
	Normals   []float32 // xyz triples, may be empty
	TexCoords []float32 // uv pairs, may be empty
	Indices   []uint32  // empty for non-indexed soups
	Material  int       // index into Model.Materials, NoMaterial when absent
}

// Material holds shading inputs. Dirty asks the renderer to re-upload
// material state before the next draw.
type Material struct {
	Name         string
	BaseColor    [4]float32
	Image        *image.NRGBA // decoded base color texture, may be nil
	EnvIntensity float32
	DoubleSided  bool
	Dirty        bool
}

// TriangleCount returns the number of triangles across all meshes.
func (m *Model) TriangleCount() int {
	total := 0
	for i := range m.Meshes {
		for j := range m.Meshes[i].Primitives {
			total += m.Meshes[i].Primitives[j].TriangleCount()
		}
	}
	return total
}

// TriangleCount returns the number of triangles in the primitive.
func (p *Primitive) TriangleCount() int {
	if len(p.Indices) > 0 {
		return len(p.Indices) / 3
	}
	return len(p.Positions) / 9
}

// Bounds returns the primitive's local bounding box.
func (p *Primitive) Bounds() math.AABB {
	b := math.EmptyAABB()
	for i := 0; i+2 < len(p.Positions); i += 3 {
		b = b.Extend(math.Vec3{X: p.Positions[i], Y: p.Positions[i+1], Z: p.Positions[i+2]})
	}
	return b
}

// ComputeNormals rebuilds smooth per-vertex normals from the faces,
// area weighted. Used when the source asset ships no normals.
func (p *Primitive) ComputeNormals() {
	count := len(p.Positions) / 3
	if count == 0 {
		p.Normals = nil
		return
	}
	sum := make([]math.Vec3, count)

	at := func(i int) math.Vec3 {
		j := i * 3
		return math.Vec3{X: p.Positions[j], Y: p.Positions[j+1], Z: p.Positions[j+2]}
	}
	accumulate := func(i0, i1, i2 int) {
		if i0 >= count || i1 >= count || i2 >= count {
			return
		}
		a, b, c := at(i0), at(i1), at(i2)
		face := b.Sub(a).Cross(c.Sub(a))
		sum[i0] = sum[i0].Add(face)
		sum[i1] = sum[i1].Add(face)
		sum[i2] = sum[i2].Add(face)
	}

	if len(p.Indices) > 0 {
		for i := 0; i+2 < len(p.Indices); i += 3 {
			accumulate(int(p.Indices[i]), int(p.Indices[i+1]), int(p.Indices[i+2]))
		}
	} else {
		for i := 0; i+2 < count; i += 3 {
			accumulate(i, i+1, i+2)
		}
	}

	p.Normals = make([]float32, 0, count*3)
	for _, n := range sum {
		n = n.Normalize()
		p.Normals = append(p.Normals, n.X, n.Y, n.Z)
	}
}

// EachTriangle calls fn for every valid triangle in the primitive.
// Triangles referencing out-of-range indices are skipped.
func (p *Primitive) EachTriangle(fn func(a, b, c math.Vec3)) {
	count := len(p.Positions) / 3
	at := func(i uint32) math.Vec3 {
		j := int(i) * 3
		return math.Vec3{X: p.Positions[j], Y: p.Positions[j+1], Z: p.Positions[j+2]}
	}

	if len(p.Indices) > 0 {
		for i := 0; i+2 < len(p.Indices); i += 3 {
			i0, i1, i2 := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
			if int(i0) >= count || int(i1) >= count || int(i2) >= count {
				continue
			}
			fn(at(i0), at(i1), at(i2))
		}
		return
	}
	for i := 0; i+2 < count; i += 3 {
		fn(at(uint32(i)), at(uint32(i+1)), at(uint32(i+2)))
	}
}

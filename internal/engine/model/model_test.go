package model

import (
	gomath "math"
	"testing"

	"github.com/aa1412666/meshview/pkg/math"
)

// quadPrimitive builds two indexed triangles spanning a unit quad in
// the XY plane.
func quadPrimitive() Primitive {
	return Primitive{
		Positions: []float32{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Material: NoMaterial,
	}
}

func TestTriangleCount(t *testing.T) {
	indexed := quadPrimitive()
	if got := indexed.TriangleCount(); got != 2 {
		t.Errorf("indexed triangle count = %d, want 2", got)
	}

	soup := Primitive{
		Positions: []float32{
			0, 0, 0, 1, 0, 0, 1, 1, 0,
			0, 0, 0, 1, 1, 0, 0, 1, 0,
		},
	}
	if got := soup.TriangleCount(); got != 2 {
		t.Errorf("soup triangle count = %d, want 2", got)
	}

	m := Model{
		Nodes:  []Node{{Mesh: 0}},
		Roots:  []int{0},
		Meshes: []Mesh{{Primitives: []Primitive{indexed, soup}}},
	}
	if got := m.TriangleCount(); got != 4 {
		t.Errorf("model triangle count = %d, want 4", got)
	}
}

func TestPrimitiveBounds(t *testing.T) {
	p := quadPrimitive()
	b := p.Bounds()

	if b.Min != (math.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("min = %v, want origin", b.Min)
	}
	if b.Max != (math.Vec3{X: 1, Y: 1, Z: 0}) {
		t.Errorf("max = %v, want (1, 1, 0)", b.Max)
	}

	empty := Primitive{}
	if !empty.Bounds().IsEmpty() {
		t.Error("primitive without positions must have empty bounds")
	}
}

func TestEachTriangleSkipsBadIndices(t *testing.T) {
	p := quadPrimitive()
	p.Indices = []uint32{0, 1, 2, 0, 2, 99}

	count := 0
	p.EachTriangle(func(a, b, c math.Vec3) { count++ })
	if count != 1 {
		t.Errorf("visited %d triangles, want 1 (bad index skipped)", count)
	}
}

func TestComputeNormals(t *testing.T) {
	p := quadPrimitive()
	p.ComputeNormals()

	if len(p.Normals) != len(p.Positions) {
		t.Fatalf("normals length = %d, want %d", len(p.Normals), len(p.Positions))
	}
	for i := 0; i+2 < len(p.Normals); i += 3 {
		got := math.Vec3{X: p.Normals[i], Y: p.Normals[i+1], Z: p.Normals[i+2]}
		if got.Distance(math.Vec3{Z: 1}) > 1e-5 {
			t.Errorf("normal %d = %v, want (0, 0, 1)", i/3, got)
		}
	}
}

func TestLocalMatrix(t *testing.T) {
	n := Node{
		Translation: math.Vec3{X: 1, Y: 2, Z: 3},
		Rotation:    math.QuatIdentity(),
		Scale:       math.Vec3{X: 2, Y: 2, Z: 2},
	}

	got := n.LocalMatrix().TransformVec3(math.Vec3{X: 1, Y: 0, Z: 0})
	want := math.Vec3{X: 3, Y: 2, Z: 3}
	if got.Distance(want) > 1e-5 {
		t.Errorf("transformed point = %v, want %v", got, want)
	}

	// A raw matrix wins over the TRS fields
	override := math.Translate(10, 0, 0)
	n.Matrix = &override
	got = n.LocalMatrix().TransformVec3(math.Vec3{})
	if got != (math.Vec3{X: 10}) {
		t.Errorf("matrix override ignored, got %v", got)
	}
}

func TestWalkTransforms(t *testing.T) {
	m := Model{
		Nodes: []Node{
			{Name: "root", Translation: math.Vec3{X: 1}, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Children: []int{1}, Mesh: NoMesh},
			{Name: "child", Translation: math.Vec3{Y: 2}, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Mesh: NoMesh},
		},
		Roots: []int{0},
	}

	var names []string
	var worlds []math.Vec3
	m.WalkTransforms(func(n *Node, world math.Mat4) {
		names = append(names, n.Name)
		worlds = append(worlds, world.TransformVec3(math.Vec3{}))
	})

	if len(names) != 2 || names[0] != "root" || names[1] != "child" {
		t.Fatalf("visit order = %v, want [root child]", names)
	}
	if worlds[1] != (math.Vec3{X: 1, Y: 2}) {
		t.Errorf("child world origin = %v, want (1, 2, 0)", worlds[1])
	}
}

func TestWalkTransformsRotatedParent(t *testing.T) {
	quarter := math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2)
	m := Model{
		Nodes: []Node{
			{Name: "root", Rotation: quarter, Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Children: []int{1}, Mesh: NoMesh},
			{Name: "child", Translation: math.Vec3{X: 3}, Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Mesh: NoMesh},
		},
		Roots: []int{0},
	}

	var child math.Vec3
	m.WalkTransforms(func(n *Node, world math.Mat4) {
		if n.Name == "child" {
			child = world.TransformVec3(math.Vec3{})
		}
	})

	// The parent's quarter turn about Y swings the child's +X offset onto -Z.
	if child.Distance(math.Vec3{Z: -3}) > 1e-5 {
		t.Errorf("child world origin = %v, want (0, 0, -3)", child)
	}
}

func TestWalkTransformsCycleGuard(t *testing.T) {
	m := Model{
		Nodes: []Node{
			{Name: "a", Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Children: []int{1}, Mesh: NoMesh},
			{Name: "b", Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Children: []int{0, 99}, Mesh: NoMesh},
		},
		Roots: []int{0},
	}

	count := 0
	m.WalkTransforms(func(n *Node, world math.Mat4) { count++ })
	if count != 2 {
		t.Errorf("visited %d nodes, want 2 (cycle and bad index skipped)", count)
	}
}

func TestModelBounds(t *testing.T) {
	m := Model{
		Nodes: []Node{{
			Translation: math.Vec3{X: 10},
			Rotation:    math.QuatIdentity(),
			Scale:       math.Vec3{X: 2, Y: 2, Z: 2},
			Mesh:        0,
		}},
		Roots:  []int{0},
		Meshes: []Mesh{{Primitives: []Primitive{quadPrimitive()}}},
	}

	b := m.Bounds()
	if b.IsEmpty() {
		t.Fatal("bounds must not be empty")
	}
	if b.Min != (math.Vec3{X: 10}) {
		t.Errorf("min = %v, want (10, 0, 0)", b.Min)
	}
	if b.Max != (math.Vec3{X: 12, Y: 2}) {
		t.Errorf("max = %v, want (12, 2, 0)", b.Max)
	}
}

func TestModelBoundsEmpty(t *testing.T) {
	m := Model{Nodes: []Node{{Mesh: NoMesh}}, Roots: []int{0}}
	if !m.Bounds().IsEmpty() {
		t.Error("model without geometry must have empty bounds")
	}
}

func TestSetShadowFlags(t *testing.T) {
	m := Model{
		Nodes:  []Node{{Mesh: 0}, {Mesh: NoMesh}},
		Meshes: []Mesh{{}},
	}
	m.SetShadowFlags(true, true)

	if !m.Nodes[0].CastShadow || !m.Nodes[0].ReceiveShadow {
		t.Error("mesh node should cast and receive shadows")
	}
	if m.Nodes[1].CastShadow || m.Nodes[1].ReceiveShadow {
		t.Error("empty node should keep shadow flags off")
	}
}

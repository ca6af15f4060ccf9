package model

import (
	"github.com/aa1412666/meshview/pkg/math"
)

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	return math.Compose(n.Translation, n.Rotation, n.Scale)
}

// WalkTransforms visits every node reachable from the roots with its
// world transform, parents before children. Malformed child links
// (out of range or cyclic) are skipped.
func (m *Model) WalkTransforms(visit func(n *Node, world math.Mat4)) {
	visited := make(map[int]bool, len(m.Nodes))
	var walk func(idx int, parent math.Mat4)
	walk = func(idx int, parent math.Mat4) {
		if idx < 0 || idx >= len(m.Nodes) || visited[idx] {
			return
		}
		visited[idx] = true

		n := &m.Nodes[idx]
		world := parent.Mul(n.LocalMatrix())
		visit(n, world)
		for _, child := range n.Children {
			walk(child, world)
		}
	}
	for _, root := range m.Roots {
		walk(root, math.Identity())
	}
}

// Bounds returns the model's world-space bounding box, empty when the
// model has no geometry.
func (m *Model) Bounds() math.AABB {
	bounds := math.EmptyAABB()
	m.WalkTransforms(func(n *Node, world math.Mat4) {
		if n.Mesh < 0 || n.Mesh >= len(m.Meshes) {
			return
		}
		mesh := &m.Meshes[n.Mesh]
		for i := range mesh.Primitives {
			local := mesh.Primitives[i].Bounds()
			if local.IsEmpty() {
				continue
			}
			bounds = bounds.Union(local.Transform(world))
		}
	})
	return bounds
}

// SetShadowFlags sets shadow casting and receiving on every
// mesh-bearing node.
func (m *Model) SetShadowFlags(cast, receive bool) {
	for i := range m.Nodes {
		if m.Nodes[i].Mesh == NoMesh {
			continue
		}
		m.Nodes[i].CastShadow = cast
		m.Nodes[i].ReceiveShadow = receive
	}
}

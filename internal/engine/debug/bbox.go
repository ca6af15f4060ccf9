// Package debug provides the bounding-box overlay and screenshot capture.
package debug

import (
	"github.com/aa1412666/meshview/pkg/math"
)

// WireframeVertexCount is the number of vertices in a box wireframe
// (12 edges, 2 endpoints each).
const WireframeVertexCount = 24

// BoundsWireframe creates line-list vertices for a wireframe box around
// the given bounds, xyz triples, two per edge.
func BoundsWireframe(box math.AABB) []float32 {
	minX, minY, minZ := box.Min.X, box.Min.Y, box.Min.Z
	maxX, maxY, maxZ := box.Max.X, box.Max.Y, box.Max.Z

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

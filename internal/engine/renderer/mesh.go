package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aa1412666/meshview/internal/engine/model"
)

// Interleaved vertex layout: position(3) normal(3) texcoord(2).
const vertexStride = 8 * 4

// meshBuffers holds the GPU resources for one primitive.
type meshBuffers struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	indexCount  int32
	vertexCount int32
}

// interleave flattens the primitive's attribute slices into one vertex
// buffer. Missing normals default to +Y, missing texcoords to (0,0).
func interleave(p *model.Primitive) []float32 {
	count := len(p.Positions) / 3
	out := make([]float32, 0, count*8)
	hasNormals := len(p.Normals) == count*3
	hasUVs := len(p.TexCoords) == count*2

	for i := 0; i < count; i++ {
		out = append(out, p.Positions[i*3], p.Positions[i*3+1], p.Positions[i*3+2])
		if hasNormals {
			out = append(out, p.Normals[i*3], p.Normals[i*3+1], p.Normals[i*3+2])
		} else {
			out = append(out, 0, 1, 0)
		}
		if hasUVs {
			out = append(out, p.TexCoords[i*2], p.TexCoords[i*2+1])
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

func uploadPrimitive(p *model.Primitive) *meshBuffers {
	count := len(p.Positions) / 3
	if count == 0 {
		return nil
	}
	vertices := interleave(p)

	mb := &meshBuffers{vertexCount: int32(count)}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, 6*4)
	gl.EnableVertexAttribArray(2)

	if len(p.Indices) > 0 {
		gl.GenBuffers(1, &mb.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, unsafe.Pointer(&p.Indices[0]), gl.STATIC_DRAW)
		mb.indexCount = int32(len(p.Indices))
	}

	gl.BindVertexArray(0)
	return mb
}

func (mb *meshBuffers) draw() {
	gl.BindVertexArray(mb.vao)
	if mb.indexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, mb.vertexCount)
	}
}

func (mb *meshBuffers) destroy() {
	if mb.vao != 0 {
		gl.DeleteVertexArrays(1, &mb.vao)
		mb.vao = 0
	}
	if mb.vbo != 0 {
		gl.DeleteBuffers(1, &mb.vbo)
		mb.vbo = 0
	}
	if mb.ebo != 0 {
		gl.DeleteBuffers(1, &mb.ebo)
		mb.ebo = 0
	}
}

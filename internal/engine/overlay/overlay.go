// Package overlay draws the on-screen control hints as a 2D layer on
// top of the rendered scene.
package overlay

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/aa1412666/meshview/internal/engine/shader"
	"github.com/aa1412666/meshview/internal/engine/texture"
	"github.com/aa1412666/meshview/pkg/math"
)

// DefaultHint lists the viewer's mouse and key bindings.
const DefaultHint = "drag orbit | wheel zoom | right-drag pan | dbl-click focus | O open | B bounds | L simplify | F12 shot"

// hintScale enlarges the 7x13 bitmap font, which is hard to read at
// native size on current displays.
const hintScale = 2

// hintMargin is the distance from the drawable's bottom-left corner,
// in pixels.
const hintMargin = 12

var hintColor = [4]float32{1, 1, 1, 0.7}

const hintVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

uniform mat4 uProjection;

out vec2 vTexCoord;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vTexCoord = aTexCoord;
}
`

const hintFragmentShader = `
#version 410 core

uniform sampler2D uTexture;
uniform vec4 uColor;

in vec2 vTexCoord;
out vec4 FragColor;

void main() {
	float alpha = texture(uTexture, vTexCoord).a;
	FragColor = vec4(uColor.rgb, uColor.a * alpha);
}
`

// Overlay owns the GL resources of the hint layer. Draw renders the
// prepared text quad over whatever is already in the framebuffer.
type Overlay struct {
	program       uint32
	locProjection int32
	locTexture    int32
	locColor      int32

	vao uint32
	vbo uint32

	tex  uint32
	texW int
	texH int
}

// New rasterizes the hint text and prepares the quad pipeline. An
// empty hint selects DefaultHint. Must run on the GL thread.
func New(hint string) (*Overlay, error) {
	if hint == "" {
		hint = DefaultHint
	}

	o := &Overlay{}

	var err error
	o.program, err = shader.CompileProgram(hintVertexShader, hintFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("hint shader: %w", err)
	}
	o.locProjection = shader.GetUniform(o.program, "uProjection")
	o.locTexture = shader.GetUniform(o.program, "uTexture")
	o.locColor = shader.GetUniform(o.program, "uColor")

	img := Rasterize(hint)
	o.tex = texture.Upload(img)
	o.texW = img.Bounds().Dx()
	o.texH = img.Bounds().Dy()

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)

	// Vertex format: pos(2) + texcoord(2)
	stride := int32(4 * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return o, nil
}

// Draw renders the hint in the bottom-left corner of a width x height
// drawable. Blend and depth state are restored afterwards.
func (o *Overlay) Draw(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	var prevBlend, prevDepth int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(o.program)

	proj := math.Ortho(0, float32(width), float32(height), 0, -1, 1)
	gl.UniformMatrix4fv(o.locProjection, 1, false, &proj[0])
	gl.Uniform4f(o.locColor, hintColor[0], hintColor[1], hintColor[2], hintColor[3])
	gl.Uniform1i(o.locTexture, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.tex)

	w := float32(o.texW * hintScale)
	h := float32(o.texH * hintScale)
	x := float32(hintMargin)
	y := float32(height) - h - hintMargin

	// Both the raster and the ortho projection are top-down, so the
	// quad samples the texture without a V flip.
	vertices := [24]float32{
		x, y, 0, 0,
		x + w, y, 1, 0,
		x + w, y + h, 1, 1,
		x, y, 0, 0,
		x + w, y + h, 1, 1,
		x, y + h, 0, 1,
	}

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
}

// Destroy releases the overlay's GL resources.
func (o *Overlay) Destroy() {
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
		o.vao = 0
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
		o.vbo = 0
	}
	if o.program != 0 {
		gl.DeleteProgram(o.program)
		o.program = 0
	}
	texture.Release(o.tex)
	o.tex = 0
}

// rasterPad is transparent padding around the text so linear filtering
// does not wrap edge pixels.
const rasterPad = 2

// Rasterize renders one line of text as white-on-transparent pixels
// with the built-in 7x13 face. Newlines are not interpreted.
func Rasterize(text string) *image.NRGBA {
	face := basicfont.Face7x13

	width := font.MeasureString(face, text).Ceil() + 2*rasterPad
	height := face.Ascent + face.Descent + 2*rasterPad

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(rasterPad, rasterPad+face.Ascent),
	}
	d.DrawString(text)
	return img
}

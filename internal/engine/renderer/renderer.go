// Package renderer draws composed scenes with OpenGL 4.1 core. It owns
// all GPU resources derived from scene content: mesh buffers, material
// textures, the environment map and the shadow map.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/aa1412666/meshview/internal/engine/camera"
	"github.com/aa1412666/meshview/internal/engine/debug"
	"github.com/aa1412666/meshview/internal/engine/environment"
	"github.com/aa1412666/meshview/internal/engine/model"
	"github.com/aa1412666/meshview/internal/engine/scene"
	"github.com/aa1412666/meshview/internal/engine/shadow"
	"github.com/aa1412666/meshview/internal/engine/texture"
	"github.com/aa1412666/meshview/internal/logger"
	"github.com/aa1412666/meshview/pkg/math"
)

// Config holds renderer settings.
type Config struct {
	Width         int
	Height        int
	ShadowMapSize int
}

var groundColor = [4]float32{0.82, 0.82, 0.84, 1}

var boundsColor = [3]float32{1.0, 0.9, 0.25}

// Renderer draws scenes into the current GL context. Create it on the
// thread that owns the context and only use it there.
type Renderer struct {
	width  int
	height int

	mesh       meshProgram
	depth      depthProgram
	background backgroundProgram
	lines      lineProgram

	shadowMap *shadow.Map
	whiteTex  uint32

	// Per-scene GPU state, keyed by the pointers the scene carries.
	meshes      map[*model.Primitive]*meshBuffers
	textures    map[*model.Material]uint32
	modelFor    *model.Model
	modelBounds math.AABB
	ground      *meshBuffers
	groundFor   *scene.Ground
	envTex      uint32
	envFor      *environment.Map

	// Fullscreen triangle for the background pass.
	emptyVAO uint32

	// Dynamic line buffer for the bounds overlay.
	boundsVAO uint32
	boundsVBO uint32
}

// New initializes OpenGL and compiles the render passes.
// Must be called after the GL context is created.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	r := &Renderer{
		width:       cfg.Width,
		height:      cfg.Height,
		meshes:      make(map[*model.Primitive]*meshBuffers),
		textures:    make(map[*model.Material]uint32),
		modelBounds: math.EmptyAABB(),
	}

	if err := r.mesh.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.depth.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.background.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.lines.init(); err != nil {
		r.Destroy()
		return nil, err
	}

	sm, err := shadow.NewMap(int32(cfg.ShadowMapSize))
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("shadow map: %w", err)
	}
	r.shadowMap = sm

	r.whiteTex = texture.White()

	gl.GenVertexArrays(1, &r.emptyVAO)

	gl.GenVertexArrays(1, &r.boundsVAO)
	gl.BindVertexArray(r.boundsVAO)
	gl.GenBuffers(1, &r.boundsVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundsVBO)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Resize updates the viewport. Repeated identical dimensions are a no-op.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Size returns the current viewport dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Render draws one frame of the scene from the camera's point of view.
func (r *Renderer) Render(sc *scene.Scene, cam *camera.Perspective) {
	if sc == nil || cam == nil {
		return
	}
	r.sync(sc)

	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())

	lightVP := math.Identity()
	shadowed := false
	if key, ok := sc.Key(); ok && key.CastShadow && sc.Model != nil && !r.modelBounds.IsEmpty() {
		lightVP = shadow.LightMatrix(key, r.modelBounds)
		r.renderShadowPass(sc.Model, lightVP)
		shadowed = true
	}

	r.clear(sc)

	if sc.EnvAsBackground && r.envTex != 0 {
		r.drawBackground(sc, cam, viewProj)
	}

	r.drawMeshes(sc, cam, viewProj, lightVP, shadowed)

	if sc.ShowBounds && !r.modelBounds.IsEmpty() {
		r.drawBounds(r.modelBounds, viewProj)
	}
}

// sync uploads GPU resources for scene content that changed since the
// last frame and releases resources whose source is gone.
func (r *Renderer) sync(sc *scene.Scene) {
	if sc.Model != r.modelFor {
		r.releaseModel()
		r.modelFor = sc.Model
		if sc.Model != nil {
			r.modelBounds = sc.Model.Bounds()
			r.uploadModel(sc.Model)
		} else {
			r.modelBounds = math.EmptyAABB()
		}
	}

	if sc.Ground != r.groundFor {
		if r.ground != nil {
			r.ground.destroy()
			r.ground = nil
		}
		r.groundFor = sc.Ground
		if sc.Ground != nil {
			r.ground = uploadPrimitive(&model.Primitive{
				Positions: sc.Ground.Positions,
				Normals:   sc.Ground.Normals,
				Indices:   sc.Ground.Indices,
			})
		}
	}

	if sc.Env != r.envFor {
		texture.Release(r.envTex)
		r.envTex = 0
		r.envFor = sc.Env
		if sc.Env != nil && len(sc.Env.Pixels) > 0 {
			r.envTex = uploadEnvironment(sc.Env)
		}
	}
}

func (r *Renderer) uploadModel(m *model.Model) {
	uploaded := 0
	for mi := range m.Meshes {
		prims := m.Meshes[mi].Primitives
		for pi := range prims {
			if mb := uploadPrimitive(&prims[pi]); mb != nil {
				r.meshes[&prims[pi]] = mb
				uploaded++
			}
		}
	}
	logger.Debug("model uploaded",
		zap.String("name", m.Name),
		zap.Int("primitives", uploaded),
	)
}

func (r *Renderer) releaseModel() {
	for _, mb := range r.meshes {
		mb.destroy()
	}
	r.meshes = make(map[*model.Primitive]*meshBuffers)

	for _, tex := range r.textures {
		texture.Release(tex)
	}
	r.textures = make(map[*model.Material]uint32)
}

// materialTexture returns the GL texture for the material, uploading on
// first use and re-uploading when the material is marked dirty. Zero
// means the material has no image.
func (r *Renderer) materialTexture(mat *model.Material) uint32 {
	tex, ok := r.textures[mat]
	if ok && !mat.Dirty {
		return tex
	}
	if ok {
		texture.Release(tex)
	}
	tex = 0
	if mat.Image != nil {
		tex = texture.Upload(mat.Image)
	}
	r.textures[mat] = tex
	mat.Dirty = false
	return tex
}

func (r *Renderer) renderShadowPass(m *model.Model, lightVP math.Mat4) {
	r.shadowMap.Bind()
	gl.UseProgram(r.depth.program)
	gl.UniformMatrix4fv(r.depth.locLightViewProj, 1, false, &lightVP[0])

	m.WalkTransforms(func(n *model.Node, world math.Mat4) {
		if !n.CastShadow || n.Mesh < 0 || n.Mesh >= len(m.Meshes) {
			return
		}
		gl.UniformMatrix4fv(r.depth.locModel, 1, false, &world[0])
		mesh := &m.Meshes[n.Mesh]
		for i := range mesh.Primitives {
			if mb := r.meshes[&mesh.Primitives[i]]; mb != nil {
				mb.draw()
			}
		}
	})

	gl.BindVertexArray(0)
	r.shadowMap.Unbind()
}

func (r *Renderer) clear(sc *scene.Scene) {
	if sc.Background != nil {
		bg := *sc.Background
		gl.ClearColor(bg[0], bg[1], bg[2], 1)
	} else {
		gl.ClearColor(0, 0, 0, 0)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *Renderer) drawBackground(sc *scene.Scene, cam *camera.Perspective, viewProj math.Mat4) {
	p := &r.background
	gl.UseProgram(p.program)

	inv := viewProj.Inverse()
	gl.UniformMatrix4fv(p.locInvViewProj, 1, false, &inv[0])
	gl.Uniform3f(p.locCameraPos, cam.Position.X, cam.Position.Y, cam.Position.Z)
	gl.Uniform1f(p.locIntensity, sc.Env.Intensity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.envTex)

	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawMeshes(sc *scene.Scene, cam *camera.Perspective, viewProj, lightVP math.Mat4, shadowed bool) {
	p := &r.mesh
	gl.UseProgram(p.program)

	gl.UniformMatrix4fv(p.locViewProj, 1, false, &viewProj[0])
	gl.UniformMatrix4fv(p.locLightViewProj, 1, false, &lightVP[0])
	gl.Uniform3f(p.locCameraPos, cam.Position.X, cam.Position.Y, cam.Position.Z)

	hemi := sc.Hemisphere()
	sky := hemi.ScaledSky()
	ground := hemi.ScaledGround()
	gl.Uniform3f(p.locHemiSky, sky[0], sky[1], sky[2])
	gl.Uniform3f(p.locHemiGround, ground[0], ground[1], ground[2])

	key, _ := sc.Key()
	keyColor := key.ScaledColor()
	gl.Uniform3f(p.locKeyDir, key.Direction.X, key.Direction.Y, key.Direction.Z)
	gl.Uniform3f(p.locKeyColor, keyColor[0], keyColor[1], keyColor[2])

	rim, _ := sc.RimLight()
	rimColor := rim.ScaledColor()
	gl.Uniform3f(p.locRimDir, rim.Direction.X, rim.Direction.Y, rim.Direction.Z)
	gl.Uniform3f(p.locRimColor, rimColor[0], rimColor[1], rimColor[2])

	gl.Uniform1i(p.locShadowsEnabled, boolUniform(shadowed))
	// Keep the comparison sampler bound even when shadows are off so
	// the program never mixes sampler types on one unit.
	r.shadowMap.BindTexture(gl.TEXTURE1)

	if r.envTex != 0 {
		gl.Uniform1i(p.locHasEnv, 1)
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, r.envTex)
	} else {
		gl.Uniform1i(p.locHasEnv, 0)
	}

	gl.ActiveTexture(gl.TEXTURE0)

	if sc.Ground != nil && r.ground != nil {
		r.drawGround(sc.Ground, shadowed)
	}
	if sc.Model != nil {
		r.drawModel(sc.Model, shadowed)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) drawGround(g *scene.Ground, shadowed bool) {
	p := &r.mesh
	ident := math.Identity()
	gl.UniformMatrix4fv(p.locModel, 1, false, &ident[0])
	gl.UniformMatrix4fv(p.locNormalMatrix, 1, false, &ident[0])
	gl.Uniform4f(p.locBaseColor, groundColor[0], groundColor[1], groundColor[2], groundColor[3])
	gl.Uniform1i(p.locReceiveShadow, boolUniform(shadowed))
	gl.Uniform1f(p.locEnvIntensity, 0)
	gl.Uniform1f(p.locGroundFade, g.Radius)
	gl.BindTexture(gl.TEXTURE_2D, r.whiteTex)
	gl.Enable(gl.CULL_FACE)

	r.ground.draw()
}

func (r *Renderer) drawModel(m *model.Model, shadowed bool) {
	p := &r.mesh
	gl.Uniform1f(p.locGroundFade, 0)

	m.WalkTransforms(func(n *model.Node, world math.Mat4) {
		if n.Mesh < 0 || n.Mesh >= len(m.Meshes) {
			return
		}
		gl.UniformMatrix4fv(p.locModel, 1, false, &world[0])
		normalMat := world.Inverse().Transpose()
		gl.UniformMatrix4fv(p.locNormalMatrix, 1, false, &normalMat[0])
		gl.Uniform1i(p.locReceiveShadow, boolUniform(shadowed && n.ReceiveShadow))

		mesh := &m.Meshes[n.Mesh]
		for i := range mesh.Primitives {
			prim := &mesh.Primitives[i]
			mb := r.meshes[prim]
			if mb == nil {
				continue
			}
			r.applyMaterial(m, prim)
			mb.draw()
		}
	})
}

func (r *Renderer) applyMaterial(m *model.Model, prim *model.Primitive) {
	p := &r.mesh
	base := [4]float32{1, 1, 1, 1}
	envIntensity := float32(1)
	doubleSided := false
	tex := r.whiteTex

	if prim.Material >= 0 && prim.Material < len(m.Materials) {
		mat := &m.Materials[prim.Material]
		base = mat.BaseColor
		envIntensity = mat.EnvIntensity
		doubleSided = mat.DoubleSided
		if t := r.materialTexture(mat); t != 0 {
			tex = t
		}
	}

	gl.Uniform4f(p.locBaseColor, base[0], base[1], base[2], base[3])
	gl.Uniform1f(p.locEnvIntensity, envIntensity)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	if doubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
}

func (r *Renderer) drawBounds(box math.AABB, viewProj math.Mat4) {
	vertices := debug.BoundsWireframe(box)

	p := &r.lines
	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(p.locColor, boundsColor[0], boundsColor[1], boundsColor[2])

	gl.BindVertexArray(r.boundsVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundsVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
}

// Destroy releases every GL resource the renderer owns.
func (r *Renderer) Destroy() {
	r.releaseModel()

	if r.ground != nil {
		r.ground.destroy()
		r.ground = nil
	}
	texture.Release(r.envTex)
	r.envTex = 0
	texture.Release(r.whiteTex)
	r.whiteTex = 0

	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}

	r.mesh.destroy()
	r.depth.destroy()
	r.background.destroy()
	r.lines.destroy()

	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
		r.emptyVAO = 0
	}
	if r.boundsVAO != 0 {
		gl.DeleteVertexArrays(1, &r.boundsVAO)
		r.boundsVAO = 0
	}
	if r.boundsVBO != 0 {
		gl.DeleteBuffers(1, &r.boundsVBO)
		r.boundsVBO = 0
	}
}

func uploadEnvironment(env *environment.Map) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F,
		int32(env.Width), int32(env.Height),
		0, gl.RGB, gl.FLOAT, unsafe.Pointer(&env.Pixels[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	// Wrap horizontally so the seam of the equirectangular image closes
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

func boolUniform(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

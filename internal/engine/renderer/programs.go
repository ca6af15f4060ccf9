package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aa1412666/meshview/internal/engine/renderer/shaders"
	"github.com/aa1412666/meshview/internal/engine/shader"
)

// meshProgram is the lit mesh pass shared by the model and the ground.
type meshProgram struct {
	program uint32

	locModel         int32
	locNormalMatrix  int32
	locViewProj      int32
	locLightViewProj int32

	locBaseColor int32
	locTexture   int32

	locHemiSky    int32
	locHemiGround int32
	locKeyDir     int32
	locKeyColor   int32
	locRimDir     int32
	locRimColor   int32

	locCameraPos      int32
	locShadowMap      int32
	locShadowsEnabled int32
	locReceiveShadow  int32

	locEnvMap       int32
	locHasEnv       int32
	locEnvIntensity int32

	locGroundFade int32
}

func (p *meshProgram) init() error {
	program, err := shader.CompileProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}
	p.program = program

	p.locModel = shader.GetUniform(program, "uModel")
	p.locNormalMatrix = shader.GetUniform(program, "uNormalMatrix")
	p.locViewProj = shader.GetUniform(program, "uViewProj")
	p.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	p.locBaseColor = shader.GetUniform(program, "uBaseColor")
	p.locTexture = shader.GetUniform(program, "uTexture")
	p.locHemiSky = shader.GetUniform(program, "uHemiSky")
	p.locHemiGround = shader.GetUniform(program, "uHemiGround")
	p.locKeyDir = shader.GetUniform(program, "uKeyDir")
	p.locKeyColor = shader.GetUniform(program, "uKeyColor")
	p.locRimDir = shader.GetUniform(program, "uRimDir")
	p.locRimColor = shader.GetUniform(program, "uRimColor")
	p.locCameraPos = shader.GetUniform(program, "uCameraPos")
	p.locShadowMap = shader.GetUniform(program, "uShadowMap")
	p.locShadowsEnabled = shader.GetUniform(program, "uShadowsEnabled")
	p.locReceiveShadow = shader.GetUniform(program, "uReceiveShadow")
	p.locEnvMap = shader.GetUniform(program, "uEnvMap")
	p.locHasEnv = shader.GetUniform(program, "uHasEnv")
	p.locEnvIntensity = shader.GetUniform(program, "uEnvIntensity")
	p.locGroundFade = shader.GetUniform(program, "uGroundFade")

	// Fixed texture unit assignments
	gl.UseProgram(program)
	gl.Uniform1i(p.locTexture, 0)
	gl.Uniform1i(p.locShadowMap, 1)
	gl.Uniform1i(p.locEnvMap, 2)
	gl.UseProgram(0)
	return nil
}

func (p *meshProgram) destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// depthProgram renders shadow casters into the depth map.
type depthProgram struct {
	program          uint32
	locLightViewProj int32
	locModel         int32
}

func (p *depthProgram) init() error {
	program, err := shader.CompileProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return fmt.Errorf("depth shader: %w", err)
	}
	p.program = program
	p.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	p.locModel = shader.GetUniform(program, "uModel")
	return nil
}

func (p *depthProgram) destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// backgroundProgram draws the equirectangular environment behind the scene.
type backgroundProgram struct {
	program        uint32
	locInvViewProj int32
	locCameraPos   int32
	locEnvMap      int32
	locIntensity   int32
}

func (p *backgroundProgram) init() error {
	program, err := shader.CompileProgram(shaders.BackgroundVertexShader, shaders.BackgroundFragmentShader)
	if err != nil {
		return fmt.Errorf("background shader: %w", err)
	}
	p.program = program
	p.locInvViewProj = shader.GetUniform(program, "uInvViewProj")
	p.locCameraPos = shader.GetUniform(program, "uCameraPos")
	p.locEnvMap = shader.GetUniform(program, "uEnvMap")
	p.locIntensity = shader.GetUniform(program, "uIntensity")

	gl.UseProgram(program)
	gl.Uniform1i(p.locEnvMap, 0)
	gl.UseProgram(0)
	return nil
}

func (p *backgroundProgram) destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// lineProgram draws solid-color line overlays such as the bounds box.
type lineProgram struct {
	program     uint32
	locViewProj int32
	locColor    int32
}

func (p *lineProgram) init() error {
	program, err := shader.CompileProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return fmt.Errorf("line shader: %w", err)
	}
	p.program = program
	p.locViewProj = shader.GetUniform(program, "uViewProj")
	p.locColor = shader.GetUniform(program, "uColor")
	return nil
}

func (p *lineProgram) destroy() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

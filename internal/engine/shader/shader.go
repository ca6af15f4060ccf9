// Package shader compiles and links the viewer's GLSL programs.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// stage pairs GLSL source with its pipeline stage for compilation.
type stage struct {
	source string
	kind   uint32
	name   string
}

// CompileProgram builds a program from vertex and fragment sources.
// Sources need no trailing NUL. Shader objects are released whether or
// not linking succeeds.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	stages := [2]stage{
		{vertexSrc, gl.VERTEX_SHADER, "vertex"},
		{fragmentSrc, gl.FRAGMENT_SHADER, "fragment"},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		sh, err := compile(st)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, sh)
		// Deletion is deferred by the driver until the program goes.
		gl.DeleteShader(sh)
	}

	gl.LinkProgram(program)
	if !statusOK(program, gl.LINK_STATUS, gl.GetProgramiv) {
		defer gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog))
	}
	return program, nil
}

// GetUniform returns the uniform location, -1 when the uniform is
// absent or was optimized out.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func compile(st stage) (uint32, error) {
	sh := gl.CreateShader(st.kind)
	csource, free := gl.Strs(st.source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	if !statusOK(sh, gl.COMPILE_STATUS, gl.GetShaderiv) {
		defer gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", st.name, infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog))
	}
	return sh, nil
}

func statusOK(object uint32, pname uint32, get func(uint32, uint32, *int32)) bool {
	var status int32
	get(object, pname, &status)
	return status == gl.TRUE
}

func infoLog(object uint32, get func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var length int32
	get(object, gl.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, length)
	getLog(object, length, nil, &buf[0])
	return string(buf)
}

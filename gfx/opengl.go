package gfx

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gopour/gopour/geometry"
)

// OpenGL implements Device on a current OpenGL 4.1 core context.
type OpenGL struct{}

// NewOpenGL loads the GL function pointers for the context current on the
// calling thread. Failure means the environment cannot render at all.
func NewOpenGL() (*OpenGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gfx: failed to load OpenGL: %w", err)
	}
	return &OpenGL{}, nil
}

func (*OpenGL) CompileShader(source string, stage Stage) (Shader, error) {
	var glStage uint32
	switch stage {
	case StageVertex:
		glStage = gl.VERTEX_SHADER
	case StageFragment:
		glStage = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("gfx: unknown shader stage %q", stage)
	}

	shader := gl.CreateShader(glStage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: strings.TrimRight(logText, "\x00")}
	}
	return Shader(shader), nil
}

func (*OpenGL) LinkProgram(vert, frag Shader) (Program, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vert))
	gl.AttachShader(program, uint32(frag))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		return 0, &LinkError{Log: strings.TrimRight(logText, "\x00")}
	}
	return Program(program), nil
}

func (*OpenGL) DeleteShader(s Shader) {
	gl.DeleteShader(uint32(s))
}

func (*OpenGL) UseProgram(p Program) {
	gl.UseProgram(uint32(p))
}

func (*OpenGL) DeleteProgram(p Program) {
	gl.DeleteProgram(uint32(p))
}

func (*OpenGL) UniformLocation(p Program, name string) Location {
	return Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (*OpenGL) Uniform1f(loc Location, v float32) {
	if loc != NoLocation {
		gl.Uniform1f(int32(loc), v)
	}
}

func (*OpenGL) Uniform1i(loc Location, v int32) {
	if loc != NoLocation {
		gl.Uniform1i(int32(loc), v)
	}
}

func (*OpenGL) Uniform2f(loc Location, x, y float32) {
	if loc != NoLocation {
		gl.Uniform2f(int32(loc), x, y)
	}
}

func (*OpenGL) Uniform3fv(loc Location, vs []mgl32.Vec3) {
	if loc != NoLocation && len(vs) > 0 {
		gl.Uniform3fv(int32(loc), int32(len(vs)), &vs[0][0])
	}
}

func (*OpenGL) UploadMesh(m geometry.Mesh) (Buffers, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return Buffers{}, fmt.Errorf("gfx: refusing to upload an empty mesh")
	}

	var b Buffers
	gl.GenVertexArrays(1, &b.VAO)
	gl.GenBuffers(1, &b.VBO)
	gl.GenBuffers(1, &b.EBO)

	gl.BindVertexArray(b.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return b, nil
}

func (*OpenGL) DeleteMesh(b Buffers) {
	gl.DeleteBuffers(1, &b.EBO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteVertexArrays(1, &b.VAO)
}

func (*OpenGL) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (*OpenGL) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (*OpenGL) DrawMesh(b Buffers, indexCount int) {
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

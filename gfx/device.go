// Package gfx is the renderer's narrow graphics-device boundary. The engine
// talks only to the Device interface; the OpenGL implementation lives behind
// it so engine lifecycle code can also run against a recording fake in tests.
package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gopour/gopour/geometry"
)

// Stage identifies a shader stage in diagnostics.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
)

// Shader, Program and Location are opaque handles into the device.
type (
	Shader   uint32
	Program  uint32
	Location int32
)

// NoLocation marks a uniform the linker optimized out or that the source
// never declared. Pushing to it is a no-op.
const NoLocation Location = -1

// Buffers are the GPU-side handles for one uploaded mesh. Single owner: the
// engine that uploads a mesh is the only component allowed to delete it.
type Buffers struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// CompileError carries the device's diagnostic log for a failed stage.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gfx: %s shader compile failed: %s", e.Stage, e.Log)
}

// LinkError carries the device's program link log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gfx: program link failed: %s", e.Log)
}

// Device is everything the engine needs from a graphics API.
type Device interface {
	CompileShader(source string, stage Stage) (Shader, error)
	LinkProgram(vert, frag Shader) (Program, error)
	DeleteShader(Shader)
	UseProgram(Program)
	DeleteProgram(Program)

	// UniformLocation returns NoLocation when the uniform is absent.
	UniformLocation(p Program, name string) Location
	Uniform1f(Location, float32)
	Uniform1i(Location, int32)
	Uniform2f(Location, float32, float32)
	Uniform3fv(Location, []mgl32.Vec3)

	UploadMesh(geometry.Mesh) (Buffers, error)
	DeleteMesh(Buffers)

	Viewport(width, height int)
	Clear()
	DrawMesh(b Buffers, indexCount int)
}

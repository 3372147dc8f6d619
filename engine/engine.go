// Package engine owns the gradient render loop: one engine per drawing
// surface, holding the compiled program, the uploaded quad, the uniform
// cache and the frame-callback chain.
//
// The engine is single-threaded by design. Public methods and frame
// callbacks are expected to run on the same thread (with GLFW, the locked
// main thread); there is no internal locking.
package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gopour/gopour/config"
	"github.com/gopour/gopour/geometry"
	"github.com/gopour/gopour/gfx"
	"github.com/gopour/gopour/palette"
	"github.com/gopour/gopour/shader"
)

// ErrUnsupported is reported when the surface cannot provide a usable
// graphics device. Callers are expected to fall back to a static image.
var ErrUnsupported = errors.New("engine: rendering environment unsupported")

// Surface is the engine's non-owning view of its drawing target. The
// component that created the surface keeps it alive for the engine's whole
// lifetime and tears it down after Dispose.
type Surface interface {
	// AcquireDevice makes the surface's context usable and returns a device
	// for it. Called once, during Initialize.
	AcquireDevice() (gfx.Device, error)

	// DrawableSize is the current backing-buffer size in pixels.
	DrawableSize() (width, height int)

	// Time is the surface's monotonic clock in seconds.
	Time() float64

	// RequestFrame schedules fn to run just before the next repaint and
	// returns a handle usable with CancelFrame. fn receives the clock value
	// for the frame.
	RequestFrame(fn func(now float64)) int
	CancelFrame(handle int)
}

// State is the engine lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Snapshot is a copy of the externally observable engine state.
type Snapshot struct {
	State   State
	Running bool
	Width   int
	Height  int
}

// uniforms caches one resolved location per shader parameter, populated once
// after link. NoLocation marks parameters the linker dropped.
type uniforms struct {
	time           gfx.Location
	resolution     gfx.Location
	cycleSpeed     gfx.Location
	grainIntensity gfx.Location
	colorCount     gfx.Location
	colors         gfx.Location
}

// Engine drives one gradient surface. Create with New, then Initialize,
// Start/Stop, and finally Dispose exactly once. A disposed engine must not
// be reused.
type Engine struct {
	surface Surface
	device  gfx.Device

	cfg    config.Gradient
	stops  []mgl32.Vec3
	logger *log.Logger
	onErr  func(error)

	state       State
	running     bool
	frameHandle int
	startTime   float64

	program  gfx.Program
	buffers  gfx.Buffers
	mesh     geometry.Mesh
	locs     uniforms
	vpWidth  int
	vpHeight int
}

// New builds an engine bound to surface, with partial overriding the default
// configuration. The merged config is validated here so a bad palette fails
// loudly at construction instead of mid-frame.
func New(surface Surface, partial *config.Partial) (*Engine, error) {
	cfg := config.Default.Merge(partial)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stops, err := palette.Compile(cfg.Colors)
	if err != nil {
		return nil, err
	}
	return &Engine{
		surface: surface,
		cfg:     cfg,
		stops:   stops,
		logger:  log.Default(),
		state:   StateUninitialized,
	}, nil
}

// SetLogger replaces the engine's logger. Pass a logger writing to
// io.Discard to silence it entirely.
func (e *Engine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// SetErrorCallback registers fn to receive the structured error whenever
// Initialize fails. Independent of the boolean return, which callers use for
// the fallback decision.
func (e *Engine) SetErrorCallback(fn func(error)) {
	e.onErr = fn
}

// Initialize acquires the device, compiles and links the gradient program,
// uploads the quad, caches uniform locations, sizes the viewport and pushes
// the t=0 uniform set. Returns false on any failure; it never panics
// outward. Initializing twice without Dispose is refused.
func (e *Engine) Initialize() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(fmt.Errorf("engine: unexpected panic during initialize: %v", r))
			ok = false
		}
	}()

	if e.state != StateUninitialized {
		e.logger.Printf("engine: initialize called in state %s, ignoring", e.state)
		return false
	}

	device, err := e.surface.AcquireDevice()
	if err != nil {
		e.fail(fmt.Errorf("%w: %v", ErrUnsupported, err))
		return false
	}
	e.device = device

	vert, err := device.CompileShader(shader.VertexSource, gfx.StageVertex)
	if err != nil {
		e.fail(err)
		return false
	}
	frag, err := device.CompileShader(shader.FragmentSource(), gfx.StageFragment)
	if err != nil {
		device.DeleteShader(vert)
		e.fail(err)
		return false
	}
	e.program, err = device.LinkProgram(vert, frag)
	device.DeleteShader(vert)
	device.DeleteShader(frag)
	if err != nil {
		e.fail(err)
		return false
	}

	e.mesh = geometry.FullScreenQuad()
	e.buffers, err = device.UploadMesh(e.mesh)
	if err != nil {
		device.DeleteProgram(e.program)
		e.program = 0
		e.fail(err)
		return false
	}

	e.locs = uniforms{
		time:           device.UniformLocation(e.program, shader.UniformTime),
		resolution:     device.UniformLocation(e.program, shader.UniformResolution),
		cycleSpeed:     device.UniformLocation(e.program, shader.UniformCycleSpeed),
		grainIntensity: device.UniformLocation(e.program, shader.UniformGrainIntensity),
		colorCount:     device.UniformLocation(e.program, shader.UniformColorCount),
		colors:         device.UniformLocation(e.program, shader.UniformColors),
	}

	e.vpWidth, e.vpHeight = e.surface.DrawableSize()
	device.Viewport(e.vpWidth, e.vpHeight)

	device.UseProgram(e.program)
	e.pushUniforms(0)

	e.state = StateInitialized
	e.logger.Printf("engine: initialized (%dx%d, %d color stops)", e.vpWidth, e.vpHeight, len(e.stops))
	return true
}

// Start records the start timestamp and schedules the first frame callback.
// The callback chain then reschedules itself until Stop.
func (e *Engine) Start() {
	switch e.state {
	case StateInitialized, StateStopped:
	case StateRunning:
		e.logger.Printf("engine: start called while already running, ignoring")
		return
	default:
		e.logger.Printf("engine: start called in state %s, ignoring", e.state)
		return
	}

	e.running = true
	e.startTime = e.surface.Time()
	e.frameHandle = e.surface.RequestFrame(e.onFrame)
	e.state = StateRunning
	e.logger.Printf("engine: started")
}

// Stop cancels the pending frame callback. After Stop returns, no further
// draw calls occur until Start is called again.
func (e *Engine) Stop() {
	if e.state != StateRunning {
		e.logger.Printf("engine: stop called in state %s, ignoring", e.state)
		return
	}
	e.surface.CancelFrame(e.frameHandle)
	e.running = false
	e.state = StateStopped
	e.logger.Printf("engine: stopped")
}

// Resize re-reads the surface's drawable size and updates the viewport when
// it changed. Safe any time after a successful Initialize, running or not.
func (e *Engine) Resize() {
	switch e.state {
	case StateInitialized, StateRunning, StateStopped:
	default:
		return
	}
	width, height := e.surface.DrawableSize()
	if width == e.vpWidth && height == e.vpHeight {
		return
	}
	e.vpWidth, e.vpHeight = width, height
	e.device.Viewport(width, height)
	e.logger.Printf("engine: resized to %dx%d", width, height)
}

// UpdateConfig merges partial into the current configuration. The merged
// config is validated, palette included, before it replaces anything; on
// error the previous config stays active. Changes are visible on the very
// next draw call.
func (e *Engine) UpdateConfig(partial *config.Partial) error {
	if e.state == StateDisposed {
		return fmt.Errorf("engine: update config on disposed engine")
	}
	merged := e.cfg.Merge(partial)
	if err := merged.Validate(); err != nil {
		return err
	}
	stops, err := palette.Compile(merged.Colors)
	if err != nil {
		return err
	}
	e.cfg = merged
	e.stops = stops
	return nil
}

// Dispose stops the loop if needed and releases every GPU resource. The
// engine keeps no reference to the surface afterwards. A second Dispose is
// a no-op.
func (e *Engine) Dispose() {
	if e.state == StateDisposed {
		return
	}
	if e.state == StateRunning {
		e.Stop()
	}
	if e.device != nil {
		if e.buffers != (gfx.Buffers{}) {
			e.device.DeleteMesh(e.buffers)
			e.buffers = gfx.Buffers{}
		}
		if e.program != 0 {
			e.device.DeleteProgram(e.program)
			e.program = 0
		}
	}
	e.device = nil
	e.surface = nil
	e.state = StateDisposed
	e.logger.Printf("engine: disposed")
}

// IsRunning reports whether the frame-callback chain is active.
func (e *Engine) IsRunning() bool {
	return e.running
}

// State returns a copy of the observable engine state.
func (e *Engine) State() Snapshot {
	return Snapshot{
		State:   e.state,
		Running: e.running,
		Width:   e.vpWidth,
		Height:  e.vpHeight,
	}
}

// Config returns the active configuration.
func (e *Engine) Config() config.Gradient {
	return e.cfg
}

// onFrame is the per-frame callback: compute elapsed seconds, draw once,
// reschedule. The running check covers a callback delivered by a scheduler
// that does not honor cancellation.
func (e *Engine) onFrame(now float64) {
	if !e.running {
		return
	}
	e.drawFrame(float32(now - e.startTime))
	e.frameHandle = e.surface.RequestFrame(e.onFrame)
}

func (e *Engine) drawFrame(elapsed float32) {
	e.device.UseProgram(e.program)
	e.pushUniforms(elapsed)
	e.device.Clear()
	e.device.DrawMesh(e.buffers, e.mesh.IndexCount())
}

// pushUniforms uploads config, time and viewport. The program must be in
// use. No parsing or allocation happens here; the palette was compiled when
// the config was set.
func (e *Engine) pushUniforms(elapsed float32) {
	d := e.device
	d.Uniform1f(e.locs.time, elapsed)
	d.Uniform2f(e.locs.resolution, float32(e.vpWidth), float32(e.vpHeight))
	d.Uniform1f(e.locs.cycleSpeed, e.cfg.CycleSpeed)
	d.Uniform1f(e.locs.grainIntensity, e.cfg.EffectiveGrain())
	d.Uniform1i(e.locs.colorCount, int32(len(e.stops)))
	d.Uniform3fv(e.locs.colors, e.stops)
}

func (e *Engine) fail(err error) {
	e.logger.Printf("engine: %v", err)
	if e.onErr != nil {
		e.onErr(err)
	}
}

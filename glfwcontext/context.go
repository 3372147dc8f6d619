// Package glfwcontext binds a gradient engine to a GLFW window: it is the
// engine's Surface (context, clock, frame scheduling) and its adapter
// (resize and visibility events, key bindings, teardown).
package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gopour/gopour/engine"
	"github.com/gopour/gopour/gfx"
)

// Context owns one GLFW window and the frame-callback slot for the engine
// rendering into it.
type Context struct {
	window *glfw.Window

	// One pending frame request at a time; the engine reschedules from
	// inside the callback.
	pendingID int
	pending   func(now float64)
	nextID    int

	keyCallbacks map[glfw.Key]func()
}

// InitGraphics initializes GLFW. Must be called from the main goroutine,
// which it locks to the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW terminated")
}

// New creates a visible, resizable window with an OpenGL 4.1 core context.
func New(width, height int, title string) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	return c, nil
}

// AcquireDevice makes the window's context current and loads the GL
// function pointers. Implements engine.Surface.
func (c *Context) AcquireDevice() (gfx.Device, error) {
	c.window.MakeContextCurrent()
	device, err := gfx.NewOpenGL()
	if err != nil {
		return nil, err
	}
	glfw.SwapInterval(1)
	return device, nil
}

// DrawableSize returns the framebuffer size in pixels, which on high-DPI
// displays differs from the window size.
func (c *Context) DrawableSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// Time is GLFW's monotonic clock in seconds.
func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// RequestFrame schedules fn for the next iteration of Run. Only one request
// is held at a time; a new request replaces the old one.
func (c *Context) RequestFrame(fn func(now float64)) int {
	c.nextID++
	c.pendingID = c.nextID
	c.pending = fn
	return c.pendingID
}

// CancelFrame drops the pending request if handle still identifies it.
func (c *Context) CancelFrame(handle int) {
	if c.pendingID == handle {
		c.pending = nil
	}
}

// Attach forwards window events to the engine: framebuffer resizes to
// Resize, iconify/restore (the desktop analogue of a hidden tab) to
// Stop/Start.
func (c *Context) Attach(e *engine.Engine) {
	c.window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		e.Resize()
	})
	c.window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			e.Stop()
		} else {
			e.Start()
		}
	})
}

// RegisterKeyCallback runs f whenever key is pressed. Escape always closes
// the window.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// Run drains frame requests until the window closes: deliver the callback,
// swap, poll. With no request pending (engine stopped) it idles on the event
// queue instead of spinning.
func (c *Context) Run() {
	for !c.window.ShouldClose() {
		if fn := c.pending; fn != nil {
			c.pending = nil
			fn(glfw.GetTime())
			c.window.SwapBuffers()
			glfw.PollEvents()
		} else {
			glfw.WaitEventsTimeout(0.05)
		}
	}
}

// ShouldClose reports whether the user asked the window to close.
func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// Destroy tears the window down. Call after the engine is disposed.
func (c *Context) Destroy() {
	c.window.Destroy()
}

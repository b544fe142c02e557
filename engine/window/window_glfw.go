package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Park52/webgl-lab/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrNoWindow is returned by Close when the GLFW window was never created or is already
// destroyed.
var ErrNoWindow = errors.New("window: no platform window")

// dontCare disables a size limit.
const dontCare = glfw.DontCare

// glfwWindow is the GLFW state behind engineWindow.internalWindow. Every method runs on
// the locked main thread.
type glfwWindow struct {
	parent  *engineWindow
	handle  *glfw.Window
	closing bool
}

// newPlatformWindow initialises GLFW, opens a window without a GL context and hooks up
// the input callbacks. The calling goroutine stays locked to its OS thread because GLFW
// only accepts calls from the thread that initialised it.
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// The surface comes from wgpu, not OpenGL.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.Width(), w.Height(), w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw create window: %w", err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{parent: w, handle: handle}
	handle.SetKeyCallback(gw.onKey)
	handle.SetScrollCallback(gw.onScroll)
	handle.SetFramebufferSizeCallback(gw.onFramebufferSize)
	w.internalWindow = gw

	// High-DPI displays hand out a framebuffer larger than the requested window size.
	gw.storeSize(handle.GetFramebufferSize())

	common.Logger().Debug("window created", "title", w.title, "width", w.Width(), "height", w.Height())
	return nil
}

func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	w := gw.parent
	code := uint32(key)

	if code == common.KeyEsc && action == glfw.Press {
		gw.closing = true
		gw.handle.SetShouldClose(true)
		return
	}

	switch {
	case action == glfw.Press, action == glfw.Repeat && w.keyRepeat:
		if w.onKeyDown != nil {
			w.onKeyDown(code)
		}
	case action == glfw.Release:
		if w.onKeyUp != nil {
			w.onKeyUp(code)
		}
	}
}

func (gw *glfwWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	if gw.parent.onScroll != nil {
		gw.parent.onScroll(float32(yoff))
	}
}

// onFramebufferSize reports pixel sizes, which is what the swap chain needs.
func (gw *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	gw.storeSize(width, height)
	if gw.parent.onResize != nil {
		gw.parent.onResize(width, height)
	}
}

func (gw *glfwWindow) storeSize(width, height int) {
	gw.parent.width.Store(int32(width))
	gw.parent.height.Store(int32(height))
}

func (gw *glfwWindow) alive() bool {
	return gw.handle != nil && !gw.closing && !gw.handle.ShouldClose()
}

// platform returns the GLFW state, or nil before creation and after Close.
func platform(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platform(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := platform(w)
	return gw != nil && gw.alive()
}

// platformCloseWindow destroys the window and shuts GLFW down. A second call returns
// ErrNoWindow.
func platformCloseWindow(w *engineWindow) error {
	gw := platform(w)
	if gw == nil {
		return ErrNoWindow
	}
	w.internalWindow = nil
	gw.closing = true
	gw.handle.Destroy()
	gw.handle = nil
	glfw.Terminate()
	common.Logger().Debug("window closed")
	return nil
}

// platformProcessMessages drains pending GLFW events without blocking and reports
// whether the window should stay open.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

func platformSetTitle(w *engineWindow, title string) {
	if gw := platform(w); gw != nil {
		gw.handle.SetTitle(title)
	}
}

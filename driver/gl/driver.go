// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gl implements driver interfaces using the OpenGL
// 4.1 core API.
//
// The driver renders into a hidden window created with
// GLFW. OpenGL contexts are bound to a single thread: Open
// and every other method of the driver and of the types it
// creates must be called from the same OS thread, which the
// caller is expected to lock with runtime.LockOSThread.
// GLFW further requires that this be the main thread on
// some platforms.
package gl

import (
	"errors"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gviegas/geom/driver"
)

const driverName = "opengl"

const prefix = "gl: "

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	mu  sync.Mutex
	win *glfw.Window
	lim driver.Limits
}

func init() {
	driver.Register(&Driver{})
}

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win != nil {
		return d, nil
	}
	if err := glfw.Init(); err != nil {
		driver.Logger().Warn("glfw.Init failed", "err", err)
		return nil, driver.ErrNotInstalled
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(1, 1, driverName, nil, nil)
	if err != nil {
		glfw.Terminate()
		driver.Logger().Warn("glfw.CreateWindow failed", "err", err)
		return nil, driver.ErrNoDevice
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		driver.Logger().Warn("gl.Init failed", "err", err)
		return nil, driver.ErrNotInstalled
	}
	var n int32
	gl.GetIntegerv(gl.MAX_VERTEX_ATTRIBS, &n)
	d.lim = driver.Limits{
		MaxVertexIn: int(n),
		// OpenGL does not expose a buffer size limit.
		MaxBuffer: 1 << 30,
	}
	d.win = win
	driver.Logger().Info("opengl context created", "version", gl.GoStr(gl.GetString(gl.VERSION)))
	return d, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win == nil {
		return
	}
	d.win.Destroy()
	d.win = nil
	glfw.Terminate()
}

// Driver implements driver.GPU.
func (d *Driver) Driver() driver.Driver { return d }

// Limits implements driver.GPU.
func (d *Driver) Limits() driver.Limits { return d.lim }

// Commit implements driver.GPU.
// Commands are executed on the calling thread before
// Commit returns. The result is sent to ch from a separate
// goroutine.
func (d *Driver) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	err := d.exec(cb)
	go func() { ch <- err }()
}

// exec executes the commands recorded in cb.
func (d *Driver) exec(cb []driver.CmdBuffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win == nil {
		return errors.New(prefix + "driver not open")
	}
	for _, c := range cb {
		c, ok := c.(*cmdBuffer)
		if !ok {
			return errors.New(prefix + "foreign command buffer")
		}
		if c.status != cbEnded {
			return errors.New(prefix + "command buffer not ended")
		}
		err := c.run()
		c.reset()
		if err != nil {
			return err
		}
	}
	gl.Finish()
	return checkError()
}

// checkError converts the current OpenGL error flag into
// an error value.
func checkError() error {
	switch code := gl.GetError(); code {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return driver.ErrNoDeviceMemory
	default:
		return errorCode(code)
	}
}

// errorCode is an unexpected OpenGL error code.
type errorCode uint32

func (e errorCode) Error() string {
	switch e {
	case gl.INVALID_ENUM:
		return prefix + "invalid enum"
	case gl.INVALID_VALUE:
		return prefix + "invalid value"
	case gl.INVALID_OPERATION:
		return prefix + "invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return prefix + "invalid framebuffer operation"
	default:
		return prefix + "unknown error"
	}
}

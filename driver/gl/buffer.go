// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/geom/driver"
)

// buffer implements driver.Buffer.
// Buffers are never host visible; data is transferred with
// glBufferSubData and glGetBufferSubData.
type buffer struct {
	id   uint32
	size int64
}

// NewBuffer creates a new buffer.
// The visible parameter is ignored.
func (d *Driver) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	switch {
	case size <= 0:
		return nil, errors.New(prefix + "invalid buffer size")
	case size > d.lim.MaxBuffer:
		return nil, driver.ErrNoDeviceMemory
	}
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, int(size), nil, usage(usg))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := checkError(); err != nil {
		gl.DeleteBuffers(1, &id)
		return nil, err
	}
	return &buffer{id: id, size: size}, nil
}

// usage picks the glBufferData usage hint for usg.
func usage(usg driver.Usage) uint32 {
	if usg&driver.UShaderWrite != 0 {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

// Visible implements driver.Buffer.
func (b *buffer) Visible() bool { return false }

// Bytes implements driver.Buffer.
func (b *buffer) Bytes() []byte { return nil }

// Cap implements driver.Buffer.
func (b *buffer) Cap() int64 { return b.size }

func (b *buffer) check(off int64, n int) error {
	switch {
	case b.id == 0:
		return errors.New(prefix + "use of destroyed buffer")
	case off < 0 || off+int64(n) > b.size:
		return errors.New(prefix + "buffer range out of bounds")
	}
	return nil
}

// Write implements driver.Buffer.
func (b *buffer) Write(off int64, data []byte) error {
	if err := b.check(off, len(data)); err != nil || len(data) == 0 {
		return err
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.BufferSubData(gl.ARRAY_BUFFER, int(off), len(data), gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return checkError()
}

// Read implements driver.Buffer.
func (b *buffer) Read(off int64, p []byte) error {
	if err := b.check(off, len(p)); err != nil || len(p) == 0 {
		return err
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.GetBufferSubData(gl.ARRAY_BUFFER, int(off), len(p), gl.Ptr(p))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return checkError()
}

// Destroy implements driver.Destroyer.
func (b *buffer) Destroy() {
	if b.id == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
}

// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mem

import (
	"errors"

	"github.com/gviegas/geom/driver"
)

// buffer implements driver.Buffer.
type buffer struct {
	d       *Driver
	data    []byte
	visible bool
	usg     driver.Usage
}

// NewBuffer creates a new buffer.
func (d *Driver) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	switch {
	case size <= 0:
		return nil, errors.New(prefix + "invalid buffer size")
	case size > maxBuffer:
		return nil, driver.ErrNoDeviceMemory
	}
	d.mu.Lock()
	d.live++
	d.mu.Unlock()
	return &buffer{
		d:       d,
		data:    make([]byte, size),
		visible: visible,
		usg:     usg,
	}, nil
}

// Visible implements driver.Buffer.
func (b *buffer) Visible() bool { return b.visible }

// Bytes implements driver.Buffer.
func (b *buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.data
}

// Cap implements driver.Buffer.
func (b *buffer) Cap() int64 { return int64(len(b.data)) }

// check returns an error if [off, off+n) is not a valid
// range of b.
func (b *buffer) check(off int64, n int) error {
	switch {
	case b.data == nil:
		return errors.New(prefix + "use of destroyed buffer")
	case off < 0 || off+int64(n) > int64(len(b.data)):
		return errors.New(prefix + "buffer range out of bounds")
	}
	return nil
}

// Write implements driver.Buffer.
func (b *buffer) Write(off int64, data []byte) error {
	if err := b.check(off, len(data)); err != nil {
		return err
	}
	copy(b.data[off:], data)
	return nil
}

// Read implements driver.Buffer.
func (b *buffer) Read(off int64, p []byte) error {
	if err := b.check(off, len(p)); err != nil {
		return err
	}
	copy(p, b.data[off:])
	return nil
}

// Destroy implements driver.Destroyer.
func (b *buffer) Destroy() {
	if b.data == nil {
		return
	}
	b.data = nil
	b.d.mu.Lock()
	b.d.live--
	b.d.mu.Unlock()
}

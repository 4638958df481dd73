// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mem implements driver interfaces in host memory.
// Buffers are plain byte slices and draw commands are
// executed on the CPU: every vertex input is fetched from
// its bound buffer and the assembled attributes are kept
// in a record that can be inspected after the commit.
package mem

import (
	"errors"
	"sync"

	"github.com/gviegas/geom/driver"
)

const driverName = "mem"

// Limits of the driver.
const (
	maxVertexIn = 16
	maxBuffer   = 256 << 20
)

const prefix = "mem: "

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	mu    sync.Mutex
	open  bool
	draws []DrawCall
	live  int
}

func init() {
	driver.Register(&Driver{})
}

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	return d, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
// It discards the draw record.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.draws = nil
}

// Driver implements driver.GPU.
func (d *Driver) Driver() driver.Driver { return d }

// Limits implements driver.GPU.
func (d *Driver) Limits() driver.Limits {
	return driver.Limits{
		MaxVertexIn: maxVertexIn,
		MaxBuffer:   maxBuffer,
	}
}

// Commit implements driver.GPU.
// Command buffers are executed before Commit returns. The
// result is sent to ch from a separate goroutine, so ch
// need not be buffered.
func (d *Driver) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	err := d.exec(cb)
	go func() { ch <- err }()
}

// exec executes the commands recorded in cb.
// Draws from a failed command buffer are not recorded.
func (d *Driver) exec(cb []driver.CmdBuffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
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
		draws, err := c.run()
		c.reset()
		if err != nil {
			return err
		}
		d.draws = append(d.draws, draws...)
	}
	return nil
}

// Draws returns a copy of the draw record.
func (d *Driver) Draws() []DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	draws := make([]DrawCall, len(d.draws))
	copy(draws, d.draws)
	return draws
}

// ClearDraws discards the draw record.
func (d *Driver) ClearDraws() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draws = d.draws[:0]
}

// LiveBuffers returns the number of buffers that were
// created and not yet destroyed.
func (d *Driver) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

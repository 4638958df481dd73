// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mem

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gviegas/geom/driver"
)

// DrawCall is the record of an executed draw command.
// Attribs maps the name of each vertex input of the
// pipeline to the values fetched for every vertex, in
// vertex order. Integer formats are converted to float32.
type DrawCall struct {
	Topology   driver.Topology
	Vertices   int
	Instances  int
	Primitives int
	Attribs    map[string][][]float32
}

// Command buffer status.
const (
	cbInitial = iota
	cbRecording
	cbEnded
)

// Command kinds.
const (
	cSetPipeline = iota
	cSetVertexBuf
	cDraw
)

// command is a recorded command.
type command struct {
	kind int
	pl   *pipeline
	// cSetVertexBuf.
	start int
	buf   []driver.Buffer
	off   []int64
	// cDraw.
	vertCount, instCount, baseVert, baseInst int
}

// cmdBuffer implements driver.CmdBuffer.
type cmdBuffer struct {
	status int
	cmds   []command
	err    error
}

// NewCmdBuffer creates a new command buffer.
func (d *Driver) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &cmdBuffer{}, nil
}

// Begin implements driver.CmdBuffer.
func (cb *cmdBuffer) Begin() error {
	if cb.status == cbRecording {
		return errors.New(prefix + "command buffer already recording")
	}
	cb.reset()
	cb.status = cbRecording
	return nil
}

// record appends c to the command buffer, failing the
// recording if Begin was not called.
func (cb *cmdBuffer) record(c command) {
	if cb.status != cbRecording {
		if cb.err == nil {
			cb.err = errors.New(prefix + "command recorded outside Begin/End")
		}
		return
	}
	cb.cmds = append(cb.cmds, c)
}

// SetPipeline implements driver.CmdBuffer.
func (cb *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	p, _ := pl.(*pipeline)
	cb.record(command{kind: cSetPipeline, pl: p})
}

// SetVertexBuf implements driver.CmdBuffer.
func (cb *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	if len(buf) != len(off) && cb.err == nil {
		cb.err = errors.New(prefix + "SetVertexBuf: len(buf) != len(off)")
	}
	c := command{
		kind:  cSetVertexBuf,
		start: start,
		buf:   append([]driver.Buffer(nil), buf...),
		off:   append([]int64(nil), off...),
	}
	cb.record(c)
}

// Draw implements driver.CmdBuffer.
func (cb *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	cb.record(command{
		kind:      cDraw,
		vertCount: vertCount,
		instCount: instCount,
		baseVert:  baseVert,
		baseInst:  baseInst,
	})
}

// End implements driver.CmdBuffer.
func (cb *cmdBuffer) End() error {
	err := cb.err
	switch {
	case err != nil:
	case cb.status != cbRecording:
		err = errors.New(prefix + "End called without Begin")
	default:
		cb.status = cbEnded
		return nil
	}
	cb.reset()
	return err
}

// Reset implements driver.CmdBuffer.
func (cb *cmdBuffer) Reset() error {
	cb.reset()
	return nil
}

func (cb *cmdBuffer) reset() {
	cb.status = cbInitial
	cb.cmds = cb.cmds[:0]
	cb.err = nil
}

// Destroy implements driver.Destroyer.
func (cb *cmdBuffer) Destroy() {
	cb.reset()
	cb.cmds = nil
}

// vertexBinding is a buffer bound to a vertex input.
type vertexBinding struct {
	buf *buffer
	off int64
}

// run executes the commands of cb.
func (cb *cmdBuffer) run() (draws []DrawCall, err error) {
	var pl *pipeline
	var bind [maxVertexIn]vertexBinding
	for i := range cb.cmds {
		c := &cb.cmds[i]
		switch c.kind {
		case cSetPipeline:
			if c.pl == nil || c.pl.input == nil {
				return nil, errors.New(prefix + "invalid pipeline")
			}
			pl = c.pl
		case cSetVertexBuf:
			if c.start < 0 || c.start+len(c.buf) > maxVertexIn {
				return nil, errors.New(prefix + "vertex buffer index out of range")
			}
			for j := range c.buf {
				b, ok := c.buf[j].(*buffer)
				if !ok || b.data == nil {
					return nil, errors.New(prefix + "invalid vertex buffer")
				}
				bind[c.start+j] = vertexBinding{b, c.off[j]}
			}
		case cDraw:
			dc, err := draw(pl, bind[:], c)
			if err != nil {
				return nil, err
			}
			draws = append(draws, dc)
		}
	}
	return
}

// draw executes a single draw command.
func draw(pl *pipeline, bind []vertexBinding, c *command) (DrawCall, error) {
	switch {
	case pl == nil:
		return DrawCall{}, errors.New(prefix + "draw without pipeline")
	case c.vertCount < 0 || c.instCount < 0 || c.baseVert < 0 || c.baseInst < 0:
		return DrawCall{}, errors.New(prefix + "invalid draw parameters")
	}
	dc := DrawCall{
		Topology:   pl.topology,
		Vertices:   c.vertCount,
		Instances:  c.instCount,
		Primitives: pl.topology.Primitives(c.vertCount) * c.instCount,
		Attribs:    make(map[string][][]float32, len(pl.input)),
	}
	for i, in := range pl.input {
		b := bind[i]
		if b.buf == nil {
			return DrawCall{}, fmt.Errorf(prefix+"vertex input %d (%s) has no buffer", i, in.Name)
		}
		size := in.Format.Size()
		vals := make([][]float32, c.vertCount)
		for v := range vals {
			pos := b.off + int64(c.baseVert+v)*int64(in.Stride)
			if pos < 0 || pos+int64(size) > int64(len(b.buf.data)) {
				return DrawCall{}, fmt.Errorf(prefix+"vertex %d of %s out of bounds", c.baseVert+v, in.Name)
			}
			vals[v] = decode(in.Format, b.buf.data[pos:pos+int64(size)])
		}
		dc.Attribs[in.Name] = vals
	}
	return dc, nil
}

// decode decodes a single little-endian element of format f.
func decode(f driver.VertexFmt, p []byte) []float32 {
	n := f.Components()
	csz := f.Size() / n
	v := make([]float32, n)
	for i := range v {
		q := p[i*csz:]
		switch {
		case f.IsFloat():
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(q))
		case f <= driver.Int8x4:
			v[i] = float32(int8(q[0]))
		case f <= driver.Int16x4:
			v[i] = float32(int16(binary.LittleEndian.Uint16(q)))
		case f <= driver.Int32x4:
			v[i] = float32(int32(binary.LittleEndian.Uint32(q)))
		case f <= driver.UInt8x4:
			v[i] = float32(q[0])
		case f <= driver.UInt16x4:
			v[i] = float32(binary.LittleEndian.Uint16(q))
		default:
			v[i] = float32(binary.LittleEndian.Uint32(q))
		}
	}
	return v
}

// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/geom/driver"
)

// Command buffer status.
const (
	cbInitial = iota
	cbRecording
	cbEnded
)

// cmdBuffer implements driver.CmdBuffer.
// OpenGL has no command buffers of its own, so commands
// are kept as closures and replayed by GPU.Commit.
type cmdBuffer struct {
	status int
	cmds   []func(*cmdState) error
	err    error
}

// cmdState is the state tracked while replaying a command
// buffer.
type cmdState struct {
	pl   *pipeline
	bind [32]struct {
		buf *buffer
		off int64
	}
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

func (cb *cmdBuffer) record(f func(*cmdState) error) {
	if cb.status != cbRecording {
		if cb.err == nil {
			cb.err = errors.New(prefix + "command recorded outside Begin/End")
		}
		return
	}
	cb.cmds = append(cb.cmds, f)
}

// SetPipeline implements driver.CmdBuffer.
func (cb *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	p, _ := pl.(*pipeline)
	cb.record(func(s *cmdState) error {
		if p == nil || p.vao == 0 {
			return errors.New(prefix + "invalid pipeline")
		}
		s.pl = p
		return nil
	})
}

// SetVertexBuf implements driver.CmdBuffer.
func (cb *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	bufs := make([]*buffer, len(buf))
	for i := range buf {
		bufs[i], _ = buf[i].(*buffer)
	}
	offs := append([]int64(nil), off...)
	cb.record(func(s *cmdState) error {
		if len(bufs) != len(offs) || start < 0 || start+len(bufs) > len(s.bind) {
			return errors.New(prefix + "invalid vertex buffer range")
		}
		for i, b := range bufs {
			if b == nil || b.id == 0 {
				return errors.New(prefix + "invalid vertex buffer")
			}
			s.bind[start+i].buf = b
			s.bind[start+i].off = offs[i]
		}
		return nil
	})
}

// Draw implements driver.CmdBuffer.
// baseInst must be zero.
func (cb *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	cb.record(func(s *cmdState) error {
		if s.pl == nil {
			return errors.New(prefix + "draw without pipeline")
		}
		if baseInst != 0 {
			return errors.New(prefix + "base instance not supported")
		}
		pl := s.pl
		gl.UseProgram(pl.prog.id)
		gl.BindVertexArray(pl.vao)
		for i, in := range pl.input {
			b := s.bind[i]
			if b.buf == nil {
				return errors.New(prefix + "vertex input has no buffer: " + in.Name)
			}
			typ, integer := componentType(in.Format)
			gl.BindBuffer(gl.ARRAY_BUFFER, b.buf.id)
			gl.EnableVertexAttribArray(uint32(in.Nr))
			n := int32(in.Format.Components())
			if integer {
				gl.VertexAttribIPointer(uint32(in.Nr), n, typ, int32(in.Stride), gl.PtrOffset(int(b.off)))
			} else {
				gl.VertexAttribPointer(uint32(in.Nr), n, typ, false, int32(in.Stride), gl.PtrOffset(int(b.off)))
			}
		}
		gl.DrawArraysInstanced(pl.mode, int32(baseVert), int32(vertCount), int32(instCount))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		gl.BindVertexArray(0)
		return checkError()
	})
}

// componentType returns the OpenGL type of f's components
// and whether f must be fed as integer data.
func componentType(f driver.VertexFmt) (typ uint32, integer bool) {
	switch {
	case f.IsFloat():
		return gl.FLOAT, false
	case f <= driver.Int8x4:
		return gl.BYTE, true
	case f <= driver.Int16x4:
		return gl.SHORT, true
	case f <= driver.Int32x4:
		return gl.INT, true
	case f <= driver.UInt8x4:
		return gl.UNSIGNED_BYTE, true
	case f <= driver.UInt16x4:
		return gl.UNSIGNED_SHORT, true
	default:
		return gl.UNSIGNED_INT, true
	}
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

// run replays the commands of cb.
func (cb *cmdBuffer) run() error {
	var s cmdState
	for _, f := range cb.cmds {
		if err := f(&s); err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gviegas/geom/driver"
)

// resource is the GPU side of an uploaded geometry.
// It is shared by geometries copied from one another and
// destroyed when refs drops to zero.
type resource struct {
	buf    driver.Buffer
	pl     driver.Pipeline
	layout Layout
	refs   int
}

func (r *resource) release() {
	r.refs--
	if r.refs > 0 {
		return
	}
	r.pl.Destroy()
	r.buf.Destroy()
	logger().Debug("geometry resources destroyed", "size", r.layout.Size)
}

// CreateBuffers uploads the vertex data of g to a new GPU
// buffer and binds each attribute of g's table to the
// matching vertex input of prog.
//
// The buffer holds one segment per Role, in Role order,
// as described by LayoutOf. Each attribute name is looked
// up in prog; a missing name fails with ErrNoAttrib and a
// format that differs from the table fails with
// ErrAttribFormat.
// CreateBuffers must be called once, after g is populated.
// On failure, g is left unchanged.
func (g *Geometry) CreateBuffers(gpu driver.GPU, prog driver.Program) error {
	switch {
	case gpu == nil || prog == nil:
		return ErrNoContext
	case g.res != nil:
		return ErrUploaded
	case len(g.verts) == 0:
		return ErrEmpty
	}

	l := g.Layout()
	input := make([]driver.VertexIn, MaxRole)
	for i, at := range g.attribs {
		in, ok := prog.Input(at.Name)
		switch {
		case !ok:
			return fmt.Errorf("%w: %s (%v)", ErrNoAttrib, at.Name, Role(i))
		case in.Format != at.Format:
			return fmt.Errorf("%w: %s is %v in program, %v in table",
				ErrAttribFormat, at.Name, in.Format, at.Format)
		}
		input[i] = driver.VertexIn{
			Format: at.Format,
			Stride: int(l.Stride(Role(i))),
			Nr:     in.Nr,
			Name:   at.Name,
		}
	}

	buf, err := gpu.NewBuffer(l.Size, true, driver.UVertexData)
	if err != nil {
		return err
	}
	for i := range l.Offsets {
		if err := buf.Write(l.Offsets[i], g.encode(Role(i))); err != nil {
			buf.Destroy()
			return err
		}
	}
	pl, err := gpu.NewPipeline(&driver.GraphState{
		Program:  prog,
		Input:    input,
		Topology: g.mode,
	})
	if err != nil {
		buf.Destroy()
		return err
	}
	g.res = &resource{
		buf:    buf,
		pl:     pl,
		layout: l,
		refs:   1,
	}
	logger().Debug("geometry uploaded",
		"vertices", l.Count,
		"size", l.Size,
		"offsets", l.Offsets,
		"topology", g.mode)
	return nil
}

// encode returns the little-endian float32 encoding of
// r's data for every vertex of g.
func (g *Geometry) encode(r Role) []byte {
	n := r.components()
	p := make([]byte, int64(len(g.verts))*r.elemSize())
	off := 0
	for i := range g.verts {
		for _, x := range g.verts[i].data(r)[:n] {
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(x))
			off += 4
		}
	}
	return p
}

// Draw records a draw command for g into cb.
// cb must be recording; committing it is left to the
// caller.
func (g *Geometry) Draw(cb driver.CmdBuffer) error {
	switch {
	case cb == nil:
		return ErrNoContext
	case g.res == nil:
		return ErrNotUploaded
	}
	r := g.res
	buf := make([]driver.Buffer, MaxRole)
	for i := range buf {
		buf[i] = r.buf
	}
	cb.SetPipeline(r.pl)
	cb.SetVertexBuf(0, buf, r.layout.Offsets[:])
	cb.Draw(r.layout.Count, 1, 0, 0)
	return nil
}

// Release drops g's reference to its GPU resources, which
// are destroyed if no other geometry holds them.
// g keeps its vertex data and can be uploaded again.
// Releasing a geometry that is not uploaded has no effect.
func (g *Geometry) Release() {
	if g.res == nil {
		return
	}
	g.res.release()
	g.res = nil
}

// Buffer returns the GPU buffer of g, or nil if g is not
// uploaded.
func (g *Geometry) Buffer() driver.Buffer {
	if g.res == nil {
		return nil
	}
	return g.res.buf
}

// ReadBuffers reads the vertex data back from g's GPU
// buffer.
func (g *Geometry) ReadBuffers() ([]Vertex, error) {
	if g.res == nil {
		return nil, ErrNotUploaded
	}
	l := g.res.layout
	verts := make([]Vertex, l.Count)
	for i := range l.Offsets {
		r := Role(i)
		p := make([]byte, l.Sizes[i])
		if err := g.res.buf.Read(l.Offsets[i], p); err != nil {
			return nil, err
		}
		n := r.components()
		for j := range verts {
			v := verts[j].data(r)
			for k := range v[:n] {
				v[k] = math.Float32frombits(binary.LittleEndian.Uint32(p[(j*n+k)*4:]))
			}
		}
	}
	return verts, nil
}

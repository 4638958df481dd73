// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gviegas/geom/driver"
)

// program implements driver.Program.
// Vertex inputs are those reported active by the linked
// program; driver.ProgramDesc.Input is ignored.
type program struct {
	id    uint32
	input []driver.VertexIn
}

// NewProgram compiles and links a new program.
func (d *Driver) NewProgram(desc *driver.ProgramDesc) (driver.Program, error) {
	if desc == nil || len(desc.VertSrc) == 0 || len(desc.FragSrc) == 0 {
		return nil, errors.New(prefix + "missing shader source")
	}
	vs, err := compileShader(string(desc.VertSrc), gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(string(desc.FragSrc), gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)
	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(id, n, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, fmt.Errorf(prefix+"link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return &program{id: id, input: activeInputs(id)}, nil
}

func compileShader(src string, typ uint32) (uint32, error) {
	sh := gl.CreateShader(typ)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(sh, n, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf(prefix+"compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

// activeInputs queries the active vertex attributes of a
// linked program. Built-in inputs and attributes of types
// that cannot be expressed as a driver.VertexFmt are
// skipped.
func activeInputs(id uint32) []driver.VertexIn {
	var cnt, maxLen int32
	gl.GetProgramiv(id, gl.ACTIVE_ATTRIBUTES, &cnt)
	gl.GetProgramiv(id, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)
	if cnt == 0 || maxLen == 0 {
		return nil
	}
	buf := make([]uint8, maxLen)
	input := make([]driver.VertexIn, 0, cnt)
	for i := uint32(0); i < uint32(cnt); i++ {
		var n, size int32
		var typ uint32
		gl.GetActiveAttrib(id, i, maxLen, &n, &size, &typ, &buf[0])
		name := string(buf[:n])
		f, ok := attribFormat(typ)
		if !ok || size != 1 {
			continue
		}
		loc := gl.GetAttribLocation(id, gl.Str(name+"\x00"))
		if loc < 0 {
			continue
		}
		input = append(input, driver.VertexIn{Format: f, Nr: int(loc), Name: name})
	}
	return input
}

// attribFormat maps a GLSL attribute type to the matching
// driver.VertexFmt.
func attribFormat(typ uint32) (driver.VertexFmt, bool) {
	switch typ {
	case gl.FLOAT:
		return driver.Float32, true
	case gl.FLOAT_VEC2:
		return driver.Float32x2, true
	case gl.FLOAT_VEC3:
		return driver.Float32x3, true
	case gl.FLOAT_VEC4:
		return driver.Float32x4, true
	case gl.INT:
		return driver.Int32, true
	case gl.INT_VEC2:
		return driver.Int32x2, true
	case gl.INT_VEC3:
		return driver.Int32x3, true
	case gl.INT_VEC4:
		return driver.Int32x4, true
	case gl.UNSIGNED_INT:
		return driver.UInt32, true
	case gl.UNSIGNED_INT_VEC2:
		return driver.UInt32x2, true
	case gl.UNSIGNED_INT_VEC3:
		return driver.UInt32x3, true
	case gl.UNSIGNED_INT_VEC4:
		return driver.UInt32x4, true
	}
	return 0, false
}

// Input implements driver.Program.
func (p *program) Input(name string) (driver.VertexIn, bool) {
	for _, in := range p.input {
		if in.Name == name {
			return in, true
		}
	}
	return driver.VertexIn{}, false
}

// Inputs implements driver.Program.
func (p *program) Inputs() []driver.VertexIn {
	input := make([]driver.VertexIn, len(p.input))
	copy(input, p.input)
	return input
}

// Destroy implements driver.Destroyer.
func (p *program) Destroy() {
	if p.id == 0 {
		return
	}
	gl.DeleteProgram(p.id)
	p.id = 0
	p.input = nil
}

// pipeline implements driver.Pipeline.
// It owns a vertex array object whose attribute pointers
// are set when vertex buffers are bound.
type pipeline struct {
	vao   uint32
	prog  *program
	input []driver.VertexIn
	mode  uint32
}

// NewPipeline creates a new pipeline.
func (d *Driver) NewPipeline(state any) (driver.Pipeline, error) {
	gs, ok := state.(*driver.GraphState)
	if !ok || gs == nil {
		return nil, errors.New(prefix + "state must be a *driver.GraphState")
	}
	prog, ok := gs.Program.(*program)
	if !ok || prog.id == 0 {
		return nil, errors.New(prefix + "invalid program")
	}
	if len(gs.Input) > d.lim.MaxVertexIn {
		return nil, errors.New(prefix + "too many vertex inputs")
	}
	mode, ok := primitiveMode(gs.Topology)
	if !ok {
		return nil, errors.New(prefix + "invalid topology")
	}
	input := make([]driver.VertexIn, len(gs.Input))
	for i, in := range gs.Input {
		decl, ok := prog.Input(in.Name)
		switch {
		case !ok || decl.Nr != in.Nr:
			return nil, errors.New(prefix + "vertex input not in program: " + in.Name)
		case decl.Format != in.Format:
			return nil, errors.New(prefix + "vertex format mismatch: " + in.Name)
		case in.Stride < 0:
			return nil, errors.New(prefix + "invalid vertex stride")
		}
		input[i] = in
	}
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return &pipeline{
		vao:   vao,
		prog:  prog,
		input: input,
		mode:  mode,
	}, nil
}

// primitiveMode maps t to the glDrawArrays mode.
func primitiveMode(t driver.Topology) (uint32, bool) {
	switch t {
	case driver.TPoint:
		return gl.POINTS, true
	case driver.TLine:
		return gl.LINES, true
	case driver.TLnStrip:
		return gl.LINE_STRIP, true
	case driver.TTriangle:
		return gl.TRIANGLES, true
	case driver.TTriStrip:
		return gl.TRIANGLE_STRIP, true
	}
	return 0, false
}

// Destroy implements driver.Destroyer.
func (p *pipeline) Destroy() {
	if p.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &p.vao)
	p.vao = 0
	p.input = nil
}

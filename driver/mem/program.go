// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mem

import (
	"errors"

	"github.com/gviegas/geom/driver"
)

// program implements driver.Program.
// Its inputs are exactly the ones declared in the
// driver.ProgramDesc used to create it.
type program struct {
	input []driver.VertexIn
}

// NewProgram creates a new program.
func (d *Driver) NewProgram(desc *driver.ProgramDesc) (driver.Program, error) {
	if desc == nil {
		return nil, errors.New(prefix + "nil program description")
	}
	if len(desc.Input) > maxVertexIn {
		return nil, errors.New(prefix + "too many vertex inputs")
	}
	input := make([]driver.VertexIn, len(desc.Input))
	for i, in := range desc.Input {
		switch {
		case in.Name == "":
			return nil, errors.New(prefix + "unnamed vertex input")
		case in.Nr < 0 || in.Nr >= maxVertexIn:
			return nil, errors.New(prefix + "vertex input location out of range")
		case in.Format < driver.Int8 || in.Format > driver.Float32x4:
			return nil, errors.New(prefix + "invalid vertex format")
		}
		for _, prev := range input[:i] {
			if prev.Name == in.Name || prev.Nr == in.Nr {
				return nil, errors.New(prefix + "duplicate vertex input")
			}
		}
		in.Stride = 0
		input[i] = in
	}
	return &program{input: input}, nil
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
func (p *program) Destroy() { p.input = nil }

// pipeline implements driver.Pipeline.
type pipeline struct {
	input    []driver.VertexIn
	topology driver.Topology
}

// NewPipeline creates a new pipeline.
func (d *Driver) NewPipeline(state any) (driver.Pipeline, error) {
	gs, ok := state.(*driver.GraphState)
	if !ok || gs == nil {
		return nil, errors.New(prefix + "state must be a *driver.GraphState")
	}
	prog, ok := gs.Program.(*program)
	switch {
	case !ok || prog.input == nil:
		return nil, errors.New(prefix + "invalid program")
	case len(gs.Input) > maxVertexIn:
		return nil, errors.New(prefix + "too many vertex inputs")
	case !gs.Topology.Valid():
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
		if in.Stride == 0 {
			in.Stride = in.Format.Size()
		}
		input[i] = in
	}
	return &pipeline{input: input, topology: gs.Topology}, nil
}

// Destroy implements driver.Destroyer.
func (p *pipeline) Destroy() { p.input = nil }

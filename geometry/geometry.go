// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package geometry implements the base object of simple
// shapes.
//
// A Geometry holds per-vertex positions, colors, normals
// and texture coordinates. Once populated, its data is
// uploaded to a single GPU buffer and drawn with a fixed
// primitive topology. The lifecycle is explicit:
//
//	Empty -> Populated -> Uploaded
//
// and operations invoked out of order fail with an error.
// Geometries are not safe for concurrent use.
package geometry

import (
	"errors"
	"fmt"

	"github.com/gviegas/geom/driver"
	"github.com/gviegas/geom/linear"
)

const prefix = "geometry: "

var (
	// ErrCapacity means that the vertex count would exceed
	// the geometry's capacity.
	ErrCapacity = errors.New(prefix + "vertex capacity exceeded")
	// ErrMismatch means that parallel attribute arrays do
	// not have the same length.
	ErrMismatch = errors.New(prefix + "attribute array length mismatch")
	// ErrUploaded means that the operation is not allowed
	// after the geometry has been uploaded.
	ErrUploaded = errors.New(prefix + "geometry already uploaded")
	// ErrNotUploaded means that the operation requires an
	// uploaded geometry.
	ErrNotUploaded = errors.New(prefix + "geometry not uploaded")
	// ErrEmpty means that the geometry has no vertices.
	ErrEmpty = errors.New(prefix + "geometry has no vertices")
	// ErrNoContext means that a GPU, program or command
	// buffer was not provided.
	ErrNoContext = errors.New(prefix + "missing graphics context")
	// ErrNoAttrib means that a program does not declare a
	// required vertex input.
	ErrNoAttrib = errors.New(prefix + "attribute not found in program")
	// ErrAttribFormat means that an attribute's format is
	// not valid or does not match the program.
	ErrAttribFormat = errors.New(prefix + "invalid attribute format")
	// ErrTopology means that a topology value is not valid.
	ErrTopology = errors.New(prefix + "invalid topology")
)

// DefaultCapacity is the vertex capacity of geometries
// created by New.
const DefaultCapacity = 1 << 16

// State is the lifecycle state of a geometry.
type State int

// States.
const (
	Empty State = iota
	Populated
	Uploaded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Populated:
		return "Populated"
	case Uploaded:
		return "Uploaded"
	default:
		return "[!] invalid State value"
	}
}

// Vertex is the data of a single vertex.
// Position is a homogeneous point, Normal is padded with
// a fourth component to keep all segments 16-byte aligned.
type Vertex struct {
	Position linear.V4
	Color    linear.V4
	Normal   linear.V4
	TexCoord linear.V2
}

// data returns a slice referring to v's data for r.
func (v *Vertex) data(r Role) []float32 {
	switch r {
	case Position:
		return v.Position[:]
	case Color:
		return v.Color[:]
	case Normal:
		return v.Normal[:]
	case TexCoord:
		return v.TexCoord[:]
	default:
		panic("invalid Role value")
	}
}

// Geometry is the base object of simple shapes.
// The zero value is not usable; call New or NewCap.
type Geometry struct {
	verts   []Vertex
	cap     int
	mode    driver.Topology
	attribs Attribs
	res     *resource
}

// New creates an empty geometry with capacity for
// DefaultCapacity vertices, the default attribute table
// and triangle topology.
// No vertex storage is allocated until data is added.
func New() *Geometry { return NewCap(DefaultCapacity) }

// NewCap is like New but sets the vertex capacity to n.
// It panics if n is not positive.
func NewCap(n int) *Geometry {
	if n <= 0 {
		panic("geometry.NewCap: capacity must be positive")
	}
	return &Geometry{
		cap:     n,
		mode:    driver.TTriangle,
		attribs: DefaultAttribs(),
	}
}

// State returns the lifecycle state of g.
func (g *Geometry) State() State {
	switch {
	case g.res != nil:
		return Uploaded
	case len(g.verts) > 0:
		return Populated
	default:
		return Empty
	}
}

// Len returns the number of vertices in g.
func (g *Geometry) Len() int { return len(g.verts) }

// Cap returns the vertex capacity of g.
func (g *Geometry) Cap() int { return g.cap }

// Mode returns the primitive topology of g.
func (g *Geometry) Mode() driver.Topology { return g.mode }

// SetMode sets the primitive topology of g.
func (g *Geometry) SetMode(t driver.Topology) error {
	switch {
	case !t.Valid():
		return ErrTopology
	case g.res != nil:
		return ErrUploaded
	}
	g.mode = t
	return nil
}

// Attribs returns the attribute table of g.
func (g *Geometry) Attribs() Attribs { return g.attribs }

// SetAttribs replaces the attribute table of g.
func (g *Geometry) SetAttribs(a Attribs) error {
	if g.res != nil {
		return ErrUploaded
	}
	if err := a.validate(); err != nil {
		return err
	}
	g.attribs = a
	return nil
}

// Layout returns the buffer layout for the current
// vertex count.
func (g *Geometry) Layout() Layout { return LayoutOf(len(g.verts)) }

// checkAdd checks whether n more vertices can be added.
func (g *Geometry) checkAdd(n int) error {
	switch {
	case g.res != nil:
		return ErrUploaded
	case len(g.verts)+n > g.cap:
		return fmt.Errorf("%w: %d + %d > %d", ErrCapacity, len(g.verts), n, g.cap)
	}
	return nil
}

// Append appends vertices to g.
func (g *Geometry) Append(v ...Vertex) error {
	if err := g.checkAdd(len(v)); err != nil {
		return err
	}
	g.verts = append(g.verts, v...)
	return nil
}

// AppendArrays appends vertices given as parallel arrays.
// All arrays must have the same length.
func (g *Geometry) AppendArrays(points, colors, normals []linear.V4, tex []linear.V2) error {
	n := len(points)
	if len(colors) != n || len(normals) != n || len(tex) != n {
		return fmt.Errorf("%w: %d points, %d colors, %d normals, %d texture coordinates",
			ErrMismatch, n, len(colors), len(normals), len(tex))
	}
	if err := g.checkAdd(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		g.verts = append(g.verts, Vertex{points[i], colors[i], normals[i], tex[i]})
	}
	return nil
}

// SetVertices replaces the vertices of g with a copy of v.
func (g *Geometry) SetVertices(v []Vertex) error {
	switch {
	case g.res != nil:
		return ErrUploaded
	case len(v) > g.cap:
		return fmt.Errorf("%w: %d > %d", ErrCapacity, len(v), g.cap)
	}
	g.verts = append(g.verts[:0], v...)
	return nil
}

// Reset removes all vertices from g.
func (g *Geometry) Reset() error {
	if g.res != nil {
		return ErrUploaded
	}
	g.verts = g.verts[:0]
	return nil
}

// Vertex returns the vertex at index i.
// It panics if i is out of range.
func (g *Geometry) Vertex(i int) Vertex { return g.verts[i] }

// Vertices returns a copy of the vertices of g.
func (g *Geometry) Vertices() []Vertex { return append([]Vertex(nil), g.verts...) }

// Points returns the positions of g, one per vertex.
func (g *Geometry) Points() []linear.V4 {
	s := make([]linear.V4, len(g.verts))
	for i := range g.verts {
		s[i] = g.verts[i].Position
	}
	return s
}

// Colors returns the colors of g, one per vertex.
func (g *Geometry) Colors() []linear.V4 {
	s := make([]linear.V4, len(g.verts))
	for i := range g.verts {
		s[i] = g.verts[i].Color
	}
	return s
}

// Normals returns the normals of g, one per vertex.
func (g *Geometry) Normals() []linear.V4 {
	s := make([]linear.V4, len(g.verts))
	for i := range g.verts {
		s[i] = g.verts[i].Normal
	}
	return s
}

// TexCoords returns the texture coordinates of g, one
// per vertex.
func (g *Geometry) TexCoords() []linear.V2 {
	s := make([]linear.V2, len(g.verts))
	for i := range g.verts {
		s[i] = g.verts[i].TexCoord
	}
	return s
}

// Clone returns a copy of g.
// If g is uploaded, the copy shares its GPU resources;
// they are destroyed when the last holder calls Release.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{cap: g.cap}
	c.copyFrom(g)
	return c
}

// CopyFrom makes g a copy of src, as if by Clone.
// g releases its own GPU resources first.
// Copying g onto itself has no effect.
func (g *Geometry) CopyFrom(src *Geometry) {
	if g == src {
		return
	}
	g.Release()
	g.cap = src.cap
	g.copyFrom(src)
}

func (g *Geometry) copyFrom(src *Geometry) {
	g.verts = append(g.verts[:0], src.verts...)
	g.mode = src.mode
	g.attribs = src.attribs
	g.res = src.res
	if g.res != nil {
		g.res.refs++
	}
}

// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"fmt"

	"github.com/gviegas/geom/driver"
)

// Role identifies the logical use of a vertex attribute.
// Roles also define the order of the segments in a
// geometry's vertex buffer.
type Role int

// Roles.
const (
	Position Role = iota
	Color
	Normal
	TexCoord

	MaxRole = iota
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Position:
		return "Position"
	case Color:
		return "Color"
	case Normal:
		return "Normal"
	case TexCoord:
		return "TexCoord"
	default:
		return "[!] invalid Role value"
	}
}

// components returns the number of float32 components that
// a vertex stores for r.
func (r Role) components() int {
	switch r {
	case Position, Color, Normal:
		return 4
	case TexCoord:
		return 2
	default:
		panic("invalid Role value")
	}
}

// elemSize returns the size in bytes of r's data for a
// single vertex. It is also the stride of r's segment.
func (r Role) elemSize() int64 { return int64(r.components()) * 4 }

// Attrib describes how the data of a given role is bound
// to a shader program.
// Name is the name of the vertex input in the program.
// Format must be a floating-point format with no more
// components than the role stores.
type Attrib struct {
	Name   string
	Format driver.VertexFmt
}

// Attribs is the attribute table of a geometry, indexed
// by Role.
type Attribs [MaxRole]Attrib

// DefaultAttribs returns the attribute table that new
// geometries use.
func DefaultAttribs() Attribs {
	return Attribs{
		Position: {"vPosition", driver.Float32x4},
		Color:    {"vColor", driver.Float32x4},
		Normal:   {"vNormal", driver.Float32x4},
		TexCoord: {"vTexture", driver.Float32x2},
	}
}

// validate checks that every entry of a is usable.
func (a *Attribs) validate() error {
	for i := range a {
		r := Role(i)
		switch at := a[i]; {
		case at.Name == "":
			return fmt.Errorf("%w: %v has no name", ErrAttribFormat, r)
		case !at.Format.IsFloat():
			return fmt.Errorf("%w: %v must use a float format", ErrAttribFormat, r)
		case at.Format.Components() > r.components():
			return fmt.Errorf("%w: %v stores %d components, %v needs %d",
				ErrAttribFormat, r, r.components(), at.Format, at.Format.Components())
		}
		for j := 0; j < i; j++ {
			if a[j].Name == a[i].Name {
				return fmt.Errorf("%w: %v and %v share the name %q",
					ErrAttribFormat, Role(j), r, a[i].Name)
			}
		}
	}
	return nil
}

// Layout describes the placement of vertex data in a
// geometry's buffer. The buffer is made of one segment per
// role, back to back in role order, each holding Count
// tightly packed elements.
type Layout struct {
	Count   int
	Offsets [MaxRole]int64
	Sizes   [MaxRole]int64
	Size    int64
}

// LayoutOf computes the layout of a buffer holding n
// vertices.
func LayoutOf(n int) (l Layout) {
	l.Count = n
	for i := range l.Offsets {
		l.Offsets[i] = l.Size
		l.Sizes[i] = int64(n) * Role(i).elemSize()
		l.Size += l.Sizes[i]
	}
	return
}

// Stride returns the distance in bytes between
// consecutive elements of r's segment.
func (l *Layout) Stride(r Role) int64 { return r.elemSize() }

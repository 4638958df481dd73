// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shape

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/geom/geometry"
	"github.com/gviegas/geom/linear"
)

// ErrSingular means that a transform cannot be inverted.
var ErrSingular = errors.New("shape: singular transform")

// Transform applies m to the vertices of g.
// Positions are multiplied by m and normals by the inverse
// transpose of its upper 3x3 block, then renormalized.
// Colors and texture coordinates are left untouched.
// g must not be uploaded.
func Transform(g *geometry.Geometry, m mgl32.Mat4) error {
	if g.State() == geometry.Uploaded {
		return geometry.ErrUploaded
	}
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return ErrSingular
	}
	nm := m3.Inv().Transpose()
	verts := g.Vertices()
	for i := range verts {
		v := &verts[i]
		v.Position = linear.V4(m.Mul4x1(mgl32.Vec4(v.Position)))
		n := nm.Mul3x1(mgl32.Vec3{v.Normal[0], v.Normal[1], v.Normal[2]})
		if n.Len() != 0 {
			n = n.Normalize()
		}
		v.Normal = linear.V4(n.Vec4(0))
	}
	return g.SetVertices(verts)
}

// Placement returns the matrix that scales by s and then
// translates by t.
func Placement(s float32, t linear.V3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(mgl32.Scale3D(s, s, s))
}

// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package shape populates geometries with the vertex data
// of common shapes.
package shape

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/gviegas/geom/driver"
	"github.com/gviegas/geom/geometry"
	"github.com/gviegas/geom/linear"
)

// ErrSlices means that a disk has too few slices.
var ErrSlices = errors.New("shape: disk needs at least 3 slices")

// Number of vertices in a cube.
const CubeVertices = 36

// cubeFaces defines the faces of the cube as a normal n
// and two axes u, v such that u × v = n.
var cubeFaces = [6][3]linear.V3{
	{{+1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, +1, 0}, {0, 0, 1}, {1, 0, 0}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, +1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
}

// Cube creates a unit cube centered at the origin.
// Each face is made of two counter-clockwise triangles
// with the face's normal and texture coordinates spanning
// [0, 1]².
func Cube(color linear.V4) (*geometry.Geometry, error) {
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	tris := [6]int{0, 1, 2, 0, 2, 3}
	g := geometry.New()
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		var quad [4]geometry.Vertex
		for i, c := range corners {
			var p, du, dv linear.V3
			du.Scale(c[0]*0.5, &u)
			dv.Scale(c[1]*0.5, &v)
			p.Scale(0.5, &n)
			p.Add(&p, &du)
			p.Add(&p, &dv)
			quad[i] = geometry.Vertex{
				Position: p.Point(),
				Color:    color,
				Normal:   n.Dir(),
				TexCoord: linear.V2{(c[0] + 1) / 2, (c[1] + 1) / 2},
			}
		}
		for _, i := range tris {
			if err := g.Append(quad[i]); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Disk creates a disk of radius 1 in the z = 0 plane,
// facing +Z, made of the given number of slices.
// Each slice is a separate triangle, so the disk has
// 3*slices vertices.
func Disk(slices int, color linear.V4) (*geometry.Geometry, error) {
	if slices < 3 {
		return nil, ErrSlices
	}
	g := geometry.New()
	if 3*slices > g.Cap() {
		return nil, geometry.ErrCapacity
	}
	normal := linear.V4{0, 0, 1, 0}
	rim := func(i int) geometry.Vertex {
		a := 2 * math32.Pi * float32(i%slices) / float32(slices)
		x, y := math32.Cos(a), math32.Sin(a)
		return geometry.Vertex{
			Position: linear.V4{x, y, 0, 1},
			Color:    color,
			Normal:   normal,
			TexCoord: linear.V2{(x + 1) / 2, (y + 1) / 2},
		}
	}
	center := geometry.Vertex{
		Position: linear.V4{0, 0, 0, 1},
		Color:    color,
		Normal:   normal,
		TexCoord: linear.V2{0.5, 0.5},
	}
	for i := 0; i < slices; i++ {
		if err := g.Append(center, rim(i), rim(i+1)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Axes creates three unit line segments starting at the
// origin: X in red, Y in green and Z in blue.
// The geometry uses driver.TLine topology.
func Axes() (*geometry.Geometry, error) {
	g := geometry.New()
	if err := g.SetMode(driver.TLine); err != nil {
		return nil, err
	}
	for i := 0; i < 3; i++ {
		var dir, color linear.V4
		dir[i] = 1
		color[i], color[3] = 1, 1
		origin := linear.V4{0, 0, 0, 1}
		end := origin
		end.Add(&origin, &dir)
		err := g.Append(
			geometry.Vertex{Position: origin, Color: color, Normal: dir},
			geometry.Vertex{Position: end, Color: color, Normal: dir, TexCoord: linear.V2{1, 0}},
		)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

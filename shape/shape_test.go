// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shape

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/geom/driver"
	"github.com/gviegas/geom/driver/mem"
	"github.com/gviegas/geom/geometry"
	"github.com/gviegas/geom/linear"
)

var red = linear.V4{1, 0, 0, 1}

// checkWinding checks that every triangle of g is
// counter-clockwise when seen from the side its normal
// points to.
func checkWinding(t *testing.T, g *geometry.Geometry) {
	t.Helper()
	for i := 0; i+2 < g.Len(); i += 3 {
		a, b, c := g.Vertex(i), g.Vertex(i+1), g.Vertex(i+2)
		pa, pb, pc := a.Position.XYZ(), b.Position.XYZ(), c.Position.XYZ()
		var e1, e2, n linear.V3
		e1.Sub(&pb, &pa)
		e2.Sub(&pc, &pa)
		n.Cross(&e1, &e2)
		want := a.Normal.XYZ()
		if d := n.Dot(&want); d <= 0 {
			t.Fatalf("triangle %d: winding\nhave normal %v\nwant same side as %v", i/3, n, want)
		}
	}
}

func TestCube(t *testing.T) {
	g, err := Cube(red)
	if err != nil {
		t.Fatalf("Cube: unexpected error %v", err)
	}
	if n := g.Len(); n != CubeVertices {
		t.Fatalf("Cube: Len\nhave %d\nwant %d", n, CubeVertices)
	}
	if m := g.Mode(); m != driver.TTriangle {
		t.Fatalf("Cube: Mode\nhave %v\nwant TTriangle", m)
	}
	for i, v := range g.Vertices() {
		if v.Color != red {
			t.Fatalf("Cube: vertex %d color\nhave %v\nwant %v", i, v.Color, red)
		}
		if v.Position[3] != 1 || v.Normal[3] != 0 {
			t.Fatalf("Cube: vertex %d is not homogeneous\nhave %v, %v", i, v.Position, v.Normal)
		}
		for _, x := range v.Position[:3] {
			if x != 0.5 && x != -0.5 {
				t.Fatalf("Cube: vertex %d not on the unit cube\nhave %v", i, v.Position)
			}
		}
		n := v.Normal.XYZ()
		if l := n.Len(); l != 1 {
			t.Fatalf("Cube: vertex %d normal length\nhave %v\nwant 1", i, l)
		}
		p := v.Position.XYZ()
		if d := p.Dot(&n); d != 0.5 {
			t.Fatalf("Cube: vertex %d not on its face\nhave %v", i, d)
		}
		for _, x := range v.TexCoord {
			if x != 0 && x != 1 {
				t.Fatalf("Cube: vertex %d texture coordinates\nhave %v", i, v.TexCoord)
			}
		}
	}
	checkWinding(t, g)
}

func TestDisk(t *testing.T) {
	for _, n := range [...]int{-1, 0, 2} {
		if _, err := Disk(n, red); !errors.Is(err, ErrSlices) {
			t.Fatalf("Disk(%d)\nhave %v\nwant %v", n, err, ErrSlices)
		}
	}
	if _, err := Disk(geometry.DefaultCapacity, red); !errors.Is(err, geometry.ErrCapacity) {
		t.Fatalf("Disk: too many slices\nhave %v\nwant %v", err, geometry.ErrCapacity)
	}
	for _, n := range [...]int{3, 16, 100} {
		g, err := Disk(n, red)
		if err != nil {
			t.Fatalf("Disk(%d): unexpected error %v", n, err)
		}
		if x := g.Len(); x != 3*n {
			t.Fatalf("Disk(%d): Len\nhave %d\nwant %d", n, x, 3*n)
		}
		for i, v := range g.Vertices() {
			p := v.Position.XYZ()
			l := p.Len()
			if i%3 == 0 {
				if l != 0 || v.TexCoord != (linear.V2{0.5, 0.5}) {
					t.Fatalf("Disk(%d): vertex %d is not the center\nhave %v", n, i, v.Position)
				}
			} else if math32.Abs(l-1) > 1e-6 {
				t.Fatalf("Disk(%d): vertex %d not on the rim\nhave length %v", n, i, l)
			}
			if v.Normal != (linear.V4{0, 0, 1, 0}) {
				t.Fatalf("Disk(%d): vertex %d normal\nhave %v", n, i, v.Normal)
			}
			for _, x := range v.TexCoord {
				if x < 0 || x > 1 {
					t.Fatalf("Disk(%d): vertex %d texture coordinates\nhave %v", n, i, v.TexCoord)
				}
			}
		}
		// The last slice closes the disk.
		if g.Vertex(3*n-1).Position != g.Vertex(1).Position {
			t.Fatalf("Disk(%d): disk is not closed", n)
		}
		checkWinding(t, g)
	}
}

func TestAxes(t *testing.T) {
	g, err := Axes()
	if err != nil {
		t.Fatalf("Axes: unexpected error %v", err)
	}
	if g.Len() != 6 || g.Mode() != driver.TLine {
		t.Fatalf("Axes\nhave %d vertices, %v\nwant 6, TLine", g.Len(), g.Mode())
	}
	for i := 0; i < 3; i++ {
		o, e := g.Vertex(2*i), g.Vertex(2*i+1)
		var want linear.V4
		want[i], want[3] = 1, 1
		if o.Position != (linear.V4{0, 0, 0, 1}) || e.Position != want {
			t.Fatalf("Axes: segment %d\nhave %v - %v\nwant origin - %v", i, o.Position, e.Position, want)
		}
		if o.Color != e.Color || o.Color[i] != 1 {
			t.Fatalf("Axes: segment %d color\nhave %v", i, o.Color)
		}
	}
}

// Shapes go through the whole upload and draw path.
func TestUploadAndDraw(t *testing.T) {
	gpu, err := driver.Open("mem")
	if err != nil {
		t.Fatalf("driver.Open: unexpected error %v", err)
	}
	drv := gpu.Driver().(*mem.Driver)
	var in []driver.VertexIn
	for i, at := range geometry.DefaultAttribs() {
		in = append(in, driver.VertexIn{Format: at.Format, Nr: i, Name: at.Name})
	}
	prog, err := gpu.NewProgram(&driver.ProgramDesc{Input: in})
	if err != nil {
		t.Fatalf("GPU.NewProgram: unexpected error %v", err)
	}
	defer prog.Destroy()

	cube, _ := Cube(red)
	disk, _ := Disk(8, red)
	axes, _ := Axes()
	shapes := []*geometry.Geometry{cube, disk, axes}
	cb, _ := gpu.NewCmdBuffer()
	cb.Begin()
	for _, g := range shapes {
		if err := g.CreateBuffers(gpu, prog); err != nil {
			t.Fatalf("Geometry.CreateBuffers: unexpected error %v", err)
		}
		defer g.Release()
		if err := g.Draw(cb); err != nil {
			t.Fatalf("Geometry.Draw: unexpected error %v", err)
		}
	}
	if err := cb.End(); err != nil {
		t.Fatalf("CmdBuffer.End: unexpected error %v", err)
	}
	drv.ClearDraws()
	ch := make(chan error)
	gpu.Commit([]driver.CmdBuffer{cb}, ch)
	if err := <-ch; err != nil {
		t.Fatalf("GPU.Commit: unexpected error %v", err)
	}
	draws := drv.Draws()
	want := []struct {
		top  driver.Topology
		prim int
	}{
		{driver.TTriangle, 12},
		{driver.TTriangle, 8},
		{driver.TLine, 3},
	}
	if len(draws) != len(want) {
		t.Fatalf("mem.Driver.Draws: len\nhave %d\nwant %d", len(draws), len(want))
	}
	for i, w := range want {
		if draws[i].Topology != w.top || draws[i].Primitives != w.prim {
			t.Fatalf("draw %d\nhave %v, %d primitives\nwant %v, %d", i, draws[i].Topology, draws[i].Primitives, w.top, w.prim)
		}
	}
}

func TestTransform(t *testing.T) {
	g, _ := Cube(red)
	m := Placement(2, linear.V3{1, 0, -3})
	if err := Transform(g, m); err != nil {
		t.Fatalf("Transform: unexpected error %v", err)
	}
	for i, v := range g.Vertices() {
		if v.Position[3] != 1 || v.Normal[3] != 0 {
			t.Fatalf("Transform: vertex %d is not homogeneous\nhave %v, %v", i, v.Position, v.Normal)
		}
		for k, c := range [3]float32{1, 0, -3} {
			if x := v.Position[k] - c; x != 1 && x != -1 {
				t.Fatalf("Transform: vertex %d position\nhave %v", i, v.Position)
			}
		}
		n := v.Normal.XYZ()
		if l := n.Len(); math32.Abs(l-1) > 1e-6 {
			t.Fatalf("Transform: vertex %d normal length\nhave %v\nwant 1", i, l)
		}
		if v.Color != red {
			t.Fatalf("Transform: vertex %d color\nhave %v\nwant %v", i, v.Color, red)
		}
	}
	checkWinding(t, g)

	if err := Transform(g, mgl32.Scale3D(1, 0, 1)); !errors.Is(err, ErrSingular) {
		t.Fatalf("Transform: singular\nhave %v\nwant %v", err, ErrSingular)
	}
}

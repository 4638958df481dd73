// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mem

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gviegas/geom/driver"
)

func float32Bytes(v ...float32) []byte {
	p := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(x))
	}
	return p
}

func commit(t *testing.T, d *Driver, cb driver.CmdBuffer) error {
	t.Helper()
	ch := make(chan error)
	d.Commit([]driver.CmdBuffer{cb}, ch)
	return <-ch
}

func TestDriver(t *testing.T) {
	var d *Driver
	for _, x := range driver.Drivers() {
		if x.Name() == driverName {
			d = x.(*Driver)
		}
	}
	if d == nil {
		t.Fatalf("driver.Drivers: %q not registered", driverName)
	}
	gpu, err := d.Open()
	if err != nil {
		t.Fatalf("Driver.Open: unexpected error %v", err)
	}
	if gpu.Driver() != d {
		t.Fatal("GPU.Driver: unexpected Driver value")
	}
	if g2, _ := d.Open(); g2 != gpu {
		t.Fatal("Driver.Open: GPU instance changed")
	}
	lim := gpu.Limits()
	if lim.MaxVertexIn != maxVertexIn || lim.MaxBuffer != maxBuffer {
		t.Fatalf("GPU.Limits:\nhave %+v\nwant {%d %d}", lim, maxVertexIn, maxBuffer)
	}
}

func TestBuffer(t *testing.T) {
	d := &Driver{}
	d.Open()
	for _, s := range [...]int64{0, -1, maxBuffer + 1} {
		if _, err := d.NewBuffer(s, true, driver.UVertexData); err == nil {
			t.Fatalf("NewBuffer: size %d\nhave nil error\nwant non-nil", s)
		}
	}
	buf, err := d.NewBuffer(64, false, driver.UVertexData)
	if err != nil {
		t.Fatalf("NewBuffer: unexpected error %v", err)
	}
	if n := d.LiveBuffers(); n != 1 {
		t.Fatalf("LiveBuffers:\nhave %d\nwant 1", n)
	}
	if buf.Bytes() != nil || buf.Visible() {
		t.Fatal("Buffer.Bytes: non-visible buffer exposes its memory")
	}
	if c := buf.Cap(); c != 64 {
		t.Fatalf("Buffer.Cap:\nhave %d\nwant 64", c)
	}
	data := []byte{1, 2, 3, 4}
	if err := buf.Write(60, data); err != nil {
		t.Fatalf("Buffer.Write: unexpected error %v", err)
	}
	if err := buf.Write(61, data); err == nil {
		t.Fatal("Buffer.Write: out of bounds write succeeded")
	}
	p := make([]byte, 4)
	if err := buf.Read(60, p); err != nil {
		t.Fatalf("Buffer.Read: unexpected error %v", err)
	}
	if string(p) != string(data) {
		t.Fatalf("Buffer.Read:\nhave %v\nwant %v", p, data)
	}
	if err := buf.Read(-1, p); err == nil {
		t.Fatal("Buffer.Read: negative offset succeeded")
	}
	buf.Destroy()
	buf.Destroy()
	if n := d.LiveBuffers(); n != 0 {
		t.Fatalf("LiveBuffers:\nhave %d\nwant 0", n)
	}
	if err := buf.Write(0, data); err == nil {
		t.Fatal("Buffer.Write: write to destroyed buffer succeeded")
	}
}

func TestProgram(t *testing.T) {
	d := &Driver{}
	d.Open()
	bad := [][]driver.VertexIn{
		{{Format: driver.Float32x4, Nr: 0}},
		{{Format: driver.Float32x4, Nr: -1, Name: "a"}},
		{{Format: driver.Float32x4, Nr: 0, Name: "a"}, {Format: driver.Float32x2, Nr: 0, Name: "b"}},
		{{Format: driver.Float32x4, Nr: 0, Name: "a"}, {Format: driver.Float32x2, Nr: 1, Name: "a"}},
	}
	for _, in := range bad {
		if _, err := d.NewProgram(&driver.ProgramDesc{Input: in}); err == nil {
			t.Fatalf("NewProgram: %v\nhave nil error\nwant non-nil", in)
		}
	}
	prog, err := d.NewProgram(&driver.ProgramDesc{Input: []driver.VertexIn{
		{Format: driver.Float32x4, Nr: 2, Name: "vPosition", Stride: 99},
		{Format: driver.Float32x2, Nr: 5, Name: "vTexture"},
	}})
	if err != nil {
		t.Fatalf("NewProgram: unexpected error %v", err)
	}
	in, ok := prog.Input("vPosition")
	if !ok || in.Nr != 2 || in.Format != driver.Float32x4 || in.Stride != 0 {
		t.Fatalf("Program.Input:\nhave %+v, %t\nwant {Float32x4 0 2 vPosition}, true", in, ok)
	}
	if _, ok := prog.Input("vColor"); ok {
		t.Fatal("Program.Input: found undeclared input")
	}
	if n := len(prog.Inputs()); n != 2 {
		t.Fatalf("Program.Inputs: len\nhave %d\nwant 2", n)
	}
	_, err = d.NewPipeline(&driver.GraphState{
		Program:  prog,
		Input:    []driver.VertexIn{{Format: driver.Float32x3, Nr: 2, Name: "vPosition"}},
		Topology: driver.TTriangle,
	})
	if err == nil {
		t.Fatal("NewPipeline: format mismatch accepted")
	}
	_, err = d.NewPipeline(&driver.GraphState{
		Program:  prog,
		Input:    []driver.VertexIn{{Format: driver.Float32x4, Nr: 3, Name: "vPosition"}},
		Topology: driver.TTriangle,
	})
	if err == nil {
		t.Fatal("NewPipeline: location mismatch accepted")
	}
	if _, err = d.NewPipeline(driver.GraphState{}); err == nil {
		t.Fatal("NewPipeline: non-pointer state accepted")
	}
}

func TestDraw(t *testing.T) {
	d := &Driver{}
	d.Open()
	prog, _ := d.NewProgram(&driver.ProgramDesc{Input: []driver.VertexIn{
		{Format: driver.Float32x4, Nr: 0, Name: "vPosition"},
		{Format: driver.Float32x2, Nr: 1, Name: "vTexture"},
	}})
	pl, err := d.NewPipeline(&driver.GraphState{
		Program: prog,
		Input: []driver.VertexIn{
			{Format: driver.Float32x4, Nr: 0, Name: "vPosition"},
			{Format: driver.Float32x2, Nr: 1, Name: "vTexture", Stride: 8},
		},
		Topology: driver.TTriangle,
	})
	if err != nil {
		t.Fatalf("NewPipeline: unexpected error %v", err)
	}
	buf, _ := d.NewBuffer(3*16+3*8, true, driver.UVertexData)
	buf.Write(0, float32Bytes(
		0, 0, 0, 1,
		1, 0, 0, 1,
		0, 1, 0, 1,
	))
	buf.Write(48, float32Bytes(0, 0, 1, 0, 0, 1))

	cb, _ := d.NewCmdBuffer()
	if err := cb.Begin(); err != nil {
		t.Fatalf("CmdBuffer.Begin: unexpected error %v", err)
	}
	cb.SetPipeline(pl)
	cb.SetVertexBuf(0, []driver.Buffer{buf, buf}, []int64{0, 48})
	cb.Draw(3, 2, 0, 0)
	if err := cb.End(); err != nil {
		t.Fatalf("CmdBuffer.End: unexpected error %v", err)
	}
	if err := commit(t, d, cb); err != nil {
		t.Fatalf("GPU.Commit: unexpected error %v", err)
	}
	draws := d.Draws()
	if len(draws) != 1 {
		t.Fatalf("Draws: len\nhave %d\nwant 1", len(draws))
	}
	dc := draws[0]
	if dc.Topology != driver.TTriangle || dc.Vertices != 3 || dc.Instances != 2 || dc.Primitives != 2 {
		t.Fatalf("DrawCall:\nhave %v %d %d %d\nwant TTriangle 3 2 2", dc.Topology, dc.Vertices, dc.Instances, dc.Primitives)
	}
	if x := dc.Attribs["vPosition"][1]; x[0] != 1 || x[3] != 1 {
		t.Fatalf("DrawCall.Attribs: vPosition[1]\nhave %v\nwant [1 0 0 1]", x)
	}
	if x := dc.Attribs["vTexture"][2]; len(x) != 2 || x[0] != 0 || x[1] != 1 {
		t.Fatalf("DrawCall.Attribs: vTexture[2]\nhave %v\nwant [0 1]", x)
	}

	// Out of bounds fetch.
	d.ClearDraws()
	cb.Begin()
	cb.SetPipeline(pl)
	cb.SetVertexBuf(0, []driver.Buffer{buf, buf}, []int64{0, 48})
	cb.Draw(4, 1, 0, 0)
	cb.End()
	if err := commit(t, d, cb); err == nil {
		t.Fatal("GPU.Commit: out of bounds draw succeeded")
	}
	if n := len(d.Draws()); n != 0 {
		t.Fatalf("Draws: len after failed commit\nhave %d\nwant 0", n)
	}

	// Recording without Begin.
	cb.SetPipeline(pl)
	if err := cb.End(); err == nil {
		t.Fatal("CmdBuffer.End: recording without Begin succeeded")
	}

	// Commit without End.
	cb.Begin()
	if err := commit(t, d, cb); err == nil {
		t.Fatal("GPU.Commit: committed a command buffer that was not ended")
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		f    driver.VertexFmt
		p    []byte
		want []float32
	}{
		{driver.Int8x2, []byte{0xff, 0x7f}, []float32{-1, 127}},
		{driver.UInt8, []byte{0xff}, []float32{255}},
		{driver.Int16, []byte{0xfe, 0xff}, []float32{-2}},
		{driver.UInt16x2, []byte{1, 0, 0, 1}, []float32{1, 256}},
		{driver.Int32, []byte{0xff, 0xff, 0xff, 0xff}, []float32{-1}},
		{driver.UInt32, []byte{0, 0, 1, 0}, []float32{65536}},
		{driver.Float32x2, float32Bytes(0.5, -2), []float32{0.5, -2}},
	}
	for _, c := range cases {
		v := decode(c.f, c.p)
		if len(v) != len(c.want) {
			t.Fatalf("decode: %v\nhave %v\nwant %v", c.f, v, c.want)
		}
		for i := range v {
			if v[i] != c.want[i] {
				t.Fatalf("decode: %v\nhave %v\nwant %v", c.f, v, c.want)
			}
		}
	}
}

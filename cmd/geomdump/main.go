// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Geomdump builds a shape, uploads it to the GPU, draws it
// once and checks that the buffer contents read back match
// the source data.
//
// Usage:
//
//	geomdump [-config file] [-driver name] [-shape cube|disk|axes] [-slices n] [-print] [-v]
package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/gviegas/geom/driver"
	_ "github.com/gviegas/geom/driver/gl"
	_ "github.com/gviegas/geom/driver/mem"
	"github.com/gviegas/geom/geometry"
)

//go:embed shader/vertex.glsl
var vertSrc []byte

//go:embed shader/fragment.glsl
var fragSrc []byte

func init() {
	// OpenGL contexts belong to the thread that creates them.
	runtime.LockOSThread()
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "configuration file (.toml, .yaml)")
		drvName  = flag.String("driver", "", "driver name (mem, opengl)")
		shp      = flag.String("shape", "", "shape to build (cube, disk, axes)")
		slices   = flag.Int("slices", 0, "number of disk slices")
		printArr = flag.Bool("print", false, "print the vertex arrays")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	driver.SetLogger(log)
	geometry.SetLogger(log)

	cfg := DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = LoadConfig(*cfgPath); err != nil {
			log.Error("invalid configuration", "err", err)
			os.Exit(2)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *drvName
		case "shape":
			cfg.Shape = *shp
		case "slices":
			cfg.Slices = *slices
		case "print":
			cfg.Print = *printArr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	if err := run(&cfg, os.Stdout, log); err != nil {
		log.Error("geomdump failed", "err", err)
		os.Exit(1)
	}
}

// run builds, uploads, draws and verifies the configured
// shape, writing a report to w.
func run(cfg *Config, w io.Writer, log *slog.Logger) error {
	gpu, err := driver.Open(cfg.Driver)
	if err != nil {
		return err
	}
	defer gpu.Driver().Close()

	g, err := cfg.build()
	if err != nil {
		return err
	}
	prog, err := gpu.NewProgram(programDesc(g.Attribs()))
	if err != nil {
		return err
	}
	defer prog.Destroy()

	if err := g.CreateBuffers(gpu, prog); err != nil {
		return err
	}
	defer g.Release()

	cb, err := gpu.NewCmdBuffer()
	if err != nil {
		return err
	}
	defer cb.Destroy()
	if err := cb.Begin(); err != nil {
		return err
	}
	if err := g.Draw(cb); err != nil {
		cb.Reset()
		return err
	}
	if err := cb.End(); err != nil {
		return err
	}
	ch := make(chan error)
	gpu.Commit([]driver.CmdBuffer{cb}, ch)
	if err := <-ch; err != nil {
		return err
	}
	log.Info("shape drawn", "driver", gpu.Driver().Name(), "shape", cfg.Shape, "vertices", g.Len())

	if err := verify(g); err != nil {
		return err
	}
	l := g.Layout()
	fmt.Fprintf(w, "%v\n", g)
	for r := geometry.Role(0); r < geometry.MaxRole; r++ {
		fmt.Fprintf(w, "%-8v offset %6d  size %6d  stride %2d  %s\n",
			r, l.Offsets[r], l.Sizes[r], l.Stride(r), g.Attribs()[r].Name)
	}
	if cfg.Print {
		return g.PrintArrays(w)
	}
	return nil
}

// programDesc describes a program whose inputs match the
// attribute table a.
// Drivers that compile shaders use the embedded sources
// instead and report their own inputs.
func programDesc(a geometry.Attribs) *driver.ProgramDesc {
	desc := &driver.ProgramDesc{VertSrc: vertSrc, FragSrc: fragSrc}
	for i, at := range a {
		desc.Input = append(desc.Input, driver.VertexIn{Format: at.Format, Nr: i, Name: at.Name})
	}
	return desc
}

// verify checks that g's buffer holds g's vertex data.
func verify(g *geometry.Geometry) error {
	back, err := g.ReadBuffers()
	if err != nil {
		return err
	}
	src := g.Vertices()
	if len(back) != len(src) {
		return errors.New("readback: vertex count mismatch")
	}
	for i := range src {
		a, b := src[i], back[i]
		for k := 0; k < 4; k++ {
			if !same(a.Position[k], b.Position[k]) || !same(a.Color[k], b.Color[k]) || !same(a.Normal[k], b.Normal[k]) {
				return fmt.Errorf("readback: vertex %d differs", i)
			}
		}
		if !same(a.TexCoord[0], b.TexCoord[0]) || !same(a.TexCoord[1], b.TexCoord[1]) {
			return fmt.Errorf("readback: vertex %d differs", i)
		}
	}
	return nil
}

func same(x, y float32) bool { return math.Float32bits(x) == math.Float32bits(y) }

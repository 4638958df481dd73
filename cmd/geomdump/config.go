// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/geom/geometry"
	"github.com/gviegas/geom/linear"
	"github.com/gviegas/geom/shape"
)

// Config is the configuration of a geomdump run.
// It can be read from a TOML or YAML file; flags override
// the values read.
type Config struct {
	// Driver is the name of the driver to open.
	// Empty means the first driver that can be opened.
	Driver string `toml:"driver" yaml:"driver"`
	// Shape is one of "cube", "disk" or "axes".
	Shape string `toml:"shape" yaml:"shape"`
	// Slices is the number of slices of a disk.
	Slices int `toml:"slices" yaml:"slices"`
	// Color is the RGBA color of cubes and disks.
	Color [4]float32 `toml:"color" yaml:"color"`
	// Attribs overrides attribute names, keyed by role
	// ("position", "color", "normal" or "texcoord").
	Attribs map[string]string `toml:"attribs" yaml:"attribs"`
	// Scale and Translate place the shape. Scale is applied
	// first.
	Scale     float32    `toml:"scale" yaml:"scale"`
	Translate [3]float32 `toml:"translate" yaml:"translate"`
	// Print enables printing of the vertex arrays.
	Print bool `toml:"print" yaml:"print"`
}

// DefaultConfig returns the configuration used when no
// file is given.
func DefaultConfig() Config {
	return Config{
		Driver: "mem",
		Shape:  "cube",
		Slices: 32,
		Color:  [4]float32{1, 1, 1, 1},
		Scale:  1,
	}
}

// LoadConfig reads a configuration file on top of
// DefaultConfig. The format is chosen by extension:
// .toml, .yaml or .yml.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		err = fmt.Errorf("unknown config format %q", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that cfg describes a shape that can be
// built.
func (cfg *Config) Validate() error {
	switch cfg.Shape {
	case "cube", "axes":
	case "disk":
		if cfg.Slices < 3 {
			return shape.ErrSlices
		}
	default:
		return fmt.Errorf("unknown shape %q", cfg.Shape)
	}
	if cfg.Scale == 0 {
		return shape.ErrSingular
	}
	_, err := cfg.attribs()
	return err
}

// roles maps configuration keys to attribute roles.
var roles = map[string]geometry.Role{
	"position": geometry.Position,
	"color":    geometry.Color,
	"normal":   geometry.Normal,
	"texcoord": geometry.TexCoord,
}

// attribs returns the attribute table with the names in
// cfg.Attribs applied.
func (cfg *Config) attribs() (geometry.Attribs, error) {
	a := geometry.DefaultAttribs()
	for k, name := range cfg.Attribs {
		r, ok := roles[strings.ToLower(k)]
		if !ok {
			return a, fmt.Errorf("unknown attribute role %q", k)
		}
		if name == "" {
			return a, errors.New("empty attribute name for " + k)
		}
		a[r].Name = name
	}
	return a, nil
}

// build creates the configured shape.
func (cfg *Config) build() (*geometry.Geometry, error) {
	var g *geometry.Geometry
	var err error
	color := linear.V4(cfg.Color)
	switch cfg.Shape {
	case "cube":
		g, err = shape.Cube(color)
	case "disk":
		g, err = shape.Disk(cfg.Slices, color)
	case "axes":
		g, err = shape.Axes()
	default:
		err = fmt.Errorf("unknown shape %q", cfg.Shape)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Scale != 1 || cfg.Translate != ([3]float32{}) {
		if err := shape.Transform(g, shape.Placement(cfg.Scale, cfg.Translate)); err != nil {
			return nil, err
		}
	}
	a, err := cfg.attribs()
	if err != nil {
		return nil, err
	}
	if err := g.SetAttribs(a); err != nil {
		return nil, err
	}
	return g, nil
}

/*
Copyright © 2020 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/spatialmodel/topography/advect"
	"github.com/spatialmodel/topography/geometry"
	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/levelset"
)

// Config describes an advection case.
type Config struct {
	Grid      GridConfig      `toml:"grid" mapstructure:"grid"`
	Layers    []LayerConfig   `toml:"layers" mapstructure:"layers"`
	Advection AdvectionConfig `toml:"advection" mapstructure:"advection"`
	Output    OutputConfig    `toml:"output" mapstructure:"output"`
}

// GridConfig describes the grid all layers share.
type GridConfig struct {
	Dims    int     `toml:"dims" mapstructure:"dims"`
	Spacing float64 `toml:"spacing" mapstructure:"spacing"`

	// Bounds holds the lower and upper bound of each dimension as
	// [lo0, hi0, lo1, hi1, ...].
	Bounds []float64 `toml:"bounds" mapstructure:"bounds"`

	// Boundaries holds "infinite", "periodic" or "reflective" for each
	// dimension.
	Boundaries []string `toml:"boundaries" mapstructure:"boundaries"`

	// Width is the band width the layers are created with.
	Width int `toml:"width" mapstructure:"width"`
}

// LayerConfig describes the geometry of one material layer. Layers are
// listed from the bottom up, and every layer is combined with the ones
// below it so that it contains them.
type LayerConfig struct {
	Name  string `toml:"name" mapstructure:"name"`
	Shape string `toml:"shape" mapstructure:"shape"` // sphere, plane or box

	Center []float64 `toml:"center" mapstructure:"center"`
	Radius float64   `toml:"radius" mapstructure:"radius"`

	Origin []float64 `toml:"origin" mapstructure:"origin"`
	Normal []float64 `toml:"normal" mapstructure:"normal"`

	Min []float64 `toml:"min" mapstructure:"min"`
	Max []float64 `toml:"max" mapstructure:"max"`
}

// AdvectionConfig describes the velocity field and the numerics.
type AdvectionConfig struct {
	Scheme           string    `toml:"scheme" mapstructure:"scheme"`
	Integrator       string    `toml:"integrator" mapstructure:"integrator"`
	Time             float64   `toml:"time" mapstructure:"time"`
	TimeStepRatio    float64   `toml:"time_step_ratio" mapstructure:"time_step_ratio"`
	DissipationAlpha float64   `toml:"dissipation_alpha" mapstructure:"dissipation_alpha"`
	Velocity         float64   `toml:"velocity" mapstructure:"velocity"`
	Vector           []float64 `toml:"vector" mapstructure:"vector"`
	IgnoreVoids      bool      `toml:"ignore_voids" mapstructure:"ignore_voids"`
	SaveVelocities   bool      `toml:"save_velocities" mapstructure:"save_velocities"`

	// Materials maps layer names to factors of the velocity. Layers that
	// are not listed do not move. If Materials is empty, all layers
	// move.
	Materials map[string]interface{} `toml:"materials" mapstructure:"materials"`
}

// OutputConfig describes where results are written.
type OutputConfig struct {
	// Prefix is prepended to the file name of each layer.
	Prefix string `toml:"prefix" mapstructure:"prefix"`

	// Plot, if not empty, is the path of a PNG image of the final
	// surfaces. Only 2D cases can be plotted.
	Plot string `toml:"plot" mapstructure:"plot"`
}

// NewGrid returns the grid described by c.
func (c *GridConfig) NewGrid() (*grid.Grid, error) {
	boundaries := make([]grid.Boundary, len(c.Boundaries))
	for i, s := range c.Boundaries {
		b, err := grid.ParseBoundary(s)
		if err != nil {
			return nil, fmt.Errorf("topography: grid: %w", err)
		}
		boundaries[i] = b
	}
	return grid.New(c.Dims, c.Spacing, c.Bounds, boundaries)
}

// name returns the name of layer i.
func (c *Config) name(i int) string {
	if n := c.Layers[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("layer%d", i)
}

func vector(v []float64, dims int, field string) ([3]float64, error) {
	var o [3]float64
	if len(v) != dims {
		return o, fmt.Errorf("%s needs %d values, got %d", field, dims, len(v))
	}
	copy(o[:], v)
	return o, nil
}

// shape returns the geometry of the layer.
func (l *LayerConfig) shape(dims int) (geometry.Shape, error) {
	switch strings.ToLower(l.Shape) {
	case "sphere":
		c, err := vector(l.Center, dims, "center")
		if err != nil {
			return nil, err
		}
		return geometry.Sphere{Center: c, Radius: l.Radius}, nil
	case "plane":
		o, err := vector(l.Origin, dims, "origin")
		if err != nil {
			return nil, err
		}
		n, err := vector(l.Normal, dims, "normal")
		if err != nil {
			return nil, err
		}
		return geometry.Plane{Origin: o, Normal: n}, nil
	case "box":
		lo, err := vector(l.Min, dims, "min")
		if err != nil {
			return nil, err
		}
		hi, err := vector(l.Max, dims, "max")
		if err != nil {
			return nil, err
		}
		return geometry.Box{Min: lo, Max: hi}, nil
	}
	return nil, fmt.Errorf("invalid shape %q", l.Shape)
}

// NewLayers creates the layers on g.
func (c *Config) NewLayers(g *grid.Grid) ([]*levelset.Domain, error) {
	if len(c.Layers) == 0 {
		return nil, fmt.Errorf("topography: no layers")
	}
	width := c.Grid.Width
	if width == 0 {
		width = 2
	}
	layers := make([]*levelset.Domain, len(c.Layers))
	for i := range c.Layers {
		s, err := c.Layers[i].shape(g.Dims())
		if err != nil {
			return nil, fmt.Errorf("topography: layer %s: %w", c.name(i), err)
		}
		d, err := geometry.Make(g, width, s)
		if err != nil {
			return nil, fmt.Errorf("topography: layer %s: %w", c.name(i), err)
		}
		if i > 0 {
			if err := d.Boolean(layers[i-1], levelset.Union); err != nil {
				return nil, fmt.Errorf("topography: layer %s: %w", c.name(i), err)
			}
		}
		layers[i] = d
	}
	return layers, nil
}

// Velocity returns the velocity field.
func (c *Config) Velocity(dims int) (advect.ConstantVelocity, error) {
	v := advect.ConstantVelocity{Scalar: c.Advection.Velocity}
	if c.Advection.Vector != nil {
		vec, err := vector(c.Advection.Vector, dims, "vector")
		if err != nil {
			return v, fmt.Errorf("topography: velocity: %w", err)
		}
		v.Vector = vec
	}
	if len(c.Advection.Materials) == 0 {
		return v, nil
	}
	factors := make(map[string]float64, len(c.Advection.Materials))
	for name, f := range c.Advection.Materials {
		x, err := cast.ToFloat64E(f)
		if err != nil {
			return v, fmt.Errorf("topography: material %s: %w", name, err)
		}
		factors[strings.ToLower(name)] = x
	}
	v.Materials = make([]float64, len(c.Layers))
	for i := range c.Layers {
		v.Materials[i] = factors[strings.ToLower(c.name(i))]
		delete(factors, strings.ToLower(c.name(i)))
	}
	for name := range factors {
		return v, fmt.Errorf("topography: material %s is not a layer", name)
	}
	return v, nil
}

// NewAdvector returns an Advector for the layers.
func (c *Config) NewAdvector(layers []*levelset.Domain, log logrus.FieldLogger) (*advect.Advector, error) {
	v, err := c.Velocity(layers[0].Grid().Dims())
	if err != nil {
		return nil, err
	}
	a := advect.New(layers, v)
	a.Log = log
	if c.Advection.Scheme != "" {
		if a.Scheme, err = advect.ParseSpatialScheme(c.Advection.Scheme); err != nil {
			return nil, err
		}
	}
	if c.Advection.Integrator != "" {
		if a.Integrator, err = advect.ParseTemporalScheme(c.Advection.Integrator); err != nil {
			return nil, err
		}
	}
	if c.Advection.TimeStepRatio != 0 {
		a.TimeStepRatio = c.Advection.TimeStepRatio
	}
	if c.Advection.DissipationAlpha != 0 {
		a.DissipationAlpha = c.Advection.DissipationAlpha
	}
	a.AdvectionTime = c.Advection.Time
	a.IgnoreVoids = c.Advection.IgnoreVoids
	a.SaveVelocities = c.Advection.SaveVelocities
	return a, nil
}

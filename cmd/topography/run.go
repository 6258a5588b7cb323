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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/topography/levelset"
	"github.com/spatialmodel/topography/plot"
)

// Run creates, advects and writes the layers of case c. It returns the
// paths of the files it wrote.
func Run(ctx context.Context, c *Config, log logrus.FieldLogger) ([]string, error) {
	g, err := c.Grid.NewGrid()
	if err != nil {
		return nil, err
	}
	layers, err := c.NewLayers(g)
	if err != nil {
		return nil, err
	}
	a, err := c.NewAdvector(layers, log)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"grid":       g,
		"layers":     len(layers),
		"scheme":     a.Scheme,
		"integrator": a.Integrator,
	}).Info("topography: starting advection")
	if err := a.Apply(ctx); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"advected": a.AdvectedTime(),
		"steps":    a.NumTimeSteps(),
	}).Info("topography: advection done")

	var files []string
	for i, l := range layers {
		path := c.Output.Prefix + c.name(i) + ".lvst"
		if err := writeDomain(path, l); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	if c.Output.Plot != "" {
		names := make([]string, len(layers))
		for i := range layers {
			names[i] = c.name(i)
		}
		if err := writePlot(c.Output.Plot, names, layers); err != nil {
			return files, err
		}
		files = append(files, c.Output.Plot)
	}
	return files, nil
}

func writeDomain(path string, d *levelset.Domain) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("topography: %w", err)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("topography: writing %s: %w", path, err)
	}
	return f.Close()
}

func writePlot(path string, names []string, layers []*levelset.Domain) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("topography: %w", err)
	}
	if err := plot.Render(f, plot.Options{Names: names}, layers...); err != nil {
		f.Close()
		return fmt.Errorf("topography: plotting %s: %w", path, err)
	}
	return f.Close()
}

// summary describes a level set file.
type summary struct {
	File     string
	Grid     string
	Width    int
	Points   int
	Segments int
	Scalars  []string
	Vectors  []string
	Problems string

	// Shape is the shape of the dense array over the nominal grid
	// bounds, highest dimension first.
	Shape []int
	// Inside is the fraction of grid points within the nominal bounds
	// that lie inside the surface.
	Inside float64
}

func readDomain(path string) (*levelset.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topography: %w", err)
	}
	defer f.Close()
	d := new(levelset.Domain)
	if _, err := d.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("topography: %s: %w", path, err)
	}
	return d, nil
}

func describe(path string, d *levelset.Domain) summary {
	s := summary{
		File:     path,
		Grid:     d.Grid().String(),
		Width:    d.Width(),
		Points:   d.NumPoints(),
		Segments: d.NumSegments(),
	}
	pd := d.PointData()
	for i := 0; i < pd.NumScalars(); i++ {
		s.Scalars = append(s.Scalars, pd.ScalarLabel(i))
	}
	for i := 0; i < pd.NumVectors(); i++ {
		s.Vectors = append(s.Vectors, pd.VectorLabel(i))
	}
	if err := d.Check(); err != nil {
		s.Problems = err.Error()
	}
	dense := d.Dense()
	s.Shape = dense.Shape
	var inside int
	for _, v := range dense.Elements {
		if v < 0 {
			inside++
		}
	}
	if len(dense.Elements) > 0 {
		s.Inside = float64(inside) / float64(len(dense.Elements))
	}
	return s
}

// Info writes a summary of each level set file to w.
func Info(w io.Writer, paths ...string) error {
	for _, path := range paths {
		d, err := readDomain(path)
		if err != nil {
			return err
		}
		if _, err := pretty.Fprintf(w, "%# v\n", describe(path, d)); err != nil {
			return err
		}
	}
	return nil
}

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

// Package plot draws the surfaces of 2D level sets.
package plot

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spatialmodel/topography/levelset"
)

// XYs implements the gonum.org/v1/plot/plotter.XYer interface.
type XYs []XY

// XY is an x and y value.
type XY struct{ X, Y float64 }

// Len returns the number of X,Y pairs.
func (xys XYs) Len() int {
	return len(xys)
}

// XY return the x and y values at index i, where i < Len()
func (xys XYs) XY(i int) (float64, float64) {
	return xys[i].X, xys[i].Y
}

// ZeroCrossings returns the locations, in physical units, where the level
// set changes sign between two defined grid points that are neighbors in
// the first or second dimension. The locations are interpolated linearly.
// Neighbors across a periodic or reflective boundary are not considered.
func ZeroCrossings(d *levelset.Domain) XYs {
	g := d.Grid()
	h := d.HRLE()
	var o XYs
	for p := range d.Points() {
		for k := 0; k < 2; k++ {
			n := g.Neighbor(p.Index, k, 1)
			if n[k] != p.Index[k]+1 {
				continue
			}
			c := h.Lookup(n)
			if !c.Defined() || (p.Value < 0) == (c.Value < 0) {
				continue
			}
			x := g.Coordinate(p.Index)
			x[k] += p.Value / (p.Value - c.Value) * g.Delta()
			o = append(o, XY{X: x[0], Y: x[1]})
		}
	}
	return o
}

// Options configures Render.
type Options struct {
	Title         string
	Width, Height vg.Length

	// Names labels the layers in the legend. Layers without a name are
	// numbered.
	Names []string
}

// Render draws the zero crossings of each layer as a scatter plot and
// writes it to w as a PNG image.
func Render(w io.Writer, opt Options, layers ...*levelset.Domain) error {
	if opt.Width == 0 {
		opt.Width = 6 * vg.Inch
	}
	if opt.Height == 0 {
		opt.Height = 4 * vg.Inch
	}
	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())
	for i, l := range layers {
		if l.Grid().Dims() != 2 {
			return fmt.Errorf("plot: layer %d has %d dimensions, want 2", i, l.Grid().Dims())
		}
		xys := ZeroCrossings(l)
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("plot: layer %d: %w", i, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		name := fmt.Sprintf("layer %d", i)
		if i < len(opt.Names) && opt.Names[i] != "" {
			name = opt.Names[i]
		}
		p.Legend.Add(name, s)
	}
	wt, err := p.WriterTo(opt.Width, opt.Height, "png")
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

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

// Package geometry creates level sets of simple shapes.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
	"github.com/spatialmodel/topography/levelset"
)

// A Shape is a solid described by its signed distance function.
type Shape interface {
	// Distance returns the signed distance of x from the surface of
	// the shape, negative inside.
	Distance(x [3]float64) float64

	// Region returns the index range of g outside of which the distance
	// is larger than pad grid units in magnitude and has the same sign
	// along every axis line leaving the range.
	Region(g *grid.Grid, pad float64) (lo, hi grid.Index, err error)
}

// Make returns a level set of the given band width on g that describes s.
func Make(g *grid.Grid, width int, s Shape) (*levelset.Domain, error) {
	if width < 1 {
		return nil, fmt.Errorf("geometry: invalid band width %d", width)
	}
	lo, hi, err := s.Region(g, float64(width)*0.5+1)
	if err != nil {
		return nil, err
	}
	gmin, gmax := g.Min(), g.Max()
	for k := 0; k < g.Dims(); k++ {
		lo[k] = max(lo[k], gmin[k])
		hi[k] = min(hi[k], gmax[k])
		if lo[k] > hi[k] {
			return nil, fmt.Errorf("geometry: shape %T lies outside of the grid in dimension %d", s, k)
		}
	}
	m := &maker{g: g, s: s, lo: lo, hi: hi, limit: float64(width) * 0.5}
	return levelset.FromEvents(g, width, func(b *hrle.Builder) {
		m.b = b
		m.fill(g.Dims()-1, grid.Index{})
	})
}

type maker struct {
	g      *grid.Grid
	s      Shape
	lo, hi grid.Index
	limit  float64
	b      *hrle.Builder
}

// distance returns the distance at i in grid units.
func (m *maker) distance(i grid.Index) float64 {
	return m.s.Distance(m.g.Coordinate(i)) / m.g.Delta()
}

// fill inserts dimension k of the region and the slabs around it.
func (m *maker) fill(k int, h grid.Index) {
	gmin, gmax := m.g.Min(), m.g.Max()
	slab := func(c, near int) {
		i := h
		for j := 0; j < k; j++ {
			i[j] = gmin[j]
		}
		i[k] = c
		// The sign of the whole slab is taken next to the region.
		r := h
		for j := 0; j < k; j++ {
			r[j] = (m.lo[j] + m.hi[j]) / 2
		}
		r[k] = near
		m.b.Undefined(i, m.distance(r) < 0)
	}
	if m.lo[k] > gmin[k] {
		slab(gmin[k], m.lo[k]-1)
	}
	for c := m.lo[k]; c <= m.hi[k]; c++ {
		if k > 0 {
			sub := h
			sub[k] = c
			m.fill(k-1, sub)
			continue
		}
		i := h
		i[0] = c
		v := m.distance(i)
		if math.Abs(v) <= m.limit {
			m.b.Defined(i, v, -1)
		} else {
			m.b.Undefined(i, v < 0)
		}
	}
	if m.hi[k] < gmax[k] {
		slab(m.hi[k]+1, m.hi[k]+1)
	}
}

// indexRange returns the index range [floor(a/delta), ceil(b/delta)].
func indexRange(g *grid.Grid, a, b float64) (int, int) {
	lo := math.Floor(a / g.Delta())
	hi := math.Ceil(b / g.Delta())
	lo = math.Max(lo, math.MinInt32)
	hi = math.Min(hi, math.MaxInt32)
	return int(lo), int(hi)
}

// Sphere is a ball around Center.
type Sphere struct {
	Center [3]float64
	Radius float64
}

// Distance implements Shape.
func (s Sphere) Distance(x [3]float64) float64 {
	d := x
	floats.Sub(d[:], s.Center[:])
	return floats.Norm(d[:], 2) - s.Radius
}

// Region implements Shape.
func (s Sphere) Region(g *grid.Grid, pad float64) (lo, hi grid.Index, err error) {
	if !(s.Radius > 0) {
		return lo, hi, fmt.Errorf("geometry: sphere radius must be positive, got %g", s.Radius)
	}
	r := s.Radius + pad*g.Delta()
	for k := 0; k < g.Dims(); k++ {
		lo[k], hi[k] = indexRange(g, s.Center[k]-r, s.Center[k]+r)
	}
	return lo, hi, nil
}

// Box is an axis aligned box between the corners Min and Max. Dimensions
// in which Min and Max coincide are ignored, so a box without extent in
// z is a rectangle.
type Box struct {
	Min, Max [3]float64
}

// Distance implements Shape.
func (b Box) Distance(x [3]float64) float64 {
	var outside, inside float64
	inside = math.Inf(-1)
	for k := 0; k < 3; k++ {
		if b.Min[k] == b.Max[k] {
			continue
		}
		c := 0.5 * (b.Min[k] + b.Max[k])
		h := 0.5 * (b.Max[k] - b.Min[k])
		q := math.Abs(x[k]-c) - h
		if q > 0 {
			outside += q * q
		}
		inside = math.Max(inside, q)
	}
	if outside > 0 {
		return math.Sqrt(outside)
	}
	return math.Min(inside, 0)
}

// Region implements Shape.
func (b Box) Region(g *grid.Grid, pad float64) (lo, hi grid.Index, err error) {
	for k := 0; k < g.Dims(); k++ {
		if b.Min[k] > b.Max[k] {
			return lo, hi, fmt.Errorf("geometry: box minimum %g greater than maximum %g in dimension %d",
				b.Min[k], b.Max[k], k)
		}
		lo[k], hi[k] = indexRange(g, b.Min[k]-pad*g.Delta(), b.Max[k]+pad*g.Delta())
	}
	return lo, hi, nil
}

// Plane is the half space below the plane through Origin with the given
// Normal. The normal points out of the solid.
type Plane struct {
	Origin, Normal [3]float64
}

// Distance implements Shape.
func (p Plane) Distance(x [3]float64) float64 {
	n := p.Normal
	floats.Scale(1/floats.Norm(n[:], 2), n[:])
	d := x
	floats.Sub(d[:], p.Origin[:])
	return floats.Dot(n[:], d[:])
}

// Region implements Shape. Every dimension except the one in which the
// normal is largest must be bounded.
func (p Plane) Region(g *grid.Grid, pad float64) (lo, hi grid.Index, err error) {
	D := g.Dims()
	n := p.Normal
	if floats.Norm(n[:D], 2) == 0 {
		return lo, hi, fmt.Errorf("geometry: plane normal must not be zero")
	}
	floats.Scale(1/floats.Norm(n[:D], 2), n[:D])
	k := floats.MaxIdx(absolute(n[:D]))
	gmin, gmax := g.Min(), g.Max()
	for j := 0; j < D; j++ {
		if j == k {
			continue
		}
		if !g.IsFinite(j) {
			return lo, hi, fmt.Errorf("geometry: plane with normal %v needs a bounded dimension %d", p.Normal, j)
		}
		lo[j], hi[j] = gmin[j], gmax[j]
	}
	// The plane leaves the band at n·(x-o) = ±w. Solve for x_k at every
	// corner of the other dimensions.
	w := pad * g.Delta()
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for corner := 0; corner < 1<<D; corner++ {
		var s float64
		for j := 0; j < D; j++ {
			if j == k {
				continue
			}
			x := float64(gmin[j]) * g.Delta()
			if corner&(1<<j) != 0 {
				x = float64(gmax[j]) * g.Delta()
			}
			s += n[j] * (x - p.Origin[j])
		}
		for _, f := range []float64{-w, w} {
			x := p.Origin[k] + (f-s)/n[k]
			xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		}
	}
	lo[k], hi[k] = indexRange(g, xmin, xmax)
	return lo, hi, nil
}

func absolute(v []float64) []float64 {
	o := make([]float64, len(v))
	for i, x := range v {
		o[i] = math.Abs(x)
	}
	return o
}

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

/*
Package levelset implements narrow-band level sets on sparse grids.

A level set represents a surface implicitly as the zero crossing of a
signed distance field, which is negative inside the surface. Only the grid
points of a narrow band around the surface store values; the band width is
kept under control by Expand, Reduce and Prune.

Every operation that changes a level set builds the new content first and
replaces the old content only when the build succeeded.
*/
package levelset

import (
	"iter"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// Labels of point data written by this package.
const (
	VoidPointMarkersLabel     = "VoidPointMarkers"
	ConnectedComponentIDLabel = "ConnectedComponentId"
	NormalsLabel              = "Normals"
)

// Domain is a level set on a sparse grid.
type Domain struct {
	hrle  *hrle.Domain
	width int
	data  *PointData

	// segments is the number of segments after structural changes,
	// or 0 for hrle.DefaultSegments.
	segments int
}

// New returns an empty level set in which every grid point is outside the
// surface.
func New(g *grid.Grid) *Domain {
	return FromHRLE(hrle.New(g, false), 1)
}

// NewNegative returns a level set in which every grid point is inside
// the surface.
func NewNegative(g *grid.Grid) *Domain {
	return FromHRLE(hrle.New(g, true), 1)
}

// FromHRLE returns a level set with the given storage and band width.
func FromHRLE(h *hrle.Domain, width int) *Domain {
	return &Domain{hrle: h, width: width, data: new(PointData)}
}

// FromEvents builds a level set of the given width on g. fill is called
// once and must insert all defined points and sign changes in
// lexicographic order.
func FromEvents(g *grid.Grid, width int, fill func(b *hrle.Builder)) (*Domain, error) {
	h, _, err := hrle.Build(g, []grid.Index{g.Min()}, func(_ int, b *hrle.Builder) error {
		fill(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	d := FromHRLE(h, width)
	d.segment()
	return d, nil
}

// Grid returns the grid of the level set.
func (d *Domain) Grid() *grid.Grid { return d.hrle.Grid() }

// HRLE returns the storage of the level set.
func (d *Domain) HRLE() *hrle.Domain { return d.hrle }

// Width returns the width of the narrow band in grid points.
// Defined values never exceed Width()/2 in magnitude.
func (d *Domain) Width() int { return d.width }

// NumPoints returns the number of defined points.
func (d *Domain) NumPoints() int { return d.hrle.NumPoints() }

// NumSegments returns the number of segments of the storage.
func (d *Domain) NumSegments() int { return d.hrle.NumSegments() }

// Value returns the value at grid point i, or hrle.NegValue or
// hrle.PosValue for undefined points.
func (d *Domain) Value(i grid.Index) float64 { return d.hrle.Value(i) }

// Points iterates over the defined points in order of their ids.
func (d *Domain) Points() iter.Seq[hrle.Point] { return d.hrle.Points() }

// Runs iterates over all runs in lexicographic order.
func (d *Domain) Runs() iter.Seq[hrle.Run] { return d.hrle.Runs() }

// Values returns the values of the defined points ordered by id.
func (d *Domain) Values() []float64 { return d.hrle.Values() }

// PointData returns the arrays attached to the defined points.
func (d *Domain) PointData() *PointData { return d.data }

// Clone returns a deep copy of d.
func (d *Domain) Clone() *Domain {
	return &Domain{hrle: d.hrle, width: d.width, data: d.data.Clone(), segments: d.segments}
}

// DeepCopy replaces the content of d with a copy of o.
func (d *Domain) DeepCopy(o *Domain) {
	*d = *o.Clone()
}

// SetValues replaces the values of all defined points without changing
// which points are defined.
func (d *Domain) SetValues(values []float64) {
	d.hrle = d.hrle.WithValues(values)
}

// replace swaps in new storage. Point data is translated using the source
// point ids when sources is not nil and cleared otherwise.
func (d *Domain) replace(h *hrle.Domain, sources []int, width int) {
	if sources != nil {
		d.data = d.data.Translate(sources)
	} else {
		d.data = new(PointData)
	}
	d.hrle = h
	d.width = width
}

func (d *Domain) numSegments() int {
	if d.segments > 0 {
		return d.segments
	}
	return hrle.DefaultSegments()
}

// segment balances the segmentation of the storage.
func (d *Domain) segment() {
	d.hrle = d.hrle.Resegment(d.numSegments())
}

// Segment balances the defined points across n segments. Later
// operations keep balancing across n segments; n <= 0 restores the
// default of hrle.DefaultSegments.
func (d *Domain) Segment(n int) {
	if n < 0 {
		n = 0
	}
	d.segments = n
	d.segment()
}

func (d *Domain) mustTransform(starts []grid.Index, visit func(s *hrle.Star, b *hrle.Builder)) (*hrle.Domain, []int) {
	h, src, err := d.hrle.Transform(starts, visit)
	if err != nil {
		panic(err)
	}
	return h, src
}

func (d *Domain) mustMap(starts []grid.Index, visit func(i grid.Index, c hrle.Cell, b *hrle.Builder)) (*hrle.Domain, []int) {
	h, src, err := d.hrle.Map(starts, visit)
	if err != nil {
		panic(err)
	}
	return h, src
}

func sentinel(negative bool) float64 {
	if negative {
		return hrle.NegValue
	}
	return hrle.PosValue
}

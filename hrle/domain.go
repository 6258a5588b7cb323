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
Package hrle stores a scalar field on a grid as a hierarchical run-length
encoding. Only the grid points of a narrow band carry explicit values; all
other points belong to undefined runs that record only their sign.

The index space is split into segments of contiguous lexicographic index
ranges so that segments can be read and built concurrently. Each segment
stores one table of runs per dimension. A run at dimension level k either
points to a contiguous block of rows at level k-1 (or of values, at level
0) or is undefined with a positive or negative sign.

Domains are immutable once built. Operations that change the field build
a new Domain.
*/
package hrle

import (
	"math"
	"sort"

	"github.com/spatialmodel/topography/grid"
)

// Sentinel values of undefined grid points.
const (
	NegValue = -math.MaxFloat64
	PosValue = math.MaxFloat64
)

// Run types of undefined runs. Defined runs have a type >= 0.
const (
	NegUndefined = -1
	PosUndefined = -2
)

// RunRef identifies a stored run.
type RunRef struct {
	Segment, Level, Run int
}

// Cell is the content of a single grid point.
type Cell struct {
	// Value is the stored value, or NegValue or PosValue
	// for undefined points.
	Value float64

	// PointID is the id of the defined point, or -1.
	PointID int

	// Run is the undefined run that holds the point.
	// It is only set for undefined points.
	Run RunRef
}

// Defined reports whether the cell holds an explicit value.
func (c Cell) Defined() bool { return c.PointID >= 0 }

// Negative reports whether the cell is inside the surface.
func (c Cell) Negative() bool { return c.Value < 0 }

type segment struct {
	// rows[k] holds the offset into runs[k] of the first run of every
	// row at level k, followed by len(runs[k]).
	rows [3][]int

	// runs[k] holds the type of every run at level k.
	runs [3][]int

	// starts[k] holds the first coordinate of every run at level k.
	starts [3][]int

	values []float64
}

// Domain is a sparse field on a grid.
type Domain struct {
	g       *grid.Grid
	segs    []*segment
	starts  []grid.Index
	offsets []int
}

// New returns a domain with a single segment in which every grid point is
// undefined with the given sign.
func New(g *grid.Grid, negative bool) *Domain {
	d, _, err := Build(g, []grid.Index{g.Min()}, func(_ int, b *Builder) error {
		b.Undefined(g.Min(), negative)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return d
}

// Grid returns the grid of the domain.
func (d *Domain) Grid() *grid.Grid { return d.g }

// NumPoints returns the number of defined points.
func (d *Domain) NumPoints() int { return d.offsets[len(d.offsets)-1] }

// NumSegments returns the number of segments.
func (d *Domain) NumSegments() int { return len(d.segs) }

// SegmentStart returns the first index of segment p.
func (d *Domain) SegmentStart(p int) grid.Index { return d.starts[p] }

// SegmentEnd returns the last index of segment p.
func (d *Domain) SegmentEnd(p int) grid.Index {
	if p == len(d.segs)-1 {
		return d.g.Max()
	}
	return d.g.Decrement(d.starts[p+1])
}

// Segmentation returns the first index of every segment. The first
// entry is always the lowest grid index.
func (d *Domain) Segmentation() []grid.Index {
	return append([]grid.Index(nil), d.starts...)
}

// PointOffset returns the id of the first defined point of segment p.
func (d *Domain) PointOffset(p int) int { return d.offsets[p] }

// SegmentPoints returns the number of defined points in segment p.
func (d *Domain) SegmentPoints(p int) int { return len(d.segs[p].values) }

// NumRuns returns the number of stored runs, counting all levels
// of all segments.
func (d *Domain) NumRuns() int {
	n := 0
	for _, s := range d.segs {
		for k := 0; k < d.g.Dims(); k++ {
			n += len(s.runs[k])
		}
	}
	return n
}

// RunID returns a dense id in [0, NumRuns()) for the referenced run.
func (d *Domain) RunID(r RunRef) int {
	n := 0
	for p := 0; p < r.Segment; p++ {
		for k := 0; k < d.g.Dims(); k++ {
			n += len(d.segs[p].runs[k])
		}
	}
	for k := 0; k < r.Level; k++ {
		n += len(d.segs[r.Segment].runs[k])
	}
	return n + r.Run
}

// Values returns a copy of the values of all defined points,
// ordered by point id.
func (d *Domain) Values() []float64 {
	o := make([]float64, 0, d.NumPoints())
	for _, s := range d.segs {
		o = append(o, s.values...)
	}
	return o
}

// WithValues returns a domain that shares the run structure of d but
// holds the given values. len(values) must equal NumPoints().
func (d *Domain) WithValues(values []float64) *Domain {
	if len(values) != d.NumPoints() {
		panic("hrle: number of values does not match number of points")
	}
	o := &Domain{g: d.g, starts: d.starts, offsets: d.offsets, segs: make([]*segment, len(d.segs))}
	for p, s := range d.segs {
		ns := *s
		ns.values = append([]float64(nil), values[d.offsets[p]:d.offsets[p+1]]...)
		o.segs[p] = &ns
	}
	return o
}

// SameTopology reports whether two domains share their segmentation and
// run structure, so that their values can be combined point by point.
func (d *Domain) SameTopology(o *Domain) bool {
	if len(d.segs) != len(o.segs) || !d.g.Equal(o.g) {
		return false
	}
	for p := range d.segs {
		if d.starts[p] != o.starts[p] || d.offsets[p+1] != o.offsets[p+1] {
			return false
		}
		a, b := d.segs[p], o.segs[p]
		for k := 0; k < d.g.Dims(); k++ {
			if !equalInts(a.runs[k], b.runs[k]) || !equalInts(a.starts[k], b.starts[k]) ||
				!equalInts(a.rows[k], b.rows[k]) {
				return false
			}
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// segmentOf returns the segment that holds index i.
func segmentOf(starts []grid.Index, i grid.Index) int {
	return sort.Search(len(starts), func(p int) bool { return i.Less(starts[p]) }) - 1
}

// Lookup returns the cell at index i. The index is first mapped into the
// stored range using the boundary conditions of the grid.
func (d *Domain) Lookup(i grid.Index) Cell {
	i = d.g.Wrap(i)
	p := segmentOf(d.starts, i)
	if p < 0 {
		p = 0
	}
	s := d.segs[p]
	t := 0
	for k := d.g.Dims() - 1; k >= 0; k-- {
		lo, hi := s.rows[k][t], s.rows[k][t+1]
		starts := s.starts[k][lo:hi]
		r := lo + sort.Search(len(starts), func(j int) bool { return starts[j] > i[k] }) - 1
		typ := s.runs[k][r]
		switch {
		case typ == NegUndefined:
			return Cell{Value: NegValue, PointID: -1, Run: RunRef{Segment: p, Level: k, Run: r}}
		case typ == PosUndefined:
			return Cell{Value: PosValue, PointID: -1, Run: RunRef{Segment: p, Level: k, Run: r}}
		}
		t = typ + i[k] - s.starts[k][r]
	}
	return Cell{Value: s.values[t], PointID: d.offsets[p] + t}
}

// Value returns the value at index i, or the sentinel of its sign.
func (d *Domain) Value(i grid.Index) float64 { return d.Lookup(i).Value }

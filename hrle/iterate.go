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

package hrle

import (
	"iter"

	"github.com/spatialmodel/topography/grid"
)

// Run is a contiguous range of grid points returned by iteration.
// Defined runs always hold a single grid point.
type Run struct {
	Start, End grid.Index
	Cell
	Segment int
}

// Point is a defined grid point.
type Point struct {
	Index grid.Index
	Value float64
	ID    int
}

// Runs iterates over all runs of all segments in lexicographic order.
// Every grid point is covered by exactly one run.
func (d *Domain) Runs() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		for p := range d.segs {
			if !d.walkSegment(p, yield) {
				return
			}
		}
	}
}

// SegmentRuns iterates over the runs of segment p. Runs that start before
// the segment are clipped to its first index.
func (d *Domain) SegmentRuns(p int) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		d.walkSegment(p, yield)
	}
}

// Points iterates over all defined points in order of their ids.
func (d *Domain) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for p := range d.segs {
			for pt := range d.SegmentPointsSeq(p) {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

// SegmentPointsSeq iterates over the defined points of segment p.
func (d *Domain) SegmentPointsSeq(p int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for r := range d.SegmentRuns(p) {
			if !r.Defined() {
				continue
			}
			if !yield(Point{Index: r.Start, Value: r.Value, ID: r.PointID}) {
				return
			}
		}
	}
}

func (d *Domain) walkSegment(p int, yield func(Run) bool) bool {
	w := walker{d: d, p: p, s: d.segs[p], lo: d.starts[p], hi: d.SegmentEnd(p), yield: yield}
	return w.walk(d.g.Dims()-1, 0, grid.Index{}) != stop
}

type walkResult int

const (
	more walkResult = iota
	// the segment end was passed
	passed
	// the consumer is done
	stop
)

type walker struct {
	d      *Domain
	p      int
	s      *segment
	lo, hi grid.Index
	yield  func(Run) bool
}

func (w *walker) walk(k, t int, h grid.Index) walkResult {
	g := w.d.g
	gmin, gmax := g.Min(), g.Max()
	s := w.s
	first, last := s.rows[k][t], s.rows[k][t+1]
	for r := first; r < last; r++ {
		c0 := s.starts[k][r]
		c1 := gmax[k]
		if r+1 < last {
			c1 = s.starts[k][r+1] - 1
		}
		start, end := h, h
		start[k], end[k] = c0, c1
		for j := 0; j < k; j++ {
			start[j], end[j] = gmin[j], gmax[j]
		}
		if end.Less(w.lo) {
			continue
		}
		if w.hi.Less(start) {
			return passed
		}
		typ := s.runs[k][r]
		if typ < 0 {
			run := Run{Start: start, End: end, Segment: w.p,
				Cell: Cell{Value: PosValue, PointID: -1, Run: RunRef{Segment: w.p, Level: k, Run: r}}}
			if typ == NegUndefined {
				run.Value = NegValue
			}
			if run.Start.Less(w.lo) {
				run.Start = w.lo
			}
			if w.hi.Less(run.End) {
				run.End = w.hi
			}
			if !w.yield(run) {
				return stop
			}
			continue
		}
		for c := c0; c <= c1; c++ {
			if k == 0 {
				i := h
				i[0] = c
				if i.Less(w.lo) {
					continue
				}
				if w.hi.Less(i) {
					return passed
				}
				v := typ + c - c0
				run := Run{Start: i, End: i, Segment: w.p,
					Cell: Cell{Value: s.values[v], PointID: w.d.offsets[w.p] + v}}
				if !w.yield(run) {
					return stop
				}
				continue
			}
			sub := h
			sub[k] = c
			if res := w.walk(k-1, typ+c-c0, sub); res != more {
				return res
			}
		}
	}
	return more
}

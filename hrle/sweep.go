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
	"fmt"
	"iter"
	"slices"

	"github.com/spatialmodel/topography/grid"
)

// Star is a grid point together with its axis neighbors.
type Star struct {
	Index  grid.Index
	Center Cell

	neighbors [6]Cell
	dims      int
}

// Dims returns the number of dimensions of the star.
func (s *Star) Dims() int { return s.dims }

// Neighbor returns neighbor i of the star. Neighbors 0 to D-1 are one
// grid point away in positive direction of dimension i; neighbors D to
// 2D-1 are one grid point away in negative direction of dimension i-D.
func (s *Star) Neighbor(i int) Cell { return s.neighbors[i] }

// Star returns the star centred on grid point i.
func (d *Domain) Star(i grid.Index) Star {
	D := d.g.Dims()
	s := Star{Index: i, Center: d.Lookup(i), dims: D}
	for k := 0; k < D; k++ {
		s.neighbors[k] = d.Lookup(d.g.Neighbor(i, k, 1))
		s.neighbors[k+D] = d.Lookup(d.g.Neighbor(i, k, -1))
	}
	return s
}

// positions returns, for every segment of the given segmentation, the
// sorted indices at which the centre or one of the axis neighbors of a
// sweep over the domains changes.
func positions(starts []grid.Index, neighbors bool, domains ...*Domain) [][]grid.Index {
	type bucket [][]grid.Index
	var buckets []bucket
	for _, d := range domains {
		bs := make([]bucket, len(d.segs))
		ForEach(len(d.segs), func(p int) error {
			b := make(bucket, len(starts))
			add := func(i grid.Index) {
				q := segmentOf(starts, i)
				b[q] = append(b[q], i)
			}
			for r := range d.SegmentRuns(p) {
				add(r.Start)
				if neighbors {
					d.addNeighborPositions(r.Start, add)
				}
			}
			bs[p] = b
			return nil
		})
		buckets = append(buckets, bs...)
	}
	o := make([][]grid.Index, len(starts))
	ForEach(len(starts), func(q int) error {
		pos := []grid.Index{starts[q]}
		for _, b := range buckets {
			pos = append(pos, b[q]...)
		}
		slices.SortFunc(pos, func(a, b grid.Index) int { return a.Compare(b) })
		o[q] = slices.Compact(pos)
		return nil
	})
	return o
}

// addNeighborPositions adds every index whose axis neighbor is s, as well
// as the indices at which a neighbor wraps around a boundary.
func (d *Domain) addNeighborPositions(s grid.Index, add func(grid.Index)) {
	g := d.g
	gmin, gmax := g.Min(), g.Max()
	for k := 0; k < g.Dims(); k++ {
		for _, step := range []int{1, -1} {
			for _, q := range g.Preimages(s, k, step) {
				add(q)
			}
		}
		e := s
		for j := 0; j < k; j++ {
			e[j] = gmin[j]
		}
		e[k] = gmin[k]
		add(e)
		e[k] = gmax[k]
		add(e)
	}
}

// Transform sweeps over d and builds a new domain with the given
// segmentation. visit is called for every index at which the centre or one
// of its axis neighbors changes and must insert the content of that index
// into b. Calls for different segments are concurrent; within a segment they
// follow lexicographic order.
func (d *Domain) Transform(starts []grid.Index, visit func(s *Star, b *Builder)) (*Domain, []int, error) {
	pos := positions(starts, true, d)
	return Build(d.g, starts, func(p int, b *Builder) error {
		for _, i := range pos[p] {
			s := d.Star(i)
			visit(&s, b)
		}
		return nil
	})
}

// Map builds a new domain with the given segmentation by calling visit at
// every index at which the content of d changes.
func (d *Domain) Map(starts []grid.Index, visit func(i grid.Index, c Cell, b *Builder)) (*Domain, []int, error) {
	pos := positions(starts, false, d)
	return Build(d.g, starts, func(p int, b *Builder) error {
		for _, i := range pos[p] {
			visit(i, d.Lookup(i), b)
		}
		return nil
	})
}

// Combine builds a new domain from two domains on the same grid by calling
// visit at every index at which the content of a or b changes.
func Combine(a, b *Domain, starts []grid.Index, visit func(i grid.Index, ca, cb Cell, bld *Builder)) (*Domain, []int, error) {
	if !a.g.Equal(b.g) {
		return nil, nil, fmt.Errorf("hrle: combining domains on different grids: %v and %v", a.g, b.g)
	}
	pos := positions(starts, false, a, b)
	return Build(a.g, starts, func(p int, bld *Builder) error {
		for _, i := range pos[p] {
			visit(i, a.Lookup(i), b.Lookup(i), bld)
		}
		return nil
	})
}

// Sweep calls visit concurrently for the segments of d, with every star at
// which the centre or one of its axis neighbors changes.
func (d *Domain) Sweep(visit func(p int, s *Star)) {
	pos := positions(d.starts, true, d)
	ForEach(len(pos), func(p int) error {
		for _, i := range pos[p] {
			s := d.Star(i)
			visit(p, &s)
		}
		return nil
	})
}

// Stars iterates in lexicographic order over every star at which the centre
// or one of its axis neighbors changes.
func (d *Domain) Stars() iter.Seq[*Star] {
	return func(yield func(*Star) bool) {
		pos := positions(d.starts, true, d)
		for _, seg := range pos {
			for _, i := range seg {
				s := d.Star(i)
				if !yield(&s) {
					return
				}
			}
		}
	}
}

// Copy inserts the content of c at index i into b.
func Copy(i grid.Index, c Cell, b *Builder) {
	if c.Defined() {
		b.Defined(i, c.Value, c.PointID)
	} else {
		b.Undefined(i, c.Negative())
	}
}

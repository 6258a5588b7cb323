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

// Package grid describes the structured index space that level sets
// are stored on.
package grid

import (
	"fmt"
	"math"
	"strings"
)

// Boundary specifies how a grid dimension behaves beyond its bounds.
type Boundary int

const (
	// Infinite dimensions are unbounded. Indices far from the
	// surface hold the sentinel of their sign.
	Infinite Boundary = iota
	// Periodic dimensions wrap around, so that the upper bound
	// coincides with the lower bound.
	Periodic
	// Reflective dimensions mirror their values at the bounds.
	Reflective
)

func (b Boundary) String() string {
	switch b {
	case Infinite:
		return "infinite"
	case Periodic:
		return "periodic"
	case Reflective:
		return "reflective"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary returns the boundary kind named by s.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "infinite", "inf":
		return Infinite, nil
	case "periodic":
		return Periodic, nil
	case "reflective", "symmetric":
		return Reflective, nil
	}
	return Infinite, fmt.Errorf("grid: invalid boundary kind %q", s)
}

// Grid specifies the index space and spacing of a level set.
// Grids are not modified after creation.
type Grid struct {
	dims       int
	delta      float64
	lo, hi     Index // nominal index bounds
	boundaries [3]Boundary
	min, max   Index // storage range
}

// New creates a grid with the given number of dimensions (2 or 3) and
// grid spacing delta. bounds holds the physical lower and upper bound of
// each dimension as [lo0, hi0, lo1, hi1, ...]. Bounds of infinite
// dimensions are used only as a hint for geometry construction.
func New(dims int, delta float64, bounds []float64, boundaries []Boundary) (*Grid, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("grid: invalid number of dimensions %d", dims)
	}
	if !(delta > 0) {
		return nil, fmt.Errorf("grid: grid spacing must be positive, got %g", delta)
	}
	if len(bounds) != 2*dims {
		return nil, fmt.Errorf("grid: need %d bounds, got %d", 2*dims, len(bounds))
	}
	if len(boundaries) != dims {
		return nil, fmt.Errorf("grid: need %d boundary kinds, got %d", dims, len(boundaries))
	}
	var lo, hi Index
	for d := 0; d < dims; d++ {
		if bounds[2*d] > bounds[2*d+1] {
			return nil, fmt.Errorf("grid: lower bound %g greater than upper bound %g in dimension %d",
				bounds[2*d], bounds[2*d+1], d)
		}
		lo[d] = int(math.Floor(bounds[2*d]/delta + 1e-9))
		hi[d] = int(math.Ceil(bounds[2*d+1]/delta - 1e-9))
	}
	return NewIndexed(dims, delta, lo, hi, boundaries)
}

// NewIndexed creates a grid from index bounds rather than physical ones.
func NewIndexed(dims int, delta float64, lo, hi Index, boundaries []Boundary) (*Grid, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("grid: invalid number of dimensions %d", dims)
	}
	if !(delta > 0) {
		return nil, fmt.Errorf("grid: grid spacing must be positive, got %g", delta)
	}
	g := &Grid{dims: dims, delta: delta, lo: lo, hi: hi}
	for d := 0; d < dims; d++ {
		g.boundaries[d] = boundaries[d]
		if lo[d] > hi[d] {
			return nil, fmt.Errorf("grid: invalid index bounds [%d, %d] in dimension %d", lo[d], hi[d], d)
		}
		switch boundaries[d] {
		case Infinite:
			g.min[d], g.max[d] = math.MinInt32, math.MaxInt32
		case Periodic:
			if hi[d] <= lo[d] {
				return nil, fmt.Errorf("grid: periodic dimension %d must have a positive extent", d)
			}
			g.min[d], g.max[d] = lo[d], hi[d]-1
		case Reflective:
			g.min[d], g.max[d] = lo[d], hi[d]
		default:
			return nil, fmt.Errorf("grid: invalid boundary kind %v in dimension %d", boundaries[d], d)
		}
	}
	return g, nil
}

// Dims returns the number of dimensions of the grid.
func (g *Grid) Dims() int { return g.dims }

// Delta returns the grid spacing.
func (g *Grid) Delta() float64 { return g.delta }

// Boundary returns the boundary kind of dimension d.
func (g *Grid) Boundary(d int) Boundary { return g.boundaries[d] }

// Bounds returns the nominal lower and upper index bounds.
func (g *Grid) Bounds() (lo, hi Index) { return g.lo, g.hi }

// Min returns the lowest stored index.
func (g *Grid) Min() Index { return g.min }

// Max returns the highest stored index.
func (g *Grid) Max() Index { return g.max }

// IsFinite reports whether dimension d is bounded.
func (g *Grid) IsFinite(d int) bool { return g.boundaries[d] != Infinite }

// Contains reports whether i lies within the storage range.
func (g *Grid) Contains(i Index) bool {
	for d := 0; d < g.dims; d++ {
		if i[d] < g.min[d] || i[d] > g.max[d] {
			return false
		}
	}
	return true
}

// Wrap maps an arbitrary index into the storage range using the
// boundary kind of each dimension.
func (g *Grid) Wrap(i Index) Index {
	for d := 0; d < g.dims; d++ {
		i[d] = g.wrap(d, i[d])
	}
	return i
}

func (g *Grid) wrap(d, v int) int {
	min, max := g.min[d], g.max[d]
	switch g.boundaries[d] {
	case Infinite:
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	case Periodic:
		n := max - min + 1
		v = (v - min) % n
		if v < 0 {
			v += n
		}
		return v + min
	case Reflective:
		if min == max {
			return min
		}
		for v < min || v > max {
			if v < min {
				v = 2*min - v
			} else {
				v = 2*max - v
			}
		}
		return v
	default:
		panic("not possible")
	}
}

// Neighbor returns the index step grid points away from i along
// dimension dim, wrapped into the storage range.
func (g *Grid) Neighbor(i Index, dim, step int) Index {
	i[dim] += step
	return g.Wrap(i)
}

// Offset returns i+o wrapped into the storage range.
func (g *Grid) Offset(i, o Index) Index {
	return g.Wrap(i.Add(o))
}

// Preimages returns every stored index q for which
// Neighbor(q, dim, step) == s.
func (g *Grid) Preimages(s Index, dim, step int) []Index {
	cands := [4]int{s[dim] - step, g.min[dim], g.max[dim], s[dim] + step}
	var o []Index
	for _, c := range cands {
		q := s
		q[dim] = c
		if !g.Contains(q) || g.Neighbor(q, dim, step) != s {
			continue
		}
		dup := false
		for _, p := range o {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			o = append(o, q)
		}
	}
	return o
}

// Increment returns the lexicographic successor of i within the
// storage range. The successor of Max is beyond the range.
func (g *Grid) Increment(i Index) Index {
	for d := 0; d < g.dims; d++ {
		if i[d] < g.max[d] || d == g.dims-1 {
			i[d]++
			return i
		}
		i[d] = g.min[d]
	}
	panic("not possible")
}

// Decrement returns the lexicographic predecessor of i within the
// storage range.
func (g *Grid) Decrement(i Index) Index {
	for d := 0; d < g.dims; d++ {
		if i[d] > g.min[d] || d == g.dims-1 {
			i[d]--
			return i
		}
		i[d] = g.max[d]
	}
	panic("not possible")
}

// End returns the first index past the storage range.
func (g *Grid) End() Index { return g.Increment(g.max) }

// Coordinate returns the physical location of grid point i.
func (g *Grid) Coordinate(i Index) [3]float64 {
	var x [3]float64
	for d := 0; d < g.dims; d++ {
		x[d] = float64(i[d]) * g.delta
	}
	return x
}

// NearestIndex returns the grid point closest to the physical location x.
func (g *Grid) NearestIndex(x [3]float64) Index {
	var i Index
	for d := 0; d < g.dims; d++ {
		i[d] = int(math.Round(x[d] / g.delta))
	}
	return i
}

// Equal reports whether two grids describe the same index space.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.dims == o.dims && g.delta == o.delta && g.lo == o.lo && g.hi == o.hi &&
		g.boundaries == o.boundaries
}

func (g *Grid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dD grid, spacing %g:", g.dims, g.delta)
	for d := 0; d < g.dims; d++ {
		fmt.Fprintf(&b, " [%d, %d] %v", g.lo[d], g.hi[d], g.boundaries[d])
	}
	return b.String()
}

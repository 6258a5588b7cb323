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

package levelset

import (
	"fmt"
	"strings"

	"github.com/spatialmodel/topography/graph"
	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// TopSurface selects the connected component that is treated as the
// surface exposed to the outside when void points are marked.
type TopSurface int

const (
	// LexHighest selects the component at the lexicographically
	// highest grid point.
	LexHighest TopSurface = iota
	// LexLowest selects the component at the lexicographically
	// lowest grid point.
	LexLowest
	// Largest selects the component with the most positive grid points.
	Largest
	// Smallest selects the component with the fewest positive grid points.
	Smallest
)

func (t TopSurface) String() string {
	switch t {
	case LexHighest:
		return "lex highest"
	case LexLowest:
		return "lex lowest"
	case Largest:
		return "largest"
	case Smallest:
		return "smallest"
	default:
		return fmt.Sprintf("TopSurface(%d)", int(t))
	}
}

// ParseTopSurface returns the top surface selection named by s.
func ParseTopSurface(s string) (TopSurface, error) {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "lexhighest", "":
		return LexHighest, nil
	case "lexlowest":
		return LexLowest, nil
	case "largest":
		return Largest, nil
	case "smallest":
		return Smallest, nil
	}
	return LexHighest, fmt.Errorf("levelset: invalid top surface %q", s)
}

// VoidOptions configure MarkVoidPoints.
type VoidOptions struct {
	TopSurface TopSurface

	// SaveComponentIDs stores the component of every defined point as
	// scalar data labelled ConnectedComponentIDLabel.
	SaveComponentIDs bool
}

func connected(a, b float64) bool { return (a >= 0) == (b >= 0) }

// components holds the connected regions of equal sign of a level set.
// Vertices are the defined points, followed by the stored runs.
type components struct {
	numPoints int
	d         *hrle.Domain
	comp      []int
	n         int
	positive  []int // positive vertices per component
	top       int
}

func (c *components) vertex(cell hrle.Cell) int {
	if cell.Defined() {
		return cell.PointID
	}
	return c.numPoints + c.d.RunID(cell.Run)
}

func (c *components) of(cell hrle.Cell) int { return c.comp[c.vertex(cell)] }

// connectedComponents finds the regions of equal sign of d. Grid points
// that are axis neighbors and have the same sign are connected.
func (d *Domain) connectedComponents(top TopSurface) *components {
	h := d.hrle
	if !startsDefined(h) {
		// A segment that starts inside an undefined run can hold two
		// pieces of a stored run that do not touch.
		h = h.Resegment(h.NumSegments())
	}
	c := &components{numPoints: h.NumPoints(), d: h}
	nv := c.numPoints + h.NumRuns()
	g := graph.New(nv)

	edges := make([][][2]int, h.NumSegments())
	h.Sweep(func(p int, s *hrle.Star) {
		u := c.vertex(s.Center)
		for i := 0; i < 2*s.Dims(); i++ {
			n := s.Neighbor(i)
			if connected(s.Center.Value, n.Value) {
				edges[p] = append(edges[p], [2]int{u, c.vertex(n)})
			}
		}
	})
	for _, seg := range edges {
		for _, e := range seg {
			g.AddEdge(e[0], e[1])
		}
	}
	comp, n := g.Components()

	// Stored runs outside of their segment are never reached. Components
	// are renumbered in lexicographic order of the grid points they cover.
	remap := make([]int, n)
	for i := range remap {
		remap[i] = -1
	}
	var order []int
	for r := range h.Runs() {
		k := comp[c.vertex(r.Cell)]
		if remap[k] < 0 {
			remap[k] = c.n
			c.positive = append(c.positive, 0)
			c.n++
		}
		if r.Value >= 0 {
			c.positive[remap[k]]++
		}
		order = append(order, remap[k])
	}
	c.comp = make([]int, len(comp))
	for v, k := range comp {
		c.comp[v] = remap[k]
	}

	c.top = -1
	switch top {
	case LexLowest:
		for _, k := range order {
			if c.positive[k] > 0 {
				c.top = k
				break
			}
		}
	case Largest, Smallest:
		for k, n := range c.positive {
			if n == 0 {
				continue
			}
			if c.top < 0 || (top == Largest && n > c.positive[c.top]) ||
				(top == Smallest && n < c.positive[c.top]) {
				c.top = k
			}
		}
	default:
		for i := len(order) - 1; i >= 0; i-- {
			if c.positive[order[i]] > 0 {
				c.top = order[i]
				break
			}
		}
	}
	return c
}

// startsDefined reports whether every segment but the first starts at a
// defined point.
func startsDefined(h *hrle.Domain) bool {
	for p := 1; p < h.NumSegments(); p++ {
		if !h.Lookup(h.SegmentStart(p)).Defined() {
			return false
		}
	}
	return true
}

// voidMarkers returns, for every defined point, whether it belongs to a
// void, and the component of every defined point.
//
// A positive point is void if it is not connected to the top component.
// A negative point is void unless one of its axis neighbors of opposite
// sign is part of the top component.
func (d *Domain) voidMarkers(c *components) (void []bool, comp []int) {
	void = make([]bool, d.NumPoints())
	comp = make([]int, d.NumPoints())
	c.d.Sweep(func(_ int, s *hrle.Star) {
		ctr := s.Center
		if !ctr.Defined() {
			return
		}
		comp[ctr.PointID] = c.of(ctr)
		if ctr.Value >= 0 {
			void[ctr.PointID] = c.of(ctr) != c.top
			return
		}
		v := true
		for i := 0; i < 2*s.Dims(); i++ {
			n := s.Neighbor(i)
			if n.Value < 0 {
				continue
			}
			if c.of(n) == c.top {
				v = false
				break
			}
		}
		void[ctr.PointID] = v
	})
	return void, comp
}

// MarkVoidPoints finds the regions of the level set that are not
// connected to the top surface. It stores a marker for every defined
// point as scalar data labelled VoidPointMarkersLabel, 1 for void points
// and 0 otherwise, and returns the number of connected components.
func (d *Domain) MarkVoidPoints(opts VoidOptions) int {
	c := d.connectedComponents(opts.TopSurface)
	void, comp := d.voidMarkers(c)
	markers := make([]float64, len(void))
	for i, v := range void {
		if v {
			markers[i] = 1
		}
	}
	d.data.SetScalars(VoidPointMarkersLabel, markers)
	if opts.SaveComponentIDs {
		ids := make([]float64, len(comp))
		for i, k := range comp {
			ids[i] = float64(k)
		}
		d.data.SetScalars(ConnectedComponentIDLabel, ids)
	}
	return c.n
}

// RemoveStrayPoints fills every void of the level set with material, so
// that only the surface connected to the top component remains.
// The band width becomes 2.
func (d *Domain) RemoveStrayPoints(top TopSurface) {
	if d.NumPoints() == 0 {
		return
	}
	c := d.connectedComponents(top)
	void, _ := d.voidMarkers(c)
	h, src, err := c.d.Map(c.d.Segmentation(), func(i grid.Index, cell hrle.Cell, b *hrle.Builder) {
		switch {
		case cell.Defined() && void[cell.PointID]:
			b.Undefined(i, true)
		case cell.Defined():
			b.Defined(i, cell.Value, cell.PointID)
		case cell.Value >= 0 && c.of(cell) != c.top:
			b.Undefined(i, true)
		default:
			b.Undefined(i, cell.Negative())
		}
	})
	if err != nil {
		panic(err)
	}
	d.replace(h, src, 2)
	d.segment()
	d.Prune(false)
}

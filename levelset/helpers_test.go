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

package levelset_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/spatialmodel/topography/geometry"
	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/levelset"
)

// infiniteGrid returns a 2D grid without bounds.
func infiniteGrid(t *testing.T) *grid.Grid {
	g, err := grid.New(2, 1, []float64{-20, 20, -20, 20}, []grid.Boundary{grid.Infinite, grid.Infinite})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// slabGrid returns a 2D grid that is bounded in x and unbounded in y.
func slabGrid(t *testing.T) *grid.Grid {
	g, err := grid.New(2, 1, []float64{-10, 10, -20, 20}, []grid.Boundary{grid.Reflective, grid.Infinite})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sphere(t *testing.T, g *grid.Grid, x, y, r float64, width int) *levelset.Domain {
	d, err := geometry.Make(g, width, geometry.Sphere{Center: [3]float64{x, y}, Radius: r})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func plane(t *testing.T, g *grid.Grid, y float64, width int) *levelset.Domain {
	d, err := geometry.Make(g, width, geometry.Plane{Origin: [3]float64{0, y}, Normal: [3]float64{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// window calls f for every index of the square [-n, n]².
func window(n int, f func(i grid.Index)) {
	for y := -n; y <= n; y++ {
		for x := -n; x <= n; x++ {
			f(grid.Index{x, y})
		}
	}
}

func circleDistance(i grid.Index, x, y, r float64) float64 {
	return math.Hypot(float64(i[0])-x, float64(i[1])-y) - r
}

// oppositeNeighbor reports whether a neighbor of i has a different sign.
func oppositeNeighbor(d *levelset.Domain, i grid.Index) bool {
	v := d.Value(i)
	for k := 0; k < 2; k++ {
		for _, step := range []int{-1, 1} {
			n := d.Value(d.Grid().Neighbor(i, k, step))
			if (v < 0) != (n < 0) {
				return true
			}
		}
	}
	return false
}

// segmentCounts are the numbers of segments that results must not depend on.
var segmentCounts = []int{1, 3, 4}

// forSegments runs f as a subtest for every entry of segmentCounts.
func forSegments(t *testing.T, f func(t *testing.T, n int)) {
	for _, n := range segmentCounts {
		t.Run(fmt.Sprintf("segments=%d", n), func(t *testing.T) { f(t, n) })
	}
}

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

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		x     [3]float64
		want  float64
	}{
		{name: "sphere outside", shape: Sphere{Center: [3]float64{1, 1, 1}, Radius: 2}, x: [3]float64{1, 5, 1}, want: 2},
		{name: "sphere inside", shape: Sphere{Radius: 2}, x: [3]float64{}, want: -2},
		{name: "plane", shape: Plane{Origin: [3]float64{0, 1, 0}, Normal: [3]float64{0, 2, 0}}, x: [3]float64{5, 4, 0}, want: 3},
		{name: "plane tilted", shape: Plane{Normal: [3]float64{1, 1, 0}}, x: [3]float64{1, 1, 0}, want: math.Sqrt2},
		{name: "box face", shape: Box{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}, x: [3]float64{3, 0, 0}, want: 2},
		{name: "box corner", shape: Box{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}, x: [3]float64{2, 2, 1}, want: math.Sqrt2},
		{name: "box inside", shape: Box{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}, x: [3]float64{0.5, 0, 0}, want: -0.5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.want, test.shape.Distance(test.x), 1e-12)
		})
	}
}

func TestMake(t *testing.T) {
	g3, err := grid.New(3, 0.5, []float64{-5, 5, -5, 5, -5, 5},
		[]grid.Boundary{grid.Periodic, grid.Reflective, grid.Infinite})
	require.NoError(t, err)
	g2, err := grid.New(2, 1, []float64{-10, 10, -10, 10}, []grid.Boundary{grid.Infinite, grid.Infinite})
	require.NoError(t, err)
	tests := []struct {
		name  string
		g     *grid.Grid
		shape Shape
		width int
	}{
		{name: "sphere 2D", g: g2, shape: Sphere{Center: [3]float64{0.3, 0.1}, Radius: 4.4}, width: 2},
		{name: "box 2D", g: g2, shape: Box{Min: [3]float64{-3.5, -2.5}, Max: [3]float64{4.5, 1.5}}, width: 4},
		{name: "sphere 3D", g: g3, shape: Sphere{Center: [3]float64{0.3, 0.1, -0.2}, Radius: 2.1}, width: 2},
		{name: "plane 3D", g: g3, shape: Plane{Origin: [3]float64{0, 0, 0.2}, Normal: [3]float64{0, -0.1, 1}}, width: 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := Make(test.g, test.width, test.shape)
			require.NoError(t, err)
			assert.NoError(t, d.Check())
			assert.Greater(t, d.NumPoints(), 0)
			limit := float64(test.width) * 0.5
			lo, hi, err := test.shape.Region(test.g, limit+1)
			require.NoError(t, err)
			gmin, gmax := test.g.Min(), test.g.Max()
			n := 0
			for z := max(lo[2], gmin[2]); z <= min(hi[2], gmax[2]); z++ {
				for y := max(lo[1], gmin[1]); y <= min(hi[1], gmax[1]); y++ {
					for x := max(lo[0], gmin[0]); x <= min(hi[0], gmax[0]); x++ {
						i := grid.Index{x, y, z}
						want := test.shape.Distance(test.g.Coordinate(i)) / test.g.Delta()
						have := d.Value(i)
						if math.Abs(want) <= limit {
							n++
							if math.Abs(have-want) > 1e-9 {
								t.Errorf("%v: %g != %g", i, have, want)
							}
						} else if have != math.Copysign(hrle.PosValue, want) {
							t.Errorf("%v: %g for distance %g", i, have, want)
						}
					}
				}
			}
			assert.Equal(t, n, d.NumPoints())
		})
	}
}

func TestMakeErrors(t *testing.T) {
	g2, err := grid.New(2, 1, []float64{-10, 10, -10, 10}, []grid.Boundary{grid.Infinite, grid.Infinite})
	require.NoError(t, err)
	_, err = Make(g2, 2, Plane{Normal: [3]float64{0, 1}})
	assert.Error(t, err, "unbounded plane")
	_, err = Make(g2, 2, Sphere{Radius: -1})
	assert.Error(t, err)
	_, err = Make(g2, 0, Sphere{Radius: 1})
	assert.Error(t, err)
	_, err = Make(g2, 2, Box{Min: [3]float64{1, 0}, Max: [3]float64{0, 1}})
	assert.Error(t, err)
}

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

package plot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/topography/geometry"
	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/plot"
)

func TestZeroCrossings(t *testing.T) {
	g, err := grid.New(2, 0.5, []float64{-2, 2, -5, 5}, []grid.Boundary{grid.Reflective, grid.Infinite})
	require.NoError(t, err)
	d, err := geometry.Make(g, 2, geometry.Plane{Origin: [3]float64{0, 0.3}, Normal: [3]float64{0, 1}})
	require.NoError(t, err)

	xys := plot.ZeroCrossings(d)
	require.Equal(t, 9, xys.Len())
	for i := 0; i < xys.Len(); i++ {
		x, y := xys.XY(i)
		assert.InDelta(t, -2+0.5*float64(i), x, 1e-12)
		assert.InDelta(t, 0.3, y, 1e-12)
	}
}

func TestRender(t *testing.T) {
	g, err := grid.New(2, 1, []float64{-10, 10, -10, 10}, []grid.Boundary{grid.Infinite, grid.Infinite})
	require.NoError(t, err)
	d, err := geometry.Make(g, 2, geometry.Sphere{Radius: 5})
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, plot.Render(&b, plot.Options{Title: "sphere", Names: []string{"substrate"}}, d))
	assert.True(t, bytes.HasPrefix(b.Bytes(), []byte("\x89PNG")))

	g3, err := grid.New(3, 1, []float64{-10, 10, -10, 10, -10, 10}, []grid.Boundary{grid.Infinite, grid.Infinite, grid.Infinite})
	require.NoError(t, err)
	d3, err := geometry.Make(g3, 2, geometry.Sphere{Radius: 5})
	require.NoError(t, err)
	assert.Error(t, plot.Render(&b, plot.Options{}, d3))
}

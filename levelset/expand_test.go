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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
	"github.com/spatialmodel/topography/levelset"
)

func TestSphereValues(t *testing.T) {
	g := infiniteGrid(t)
	d := sphere(t, g, 0.5, -0.25, 5.3, 2)
	require.NoError(t, d.Check())
	window(10, func(i grid.Index) {
		want := circleDistance(i, 0.5, -0.25, 5.3)
		have := d.Value(i)
		if math.Abs(want) <= 1 {
			if math.Abs(have-want) > 1e-12 {
				t.Errorf("%v: %g != %g", i, have, want)
			}
		} else if (have < 0) != (want < 0) || math.Abs(have) != hrle.PosValue {
			t.Errorf("%v: undefined value %g for distance %g", i, have, want)
		}
	})
	// Far away points keep their sign.
	assert.Equal(t, hrle.PosValue, d.Value(grid.Index{1000000, -1000000}))
	assert.Equal(t, hrle.NegValue, d.Value(grid.Index{1, 1}))
}

func TestExpandReduce(t *testing.T) {
	g := infiniteGrid(t)
	ref := sphere(t, g, 0.5, -0.25, 5.3, 2)
	ref.Segment(1)
	ref.Expand(5)

	forSegments(t, func(t *testing.T, segments int) {
		d := sphere(t, g, 0.5, -0.25, 5.3, 2)
		d.Segment(segments)
		orig := d.Clone()

		d.Expand(5)
		assert.Equal(t, 5, d.Width())
		assert.Equal(t, segments, d.NumSegments())
		assert.Greater(t, d.NumPoints(), orig.NumPoints())
		assert.Equal(t, ref.Values(), d.Values())
		require.NoError(t, d.Check())
		for p := range d.Points() {
			if math.Abs(p.Value) > 2.5 {
				t.Errorf("%v: value %g outside of band", p.Index, p.Value)
			}
		}
		window(10, func(i grid.Index) {
			want := circleDistance(i, 0.5, -0.25, 5.3)
			if math.Abs(want) <= 1 && d.Value(i) != orig.Value(i) {
				t.Errorf("%v: expanding changed %g to %g", i, orig.Value(i), d.Value(i))
			}
		})

		// Expanding to a smaller width does nothing.
		n := d.NumPoints()
		d.Expand(3)
		assert.Equal(t, n, d.NumPoints())

		d.Reduce(2, false)
		assert.Equal(t, 2, d.Width())
		assert.Equal(t, segments, d.NumSegments())
		assert.Equal(t, orig.NumPoints(), d.NumPoints())
		assert.Equal(t, orig.Values(), d.Values())
	})
}

func TestExpandPointData(t *testing.T) {
	g := infiniteGrid(t)
	d := sphere(t, g, 0, 0, 4.2, 2)
	ids := make([]float64, d.NumPoints())
	for i := range ids {
		ids[i] = 1
	}
	d.PointData().InsertScalars("ids", ids)
	d.Expand(4)
	have := d.PointData().Scalars("ids")
	require.Len(t, have, d.NumPoints())
	for i, v := range have {
		if v != 1 {
			t.Errorf("point %d: %g != 1", i, v)
		}
	}
}

func TestPrune(t *testing.T) {
	g := infiniteGrid(t)
	forSegments(t, func(t *testing.T, segments int) {
		d := sphere(t, g, 0.5, -0.25, 5.3, 2)
		d.Segment(segments)
		d.Expand(5)
		d.Prune(false)
		assert.Equal(t, 2, d.Width())
		assert.Equal(t, segments, d.NumSegments())
		require.NoError(t, d.Check())
		for p := range d.Points() {
			if p.Value != 0 && !oppositeNeighbor(d, p.Index) {
				t.Errorf("%v: point %g has no neighbor of opposite sign", p.Index, p.Value)
			}
		}
		window(10, func(i grid.Index) {
			want := circleDistance(i, 0.5, -0.25, 5.3)
			if math.Abs(want) < 0.5 && math.Abs(d.Value(i)-want) > 1e-12 {
				t.Errorf("%v: %g != %g", i, d.Value(i), want)
			}
		})
	})
}

func TestEmpty(t *testing.T) {
	g := infiniteGrid(t)
	d := levelset.New(g)
	d.Expand(5)
	assert.Equal(t, 0, d.NumPoints())
	assert.NoError(t, d.Check())
	assert.Equal(t, hrle.PosValue, d.Value(grid.Index{3, 4}))
}

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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/levelset"
)

// bubble returns a substrate with its surface at y=0.3 and a closed void
// around (0, -6), split into the given number of segments.
func bubble(t *testing.T, segments int) *levelset.Domain {
	g := slabGrid(t)
	d := plane(t, g, 0.3, 2)
	d.Segment(segments)
	hole := sphere(t, g, 0.25, -6.25, 2.2, 2)
	require.NoError(t, d.Boolean(hole, levelset.RelativeComplement))
	require.Equal(t, segments, d.NumSegments())
	return d
}

func TestMarkVoidPoints(t *testing.T) {
	for _, top := range []levelset.TopSurface{levelset.LexHighest, levelset.Largest} {
		t.Run(top.String(), func(t *testing.T) {
			forSegments(t, func(t *testing.T, segments int) {
				d := bubble(t, segments)
				n := d.MarkVoidPoints(levelset.VoidOptions{TopSurface: top, SaveComponentIDs: true})
				assert.Equal(t, 3, n)
				markers := d.PointData().Scalars(levelset.VoidPointMarkersLabel)
				ids := d.PointData().Scalars(levelset.ConnectedComponentIDLabel)
				require.Len(t, markers, d.NumPoints())
				require.Len(t, ids, d.NumPoints())
				var voids int
				for p := range d.Points() {
					want := 0.
					if p.Index[1] < -2 {
						want = 1
						voids++
					}
					if markers[p.ID] != want {
						t.Errorf("%v: marker %g != %g", p.Index, markers[p.ID], want)
					}
					if ids[p.ID] < 0 || ids[p.ID] >= float64(n) {
						t.Errorf("%v: component %g out of range", p.Index, ids[p.ID])
					}
				}
				assert.Greater(t, voids, 0)
			})
		})
	}
}

// TestVoidSegmentBoundary splits the level set inside the void, so that
// the void and the open surface both span several segments.
func TestVoidSegmentBoundary(t *testing.T) {
	ref := bubble(t, 1)
	ref.MarkVoidPoints(levelset.VoidOptions{SaveComponentIDs: true})
	want := ref.PointData().Scalars(levelset.VoidPointMarkersLabel)
	wantIDs := ref.PointData().Scalars(levelset.ConnectedComponentIDLabel)
	for segments := 2; segments <= 12; segments++ {
		d := bubble(t, segments)
		assert.Equal(t, 3, d.MarkVoidPoints(levelset.VoidOptions{SaveComponentIDs: true}), "segments=%d", segments)
		assert.Equal(t, want, d.PointData().Scalars(levelset.VoidPointMarkersLabel), "segments=%d", segments)
		assert.Equal(t, wantIDs, d.PointData().Scalars(levelset.ConnectedComponentIDLabel), "segments=%d", segments)
	}
}

func TestMarkVoidPointsLexLowest(t *testing.T) {
	// The lowest grid point lies in the substrate, so the outside is
	// treated as a void.
	forSegments(t, func(t *testing.T, segments int) {
		d := bubble(t, segments)
		d.MarkVoidPoints(levelset.VoidOptions{TopSurface: levelset.LexLowest})
		markers := d.PointData().Scalars(levelset.VoidPointMarkersLabel)
		for p := range d.Points() {
			if p.Index[1] >= -2 && p.Value >= 0 && markers[p.ID] != 1 {
				t.Errorf("%v: positive surface point is not void", p.Index)
			}
		}
	})
}

func TestRemoveStrayPoints(t *testing.T) {
	forSegments(t, func(t *testing.T, segments int) {
		d := bubble(t, segments)
		surface := plane(t, d.Grid(), 0.3, 2)
		d.RemoveStrayPoints(levelset.LexHighest)
		require.NoError(t, d.Check())
		assert.Equal(t, segments, d.NumSegments())
		assert.Equal(t, surface.NumPoints(), d.NumPoints())
		assert.Equal(t, surface.Values(), d.Values())
		for p := range d.Points() {
			if p.Index[1] < -2 {
				t.Errorf("%v: void point %g was not removed", p.Index, p.Value)
			}
		}
		assert.Less(t, d.Value(grid.Index{0, -6}), 0.)
	})
}

func TestCheck(t *testing.T) {
	g := infiniteGrid(t)
	d := sphere(t, g, 0.5, -0.25, 5.3, 2)
	require.NoError(t, d.Check())

	// Flipping the defined values leaves points next to undefined points
	// of the opposite sign.
	v := d.Values()
	for i := range v {
		v[i] = -v[i]
	}
	d.SetValues(v)
	err := d.Check()
	require.Error(t, err)
	var ce *levelset.CheckError
	require.True(t, errors.As(err, &ce))
	assert.NotEmpty(t, ce.Issues)
	for _, issue := range ce.Issues {
		assert.Contains(t, []string{"+x", "-x", "+y", "-y"}, issue.Direction)
	}
}

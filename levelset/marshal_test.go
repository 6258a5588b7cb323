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
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/levelset"
)

func TestCalculateNormals(t *testing.T) {
	d := plane(t, slabGrid(t), 0.3, 3)
	normals := d.CalculateNormals(0.5, nil)
	require.Len(t, normals, d.NumPoints())
	assert.Equal(t, normals, d.PointData().Vectors(levelset.NormalsLabel))
	for p := range d.Points() {
		want := [3]float64{}
		if p.Value >= -0.5 && p.Value <= 0.5 {
			want = [3]float64{0, 1, 0}
		}
		if diff := cmp.Diff(want, normals[p.ID], cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("%v: (-want +have)\n%s", p.Index, diff)
		}
	}
}

func TestSphereNormals(t *testing.T) {
	d := sphere(t, infiniteGrid(t), 0, 0, 6.1, 2)
	d.Expand(3)
	normals := d.CalculateNormals(0.5, nil)
	for p := range d.Points() {
		n := normals[p.ID]
		if p.Value < -0.5 || p.Value > 0.5 {
			continue
		}
		// The normal points away from the center.
		if dot := n[0]*float64(p.Index[0]) + n[1]*float64(p.Index[1]); dot <= 0 {
			t.Errorf("%v: normal %v points inwards", p.Index, n)
		}
	}
}

func TestMarshal(t *testing.T) {
	d := sphere(t, infiniteGrid(t), 0.5, -0.25, 5.3, 2)
	d.Expand(4)
	d.CalculateNormals(0.5, nil)
	d.PointData().InsertScalars("ids", d.Values())

	b, err := d.MarshalBinary()
	require.NoError(t, err)
	o := new(levelset.Domain)
	require.NoError(t, o.UnmarshalBinary(b))

	assert.True(t, d.Grid().Equal(o.Grid()))
	assert.Equal(t, d.Width(), o.Width())
	assert.Equal(t, d.NumSegments(), o.NumSegments())
	assert.Equal(t, d.Values(), o.Values())
	assert.Equal(t, d.PointData(), o.PointData())
	window(10, func(i grid.Index) {
		if d.Value(i) != o.Value(i) {
			t.Errorf("%v: %g != %g", i, o.Value(i), d.Value(i))
		}
	})

	var buf bytes.Buffer
	n, err := o.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(b)), n)
	assert.Equal(t, b, buf.Bytes())
}

func TestMarshalEmpty(t *testing.T) {
	d := levelset.NewNegative(slabGrid(t))
	b, err := d.MarshalBinary()
	require.NoError(t, err)
	o := new(levelset.Domain)
	require.NoError(t, o.UnmarshalBinary(b))
	assert.Equal(t, 0, o.NumPoints())
	assert.True(t, o.PointData().Empty())
	assert.Less(t, o.Value(grid.Index{3, 100}), 0.)
}

func TestUnmarshalErrors(t *testing.T) {
	d := sphere(t, infiniteGrid(t), 0, 0, 3.3, 2)
	b, err := d.MarshalBinary()
	require.NoError(t, err)
	tests := []struct {
		name string
		b    []byte
	}{
		{name: "header", b: append([]byte("xxDomain"), b[8:]...)},
		{name: "version", b: append(append([]byte("lsDomain"), 7), b[9:]...)},
		{name: "truncated", b: b[:len(b)-3]},
		{name: "empty", b: nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := new(levelset.Domain)
			assert.Error(t, o.UnmarshalBinary(test.b))
		})
	}
}

func TestDense(t *testing.T) {
	g, err := grid.New(2, 1, []float64{0, 4, 0, 4}, []grid.Boundary{grid.Reflective, grid.Reflective})
	require.NoError(t, err)
	d := plane(t, g, 2.25, 2)
	a := d.Dense()
	assert.Equal(t, []int{5, 5}, a.Shape)
	for y := 0; y <= 4; y++ {
		want := float64(y) - 2.25
		if want > 1 {
			want = 1
		} else if want < -1 {
			want = -1
		}
		for x := 0; x <= 4; x++ {
			if have := a.Get(y, x); have != want {
				t.Errorf("(%d, %d): %g != %g", x, y, have, want)
			}
		}
	}
}

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

package grid

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T, bc Boundary) *Grid {
	g, err := New(2, 0.5, []float64{-2, 2, -1, 1}, []Boundary{bc, Infinite})
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		bc       Boundary
		min, max Index
	}{
		{name: "periodic", bc: Periodic, min: Index{-4, math.MinInt32}, max: Index{3, math.MaxInt32}},
		{name: "reflective", bc: Reflective, min: Index{-4, math.MinInt32}, max: Index{4, math.MaxInt32}},
		{name: "infinite", bc: Infinite, min: Index{math.MinInt32, math.MinInt32}, max: Index{math.MaxInt32, math.MaxInt32}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := testGrid(t, test.bc)
			if !reflect.DeepEqual(g.Min(), test.min) {
				t.Errorf("min: %v != %v", g.Min(), test.min)
			}
			if !reflect.DeepEqual(g.Max(), test.max) {
				t.Errorf("max: %v != %v", g.Max(), test.max)
			}
			lo, hi := g.Bounds()
			assert.Equal(t, Index{-4, -2}, lo)
			assert.Equal(t, Index{4, 2}, hi)
		})
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(4, 1, make([]float64, 8), make([]Boundary, 4))
	assert.Error(t, err)
	_, err = New(2, 0, []float64{0, 1, 0, 1}, []Boundary{Periodic, Periodic})
	assert.Error(t, err)
	_, err = New(2, 1, []float64{1, 0, 0, 1}, []Boundary{Periodic, Periodic})
	assert.Error(t, err)
	_, err = New(2, 1, []float64{0, 0, 0, 1}, []Boundary{Periodic, Periodic})
	assert.Error(t, err)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		bc     Boundary
		in     int
		result int
	}{
		{bc: Periodic, in: 4, result: -4},
		{bc: Periodic, in: -5, result: 3},
		{bc: Periodic, in: 13, result: -3},
		{bc: Reflective, in: 5, result: 3},
		{bc: Reflective, in: -6, result: -2},
		{bc: Reflective, in: 14, result: -2},
		{bc: Infinite, in: math.MaxInt32 + 4, result: math.MaxInt32},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %d", test.bc, test.in), func(t *testing.T) {
			g := testGrid(t, test.bc)
			r := g.Wrap(Index{test.in, 0})
			if r[0] != test.result {
				t.Errorf("wrap: %v != %v", r[0], test.result)
			}
		})
	}
}

func TestIncrement(t *testing.T) {
	g := testGrid(t, Periodic)
	i := Index{3, 0}
	assert.Equal(t, Index{-4, 1}, g.Increment(i))
	assert.Equal(t, i, g.Decrement(g.Increment(i)))
	assert.Equal(t, Index{-4, math.MaxInt32 + 1}, g.End())
	assert.True(t, Index{3, 0}.Less(Index{-4, 1}))
	assert.Equal(t, 0, Index{1, 2, 3}.Compare(Index{1, 2, 3}))
}

func TestPreimages(t *testing.T) {
	tests := []struct {
		name   string
		bc     Boundary
		s      Index
		step   int
		result []Index
	}{
		{name: "interior", bc: Periodic, s: Index{0, 0}, step: 1, result: []Index{{-1, 0}}},
		{name: "periodic wrap", bc: Periodic, s: Index{-4, 0}, step: 1, result: []Index{{3, 0}}},
		{name: "reflective mirror", bc: Reflective, s: Index{3, 0}, step: 1, result: []Index{{2, 0}, {4, 0}}},
		{name: "reflective low", bc: Reflective, s: Index{-3, 0}, step: -1, result: []Index{{-2, 0}, {-4, 0}}},
		{name: "infinite clamp", bc: Infinite, s: Index{math.MaxInt32, 0}, step: 1,
			result: []Index{{math.MaxInt32 - 1, 0}, {math.MaxInt32, 0}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := testGrid(t, test.bc)
			r := g.Preimages(test.s, 0, test.step)
			if !reflect.DeepEqual(r, test.result) {
				t.Errorf("preimages: %v != %v", r, test.result)
			}
		})
	}
}

func TestCoordinate(t *testing.T) {
	g := testGrid(t, Periodic)
	x := g.Coordinate(Index{3, -2})
	assert.Equal(t, [3]float64{1.5, -1, 0}, x)
	assert.Equal(t, Index{3, -2}, g.NearestIndex(x))
}

func TestMarshal(t *testing.T) {
	g, err := New(3, 0.25, []float64{-1, 1, 0, 2, -3, 3}, []Boundary{Reflective, Periodic, Infinite})
	require.NoError(t, err)
	b, err := g.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, BinarySize)
	g2 := new(Grid)
	require.NoError(t, g2.UnmarshalBinary(b))
	if !g.Equal(g2) {
		t.Errorf("grid: %v != %v", g2, g)
	}
	assert.Equal(t, g.Max(), g2.Max())
}

func TestParseBoundary(t *testing.T) {
	for _, bc := range []Boundary{Infinite, Periodic, Reflective} {
		r, err := ParseBoundary(bc.String())
		require.NoError(t, err)
		assert.Equal(t, bc, r)
	}
	_, err := ParseBoundary("sticky")
	assert.Error(t, err)
}

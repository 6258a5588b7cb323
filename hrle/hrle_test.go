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
	"bytes"
	"fmt"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/spatialmodel/topography/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bandDomain returns a two-row band along the x axis of a 2D grid.
func bandDomain(t *testing.T) *Domain {
	g, err := grid.New(2, 1, []float64{0, 10, -5, 5}, []grid.Boundary{grid.Reflective, grid.Infinite})
	require.NoError(t, err)
	d, src, err := Build(g, []grid.Index{g.Min()}, func(_ int, b *Builder) error {
		for y, v := range []float64{-0.3, 0.7} {
			for x := 0; x <= 10; x++ {
				b.Defined(grid.Index{x, y}, v, 100+x)
			}
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, src, 22)
	assert.Equal(t, 100, src[0])
	return d
}

// boxValue is a field that varies in all dimensions.
func boxValue(i grid.Index) float64 {
	return float64(i[2]) - 0.5*float64(i[0]%2) + 0.25*float64(i[1]%3) - 0.1
}

// boxDomain returns a 3D domain on a grid that is periodic in x and y.
// Points with |boxValue| <= 1 are defined.
func boxDomain(t *testing.T) *Domain {
	g, err := grid.New(3, 1, []float64{0, 5, 0, 5, -10, 10},
		[]grid.Boundary{grid.Periodic, grid.Periodic, grid.Infinite})
	require.NoError(t, err)
	d, _, err := Build(g, []grid.Index{g.Min()}, func(_ int, b *Builder) error {
		for z := -3; z <= 3; z++ {
			for y := 0; y <= 4; y++ {
				for x := 0; x <= 4; x++ {
					i := grid.Index{x, y, z}
					if v := boxValue(i); math.Abs(v) <= 1 {
						b.Defined(i, v, 0)
					} else {
						b.Undefined(i, v < 0)
					}
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
	return d
}

func expectedBox(i grid.Index) float64 {
	v := boxValue(i)
	switch {
	case math.Abs(v) <= 1:
		return v
	case v < 0:
		return NegValue
	default:
		return PosValue
	}
}

func TestLookup(t *testing.T) {
	d := bandDomain(t)
	tests := []struct {
		name string
		i    grid.Index
		v    float64
		id   int
	}{
		{name: "lower row", i: grid.Index{3, 0}, v: -0.3, id: 3},
		{name: "upper row", i: grid.Index{3, 1}, v: 0.7, id: 14},
		{name: "above", i: grid.Index{3, 5}, v: PosValue, id: -1},
		{name: "far below", i: grid.Index{3, -700}, v: NegValue, id: -1},
		{name: "reflected", i: grid.Index{12, 0}, v: -0.3, id: 8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := d.Lookup(test.i)
			if c.Value != test.v {
				t.Errorf("value: %v != %v", c.Value, test.v)
			}
			if c.PointID != test.id {
				t.Errorf("point id: %v != %v", c.PointID, test.id)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	d := bandDomain(t)
	var runs []Run
	for r := range d.Runs() {
		runs = append(runs, r)
	}
	require.Len(t, runs, 24)
	assert.Equal(t, grid.Index{0, math.MinInt32}, runs[0].Start)
	assert.Equal(t, grid.Index{10, -1}, runs[0].End)
	assert.Equal(t, NegValue, runs[0].Value)
	assert.Equal(t, grid.Index{0, 2}, runs[23].Start)
	assert.Equal(t, grid.Index{10, math.MaxInt32}, runs[23].End)
	for i, r := range runs[1:23] {
		assert.Equal(t, i, r.PointID)
		assert.Equal(t, r.Start, r.End)
	}
}

// TestSegmentedRuns checks that iteration covers every segment and that
// the runs tile the grid.
func TestSegmentedRuns(t *testing.T) {
	for name, d := range map[string]*Domain{"box": boxDomain(t), "band": bandDomain(t)} {
		for _, n := range []int{1, 3, 4} {
			t.Run(fmt.Sprintf("%s %d", name, n), func(t *testing.T) {
				d := d.Resegment(n)
				g := d.Grid()
				next := g.Min()
				id, segment := 0, 0
				for r := range d.Runs() {
					if r.Start != next {
						t.Fatalf("run starts at %v, want %v", r.Start, next)
					}
					if r.Segment < segment {
						t.Fatalf("segment %d after %d", r.Segment, segment)
					}
					segment = r.Segment
					if r.Defined() {
						if r.PointID != id {
							t.Fatalf("point id %d != %d", r.PointID, id)
						}
						id++
					} else {
						for _, i := range []grid.Index{r.Start, r.End} {
							if c := d.Lookup(i); c.Run != r.Run {
								t.Fatalf("lookup of %v: run %v != %v", i, c.Run, r.Run)
							}
						}
					}
					next = g.Increment(r.End)
				}
				assert.Equal(t, g.End(), next)
				assert.Equal(t, d.NumPoints(), id)
				assert.Equal(t, d.NumSegments()-1, segment)

				var k int
				for range d.Runs() {
					k++
					if k == 2 {
						break
					}
				}
				assert.Equal(t, 2, k)
			})
		}
	}
}

func TestBox(t *testing.T) {
	d := boxDomain(t)
	check := func(t *testing.T, d *Domain) {
		for z := -5; z <= 5; z++ {
			for y := 0; y <= 4; y++ {
				for x := 0; x <= 4; x++ {
					i := grid.Index{x, y, z}
					if v, want := d.Value(i), expectedBox(i); v != want {
						t.Fatalf("value at %v: %v != %v", i, v, want)
					}
				}
			}
		}
		id := 0
		var last grid.Index
		for pt := range d.Points() {
			if pt.ID != id {
				t.Fatalf("point id: %v != %v", pt.ID, id)
			}
			if id > 0 && !last.Less(pt.Index) {
				t.Fatalf("points out of order: %v after %v", pt.Index, last)
			}
			last = pt.Index
			id++
		}
		assert.Equal(t, d.NumPoints(), id)
	}
	t.Run("build", func(t *testing.T) { check(t, d) })
	t.Run("resegment", func(t *testing.T) {
		r := d.Resegment(4)
		assert.Equal(t, 4, r.NumSegments())
		check(t, r)
		assert.Equal(t, d.Values(), r.Values())
	})
	t.Run("transform", func(t *testing.T) {
		r, src, err := d.Transform(d.Balanced(3), func(s *Star, b *Builder) {
			Copy(s.Index, s.Center, b)
		})
		require.NoError(t, err)
		check(t, r)
		want := make([]int, d.NumPoints())
		for i := range want {
			want[i] = i
		}
		if !reflect.DeepEqual(src, want) {
			t.Errorf("sources: %v != %v", src, want)
		}
	})
}

// TestSweepPositions checks that the stars between two sweep positions do
// not change.
func TestSweepPositions(t *testing.T) {
	for name, d := range map[string]*Domain{"box": boxDomain(t), "band": bandDomain(t)} {
		t.Run(name, func(t *testing.T) {
			d = d.Resegment(3)
			var pos []grid.Index
			for s := range d.Stars() {
				pos = append(pos, s.Index)
			}
			require.True(t, slices.IsSortedFunc(pos, func(a, b grid.Index) int { return a.Compare(b) }))
			lo, hi := d.Grid().Bounds()
			zlo, zhi := 0, 0
			if d.Grid().Dims() == 3 {
				zlo, zhi = lo[2]-1, hi[2]+1
			}
			for z := zlo; z <= zhi; z++ {
				for y := lo[1] - 1; y <= hi[1]+1; y++ {
					for x := lo[0]; x <= hi[0]; x++ {
						i := d.Grid().Wrap(grid.Index{x, y, z})
						n, _ := slices.BinarySearchFunc(pos, i, func(a, b grid.Index) int { return a.Compare(b) })
						if n == len(pos) || pos[n] != i {
							n--
						}
						want := d.Star(pos[n])
						got := d.Star(i)
						if !reflect.DeepEqual(got.neighbors, want.neighbors) || !reflect.DeepEqual(got.Center, want.Center) {
							t.Fatalf("star at %v differs from star at sweep position %v", i, pos[n])
						}
					}
				}
			}
		})
	}
}

func TestStar(t *testing.T) {
	d := bandDomain(t)
	s := d.Star(grid.Index{0, 0})
	assert.Equal(t, -0.3, s.Neighbor(0).Value)
	assert.Equal(t, 0.7, s.Neighbor(1).Value)
	assert.Equal(t, 1, s.Neighbor(2).PointID)
	assert.Equal(t, NegValue, s.Neighbor(3).Value)
	assert.False(t, s.Neighbor(3).Defined())
}

func TestNew(t *testing.T) {
	d := bandDomain(t)
	e := New(d.Grid(), true)
	assert.Equal(t, 0, e.NumPoints())
	assert.Equal(t, NegValue, e.Value(grid.Index{4, 4}))
	n := 0
	for range e.Runs() {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestBuilderOrder(t *testing.T) {
	g := bandDomain(t).Grid()
	b := &Builder{g: g, start: g.Min(), end: g.Max()}
	b.Defined(grid.Index{1, 0}, 0, 0)
	assert.Panics(t, func() { b.Defined(grid.Index{0, 0}, 0, 0) })
	assert.Panics(t, func() { b.Undefined(grid.Index{1, 0}, true) })
}

func TestWithValues(t *testing.T) {
	d := bandDomain(t)
	v := d.Values()
	for i := range v {
		v[i] *= 2
	}
	d2 := d.WithValues(v)
	assert.True(t, d.SameTopology(d2))
	assert.Equal(t, 1.4, d2.Value(grid.Index{3, 1}))
	assert.Equal(t, 0.7, d.Value(grid.Index{3, 1}))
	assert.False(t, d.SameTopology(d.Resegment(2)))
}

func TestMarshal(t *testing.T) {
	d := boxDomain(t).Resegment(3)
	var b bytes.Buffer
	n, err := d.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)
	d2, err := Read(d.Grid(), &b)
	require.NoError(t, err)
	assert.True(t, d.SameTopology(d2))
	assert.Equal(t, d.Values(), d2.Values())
	_, err = Read(d.Grid(), bytes.NewReader([]byte{1, 0}))
	assert.Error(t, err)
}

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

package graph

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponents(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		comp  []int
		count int
	}{
		{name: "empty", n: 0, comp: []int{}, count: 0},
		{name: "isolated", n: 3, comp: []int{0, 1, 2}, count: 3},
		{name: "chain", n: 4, edges: [][2]int{{0, 1}, {1, 2}, {2, 3}}, comp: []int{0, 0, 0, 0}, count: 1},
		{name: "two", n: 5, edges: [][2]int{{0, 3}, {1, 4}, {4, 2}}, comp: []int{0, 1, 1, 0, 1}, count: 2},
		{name: "loops", n: 3, edges: [][2]int{{0, 0}, {1, 2}, {2, 1}}, comp: []int{0, 1, 1}, count: 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := New(test.n)
			for _, e := range test.edges {
				g.AddEdge(e[0], e[1])
			}
			comp, n := g.Components()
			if !reflect.DeepEqual(comp, test.comp) {
				t.Errorf("components: %v != %v", comp, test.comp)
			}
			if n != test.count {
				t.Errorf("count: %v != %v", n, test.count)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New(2)
	v := g.AddVertex()
	g.AddEdge(0, v)
	g.AddEdge(v, 0)
	g.AddEdge(1, 1)
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, []int{2}, g.Neighbors(0))
	assert.Equal(t, 3, g.Len())
}

// TestLongChain checks that large components are found.
func TestLongChain(t *testing.T) {
	const n = 100000
	g := New(n)
	for i := 1; i < n; i++ {
		g.AddEdge(i-1, i)
	}
	comp, count := g.Components()
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, comp[n-1])
}

// TestLabels checks that components are labelled in order of their lowest
// vertex for a random graph.
func TestLabels(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const n = 200
	g := New(n)
	for i := 0; i < 150; i++ {
		g.AddEdge(r.Intn(n), r.Intn(n))
	}
	comp, count := g.Components()
	next := 0
	for v, k := range comp {
		if k > next {
			t.Fatalf("vertex %d: label %d before label %d", v, k, next)
		}
		if k == next {
			next++
		}
		for _, u := range g.Neighbors(v) {
			if comp[u] != k {
				t.Errorf("neighbors %d and %d: components %d != %d", v, u, k, comp[u])
			}
		}
	}
	assert.Equal(t, count, next)
}

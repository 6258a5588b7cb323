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

// Package graph provides an undirected graph on dense vertex ids with
// connected component search.
package graph

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is an undirected graph whose vertices are numbered from 0.
type Graph struct {
	g *simple.UndirectedGraph
	n int
}

// New returns a graph with n vertices and no edges.
func New(n int) *Graph {
	g := &Graph{g: simple.NewUndirectedGraph()}
	for i := 0; i < n; i++ {
		g.AddVertex()
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return g.n }

// AddVertex adds a vertex and returns its id.
func (g *Graph) AddVertex() int {
	g.g.AddNode(simple.Node(g.n))
	g.n++
	return g.n - 1
}

// AddEdge connects vertices u and v. Self loops and repeated edges
// are ignored.
func (g *Graph) AddEdge(u, v int) {
	if u == v || g.g.HasEdgeBetween(int64(u), int64(v)) {
		return
	}
	g.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return g.g.Edges().Len() }

// Neighbors returns the vertices connected to u in increasing order.
func (g *Graph) Neighbors(u int) []int {
	var o []int
	it := g.g.From(int64(u))
	for it.Next() {
		o = append(o, int(it.Node().ID()))
	}
	slices.Sort(o)
	return o
}

// Components returns the connected component of every vertex. Components
// are numbered in order of their lowest vertex, starting at 0. The second
// return value is the number of components.
func (g *Graph) Components() ([]int, int) {
	cc := topo.ConnectedComponents(g.g)
	lowest := make([]int, len(cc))
	for k, nodes := range cc {
		lowest[k] = g.n
		for _, node := range nodes {
			lowest[k] = min(lowest[k], int(node.ID()))
		}
	}
	order := make([]int, len(cc))
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(a, b int) int { return lowest[a] - lowest[b] })

	comp := make([]int, g.n)
	for label, k := range order {
		for _, node := range cc[k] {
			comp[node.ID()] = label
		}
	}
	return comp, len(cc)
}

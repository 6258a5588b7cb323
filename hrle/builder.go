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
	"fmt"

	"github.com/spatialmodel/topography/grid"
)

// Builder collects the content of one segment in lexicographic order.
type Builder struct {
	g          *grid.Grid
	start, end grid.Index
	negative   bool

	events  []event
	sources []int
}

type event struct {
	idx      grid.Index
	defined  bool
	negative bool
	value    float64
}

// trailingNegative returns the sign of the points after the event.
func (e event) trailingNegative() bool {
	if e.defined {
		return e.value < 0
	}
	return e.negative
}

func (b *Builder) push(e event) {
	if e.idx.Less(b.start) || b.end.Less(e.idx) {
		panic(fmt.Errorf("hrle: index %v outside of segment [%v, %v]", e.idx, b.start, b.end))
	}
	if n := len(b.events); n > 0 && !b.events[n-1].idx.Less(e.idx) {
		panic(fmt.Errorf("hrle: index %v inserted after %v", e.idx, b.events[n-1].idx))
	}
	b.events = append(b.events, e)
}

// Defined sets the value of grid point i. source is recorded for the
// point and returned by Build, typically the id of the point that the
// value was derived from.
func (b *Builder) Defined(i grid.Index, value float64, source int) {
	b.push(event{idx: i, defined: true, value: value})
	b.sources = append(b.sources, source)
}

// Undefined marks grid point i and all following points up to the next
// inserted point as undefined.
func (b *Builder) Undefined(i grid.Index, negative bool) {
	if n := len(b.events); n > 0 && b.events[n-1].trailingNegative() == negative {
		if b.events[n-1].idx.Less(i) {
			return
		}
	}
	b.push(event{idx: i, negative: negative})
}

// Start returns the first index of the segment being built.
func (b *Builder) Start() grid.Index { return b.start }

// End returns the last index of the segment being built.
func (b *Builder) End() grid.Index { return b.end }

type interval struct {
	a, b     grid.Index
	defined  bool
	negative bool
	value    float64
}

// intervals converts the events into intervals that cover the
// whole grid. Points before the first event take its sign.
func (b *Builder) intervals() []interval {
	lo, hi := b.g.Min(), b.g.Max()
	if len(b.events) == 0 {
		return []interval{{a: lo, b: hi, negative: b.negative}}
	}
	var o []interval
	add := func(iv interval) {
		if n := len(o); n > 0 && !iv.defined && !o[n-1].defined && o[n-1].negative == iv.negative {
			o[n-1].b = iv.b
			return
		}
		o = append(o, iv)
	}
	cur := lo
	for i, e := range b.events {
		next := hi
		if i < len(b.events)-1 {
			next = b.g.Decrement(b.events[i+1].idx)
		}
		if !e.defined {
			add(interval{a: cur, b: next, negative: e.negative})
			cur = b.g.Increment(next)
			continue
		}
		if cur.Less(e.idx) {
			add(interval{a: cur, b: b.g.Decrement(e.idx), negative: e.value < 0})
		}
		add(interval{a: e.idx, b: e.idx, defined: true, value: e.value})
		if e.idx.Less(next) {
			add(interval{a: b.g.Increment(e.idx), b: next, negative: e.value < 0})
		}
		cur = b.g.Increment(next)
	}
	return o
}

func (b *Builder) finish() *segment {
	s := new(segment)
	D := b.g.Dims()
	s.buildRow(b.g, D-1, grid.Index{}, b.intervals())
	for k := 0; k < D; k++ {
		s.rows[k] = append(s.rows[k], len(s.runs[k]))
	}
	return s
}

func undefinedType(negative bool) int {
	if negative {
		return NegUndefined
	}
	return PosUndefined
}

// piece is the content of a range of coordinates of a row.
type piece struct {
	c0, c1   int
	uniform  bool
	negative bool
	ivs      []interval
}

// buildRow appends the row at level k whose higher coordinates are given
// by h. ivs must cover the row exactly and be sorted.
func (s *segment) buildRow(g *grid.Grid, k int, h grid.Index, ivs []interval) {
	rowStart := len(s.runs[k])
	s.rows[k] = append(s.rows[k], rowStart)
	lastRun := func() int {
		if n := len(s.runs[k]); n > rowStart {
			return s.runs[k][n-1]
		}
		return 0
	}
	hasRun := func() bool { return len(s.runs[k]) > rowStart }

	if k == 0 {
		for _, iv := range ivs {
			if iv.defined {
				if !hasRun() || lastRun() < 0 {
					s.runs[0] = append(s.runs[0], len(s.values))
					s.starts[0] = append(s.starts[0], iv.a[0])
				}
				s.values = append(s.values, iv.value)
				continue
			}
			typ := undefinedType(iv.negative)
			if hasRun() && lastRun() == typ {
				continue
			}
			s.runs[0] = append(s.runs[0], typ)
			s.starts[0] = append(s.starts[0], iv.a[0])
		}
		return
	}

	gmin, gmax := g.Min(), g.Max()
	sliceStart := func(c int) grid.Index {
		i := h
		i[k] = c
		for j := 0; j < k; j++ {
			i[j] = gmin[j]
		}
		return i
	}
	sliceEnd := func(c int) grid.Index {
		i := h
		i[k] = c
		for j := 0; j < k; j++ {
			i[j] = gmax[j]
		}
		return i
	}

	var pieces []piece
	addUniform := func(c0, c1 int, negative bool) {
		if n := len(pieces); n > 0 && pieces[n-1].uniform && pieces[n-1].negative == negative {
			pieces[n-1].c1 = c1
			return
		}
		pieces = append(pieces, piece{c0: c0, c1: c1, uniform: true, negative: negative})
	}
	addPartial := func(c int, iv interval) {
		if n := len(pieces); n > 0 && !pieces[n-1].uniform && pieces[n-1].c0 == c {
			pieces[n-1].ivs = append(pieces[n-1].ivs, iv)
			return
		}
		pieces = append(pieces, piece{c0: c, c1: c, ivs: []interval{iv}})
	}
	for _, iv := range ivs {
		ca, cb := iv.a[k], iv.b[k]
		if iv.defined {
			addPartial(ca, iv)
			continue
		}
		aFull := iv.a == sliceStart(ca)
		bFull := iv.b == sliceEnd(cb)
		if ca == cb {
			if aFull && bFull {
				addUniform(ca, ca, iv.negative)
			} else {
				addPartial(ca, iv)
			}
			continue
		}
		if aFull {
			addUniform(ca, ca, iv.negative)
		} else {
			first := iv
			first.b = sliceEnd(ca)
			addPartial(ca, first)
		}
		if cb-ca > 1 {
			addUniform(ca+1, cb-1, iv.negative)
		}
		if bFull {
			addUniform(cb, cb, iv.negative)
		} else {
			last := iv
			last.a = sliceStart(cb)
			addPartial(cb, last)
		}
	}

	for _, pc := range pieces {
		if !pc.uniform {
			if neg, ok := uniformSign(pc.ivs); ok {
				pc.uniform, pc.negative = true, neg
			}
		}
		if pc.uniform {
			typ := undefinedType(pc.negative)
			if hasRun() && lastRun() == typ {
				continue
			}
			s.runs[k] = append(s.runs[k], typ)
			s.starts[k] = append(s.starts[k], pc.c0)
			continue
		}
		if !hasRun() || lastRun() < 0 {
			s.runs[k] = append(s.runs[k], len(s.rows[k-1]))
			s.starts[k] = append(s.starts[k], pc.c0)
		}
		sub := h
		sub[k] = pc.c0
		s.buildRow(g, k-1, sub, pc.ivs)
	}
}

// uniformSign reports whether all intervals are undefined with one sign.
func uniformSign(ivs []interval) (negative, ok bool) {
	for i, iv := range ivs {
		if iv.defined || (i > 0 && iv.negative != ivs[0].negative) {
			return false, false
		}
	}
	return ivs[0].negative, true
}

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

// Build creates a domain with one segment for every entry of starts,
// which must be strictly increasing and begin with the lowest grid index.
// fill is called concurrently, once for every segment, and inserts the
// content of the index range [b.Start(), b.End()] into b.
//
// Build returns the source ids that were passed to Builder.Defined,
// ordered by the id of the resulting points.
func Build(g *grid.Grid, starts []grid.Index, fill func(p int, b *Builder) error) (*Domain, []int, error) {
	if len(starts) == 0 || starts[0] != g.Min() {
		return nil, nil, fmt.Errorf("hrle: segmentation must start at %v", g.Min())
	}
	for p := 1; p < len(starts); p++ {
		if !starts[p-1].Less(starts[p]) || !g.Contains(starts[p]) {
			return nil, nil, fmt.Errorf("hrle: invalid segmentation %v", starts)
		}
	}
	d := &Domain{
		g:       g,
		starts:  append([]grid.Index(nil), starts...),
		segs:    make([]*segment, len(starts)),
		offsets: make([]int, len(starts)+1),
	}
	sources := make([][]int, len(starts))
	err := ForEach(len(starts), func(p int) error {
		b := &Builder{g: g, start: d.starts[p], end: d.SegmentEnd(p)}
		if err := fill(p, b); err != nil {
			return err
		}
		d.segs[p] = b.finish()
		sources[p] = b.sources
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	var src []int
	for p, s := range d.segs {
		d.offsets[p+1] = d.offsets[p] + len(s.values)
		src = append(src, sources[p]...)
	}
	return d, src, nil
}

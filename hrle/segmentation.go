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
	"runtime"

	"github.com/spatialmodel/topography/grid"
)

// DefaultSegments returns the number of segments that domains are split
// into after structural changes.
func DefaultSegments() int { return runtime.GOMAXPROCS(0) }

// Balanced returns a segmentation of at most n segments in which the
// defined points are divided evenly.
func (d *Domain) Balanced(n int) []grid.Index {
	starts := []grid.Index{d.g.Min()}
	N := d.NumPoints()
	if n <= 1 || N == 0 {
		return starts
	}
	if n > N {
		n = N
	}
	next, i := 1, 0
	for pt := range d.Points() {
		if next >= n {
			break
		}
		if i == next*N/n {
			if starts[len(starts)-1].Less(pt.Index) {
				starts = append(starts, pt.Index)
			}
			next++
		}
		i++
	}
	return starts
}

// Resegment returns a copy of d with a balanced segmentation of n segments.
// The ids of the defined points do not change.
func (d *Domain) Resegment(n int) *Domain {
	o, _, err := d.Map(d.Balanced(n), Copy)
	if err != nil {
		panic(err)
	}
	return o
}

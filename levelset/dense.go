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

package levelset

import (
	"math"

	"github.com/ctessum/sparse"

	"github.com/spatialmodel/topography/grid"
)

// DenseBounds returns the lowest and highest index covered by Dense.
// These are the nominal bounds of the grid, limited to the stored range.
func (d *Domain) DenseBounds() (lo, hi grid.Index) {
	g := d.Grid()
	lo, hi = g.Bounds()
	gmin, gmax := g.Min(), g.Max()
	for k := 0; k < g.Dims(); k++ {
		lo[k] = max(lo[k], gmin[k])
		hi[k] = min(hi[k], gmax[k])
	}
	return lo, hi
}

// Dense returns the values of the level set within DenseBounds as a dense
// array. The array is indexed with the highest dimension first, so that
// element (j, i) of a 2D level set holds grid point (i+lo[0], j+lo[1]).
// Undefined points hold ±Width()/2.
func (d *Domain) Dense() *sparse.DenseArray {
	g := d.Grid()
	D := g.Dims()
	lo, hi := d.DenseBounds()
	shape := make([]int, D)
	for k := 0; k < D; k++ {
		shape[D-1-k] = hi[k] - lo[k] + 1
	}
	o := sparse.ZerosDense(shape...)
	limit := float64(d.width) * 0.5
	idx := make([]int, D)
	i := lo
	for {
		v := d.Value(i)
		if math.Abs(v) > limit {
			v = math.Copysign(limit, v)
		}
		for k := 0; k < D; k++ {
			idx[D-1-k] = i[k] - lo[k]
		}
		o.Set(v, idx...)

		k := 0
		for ; k < D; k++ {
			if i[k] < hi[k] {
				i[k]++
				break
			}
			i[k] = lo[k]
		}
		if k == D {
			break
		}
	}
	return o
}

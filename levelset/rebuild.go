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

	"github.com/spatialmodel/topography/hrle"
)

// Rebuild derives a band of width 2 from a level set whose values were
// moved without keeping them signed distances. Only the defined points
// p for which keep[p] is true take part; all others read as undefined
// points of their sign. keep may be nil to use every point.
// Point data follows the points the new values were taken from.
func (d *Domain) Rebuild(keep []bool) {
	value := func(c hrle.Cell) float64 {
		if c.Defined() && (keep == nil || keep[c.PointID]) {
			return c.Value
		}
		return sentinel(c.Value < 0)
	}
	h, src := d.mustTransform(d.hrle.Balanced(d.numSegments()), func(s *hrle.Star, b *hrle.Builder) {
		c := value(s.Center)
		n := 2 * s.Dims()
		if math.Abs(c) <= 1 {
			crossing := false
			for k := 0; k < n; k++ {
				if math.Signbit(value(s.Neighbor(k))-1e-7) != math.Signbit(c+1e-7) {
					crossing = true
					break
				}
			}
			if !crossing {
				b.Undefined(s.Index, c < 0)
				return
			}
			// Values beyond half a grid point are clipped when the
			// neighbor across the surface is also far from it.
			if c > 0.5 || c < -0.5 {
				for k := 0; k < n; k++ {
					nb := s.Neighbor(k)
					v := value(nb)
					if math.Abs(v) > 1 {
						continue
					}
					if c > 0.5 && v < -0.5 {
						b.Defined(s.Index, 0.5, nb.PointID)
						return
					}
					if c < -0.5 && v > 0.5 {
						b.Defined(s.Index, -0.5, nb.PointID)
						return
					}
				}
			}
			b.Defined(s.Index, c, s.Center.PointID)
			return
		}
		if c >= 0 {
			dist, from := hrle.PosValue, -1
			for k := 0; k < n; k++ {
				nb := s.Neighbor(k)
				if v := value(nb); math.Abs(v) <= 1 && v < 0 && v+1 < dist {
					dist, from = v+1, nb.PointID
				}
			}
			if from >= 0 && dist <= 1 {
				b.Defined(s.Index, dist, from)
			} else {
				b.Undefined(s.Index, false)
			}
			return
		}
		dist, from := hrle.NegValue, -1
		for k := 0; k < n; k++ {
			nb := s.Neighbor(k)
			if v := value(nb); math.Abs(v) <= 1 && v > 0 && v-1 > dist {
				dist, from = v-1, nb.PointID
			}
		}
		if from >= 0 && dist >= -1 {
			b.Defined(s.Index, dist, from)
		} else {
			b.Undefined(s.Index, true)
		}
	})
	d.replace(h, src, 2)
	d.segment()
}

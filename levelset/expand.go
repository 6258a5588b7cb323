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

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// eps is the smallest magnitude that is treated as non-zero when deciding
// the sign of a value.
const eps = 2.220446049250313e-16

func isNegative(v float64) bool { return v <= -eps }

// Expand grows the narrow band until it is width grid points wide. The band
// grows by half a grid point per pass, because the distance of a new point
// is derived from a neighbor that must have been finalized in an earlier
// pass. Point data of new points is copied from that neighbor.
// Expand does nothing if width is not larger than the current width or if
// the level set has no defined points.
func (d *Domain) Expand(width int) {
	if width <= d.width || d.NumPoints() == 0 {
		return
	}
	start := d.width
	total := float64(width) * 0.5
	for cycle := 0; cycle < width-start; cycle++ {
		limit := float64(start+cycle+1) * 0.5
		h, src := d.mustTransform(d.hrle.Balanced(d.numSegments()), func(s *hrle.Star, b *hrle.Builder) {
			c := s.Center
			if c.Defined() && math.Abs(c.Value) <= total {
				b.Defined(s.Index, c.Value, c.PointID)
				return
			}
			if c.Value > -eps {
				dist, from := hrle.PosValue, -1
				for i := 0; i < 2*s.Dims(); i++ {
					n := s.Neighbor(i)
					if n.Defined() && n.Value+1 < dist {
						dist, from = n.Value+1, n.PointID
					}
				}
				if from >= 0 && dist <= limit {
					b.Defined(s.Index, dist, from)
				} else {
					b.Undefined(s.Index, false)
				}
				return
			}
			dist, from := hrle.NegValue, -1
			for i := 0; i < 2*s.Dims(); i++ {
				n := s.Neighbor(i)
				if n.Defined() && n.Value-1 > dist {
					dist, from = n.Value-1, n.PointID
				}
			}
			if from >= 0 && dist >= -limit {
				b.Defined(s.Index, dist, from)
			} else {
				b.Undefined(s.Index, true)
			}
		})
		d.replace(h, src, d.width)
	}
	d.segment()
	d.width = width
}

// Reduce removes all defined points whose value is larger than width/2 in
// magnitude and sets the band width. Point data of the remaining points is
// kept in order. If keepSegmentation is false the segments are balanced
// afterwards. Reduce does nothing if width is not smaller than the current
// width.
func (d *Domain) Reduce(width int, keepSegmentation bool) {
	if width >= d.width {
		return
	}
	d.reduce(float64(width)*0.5, keepSegmentation)
	d.width = width
}

func (d *Domain) reduce(limit float64, keepSegmentation bool) {
	h, src := d.mustMap(d.hrle.Segmentation(), func(i grid.Index, c hrle.Cell, b *hrle.Builder) {
		if c.Defined() && math.Abs(c.Value) <= limit {
			b.Defined(i, c.Value, c.PointID)
		} else {
			b.Undefined(i, c.Value < 0)
		}
	})
	d.replace(h, src, d.width)
	if !keepSegmentation {
		d.segment()
	}
}

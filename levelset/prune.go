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

func signDifferent(a, b float64) bool { return isNegative(a) != isNegative(b) }

func signDifferentOrZero(a, b float64) bool {
	if a == 0 || b == 0 {
		return true
	}
	return signDifferent(a, b)
}

// monotone reports whether the field can be monotone across a zero
// value that lies between a and c.
func monotone(a, c float64) bool {
	return a == 0 || c == 0 || signDifferent(a, c)
}

// Prune removes every defined point that has no neighbor of opposite sign.
// Points with a value of exactly zero are always kept. If removeStrayZeros
// is set, zero-valued neighbors count as opposite sign, and a zero point
// across which the field is not monotone in some dimension takes the value
// of its neighbor with the smaller magnitude in that dimension.
// The band width becomes 2.
func (d *Domain) Prune(removeStrayZeros bool) {
	h, src := d.mustTransform(d.hrle.Segmentation(), func(s *hrle.Star, b *hrle.Builder) {
		c := s.Center
		if !c.Defined() {
			b.Undefined(s.Index, isNegative(c.Value))
			return
		}
		D := s.Dims()
		keep := true
		if c.Value != 0 {
			different := signDifferent
			if removeStrayZeros {
				different = signDifferentOrZero
			}
			keep = false
			for i := 0; i < 2*D; i++ {
				if different(c.Value, s.Neighbor(i).Value) {
					keep = true
					break
				}
			}
		} else if removeStrayZeros {
			for i := 0; i < D; i++ {
				pos, neg := s.Neighbor(i).Value, s.Neighbor(i+D).Value
				if monotone(pos, neg) {
					continue
				}
				v := neg
				if math.Abs(pos) < math.Abs(neg) {
					v = pos
				}
				if math.Abs(v) == hrle.PosValue {
					b.Undefined(s.Index, v < 0)
				} else {
					b.Defined(s.Index, v, c.PointID)
				}
				return
			}
		}
		if keep {
			b.Defined(s.Index, c.Value, c.PointID)
		} else {
			b.Undefined(s.Index, isNegative(c.Value))
		}
	})
	d.replace(h, src, 2)
	d.segment()
}

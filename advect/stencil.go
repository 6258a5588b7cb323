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

package advect

import (
	"math"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// stencil reads the values around one point of a level set. Values are in
// grid units. Undefined points read as the band limit of their sign.
type stencil struct {
	h     *hrle.Domain
	g     *grid.Grid
	limit float64

	center grid.Index
	id     int
	phi0   float64
	coord  [3]float64
}

func newStencil(h *hrle.Domain, width int) *stencil {
	return &stencil{h: h, g: h.Grid(), limit: float64(width) * 0.5}
}

func (s *stencil) moveTo(p hrle.Point) {
	s.center = p.Index
	s.id = p.ID
	s.phi0 = p.Value
	s.coord = s.g.Coordinate(p.Index)
}

func (s *stencil) dims() int { return s.g.Dims() }

func (s *stencil) delta() float64 { return s.g.Delta() }

func (s *stencil) read(i grid.Index) float64 {
	c := s.h.Lookup(i)
	if c.Defined() {
		return c.Value
	}
	if c.Negative() {
		return -s.limit
	}
	return s.limit
}

// at returns the value at offset o from the centre.
func (s *stencil) at(o grid.Index) float64 {
	if o == (grid.Index{}) {
		return s.phi0
	}
	return s.read(s.g.Offset(s.center, o))
}

// axis returns the value step grid points away from the centre along
// dimension k.
func (s *stencil) axis(k, step int) float64 {
	if step == 0 {
		return s.phi0
	}
	return s.read(s.g.Neighbor(s.center, k, step))
}

// upwind returns the forward and backward differences of dimension k.
// For order 2 they are corrected with the second difference of smaller
// magnitude, where it has the same sign as the central one.
func (s *stencil) upwind(k, order int) (diffPos, diffNeg float64) {
	dp, dn := s.delta(), -s.delta()
	phi0 := s.phi0
	phiPos, phiNeg := s.axis(k, 1), s.axis(k, -1)
	diffPos = (phiPos - phi0) / dp
	diffNeg = (phiNeg - phi0) / dn
	if order != 2 {
		return diffPos, diffNeg
	}
	dpp, dnn := 2*dp, 2*dn
	phiPP, phiNN := s.axis(k, 2), s.axis(k, -2)
	diff00 := ((dn*phiPos-dp*phiNeg)/(dp-dn) + phi0) / (dp * dn)
	diffNN := ((dn*phiNN-dnn*phiNeg)/(dnn-dn) + phi0) / (dnn * dn)
	diffPP := ((dp*phiPP-dpp*phiPos)/(dpp-dp) + phi0) / (dpp * dp)
	if math.Signbit(diff00) == math.Signbit(diffPP) {
		if math.Abs(diffPP*dp) < math.Abs(diff00*dn) {
			diffPos -= dp * diffPP
		} else {
			diffPos += dn * diff00
		}
	}
	if math.Signbit(diff00) == math.Signbit(diffNN) {
		if math.Abs(diffNN*dn) < math.Abs(diff00*dp) {
			diffNeg -= dn * diffNN
		} else {
			diffNeg += dp * diff00
		}
	}
	return diffPos, diffNeg
}

// centralAt returns the central difference of dimension k at offset o.
func (s *stencil) centralAt(o grid.Index, k int) float64 {
	pos, neg := o, o
	pos[k]++
	neg[k]--
	return (s.at(pos) - s.at(neg)) * 0.5 / s.delta()
}

// normalAt returns the normalized central difference gradient at offset o.
func (s *stencil) normalAt(o grid.Index) [3]float64 {
	var n [3]float64
	for k := 0; k < s.dims(); k++ {
		n[k] = s.centralAt(o, k)
	}
	return normalize(n)
}

// normalize scales n to unit length. Zero vectors are returned unchanged.
func normalize(n [3]float64) [3]float64 {
	m := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if m == 0 {
		return n
	}
	return [3]float64{n[0] / m, n[1] / m, n[2] / m}
}

// box calls f for every offset in [-r, r] of each dimension.
func box(dims, r int, f func(o grid.Index)) {
	var o grid.Index
	for k := 0; k < dims; k++ {
		o[k] = -r
	}
	for {
		f(o)
		k := 0
		for ; k < dims; k++ {
			if o[k] < r {
				break
			}
			o[k] = -r
		}
		if k == dims {
			return
		}
		o[k]++
	}
}

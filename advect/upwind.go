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
)

// kernel evaluates a spatial scheme at the points of a level set.
// A kernel is used by a single goroutine.
type kernel interface {
	// rate returns the Hamiltonian and the dissipation at the centre of s
	// for a point of the given material. The level set moves with
	// the difference of both.
	rate(s *stencil, material int) (hamiltonian, dissipation float64)

	// limit returns the largest stable time step not larger than dt,
	// given the rates computed so far.
	limit(dt float64) float64
}

func sq(v float64) float64 { return v * v }

// upwindVector returns the contribution of a vector velocity, using the
// one sided difference on the upwind side of each component.
func upwindVector(v [3]float64, gradPos, gradNeg [3]float64, dims int) float64 {
	var r float64
	for k := 0; k < dims; k++ {
		if v[k] > 0 {
			r += v[k] * gradPos[k]
		} else {
			r += v[k] * gradNeg[k]
		}
	}
	return r
}

type engquistOsher struct {
	order   int
	vel     VelocityField
	normals bool
}

func (e *engquistOsher) rate(s *stencil, material int) (float64, float64) {
	D := s.dims()
	var gradPos, gradNeg [3]float64
	var posTotal, negTotal float64
	for k := 0; k < D; k++ {
		diffPos, diffNeg := s.upwind(k, e.order)
		gradPos[k], gradNeg[k] = diffNeg, diffPos
		posTotal += sq(max(diffNeg, 0)) + sq(min(diffPos, 0))
		negTotal += sq(min(diffNeg, 0)) + sq(max(diffPos, 0))
	}
	var normal [3]float64
	if e.normals {
		normal = s.normalAt(grid.Index{})
	}
	sv := e.vel.ScalarVelocity(s.coord, material, normal, s.id)
	vv := e.vel.VectorVelocity(s.coord, material, normal, s.id)
	var r float64
	if sv > 0 {
		r = math.Sqrt(posTotal) * sv
	} else {
		r = math.Sqrt(negTotal) * sv
	}
	return r + upwindVector(vv, gradPos, gradNeg, D), 0
}

func (e *engquistOsher) limit(dt float64) float64 { return dt }

type weno5 struct {
	vel     VelocityField
	normals bool
}

// wenoEps keeps the smoothness weights finite.
const wenoEps = 1e-6

// wenoDerivative returns the fifth order approximation of the derivative at
// the centre of the seven values x, from the left if plus is false and from
// the right otherwise.
func wenoDerivative(x *[7]float64, dx float64, plus bool) float64 {
	var d [5]float64
	for i := range d {
		if plus {
			d[i] = x[6-i] - x[5-i]
		} else {
			d[i] = x[i+1] - x[i]
		}
	}
	s1 := 13.0/12.0*sq(d[0]-2*d[1]+d[2]) + 0.25*sq(d[0]-4*d[1]+3*d[2])
	s2 := 13.0/12.0*sq(d[1]-2*d[2]+d[3]) + 0.25*sq(d[1]-d[3])
	s3 := 13.0/12.0*sq(d[2]-2*d[3]+d[4]) + 0.25*sq(3*d[2]-4*d[3]+d[4])
	e := wenoEps * dx * dx
	a1 := 0.1 / (e + s1)
	a2 := 0.6 / (e + s2)
	a3 := 0.3 / (e + s3)
	p1 := (2*d[0] - 7*d[1] + 11*d[2]) / 6
	p2 := (-d[1] + 5*d[2] + 2*d[3]) / 6
	p3 := (2*d[2] + 5*d[3] - d[4]) / 6
	return (a1*p1 + a2*p2 + a3*p3) / ((a1 + a2 + a3) * dx)
}

func (w *weno5) rate(s *stencil, material int) (float64, float64) {
	D := s.dims()
	var minus, plus [3]float64
	var posTotal, negTotal float64
	var x [7]float64
	for k := 0; k < D; k++ {
		for j := range x {
			x[j] = s.axis(k, j-3)
		}
		minus[k] = wenoDerivative(&x, s.delta(), false)
		plus[k] = wenoDerivative(&x, s.delta(), true)
		posTotal += sq(max(minus[k], 0)) + sq(min(plus[k], 0))
		negTotal += sq(min(minus[k], 0)) + sq(max(plus[k], 0))
	}
	var normal [3]float64
	if w.normals {
		normal = s.normalAt(grid.Index{})
	}
	sv := w.vel.ScalarVelocity(s.coord, material, normal, s.id)
	vv := w.vel.VectorVelocity(s.coord, material, normal, s.id)
	var r float64
	if sv > 0 {
		r = math.Sqrt(posTotal) * sv
	} else {
		r = math.Sqrt(negTotal) * sv
	}
	return r + upwindVector(vv, minus, plus, D), 0
}

// limit halves the time step, which the reconstruction needs to stay
// stable with a forward Euler step.
func (w *weno5) limit(dt float64) float64 { return dt * 0.5 }

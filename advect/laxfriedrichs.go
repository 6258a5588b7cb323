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

	"gonum.org/v1/gonum/floats"

	"github.com/spatialmodel/topography/grid"
)

// dissipation kinds of the Lax-Friedrichs schemes.
type lfMode int

const (
	// one coefficient per direction for the whole surface
	lfGlobal lfMode = iota
	// largest wave speed of the neighborhood
	lfLocal
	// wave speed of the point itself
	lfLocalLocal
	// coefficients from a DissipationField
	lfAnalytical
)

type laxFriedrichs struct {
	mode    lfMode
	order   int
	vel     VelocityField
	factor  float64
	normals bool
	dims    int
	delta   float64

	// alphas holds the global coefficients, or the largest local
	// coefficients encountered.
	alphas [3]float64
}

func (l *laxFriedrichs) rate(s *stencil, material int) (float64, float64) {
	D := l.dims
	var gradPos, gradNeg, normal [3]float64
	var grad float64
	for k := 0; k < D; k++ {
		diffPos, diffNeg := s.upwind(k, l.order)
		gradPos[k], gradNeg[k] = diffNeg, diffPos
		c := (diffNeg + diffPos) * 0.5
		normal[k] = c
		grad += c * c
	}
	if l.mode == lfGlobal && !l.normals {
		normal = [3]float64{}
	} else {
		normal = normalize(normal)
	}
	sv := l.vel.ScalarVelocity(s.coord, material, normal, s.id)
	vv := l.vel.VectorVelocity(s.coord, material, normal, s.id)
	var h float64
	if sv != 0 {
		h = sv * math.Sqrt(grad)
	}
	h += upwindVector(vv, gradPos, gradNeg, D)

	var alpha [3]float64
	factor := l.factor
	switch l.mode {
	case lfGlobal:
		alpha = l.alphas
	case lfLocalLocal:
		for k := 0; k < D; k++ {
			alpha[k] = math.Abs((sv + vv[k]) * normal[k])
		}
	case lfLocal:
		box(D, 1, func(o grid.Index) {
			n := s.normalAt(o)
			coord := s.coord
			for k := 0; k < D; k++ {
				coord[k] += float64(o[k]) * l.delta
			}
			nsv := l.vel.ScalarVelocity(coord, material, n, s.id)
			nvv := l.vel.VectorVelocity(coord, material, n, s.id)
			for k := 0; k < D; k++ {
				alpha[k] = max(alpha[k], math.Abs((nsv+nvv[k])*n[k]))
			}
		})
	case lfAnalytical:
		factor = 1
		box(D, 1, func(o grid.Index) {
			var cd [3]float64
			for k := 0; k < D; k++ {
				cd[k] = s.centralAt(o, k)
			}
			for k := 0; k < D; k++ {
				alpha[k] = max(alpha[k], dissipationAlpha(l.vel, k, material, cd))
			}
		})
	default:
		panic("not possible")
	}
	if l.mode != lfGlobal {
		for k := 0; k < D; k++ {
			l.alphas[k] = max(l.alphas[k], alpha[k])
		}
	}
	if h == 0 {
		return 0, 0
	}
	var dissipation float64
	for k := 0; k < D; k++ {
		dissipation += factor * alpha[k] * (gradNeg[k] - gradPos[k]) * 0.5
	}
	return h, dissipation
}

func (l *laxFriedrichs) limit(dt float64) float64 {
	return min(dt, alphaTimeStep(l.alphas, l.dims, l.delta))
}

// alphaTimeStep returns the time step at which the dissipation
// coefficients alphas keep an explicit update stable.
func alphaTimeStep(alphas [3]float64, dims int, delta float64) float64 {
	var sum float64
	for k := 0; k < dims; k++ {
		sum += alphas[k] / delta
	}
	if sum == 0 {
		return math.Inf(1)
	}
	return 1 / sum
}

// normalEpsilon is the step of the finite differences of the velocity
// with respect to the normal, relative to the velocity.
var normalEpsilon = math.Cbrt(0x1p-52)

// stencilLaxFriedrichs is the first order Lax-Friedrichs scheme whose
// dissipation is the largest partial derivative of the Hamiltonian over
// the stencil of the point.
type stencilLaxFriedrichs struct {
	vel    VelocityField
	factor float64
	dims   int
	delta  float64
	alphas [3]float64
}

// gradientAt returns the central difference gradient at offset o.
// Components beyond the dimension of the grid are zero.
func (l *stencilLaxFriedrichs) gradientAt(s *stencil, o grid.Index) [3]float64 {
	var g [3]float64
	for k := 0; k < l.dims; k++ {
		g[k] = s.centralAt(o, k)
	}
	return g
}

func (l *stencilLaxFriedrichs) rate(s *stencil, material int) (float64, float64) {
	D := l.dims
	normal := s.normalAt(grid.Index{})
	sv := l.vel.ScalarVelocity(s.coord, material, normal, s.id)
	vv := l.vel.VectorVelocity(s.coord, material, normal, s.id)
	for k := 0; k < D; k++ {
		sv += vv[k] * normal[k]
	}
	if sv == 0 {
		return 0, 0
	}
	g0 := l.gradientAt(s, grid.Index{})
	hamiltonian := floats.Norm(g0[:D], 2) * sv

	var alpha [3]float64
	box(D, 1, func(o grid.Index) {
		n := s.normalAt(o)
		if math.Abs(n[0]) < 1e-6 && math.Abs(n[1]) < 1e-6 && math.Abs(n[2]) < 1e-6 {
			return
		}
		coord := s.coord
		for k := 0; k < D; k++ {
			coord[k] += float64(o[k]) * l.delta
		}
		lsv := l.vel.ScalarVelocity(coord, material, n, s.id)
		lvv := l.vel.VectorVelocity(coord, material, n, s.id)
		for k := 0; k < D; k++ {
			lsv += lvv[k] * n[k]
		}

		// Derivatives of the scalar velocity with respect to the normal.
		dn := math.Abs(normalEpsilon * sv)
		var vd [3]float64
		for k := 0; k < D; k++ {
			prev, next := n, n
			prev[k] -= dn
			next[k] += dn
			vp := l.vel.ScalarVelocity(coord, material, prev, s.id)
			vn := l.vel.ScalarVelocity(coord, material, next, s.id)
			vd[k] = (vn - vp) / (2 * dn)
		}

		g := l.gradientAt(s, o)
		g2 := floats.Dot(g[:D], g[:D])
		for k := 0; k < D; k++ {
			var monti, toifl float64
			for j := 0; j < D-1; j++ {
				idx := (k + 1 + j) % D
				monti += g[idx] * g[idx]
				toifl += g[idx] * vd[idx]
			}
			monti *= vd[k] / g2
			toifl *= -g[k] / g2
			alpha[k] = max(alpha[k], math.Abs(monti+toifl+lsv*n[k]))
		}
	})

	var dissipation float64
	for k := 0; k < D; k++ {
		l.alphas[k] = max(l.alphas[k], alpha[k])
		diff := (s.axis(k, 1) - 2*s.phi0 + s.axis(k, -1)) * 0.5 / l.delta
		dissipation += l.factor * alpha[k] * diff
	}
	return hamiltonian, dissipation
}

func (l *stencilLaxFriedrichs) limit(dt float64) float64 {
	return min(dt, alphaTimeStep(l.alphas, l.dims, l.delta))
}

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
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/topography/hrle"
)

// discard returns log, or a logger that writes nothing if log is nil.
func discard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// CalculateNormals computes the unit normal vector of every defined point
// from central differences and stores them as vector data labelled
// NormalsLabel. Points with a magnitude larger than maxValue, and points
// at which the gradient vanishes, get a zero vector.
func (d *Domain) CalculateNormals(maxValue float64, log logrus.FieldLogger) [][3]float64 {
	log = discard(log)
	if float64(d.width) < 4*maxValue+1 {
		log.Warnf("levelset: calculating normals: band width %d should be at least %g", d.width, 4*maxValue+1)
	}
	normals := make([][3]float64, d.NumPoints())
	d.hrle.Sweep(func(_ int, s *hrle.Star) {
		c := s.Center
		if !c.Defined() || math.Abs(c.Value) > maxValue {
			return
		}
		var n [3]float64
		var norm float64
		D := s.Dims()
		for i := 0; i < D; i++ {
			n[i] = centralDifference(c, s.Neighbor(i), s.Neighbor(i+D))
			norm += n[i] * n[i]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-12 {
			log.Warnf("levelset: calculating normals: vector of length 0 at %v", s.Index)
			return
		}
		for i := 0; i < D; i++ {
			n[i] /= norm
		}
		normals[c.PointID] = n
	})
	d.data.SetVectors(NormalsLabel, normals)
	return normals
}

// centralDifference returns the derivative at c from its neighbors in
// positive and negative direction, falling back to one sided differences
// next to undefined points.
func centralDifference(c, pos, neg hrle.Cell) float64 {
	switch {
	case pos.Defined() && neg.Defined():
		return (pos.Value - neg.Value) * 0.5
	case pos.Defined():
		return pos.Value - c.Value
	case neg.Defined():
		return c.Value - neg.Value
	}
	return 0
}

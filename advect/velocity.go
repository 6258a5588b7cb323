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

// VelocityField provides the speed at which the surface moves.
// Implementations must be safe for concurrent use.
type VelocityField interface {
	// ScalarVelocity returns the speed of the surface along its normal at
	// the given coordinate, for a point of the given material. Positive
	// values grow the material.
	ScalarVelocity(coord [3]float64, material int, normal [3]float64, pointID int) float64

	// VectorVelocity returns a velocity for each Cartesian direction.
	VectorVelocity(coord [3]float64, material int, normal [3]float64, pointID int) [3]float64
}

// DissipationField is implemented by velocity fields that know the
// analytical dissipation of their Hamiltonian. It is consulted only by
// LocalLaxFriedrichsAnalytical1.
type DissipationField interface {
	VelocityField

	// DissipationAlpha returns the dissipation coefficient of the given
	// direction from the central differences of the level set.
	DissipationAlpha(direction, material int, centralDifferences [3]float64) float64
}

// ConstantVelocity is a velocity field that is the same everywhere.
type ConstantVelocity struct {
	Scalar float64
	Vector [3]float64

	// Materials, if not nil, holds a factor for each material. Materials
	// without an entry do not move.
	Materials []float64
}

func (v ConstantVelocity) factor(material int) float64 {
	if v.Materials == nil {
		return 1
	}
	if material < 0 || material >= len(v.Materials) {
		return 0
	}
	return v.Materials[material]
}

// ScalarVelocity implements VelocityField.
func (v ConstantVelocity) ScalarVelocity(_ [3]float64, material int, _ [3]float64, _ int) float64 {
	return v.Scalar * v.factor(material)
}

// VectorVelocity implements VelocityField.
func (v ConstantVelocity) VectorVelocity(_ [3]float64, material int, _ [3]float64, _ int) [3]float64 {
	f := v.factor(material)
	return [3]float64{v.Vector[0] * f, v.Vector[1] * f, v.Vector[2] * f}
}

func dissipationAlpha(v VelocityField, direction, material int, cd [3]float64) float64 {
	if d, ok := v.(DissipationField); ok {
		return d.DissipationAlpha(direction, material, cd)
	}
	return 0
}

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
	"fmt"
	"math"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// BooleanOperation selects how two level sets are combined.
type BooleanOperation int

const (
	// Intersect keeps the region inside both surfaces.
	Intersect BooleanOperation = iota
	// Union keeps the region inside either surface.
	Union
	// RelativeComplement removes the second surface from the first.
	RelativeComplement
	// Invert swaps inside and outside of the first surface. The
	// second level set is ignored.
	Invert
	// Xor keeps the region inside exactly one of the surfaces.
	Xor
	// Custom combines the values with a caller supplied Comparator.
	Custom
)

func (op BooleanOperation) String() string {
	switch op {
	case Intersect:
		return "intersect"
	case Union:
		return "union"
	case RelativeComplement:
		return "relative complement"
	case Invert:
		return "invert"
	case Xor:
		return "xor"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("BooleanOperation(%d)", int(op))
	}
}

// A Comparator combines the values a and b of two level sets at the same
// grid point. It returns the resulting value and whether the value was
// taken from the first level set, which decides where point data is
// copied from.
type Comparator func(a, b float64) (value float64, fromA bool)

func minComparator(a, b float64) (float64, bool) {
	if a < b {
		return a, true
	}
	return b, false
}

func maxComparator(a, b float64) (float64, bool) {
	if a > b {
		return a, true
	}
	return b, false
}

func complementComparator(a, b float64) (float64, bool) {
	return maxComparator(a, -b)
}

func xorComparator(a, b float64) (float64, bool) {
	ab, abFromA := maxComparator(a, -b)
	ba, baFromB := maxComparator(b, -a)
	if ab < ba {
		return ab, abFromA
	}
	return ba, !baFromB
}

// Comparator returns the comparator that implements op. It returns nil
// for Invert and Custom.
func (op BooleanOperation) Comparator() Comparator {
	switch op {
	case Intersect:
		return maxComparator
	case Union:
		return minComparator
	case RelativeComplement:
		return complementComparator
	case Xor:
		return xorComparator
	default:
		return nil
	}
}

// BooleanOptions configure BooleanWith.
type BooleanOptions struct {
	// Prune removes points that are no longer next to the surface
	// after combination.
	Prune bool

	// UpdatePointData carries the point data arrays that are present
	// in both level sets into the result. Otherwise point data is
	// discarded.
	UpdatePointData bool
}

// DefaultBooleanOptions are used by Boolean.
var DefaultBooleanOptions = BooleanOptions{Prune: true}

// Boolean combines d with o using op and stores the result in d.
// o is not modified and may be nil for Invert.
func (d *Domain) Boolean(o *Domain, op BooleanOperation) error {
	if op == Invert {
		d.invert()
		return nil
	}
	comp := op.Comparator()
	if comp == nil {
		return fmt.Errorf("levelset: boolean operation %v needs a comparator", op)
	}
	return d.BooleanWith(o, comp, DefaultBooleanOptions)
}

// BooleanWith combines d with o using comp and stores the result in d. The
// result keeps the band width of d unless it is pruned, which narrows the
// band to 2. Undefined results take the sign of the combined value.
func (d *Domain) BooleanWith(o *Domain, comp Comparator, opts BooleanOptions) error {
	if o == nil {
		return fmt.Errorf("levelset: boolean operation without second level set")
	}
	if comp == nil {
		return fmt.Errorf("levelset: boolean operation without comparator")
	}
	h, src, err := hrle.Combine(d.hrle, o.hrle, d.hrle.Balanced(d.numSegments()),
		func(i grid.Index, ca, cb hrle.Cell, b *hrle.Builder) {
			v, fromA := comp(ca.Value, cb.Value)
			if math.Abs(v) == hrle.PosValue {
				b.Undefined(i, v < 0)
				return
			}
			// A defined result from an undefined input keeps no point data.
			c := cb
			if fromA {
				c = ca
			}
			source := -1
			if c.Defined() {
				source = 2 * c.PointID
				if !fromA {
					source++
				}
			}
			b.Defined(i, v, source)
		})
	if err != nil {
		return fmt.Errorf("levelset: boolean operation: %w", err)
	}
	data := new(PointData)
	if opts.UpdatePointData {
		data = mergePointData(d.data, o.data, src)
	}
	d.hrle = h
	d.data = data
	d.segment()
	if opts.Prune {
		d.Prune(true)
		d.Prune(false)
	}
	return nil
}

// mergePointData returns the arrays whose labels are present in both a
// and b. Entry i is copied from a if src[i] is even and from b otherwise.
func mergePointData(a, b *PointData, src []int) *PointData {
	o := new(PointData)
	pick := func(i int) (id int, fromA bool) {
		if src[i] < 0 {
			return -1, true
		}
		return src[i] / 2, src[i]%2 == 0
	}
	for k := 0; k < a.NumScalars(); k++ {
		label := a.ScalarLabel(k)
		bv := b.Scalars(label)
		if bv == nil {
			continue
		}
		av := a.ScalarsAt(k)
		v := make([]float64, len(src))
		for i := range src {
			id, fromA := pick(i)
			switch {
			case id < 0:
			case fromA && id < len(av):
				v[i] = av[id]
			case !fromA && id < len(bv):
				v[i] = bv[id]
			}
		}
		o.InsertScalars(label, v)
	}
	for k := 0; k < a.NumVectors(); k++ {
		label := a.VectorLabel(k)
		bv := b.Vectors(label)
		if bv == nil {
			continue
		}
		av := a.VectorsAt(k)
		v := make([][3]float64, len(src))
		for i := range src {
			id, fromA := pick(i)
			switch {
			case id < 0:
			case fromA && id < len(av):
				v[i] = av[id]
			case !fromA && id < len(bv):
				v[i] = bv[id]
			}
		}
		o.InsertVectors(label, v)
	}
	return o
}

// invert negates every value so that inside and outside swap.
func (d *Domain) invert() {
	h, src := d.mustMap(d.hrle.Segmentation(), func(i grid.Index, c hrle.Cell, b *hrle.Builder) {
		if c.Defined() {
			b.Defined(i, -c.Value, c.PointID)
		} else {
			b.Undefined(i, !c.Negative())
		}
	})
	d.replace(h, src, d.width)
}

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

package grid

import "fmt"

// Index is a grid point. Dimensions beyond the grid dimension are zero.
type Index [3]int

// Compare orders indices lexicographically with the highest dimension
// being most significant. It returns -1, 0 or +1.
func (i Index) Compare(o Index) int {
	for d := 2; d >= 0; d-- {
		if i[d] < o[d] {
			return -1
		}
		if i[d] > o[d] {
			return 1
		}
	}
	return 0
}

// Less reports whether i comes before o in lexicographic order.
func (i Index) Less(o Index) bool { return i.Compare(o) < 0 }

// Add returns the element-wise sum of i and o.
func (i Index) Add(o Index) Index {
	return Index{i[0] + o[0], i[1] + o[1], i[2] + o[2]}
}

// Sub returns the element-wise difference of i and o.
func (i Index) Sub(o Index) Index {
	return Index{i[0] - o[0], i[1] - o[1], i[2] - o[2]}
}

// Unit returns the index that is step grid points from the origin
// along dimension d.
func Unit(d, step int) Index {
	var i Index
	i[d] = step
	return i
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d, %d)", i[0], i[1], i[2])
}

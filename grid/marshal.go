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

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type gridHeader struct {
	Dims       uint8
	Delta      float64
	Lo, Hi     [3]int64
	Boundaries [3]uint8
}

// MarshalBinary serializes this grid into a byte array.
func (g *Grid) MarshalBinary() ([]byte, error) {
	h := gridHeader{Dims: uint8(g.dims), Delta: g.delta}
	for d := 0; d < 3; d++ {
		h.Lo[d], h.Hi[d] = int64(g.lo[d]), int64(g.hi[d])
		h.Boundaries[d] = uint8(g.boundaries[d])
	}
	b := bytes.NewBuffer(nil)
	if err := binary.Write(b, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("grid: marshalling: %w", err)
	}
	return b.Bytes(), nil
}

// UnmarshalBinary initializes this grid from a byte array.
func (g *Grid) UnmarshalBinary(b []byte) error {
	var h gridHeader
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("grid: unmarshalling: %w", err)
	}
	var lo, hi Index
	bcs := make([]Boundary, h.Dims)
	for d := 0; d < 3; d++ {
		lo[d], hi[d] = int(h.Lo[d]), int(h.Hi[d])
		if d < int(h.Dims) {
			bcs[d] = Boundary(h.Boundaries[d])
		}
	}
	n, err := NewIndexed(int(h.Dims), h.Delta, lo, hi, bcs)
	if err != nil {
		return fmt.Errorf("grid: unmarshalling: %w", err)
	}
	*g = *n
	return nil
}

// BinarySize is the length of the binary form of a grid.
var BinarySize = binary.Size(gridHeader{})

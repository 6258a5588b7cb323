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

package hrle

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spatialmodel/topography/grid"
)

// WriteTo writes the binary form of the domain to w. The grid is not
// included.
func (d *Domain) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(d.segs))); err != nil {
		return cw.n, fmt.Errorf("hrle: marshalling: %w", err)
	}
	for p, s := range d.segs {
		start := d.starts[p]
		if err := binary.Write(cw, binary.LittleEndian, [3]int64{int64(start[0]), int64(start[1]), int64(start[2])}); err != nil {
			return cw.n, fmt.Errorf("hrle: marshalling: %w", err)
		}
		for k := 0; k < d.g.Dims(); k++ {
			for _, v := range [][]int{s.rows[k], s.runs[k], s.starts[k]} {
				if err := writeInts(cw, v); err != nil {
					return cw.n, fmt.Errorf("hrle: marshalling: %w", err)
				}
			}
		}
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(s.values))); err != nil {
			return cw.n, fmt.Errorf("hrle: marshalling: %w", err)
		}
		if err := binary.Write(cw, binary.LittleEndian, s.values); err != nil {
			return cw.n, fmt.Errorf("hrle: marshalling: %w", err)
		}
	}
	return cw.n, nil
}

// Read reads a domain on grid g that was written by WriteTo.
func Read(g *grid.Grid, r io.Reader) (*Domain, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("hrle: unmarshalling: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("hrle: unmarshalling: domain without segments")
	}
	d := &Domain{g: g, segs: make([]*segment, n), starts: make([]grid.Index, n), offsets: make([]int, n+1)}
	for p := range d.segs {
		var start [3]int64
		if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
			return nil, fmt.Errorf("hrle: unmarshalling: %w", err)
		}
		d.starts[p] = grid.Index{int(start[0]), int(start[1]), int(start[2])}
		s := new(segment)
		for k := 0; k < g.Dims(); k++ {
			for _, v := range []*[]int{&s.rows[k], &s.runs[k], &s.starts[k]} {
				var err error
				if *v, err = readInts(r); err != nil {
					return nil, fmt.Errorf("hrle: unmarshalling: %w", err)
				}
			}
			if len(s.rows[k]) == 0 || len(s.runs[k]) != len(s.starts[k]) {
				return nil, fmt.Errorf("hrle: unmarshalling: corrupt run table at level %d", k)
			}
		}
		var nv uint32
		if err := binary.Read(r, binary.LittleEndian, &nv); err != nil {
			return nil, fmt.Errorf("hrle: unmarshalling: %w", err)
		}
		s.values = make([]float64, nv)
		if err := binary.Read(r, binary.LittleEndian, s.values); err != nil {
			return nil, fmt.Errorf("hrle: unmarshalling: %w", err)
		}
		d.segs[p] = s
		d.offsets[p+1] = d.offsets[p] + len(s.values)
	}
	if d.starts[0] != g.Min() {
		return nil, fmt.Errorf("hrle: unmarshalling: segmentation does not start at %v", g.Min())
	}
	return d, nil
}

func writeInts(w io.Writer, v []int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(v))); err != nil {
		return err
	}
	b := make([]int64, len(v))
	for i, x := range v {
		b[i] = int64(x)
	}
	return binary.Write(w, binary.LittleEndian, b)
}

func readInts(r io.Reader) ([]int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]int64, n)
	if err := binary.Read(r, binary.LittleEndian, b); err != nil {
		return nil, err
	}
	v := make([]int, n)
	for i, x := range b {
		v[i] = int(x)
	}
	return v, nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

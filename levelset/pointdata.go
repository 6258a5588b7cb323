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
	"encoding/binary"
	"fmt"
	"io"
)

// PointData holds named arrays with one entry for every defined point of
// a level set, ordered by point id.
type PointData struct {
	scalars []scalarArray
	vectors []vectorArray
}

type scalarArray struct {
	label  string
	values []float64
}

type vectorArray struct {
	label  string
	values [][3]float64
}

// InsertScalars adds a scalar array.
func (pd *PointData) InsertScalars(label string, values []float64) {
	pd.scalars = append(pd.scalars, scalarArray{label: label, values: values})
}

// InsertVectors adds a vector array.
func (pd *PointData) InsertVectors(label string, values [][3]float64) {
	pd.vectors = append(pd.vectors, vectorArray{label: label, values: values})
}

// SetScalars replaces the scalar array with the given label, or adds it
// if it does not exist.
func (pd *PointData) SetScalars(label string, values []float64) {
	if i := pd.ScalarIndex(label); i >= 0 {
		pd.scalars[i].values = values
		return
	}
	pd.InsertScalars(label, values)
}

// SetVectors replaces the vector array with the given label, or adds it
// if it does not exist.
func (pd *PointData) SetVectors(label string, values [][3]float64) {
	if i := pd.VectorIndex(label); i >= 0 {
		pd.vectors[i].values = values
		return
	}
	pd.InsertVectors(label, values)
}

// NumScalars returns the number of scalar arrays.
func (pd *PointData) NumScalars() int { return len(pd.scalars) }

// NumVectors returns the number of vector arrays.
func (pd *PointData) NumVectors() int { return len(pd.vectors) }

// ScalarIndex returns the index of the scalar array with the given label,
// or -1.
func (pd *PointData) ScalarIndex(label string) int {
	for i, s := range pd.scalars {
		if s.label == label {
			return i
		}
	}
	return -1
}

// VectorIndex returns the index of the vector array with the given label,
// or -1.
func (pd *PointData) VectorIndex(label string) int {
	for i, v := range pd.vectors {
		if v.label == label {
			return i
		}
	}
	return -1
}

// Scalars returns the scalar array with the given label, or nil.
func (pd *PointData) Scalars(label string) []float64 {
	if i := pd.ScalarIndex(label); i >= 0 {
		return pd.scalars[i].values
	}
	return nil
}

// Vectors returns the vector array with the given label, or nil.
func (pd *PointData) Vectors(label string) [][3]float64 {
	if i := pd.VectorIndex(label); i >= 0 {
		return pd.vectors[i].values
	}
	return nil
}

// ScalarsAt returns scalar array i.
func (pd *PointData) ScalarsAt(i int) []float64 { return pd.scalars[i].values }

// VectorsAt returns vector array i.
func (pd *PointData) VectorsAt(i int) [][3]float64 { return pd.vectors[i].values }

// ScalarLabel returns the label of scalar array i.
func (pd *PointData) ScalarLabel(i int) string { return pd.scalars[i].label }

// VectorLabel returns the label of vector array i.
func (pd *PointData) VectorLabel(i int) string { return pd.vectors[i].label }

// EraseScalars removes scalar array i.
func (pd *PointData) EraseScalars(i int) {
	pd.scalars = append(pd.scalars[:i], pd.scalars[i+1:]...)
}

// EraseVectors removes vector array i.
func (pd *PointData) EraseVectors(i int) {
	pd.vectors = append(pd.vectors[:i], pd.vectors[i+1:]...)
}

// Append adds copies of all arrays of o.
func (pd *PointData) Append(o *PointData) {
	c := o.Clone()
	pd.scalars = append(pd.scalars, c.scalars...)
	pd.vectors = append(pd.vectors, c.vectors...)
}

// Clear removes all arrays.
func (pd *PointData) Clear() {
	pd.scalars = nil
	pd.vectors = nil
}

// Empty reports whether there are no arrays.
func (pd *PointData) Empty() bool { return len(pd.scalars) == 0 && len(pd.vectors) == 0 }

// Clone returns a deep copy.
func (pd *PointData) Clone() *PointData {
	o := new(PointData)
	for _, s := range pd.scalars {
		o.InsertScalars(s.label, append([]float64(nil), s.values...))
	}
	for _, v := range pd.vectors {
		o.InsertVectors(v.label, append([][3]float64(nil), v.values...))
	}
	return o
}

// Translate returns point data for a rebuilt level set whose point i was
// derived from point sources[i] of the old level set. Sources outside of
// an array yield zero entries.
func (pd *PointData) Translate(sources []int) *PointData {
	o := new(PointData)
	for _, s := range pd.scalars {
		v := make([]float64, len(sources))
		for i, src := range sources {
			if src >= 0 && src < len(s.values) {
				v[i] = s.values[src]
			}
		}
		o.InsertScalars(s.label, v)
	}
	for _, s := range pd.vectors {
		v := make([][3]float64, len(sources))
		for i, src := range sources {
			if src >= 0 && src < len(s.values) {
				v[i] = s.values[src]
			}
		}
		o.InsertVectors(s.label, v)
	}
	return o
}

const pointDataHeader = "lsPointData"

// WriteTo writes the binary form of the point data to w.
func (pd *PointData) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	write := func(v interface{}) error {
		return binary.Write(cw, binary.LittleEndian, v)
	}
	err := func() error {
		if _, err := io.WriteString(cw, pointDataHeader); err != nil {
			return err
		}
		if err := write([2]uint32{uint32(len(pd.scalars)), uint32(len(pd.vectors))}); err != nil {
			return err
		}
		for _, s := range pd.scalars {
			if err := writeLabel(cw, s.label); err != nil {
				return err
			}
			if err := write(uint32(len(s.values))); err != nil {
				return err
			}
			if err := write(s.values); err != nil {
				return err
			}
		}
		for _, v := range pd.vectors {
			if err := writeLabel(cw, v.label); err != nil {
				return err
			}
			if err := write(uint32(len(v.values))); err != nil {
				return err
			}
			if err := write(v.values); err != nil {
				return err
			}
		}
		return nil
	}()
	if err != nil {
		return cw.n, fmt.Errorf("levelset: writing point data: %w", err)
	}
	return cw.n, nil
}

// ReadFrom reads point data written by WriteTo, replacing the content
// of pd.
func (pd *PointData) ReadFrom(r io.Reader) (int64, error) {
	cr := &countReader{r: r}
	read := func(v interface{}) error {
		return binary.Read(cr, binary.LittleEndian, v)
	}
	o := new(PointData)
	err := func() error {
		h := make([]byte, len(pointDataHeader))
		if _, err := io.ReadFull(cr, h); err != nil {
			return err
		}
		if string(h) != pointDataHeader {
			return fmt.Errorf("invalid header %q", h)
		}
		var n [2]uint32
		if err := read(&n); err != nil {
			return err
		}
		for i := 0; i < int(n[0]); i++ {
			label, err := readLabel(cr)
			if err != nil {
				return err
			}
			var l uint32
			if err := read(&l); err != nil {
				return err
			}
			v := make([]float64, l)
			if err := read(v); err != nil {
				return err
			}
			o.InsertScalars(label, v)
		}
		for i := 0; i < int(n[1]); i++ {
			label, err := readLabel(cr)
			if err != nil {
				return err
			}
			var l uint32
			if err := read(&l); err != nil {
				return err
			}
			v := make([][3]float64, l)
			if err := read(v); err != nil {
				return err
			}
			o.InsertVectors(label, v)
		}
		return nil
	}()
	if err != nil {
		return cr.n, fmt.Errorf("levelset: reading point data: %w", err)
	}
	*pd = *o
	return cr.n, nil
}

func writeLabel(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readLabel(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
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

type countReader struct {
	r io.Reader
	n int64
}

func (c *countReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}

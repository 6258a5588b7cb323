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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

const (
	domainHeader  = "lsDomain"
	formatVersion = 0
)

// WriteTo writes the binary form of the level set to w: a header, the
// format version, the grid, the sparse storage, the band width and the
// point data.
func (d *Domain) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := func() error {
		if _, err := io.WriteString(cw, domainHeader); err != nil {
			return err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint8(formatVersion)); err != nil {
			return err
		}
		g, err := d.Grid().MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := cw.Write(g); err != nil {
			return err
		}
		if _, err := d.hrle.WriteTo(cw); err != nil {
			return err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint32(d.width)); err != nil {
			return err
		}
		hasData := !d.data.Empty()
		if err := binary.Write(cw, binary.LittleEndian, hasData); err != nil {
			return err
		}
		if hasData {
			if _, err := d.data.WriteTo(cw); err != nil {
				return err
			}
		}
		return nil
	}()
	if err != nil {
		return cw.n, fmt.Errorf("levelset: writing domain: %w", err)
	}
	return cw.n, nil
}

// ReadFrom reads a level set written by WriteTo and replaces the
// content of d.
func (d *Domain) ReadFrom(r io.Reader) (int64, error) {
	cr := &countReader{r: r}
	o, err := func() (*Domain, error) {
		h := make([]byte, len(domainHeader))
		if _, err := io.ReadFull(cr, h); err != nil {
			return nil, err
		}
		if string(h) != domainHeader {
			return nil, fmt.Errorf("invalid header %q", h)
		}
		var version uint8
		if err := binary.Read(cr, binary.LittleEndian, &version); err != nil {
			return nil, err
		}
		if version != formatVersion {
			return nil, fmt.Errorf("unsupported format version %d", version)
		}
		gb := make([]byte, grid.BinarySize)
		if _, err := io.ReadFull(cr, gb); err != nil {
			return nil, err
		}
		g := new(grid.Grid)
		if err := g.UnmarshalBinary(gb); err != nil {
			return nil, err
		}
		storage, err := hrle.Read(g, cr)
		if err != nil {
			return nil, err
		}
		var width uint32
		if err := binary.Read(cr, binary.LittleEndian, &width); err != nil {
			return nil, err
		}
		o := FromHRLE(storage, int(width))
		var hasData bool
		if err := binary.Read(cr, binary.LittleEndian, &hasData); err != nil {
			return nil, err
		}
		if hasData {
			if _, err := o.data.ReadFrom(cr); err != nil {
				return nil, err
			}
		}
		return o, nil
	}()
	if err != nil {
		return cr.n, fmt.Errorf("levelset: reading domain: %w", err)
	}
	*d = *o
	return cr.n, nil
}

// MarshalBinary serializes the level set into a byte array.
func (d *Domain) MarshalBinary() ([]byte, error) {
	b := bytes.NewBuffer(nil)
	if _, err := d.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary initializes the level set from a byte array.
func (d *Domain) UnmarshalBinary(b []byte) error {
	_, err := d.ReadFrom(bytes.NewReader(b))
	return err
}

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
	"strings"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
)

// CheckIssue is an inconsistency found by Check.
type CheckIssue struct {
	// Start and End are the first and last index of the offending
	// point or undefined run.
	Start, End grid.Index

	// Direction names the neighbor the point is inconsistent with,
	// e.g. "+x" or "-z".
	Direction string

	Message string
}

func (c CheckIssue) String() string {
	if c.Start == c.End {
		return fmt.Sprintf("%v %s: %s", c.Start, c.Direction, c.Message)
	}
	return fmt.Sprintf("%v to %v %s: %s", c.Start, c.End, c.Direction, c.Message)
}

// CheckError is returned by Check for an inconsistent level set.
type CheckError struct {
	Issues []CheckIssue
}

func (e *CheckError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "levelset: %d inconsistencies", len(e.Issues))
	for _, c := range e.Issues {
		b.WriteString("\n\t")
		b.WriteString(c.String())
	}
	return b.String()
}

func direction(i, dims int) string {
	sign := "+"
	if i >= dims {
		sign = "-"
		i -= dims
	}
	return sign + string("xyz"[i])
}

// status rounds a distance to the nearest integer, with halves rounded
// towards zero.
func status(v float64) int {
	x := int(v)
	if v >= 0 {
		if v <= float64(x)+0.5 {
			return x
		}
		return x + 1
	}
	if v >= float64(x)-0.5 {
		return x
	}
	return x - 1
}

// Check verifies that neighboring grid points of d are consistent with a
// signed distance field. Defined neighbors may differ by at most one grid
// unit after rounding, a defined point next to an undefined point must be
// within half a grid unit of the sign of the undefined point, and
// neighboring undefined runs must have the same sign.
// Check returns a *CheckError listing all violations, or nil.
func (d *Domain) Check() error {
	var issues []CheckIssue
	for s := range d.hrle.Stars() {
		c := s.Center
		D := s.Dims()
		for i := 0; i < 2*D; i++ {
			n := s.Neighbor(i)
			issue := CheckIssue{Start: s.Index, End: s.Index, Direction: direction(i, D)}
			switch {
			case c.Defined() && n.Defined():
				if diff := status(c.Value) - status(n.Value); diff > 1 || diff < -1 {
					issue.Message = fmt.Sprintf("defined neighbor is inconsistent: center %.17g, neighbor %.17g",
						c.Value, n.Value)
				}
			case c.Defined() && n.Value >= 0:
				if c.Value < -0.5 {
					issue.Message = fmt.Sprintf("value %g is less than -0.5 next to an undefined positive point", c.Value)
				}
			case c.Defined():
				if c.Value > 0.5 {
					issue.Message = fmt.Sprintf("value %g is greater than 0.5 next to an undefined negative point", c.Value)
				}
			case !n.Defined():
				if isNegative(c.Value) != isNegative(n.Value) {
					issue.End = d.runEnd(s.Index, c)
					issue.Message = "undefined neighbor has the opposite sign"
				}
			}
			if issue.Message != "" {
				issues = append(issues, issue)
			}
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &CheckError{Issues: issues}
}

// runEnd returns the last index of the undefined run containing i.
func (d *Domain) runEnd(i grid.Index, c hrle.Cell) grid.Index {
	for r := range d.hrle.SegmentRuns(c.Run.Segment) {
		if r.Cell.Run == c.Run && !i.Less(r.Start) && !r.End.Less(i) {
			return r.End
		}
	}
	return i
}

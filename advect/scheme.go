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
	"fmt"
	"strings"
)

// SpatialScheme selects the discretization of the level set equation.
type SpatialScheme int

// Spatial schemes. The digit is the order of the finite differences.
const (
	EngquistOsher1 SpatialScheme = iota
	EngquistOsher2
	LaxFriedrichs1
	LaxFriedrichs2
	LocalLaxFriedrichsAnalytical1
	LocalLocalLaxFriedrichs1
	LocalLocalLaxFriedrichs2
	LocalLaxFriedrichs1
	LocalLaxFriedrichs2
	StencilLocalLaxFriedrichs1
	WENO5
)

var spatialNames = map[SpatialScheme]string{
	EngquistOsher1:                "EngquistOsher1",
	EngquistOsher2:                "EngquistOsher2",
	LaxFriedrichs1:                "LaxFriedrichs1",
	LaxFriedrichs2:                "LaxFriedrichs2",
	LocalLaxFriedrichsAnalytical1: "LocalLaxFriedrichsAnalytical1",
	LocalLocalLaxFriedrichs1:      "LocalLocalLaxFriedrichs1",
	LocalLocalLaxFriedrichs2:      "LocalLocalLaxFriedrichs2",
	LocalLaxFriedrichs1:           "LocalLaxFriedrichs1",
	LocalLaxFriedrichs2:           "LocalLaxFriedrichs2",
	StencilLocalLaxFriedrichs1:    "StencilLocalLaxFriedrichs1",
	WENO5:                         "WENO5",
}

func (s SpatialScheme) String() string {
	if n, ok := spatialNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SpatialScheme(%d)", int(s))
}

// ParseSpatialScheme returns the spatial scheme named s. Case and
// underscores are ignored.
func ParseSpatialScheme(s string) (SpatialScheme, error) {
	key := normalizeName(s)
	for k, n := range spatialNames {
		if normalizeName(n) == key {
			return k, nil
		}
	}
	return EngquistOsher1, fmt.Errorf("advect: invalid spatial scheme %q", s)
}

// Order returns the order of the finite differences of the scheme.
func (s SpatialScheme) Order() int {
	switch s {
	case EngquistOsher2, LaxFriedrichs2, LocalLocalLaxFriedrichs2, LocalLaxFriedrichs2:
		return 2
	case WENO5:
		return 3
	default:
		return 1
	}
}

// Width returns the band width the scheme needs to evaluate every active
// point.
func (s SpatialScheme) Width() int {
	o := s.Order()
	switch s {
	case LocalLaxFriedrichs1, LocalLaxFriedrichs2, LocalLaxFriedrichsAnalytical1:
		return 2*(o+2) + 1
	case StencilLocalLaxFriedrichs1:
		return 2*(o+1) + 4
	case WENO5:
		return 7
	default:
		return 2*o + 1
	}
}

// TemporalScheme selects the time integration.
type TemporalScheme int

// Temporal schemes.
const (
	ForwardEuler TemporalScheme = iota
	RungeKutta2
	RungeKutta3
)

func (t TemporalScheme) String() string {
	switch t {
	case ForwardEuler:
		return "ForwardEuler"
	case RungeKutta2:
		return "RungeKutta2"
	case RungeKutta3:
		return "RungeKutta3"
	default:
		return fmt.Sprintf("TemporalScheme(%d)", int(t))
	}
}

// Stages returns the number of rate evaluations per time step.
func (t TemporalScheme) Stages() int {
	switch t {
	case RungeKutta2:
		return 2
	case RungeKutta3:
		return 3
	default:
		return 1
	}
}

// ParseTemporalScheme returns the temporal scheme named s.
func ParseTemporalScheme(s string) (TemporalScheme, error) {
	switch normalizeName(s) {
	case "forwardeuler", "euler":
		return ForwardEuler, nil
	case "rungekutta2", "rk2":
		return RungeKutta2, nil
	case "rungekutta3", "rk3":
		return RungeKutta3, nil
	}
	return ForwardEuler, fmt.Errorf("advect: invalid temporal scheme %q", s)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

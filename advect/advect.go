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

/*
Package advect moves level set surfaces with a velocity field.

An Advector holds a stack of level sets ordered from the bottom material to
the top one. Only the top level set is advected; every level set below it
is wrapped by the top one after each step, so that etching the top surface
also etches the materials it reaches.

Each step computes a rate for every point within half a grid point of the
surface, chooses the largest time step that satisfies the CFL condition,
moves the values and rebuilds the narrow band from the moved values.
*/
package advect

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/spatialmodel/topography/grid"
	"github.com/spatialmodel/topography/hrle"
	"github.com/spatialmodel/topography/levelset"
)

// VelocitiesLabel is the label of the scalar point data holding the
// distance each point moved in the last step.
const VelocitiesLabel = "AdvectionVelocities"

// wrappingEpsilon is the distance below which a lower layer is treated as
// lying at the surface of the top one.
const wrappingEpsilon = 1e-4

// Advector advects the top level set of a stack of layers.
type Advector struct {
	// Layers holds the level sets ordered from bottom to top.
	// All level sets must share a grid.
	Layers []*levelset.Domain

	// Velocity is the velocity field. It must not be nil.
	Velocity VelocityField

	Scheme     SpatialScheme
	Integrator TemporalScheme

	// TimeStepRatio is the CFL number: the largest distance in grid
	// points that the surface moves in one step. Values of 0.5 and
	// more are unstable.
	TimeStepRatio float64

	// DissipationAlpha scales the dissipation of the Lax-Friedrichs
	// schemes.
	DissipationAlpha float64

	// CalculateNormals specifies whether normal vectors are passed to the
	// velocity field.
	CalculateNormals bool

	// IgnoreVoids specifies whether points in enclosed voids keep still.
	IgnoreVoids bool

	// SaveVelocities specifies whether the distance each point moved is
	// stored in the point data of the top level set.
	SaveVelocities bool

	// UpdatePointData specifies whether point data of the top level set
	// follows the surface. Otherwise it is discarded after every step.
	UpdatePointData bool

	// AdvectionTime is the time Apply advects for. If it is zero, Apply
	// takes a single step of the largest stable size.
	AdvectionTime float64

	// SingleStep stops Apply after one step.
	SingleStep bool

	// Log receives warnings and progress. It may be nil.
	Log logrus.FieldLogger

	advected float64
	steps    int
}

// New returns an Advector for the given layers and velocity field with
// default options.
func New(layers []*levelset.Domain, v VelocityField) *Advector {
	return &Advector{
		Layers:           layers,
		Velocity:         v,
		Scheme:           EngquistOsher1,
		Integrator:       ForwardEuler,
		TimeStepRatio:    0.4999,
		DissipationAlpha: 1,
		CalculateNormals: true,
		UpdatePointData:  true,
	}
}

// AdvectedTime returns the time advected by the last call to Apply, or by
// all calls to Advect since.
func (a *Advector) AdvectedTime() float64 { return a.advected }

// NumTimeSteps returns the number of steps counted like AdvectedTime.
func (a *Advector) NumTimeSteps() int { return a.steps }

func (a *Advector) log() logrus.FieldLogger {
	if a.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return a.Log
}

func (a *Advector) top() *levelset.Domain { return a.Layers[len(a.Layers)-1] }

func (a *Advector) validate() error {
	if a.Velocity == nil {
		a.log().Panicf("advect: no velocity field")
	}
	if len(a.Layers) == 0 {
		return fmt.Errorf("advect: no level sets")
	}
	g := a.Layers[0].Grid()
	for i, l := range a.Layers {
		if l == nil {
			return fmt.Errorf("advect: level set %d is nil", i)
		}
		if !l.Grid().Equal(g) {
			return fmt.Errorf("advect: level set %d is on grid %v, level set 0 on %v", i, l.Grid(), g)
		}
	}
	if _, ok := spatialNames[a.Scheme]; !ok {
		return fmt.Errorf("advect: invalid spatial scheme %v", a.Scheme)
	}
	if a.Integrator < ForwardEuler || a.Integrator > RungeKutta3 {
		return fmt.Errorf("advect: invalid temporal scheme %v", a.Integrator)
	}
	if !(a.TimeStepRatio > 0) {
		return fmt.Errorf("advect: time step ratio must be positive, got %g", a.TimeStepRatio)
	}
	if a.TimeStepRatio >= 0.5 {
		a.log().Warnf("advect: time step ratio %g should be smaller than 0.5; advection might fail", a.TimeStepRatio)
	}
	return nil
}

// reach returns the distance in grid points over which the scheme reads
// values.
func (a *Advector) reach() int { return (a.Scheme.Width() - 1) / 2 }

// radius returns how far from the surface points are moved in stage s.
// Earlier stages move more points so that the rates of later stages are
// computed from values that were all moved by the same stages.
func (a *Advector) radius(s int) float64 {
	return 0.5 + float64(a.reach()*(a.Integrator.Stages()-1-s))
}

// Width returns the band width the level sets are expanded to before
// every step.
func (a *Advector) Width() int {
	return a.Scheme.Width() + 2*a.reach()*(a.Integrator.Stages()-1)
}

// prepare expands the level sets to the band width the scheme needs.
func (a *Advector) prepare() {
	w := a.Width()
	if a.Scheme == StencilLocalLaxFriedrichs1 {
		for _, l := range a.Layers {
			l.Expand(w)
		}
		return
	}
	a.top().Expand(w)
}

func (a *Advector) newKernel(global [3]float64) kernel {
	g := a.top().Grid()
	switch a.Scheme {
	case EngquistOsher1, EngquistOsher2:
		return &engquistOsher{order: a.Scheme.Order(), vel: a.Velocity, normals: a.CalculateNormals}
	case WENO5:
		return &weno5{vel: a.Velocity, normals: a.CalculateNormals}
	case StencilLocalLaxFriedrichs1:
		return &stencilLaxFriedrichs{vel: a.Velocity, factor: a.DissipationAlpha, dims: g.Dims(), delta: g.Delta()}
	}
	l := &laxFriedrichs{
		order:   a.Scheme.Order(),
		vel:     a.Velocity,
		factor:  a.DissipationAlpha,
		normals: a.CalculateNormals,
		dims:    g.Dims(),
		delta:   g.Delta(),
	}
	switch a.Scheme {
	case LaxFriedrichs1, LaxFriedrichs2:
		l.mode = lfGlobal
		l.alphas = global
	case LocalLaxFriedrichs1, LocalLaxFriedrichs2:
		l.mode = lfLocal
	case LocalLocalLaxFriedrichs1, LocalLocalLaxFriedrichs2:
		l.mode = lfLocalLocal
	case LocalLaxFriedrichsAnalytical1:
		l.mode = lfAnalytical
	default:
		panic("not possible")
	}
	return l
}

// material returns the lowest layer that reaches the surface at p when
// the top level set has the given value there.
func (a *Advector) material(p hrle.Point, value float64) int {
	for l, d := range a.Layers {
		if d.Value(p.Index) <= value+wrappingEpsilon {
			return l
		}
	}
	return len(a.Layers) - 1
}

// globalAlphas returns the largest wave speed of each direction over the
// points of the top level set within half a grid point of the surface,
// judged by their values in ref.
func (a *Advector) globalAlphas(ref []float64) [3]float64 {
	top := a.top()
	h := top.HRLE()
	D := h.Grid().Dims()
	alphas := make([][3]float64, h.NumSegments())
	hrle.ForEach(h.NumSegments(), func(p int) error {
		s := newStencil(h, top.Width())
		for pt := range h.SegmentPointsSeq(p) {
			if math.Abs(ref[pt.ID]) > 0.5 {
				continue
			}
			s.moveTo(pt)
			m := a.material(pt, pt.Value)
			n := s.normalAt(grid.Index{})
			sv := a.Velocity.ScalarVelocity(s.coord, m, n, pt.ID)
			vv := a.Velocity.VectorVelocity(s.coord, m, n, pt.ID)
			for k := 0; k < D; k++ {
				alphas[p][k] = max(alphas[p][k], math.Abs((sv+vv[k])*n[k]))
			}
		}
		return nil
	})
	var o [3]float64
	for _, al := range alphas {
		for k := range o {
			o[k] = max(o[k], al[k])
		}
	}
	return o
}

// stop is a rate that applies until the value of a point reaches value.
type stop struct {
	rate, value float64
}

// computeRates returns the rates of the points of the top level set whose
// value in ref is within radius of the surface, indexed by point id. dt is
// the largest stable time step not larger than maxTimeStep, and moving
// reports whether any point has a velocity. Both consider only the points
// within half a grid point of the surface.
func (a *Advector) computeRates(maxTimeStep float64, ref []float64, radius float64) (rates [][]stop, dt float64, moving bool) {
	top := a.top()
	h := top.HRLE()
	rates = make([][]stop, h.NumPoints())

	var void []float64
	if a.IgnoreVoids {
		top.MarkVoidPoints(levelset.VoidOptions{})
		void = top.PointData().Scalars(levelset.VoidPointMarkersLabel)
	}

	var global [3]float64
	if a.Scheme == LaxFriedrichs1 || a.Scheme == LaxFriedrichs2 {
		global = a.globalAlphas(ref)
	}

	n := h.NumSegments()
	steps := make([]float64, n)
	moves := make([]bool, n)
	hrle.ForEach(n, func(p int) error {
		core, shell := a.newKernel(global), a.newKernel(global)
		s := newStencil(h, top.Width())
		segMax := math.MaxFloat64
		for pt := range h.SegmentPointsSeq(p) {
			r := math.Abs(ref[pt.ID])
			if r > radius {
				continue
			}
			k := core
			if r > 0.5 {
				k = shell
			}
			s.moveTo(pt)
			value := pt.Value
			cfl := a.TimeStepRatio
			var maxStep float64
			var list []stop
			for current := len(a.Layers) - 1; current >= 0; current-- {
				var velocity float64
				if void == nil || void[pt.ID] == 0 {
					hm, diss := k.rate(s, a.material(pt, value))
					velocity = hm - diss
				}
				below := math.MaxFloat64
				if current > 0 {
					below = a.Layers[current-1].Value(pt.Index)
				}
				if velocity != 0 && k == core {
					moves[p] = true
				}
				if velocity > 0 {
					maxStep += cfl / velocity
					list = append(list, stop{velocity, -math.MaxFloat64})
					break
				}
				if velocity == 0 {
					maxStep = math.MaxFloat64
					list = append(list, stop{0, math.MaxFloat64})
					break
				}
				// Etching stops at the next material unless the
				// step is too short to reach it.
				diff := math.Abs(below - value)
				if diff >= cfl {
					maxStep -= cfl / velocity
					list = append(list, stop{velocity, math.MaxFloat64})
					break
				}
				maxStep -= diff / velocity
				list = append(list, stop{velocity, below})
				cfl -= diff
				value = below
			}
			rates[pt.ID] = list
			if k == core {
				segMax = min(segMax, maxStep)
			}
		}
		steps[p] = core.limit(segMax)
		return nil
	})
	dt = maxTimeStep
	for p := range steps {
		dt = min(dt, steps[p])
		moving = moving || moves[p]
	}
	return rates, dt, moving
}

// update moves values by the rates for time dt.
func update(values []float64, rates [][]stop, dt float64) {
	hrle.Strided(len(rates), func(id int) {
		list := rates[id]
		if list == nil {
			return
		}
		value := values[id]
		t := dt
		j := 0
		for j < len(list)-1 && math.Abs(list[j].value-value) < math.Abs(t*list[j].rate) {
			t -= math.Abs((list[j].value - value) / list[j].rate)
			value = list[j].value
			j++
		}
		values[id] = value - t*list[j].rate
	})
}

// combine sets dst to wa*a + wb*dst.
func combine(wa float64, a []float64, wb float64, dst []float64) {
	for i := range dst {
		dst[i] = wa*a[i] + wb*dst[i]
	}
}

// Advect takes one step of at most maxTime and returns the time advanced.
// It returns 0 without moving the surface if the velocity is zero at every
// point of the surface.
func (a *Advector) Advect(maxTime float64) (float64, error) {
	if err := a.validate(); err != nil {
		return 0, err
	}
	a.prepare()
	top := a.top()
	origH := top.HRLE()
	orig := top.Values()

	rates, dt, moving := a.computeRates(maxTime, orig, a.radius(0))
	if !moving {
		a.log().Warnf("advect: velocity is zero on the whole surface; not advecting")
		return 0, nil
	}
	if dt <= 0 {
		return 0, nil
	}
	active := make([]bool, len(orig))
	for id, v := range orig {
		active[id] = math.Abs(v) <= 0.5
	}

	values := slices.Clone(orig)
	update(values, rates, dt)
	a.stageDone(values)

	switch a.Integrator {
	case RungeKutta2:
		values = a.stage(values, orig, 1, dt)
		combine(0.5, orig, 0.5, values)
		a.stageDone(values)
	case RungeKutta3:
		values = a.stage(values, orig, 1, dt)
		combine(0.75, orig, 0.25, values)
		a.stageDone(values)
		values = a.stage(values, orig, 2, dt)
		combine(1.0/3.0, orig, 2.0/3.0, values)
		a.stageDone(values)
	}

	if !top.HRLE().SameTopology(origH) {
		a.log().Panicf("advect: level set topology changed during time integration")
	}
	top.SetValues(values)
	if !a.UpdatePointData {
		top.PointData().Clear()
	}
	if a.SaveVelocities {
		moved := make([]float64, len(values))
		for id := range moved {
			if active[id] {
				moved[id] = orig[id] - values[id]
			}
		}
		top.PointData().SetScalars(VelocitiesLabel, moved)
	}
	top.Rebuild(active)
	if a.Scheme != StencilLocalLaxFriedrichs1 {
		a.wrapLower()
	}

	a.advected += dt
	a.steps++
	a.log().WithFields(logrus.Fields{
		"step":   a.steps,
		"dt":     dt,
		"points": top.NumPoints(),
	}).Debug("advect: step done")
	return dt, nil
}

// stage sets the values of the top level set and moves them once more
// with the rates of stage n computed from them.
func (a *Advector) stage(values, orig []float64, n int, dt float64) []float64 {
	top := a.top()
	if len(values) != top.NumPoints() {
		a.log().Panicf("advect: level set has %d points between stages, want %d", top.NumPoints(), len(values))
	}
	top.SetValues(values)
	rates, _, _ := a.computeRates(dt, orig, a.radius(n))
	next := slices.Clone(values)
	update(next, rates, dt)
	return next
}

// stageDone wraps the lower layers after every stage if the scheme couples
// them.
func (a *Advector) stageDone(values []float64) {
	if a.Scheme != StencilLocalLaxFriedrichs1 || len(a.Layers) < 2 {
		return
	}
	a.top().SetValues(values)
	a.wrapLower()
}

// wrapLower intersects every lower layer with the top one.
func (a *Advector) wrapLower() {
	top := a.top()
	for i := 0; i < len(a.Layers)-1; i++ {
		if err := a.Layers[i].Boolean(top, levelset.Intersect); err != nil {
			a.log().Panicf("advect: wrapping level set %d: %v", i, err)
		}
	}
}

// Apply advects until AdvectionTime has passed, or takes a single step
// if AdvectionTime is zero or SingleStep is set. The context is checked
// between steps.
func (a *Advector) Apply(ctx context.Context) error {
	a.advected, a.steps = 0, 0
	if a.AdvectionTime == 0 {
		_, err := a.Advect(math.MaxFloat64)
		return err
	}
	for a.advected < a.AdvectionTime {
		if err := ctx.Err(); err != nil {
			return err
		}
		dt, err := a.Advect(a.AdvectionTime - a.advected)
		if err != nil {
			return err
		}
		if dt == 0 || a.SingleStep {
			break
		}
	}
	return nil
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cellmodel provides reduced compartmental mitral cell models,
with a spiking soma and passive dendrites ending in a glomerular tuft.
Each model accepts step currents at the soma and at the glomerulus and
records the somatic membrane potential, so it can be judged by the
validation tests.
*/
package cellmodel

import (
	"errors"
	"fmt"
	"math"

	"github.com/emer/davison2000unit/capability"
	"github.com/emer/davison2000unit/chans"
	"github.com/goki/mat32"
)

// ErrTopology is returned for a model whose compartments are not
// connected as required.
var ErrTopology = errors.New("cellmodel: invalid topology")

// Comp is the state of one compartment.
type Comp struct {
	Vm    float32 `desc:"membrane potential, in mV"`
	Gates chans.HHGates
	Inj   float32 `desc:"injected current density, in μA/cm²"`

	// membrane potential at the start of the current step, used for coupling
	vmPrv float32
}

// Model is a chain of coupled compartments.  Stimuli set with the
// Inject methods are applied by the next MembranePotentialSoma call,
// which runs the simulation from rest and then clears them.
type Model struct {
	Nm    string
	Comps []CompParams
	Links []Link
	Dt    DtParams

	// index of the soma in Comps
	Soma int

	// index of the glomerulus in Comps
	Glom int

	// state, parallel to Comps
	State []Comp

	stims [capability.SiteN]*capability.Stimulus
}

var (
	_ capability.SomaInjector       = (*Model)(nil)
	_ capability.GlomerulusInjector = (*Model)(nil)
	_ capability.SomaRecorder       = (*Model)(nil)
)

func (md *Model) Name() string { return md.Nm }

// Validate checks that compartments and links are consistent.
func (md *Model) Validate() error {
	nc := len(md.Comps)
	if md.Soma < 0 || md.Soma >= nc || md.Glom < 0 || md.Glom >= nc {
		return fmt.Errorf("%w: %s: soma %d, glomerulus %d of %d compartments", ErrTopology, md.Nm, md.Soma, md.Glom, nc)
	}
	for _, lk := range md.Links {
		if lk.A < 0 || lk.A >= nc || lk.B < 0 || lk.B >= nc || lk.A == lk.B {
			return fmt.Errorf("%w: %s: link %d-%d", ErrTopology, md.Nm, lk.A, lk.B)
		}
	}
	for i := range md.Comps {
		if md.Comps[i].Area <= 0 || md.Comps[i].Cm <= 0 {
			return fmt.Errorf("%w: %s: compartment %s has no membrane", ErrTopology, md.Nm, md.Comps[i].Name)
		}
	}
	return nil
}

// InjectStepCurrentSoma sets the step current applied at the soma.
func (md *Model) InjectStepCurrentSoma(stim capability.Stimulus) error {
	md.stims[capability.Soma] = &stim
	return nil
}

// InjectStepCurrentGlomerulus sets the step current applied at the glomerulus.
func (md *Model) InjectStepCurrentGlomerulus(stim capability.Stimulus) error {
	md.stims[capability.Glomerulus] = &stim
	return nil
}

// InitState sets all compartments to rest.
func (md *Model) InitState() {
	if len(md.State) != len(md.Comps) {
		md.State = make([]Comp, len(md.Comps))
	}
	for i := range md.State {
		cs := &md.State[i]
		cs.Vm = chans.VRest
		cs.vmPrv = chans.VRest
		cs.Inj = 0
		cs.Gates.Init(cs.Vm)
	}
}

// MembranePotentialSoma runs the model from rest for tstop msec with the
// pending stimuli and returns the somatic membrane potential sampled
// every Dt.Rec msec, starting at 0.
func (md *Model) MembranePotentialSoma(tstop float64) ([]float64, []float64, error) {
	if err := md.Validate(); err != nil {
		return nil, nil, err
	}
	if tstop < 0 || math.IsNaN(tstop) {
		return nil, nil, fmt.Errorf("cellmodel: %s: invalid stop time %g", md.Nm, tstop)
	}
	md.Dt.Update()
	md.InitState()
	defer func() { md.stims = [capability.SiteN]*capability.Stimulus{} }()

	nsteps := int(math.Round(tstop / md.Dt.Integ))
	nrec := nsteps/md.Dt.RecSteps + 1
	ts := make([]float64, 0, nrec)
	vs := make([]float64, 0, nrec)
	for i := 0; i <= nsteps; i++ {
		t := float64(i) * md.Dt.Integ
		if i%md.Dt.RecSteps == 0 {
			ts = append(ts, t)
			vs = append(vs, float64(md.State[md.Soma].Vm))
		}
		if i < nsteps {
			md.Step(t)
		}
	}
	return ts, vs, nil
}

// Step integrates all compartments over one time step starting at t msec.
func (md *Model) Step(t float64) {
	md.setInj(t)
	dt := float32(md.Dt.Integ)
	for i := range md.State {
		md.State[i].vmPrv = md.State[i].Vm
	}
	for i := range md.State {
		md.stepComp(i, dt)
	}
}

// setInj sets the injected current densities at time t.
func (md *Model) setInj(t float64) {
	for i := range md.State {
		md.State[i].Inj = 0
	}
	sites := [capability.SiteN]int{capability.Soma: md.Soma, capability.Glomerulus: md.Glom}
	for si, st := range md.stims {
		if st == nil || !st.On(t) {
			continue
		}
		ci := sites[si]
		md.State[ci].Inj += float32(st.Amplitude) * md.Dt.StimGain / md.Comps[ci].Area
	}
}

// stepComp updates compartment ci with the exponential Euler method,
// holding conductances and neighbor potentials fixed over the step.
func (md *Model) stepComp(ci int, dt float32) {
	cp := &md.Comps[ci]
	cs := &md.State[ci]
	g := cs.Gates.Conductances(cp.Gbar)
	gsum := g.Sum()
	isum := chans.Currents(g, cp.Erev) + cs.Inj
	for _, lk := range md.Links {
		oi := -1
		switch ci {
		case lk.A:
			oi = lk.B
		case lk.B:
			oi = lk.A
		default:
			continue
		}
		gc := lk.G / cp.Area
		gsum += gc
		isum += gc * md.State[oi].vmPrv
	}
	vinf := isum / gsum
	cs.Vm = vinf + (cs.vmPrv-vinf)*mat32.Exp(-dt*gsum/cp.Cm)
	if cp.Gbar.Active() {
		cs.Gates.Update(cs.vmPrv, dt)
	}
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cellmodel

import (
	"github.com/emer/davison2000unit/chans"
)

///////////////////////////////////////////////////////////////////////
//  params.go contains the compartment and integration params

// CompParams are the membrane parameters of one compartment.
type CompParams struct {

	// compartment name, e.g., soma
	Name string

	// membrane area relative to the soma -- scales coupling and injected current densities
	Area float32 `def:"1" min:"0"`

	// membrane capacitance, in μF/cm²
	Cm float32 `def:"1" min:"0"`

	// maximal conductances for each channel, in mS/cm²
	Gbar chans.Chans `view:"inline"`

	// reversal potentials for each channel, in mV
	Erev chans.Chans `view:"inline"`
}

// ActiveDefaults sets the standard Hodgkin-Huxley spiking membrane.
func (cp *CompParams) ActiveDefaults() {
	cp.Area = 1
	cp.Cm = 1
	cp.Gbar.SetAll(120, 36, 0.3)
	cp.Erev.SetAll(50, -77, -54.387)
}

// PassiveDefaults sets a passive membrane resting at chans.VRest.
func (cp *CompParams) PassiveDefaults() {
	cp.Area = 1
	cp.Cm = 1
	cp.Gbar.SetAll(0, 0, 0.1)
	cp.Erev.SetAll(50, -77, chans.VRest)
}

// Link couples two compartments with an axial conductance.
type Link struct {
	A int
	B int

	// coupling conductance, in mS per unit of relative area
	G float32 `def:"0.5" min:"0"`
}

// DtParams are the time steps of integration and recording.
type DtParams struct {

	// integration time step, in msec
	Integ float64 `def:"0.025" min:"0"`

	// recording time step, in msec -- rounded to a multiple of Integ
	Rec float64 `def:"0.1" min:"0"`

	// stimulus amplitude scaling: current density, in μA/cm² of soma area, per unit of amplitude
	StimGain float32 `def:"10"`

	// number of integration steps per recorded sample
	RecSteps int `view:"-" json:"-" xml:"-"`
}

func (dp *DtParams) Defaults() {
	dp.Integ = 0.025
	dp.Rec = 0.1
	dp.StimGain = 10
	dp.Update()
}

// Update must be called after any changes to parameters
func (dp *DtParams) Update() {
	if dp.Integ <= 0 {
		dp.Integ = 0.025
	}
	dp.RecSteps = int(dp.Rec/dp.Integ + 0.5)
	if dp.RecSteps < 1 {
		dp.RecSteps = 1
	}
}

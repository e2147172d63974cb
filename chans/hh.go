// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import "github.com/goki/mat32"

// VRest is the resting potential, in mV, that the gate rate functions
// are expressed relative to.
const VRest = -65

// HHGates are the Hodgkin-Huxley gating variables of one compartment.
type HHGates struct {
	M float32 `desc:"sodium activation"`
	H float32 `desc:"sodium inactivation"`
	N float32 `desc:"potassium activation"`
}

// Init sets the gates to their steady state values at vm.
func (hg *HHGates) Init(vm float32) {
	hg.M = GateInf(MRates(vm))
	hg.H = GateInf(HRates(vm))
	hg.N = GateInf(NRates(vm))
}

// Update integrates the gates over dt msec at fixed vm, using the
// exponential Euler method which is stable for any dt.
func (hg *HHGates) Update(vm, dt float32) {
	ma, mb := MRates(vm)
	ha, hb := HRates(vm)
	na, nb := NRates(vm)
	hg.M = gateStep(hg.M, dt, ma, mb)
	hg.H = gateStep(hg.H, dt, ha, hb)
	hg.N = gateStep(hg.N, dt, na, nb)
}

// Conductances returns the actual conductances for maximal conductances gbar.
func (hg *HHGates) Conductances(gbar Chans) Chans {
	m3 := hg.M * hg.M * hg.M
	n2 := hg.N * hg.N
	return Chans{Na: gbar.Na * m3 * hg.H, K: gbar.K * n2 * n2, L: gbar.L}
}

// GateInf returns the steady state value of a gate with rates a, b.
func GateInf(a, b float32) float32 {
	return a / (a + b)
}

func gateStep(x, dt, a, b float32) float32 {
	tau := 1 / (a + b)
	inf := a * tau
	return inf + (x-inf)*mat32.Exp(-dt/tau)
}

// MRates returns the alpha and beta rates, in 1/msec, of sodium activation.
func MRates(vm float32) (float32, float32) {
	u := vm - VRest
	return 0.1 * vtrap(25-u, 10), 4 * mat32.Exp(-u/18)
}

// HRates returns the alpha and beta rates, in 1/msec, of sodium inactivation.
func HRates(vm float32) (float32, float32) {
	u := vm - VRest
	return 0.07 * mat32.Exp(-u/20), 1 / (mat32.Exp((30-u)/10) + 1)
}

// NRates returns the alpha and beta rates, in 1/msec, of potassium activation.
func NRates(vm float32) (float32, float32) {
	u := vm - VRest
	return 0.01 * vtrap(10-u, 10), 0.125 * mat32.Exp(-u/80)
}

// vtrap returns x / (exp(x/y) - 1), using the series expansion near x = 0.
func vtrap(x, y float32) float32 {
	r := x / y
	if mat32.Abs(r) < 1e-4 {
		return y * (1 - r/2)
	}
	return x / (mat32.Exp(r) - 1)
}

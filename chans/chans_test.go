// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-3)

func TestGatesRest(t *testing.T) {
	hg := HHGates{}
	hg.Init(VRest)
	cors := []float32{0.0529, 0.5961, 0.3177}
	vals := []float32{hg.M, hg.H, hg.N}
	for i := range vals {
		if mat32.Abs(vals[i]-cors[i]) > difTol {
			t.Errorf("gate %d: %g != %g", i, vals[i], cors[i])
		}
	}

	// steady state does not drift
	hg.Update(VRest, 10)
	nvals := []float32{hg.M, hg.H, hg.N}
	for i := range vals {
		if mat32.Abs(vals[i]-nvals[i]) > 1.0e-5 {
			t.Errorf("gate %d drifted: %g != %g", i, nvals[i], vals[i])
		}
	}
}

func TestRatesSingular(t *testing.T) {
	a, _ := MRates(VRest + 25)
	if mat32.Abs(a-1) > difTol {
		t.Errorf("alpha m at singular point: %g != 1", a)
	}
	a, _ = NRates(VRest + 10)
	if mat32.Abs(a-0.1) > difTol {
		t.Errorf("alpha n at singular point: %g != 0.1", a)
	}
}

func TestConductances(t *testing.T) {
	hg := HHGates{M: 0.5, H: 0.5, N: 0.5}
	gbar := Chans{}
	gbar.SetAll(120, 36, 0.3)
	g := hg.Conductances(gbar)
	if mat32.Abs(g.Na-7.5) > difTol || mat32.Abs(g.K-2.25) > difTol || g.L != 0.3 {
		t.Errorf("conductances: %+v", g)
	}
	erev := Chans{Na: 50, K: -77, L: -54.4}
	if mat32.Abs(Currents(g, erev)-(7.5*50-2.25*77-0.3*54.4)) > difTol {
		t.Errorf("currents: %g", Currents(g, erev))
	}
	if !gbar.Active() || (&Chans{L: 1}).Active() {
		t.Errorf("active")
	}
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the ionic conductance channels of a compartment,
computed with the Hodgkin-Huxley equivalent RC circuit model of a neuron
(i.e., basic Ohms law equations with voltage-gated conductances).
Includes fast sodium, delayed-rectifier potassium, and leak channels.
*/
package chans

// Chans are ion channels used in computing compartment membrane currents
type Chans struct {
	Na float32 `desc:"fast sodium (Na) channels -- drive the spike upstroke"`
	K  float32 `desc:"delayed-rectifier potassium (K) channels -- repolarize after each spike"`
	L  float32 `desc:"constant leak channels -- determines resting potential"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(na, k, l float32) {
	ch.Na, ch.K, ch.L = na, k, l
}

// Sum returns the sum of all the values
func (ch *Chans) Sum() float32 {
	return ch.Na + ch.K + ch.L
}

// Active returns true if any voltage-gated channel is present
func (ch *Chans) Active() bool {
	return ch.Na > 0 || ch.K > 0
}

// Currents returns the sum of conductance times reversal potential over
// all channels, for conductances g and reversal potentials erev.
func Currents(g, erev Chans) float32 {
	return g.Na*erev.Na + g.K*erev.K + g.L*erev.L
}

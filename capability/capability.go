// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package capability declares what a mitral cell model must be able to do to
be validated: accept a step current at the soma and / or the glomerulus, and
run forward while recording the somatic membrane potential.

Each capability is a small interface.  The validation tests check that a
model implements every capability they need (Check) before applying any
stimulus, so a missing capability is reported up front rather than part-way
through a run.
*/
package capability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emer/davison2000unit/efeature"
)

// ErrNotImplemented is returned when a model does not support a capability,
// e.g., injecting current at a site it does not model.
var ErrNotImplemented = errors.New("capability not implemented")

// Model is the minimal interface of every model: its name is used to build
// output paths and plot labels.
type Model interface {
	Name() string
}

// Stimulus is a rectangular current pulse.
type Stimulus struct {

	// onset delay, in ms
	Delay float64 `json:"delay"`

	// pulse duration, in ms
	Duration float64 `json:"duration"`

	// pulse amplitude, in nA
	Amplitude float64 `json:"amplitude"`
}

// End returns the time at which the pulse turns off, in ms.
func (st Stimulus) End() float64 {
	return st.Delay + st.Duration
}

// On returns true if the pulse is active at time t (ms).
func (st Stimulus) On(t float64) bool {
	return t >= st.Delay && t < st.End()
}

// SomaInjector can inject a step current into the soma.
// The stimulus applies to the next recording call.
type SomaInjector interface {
	InjectStepCurrentSoma(stim Stimulus) error
}

// GlomerulusInjector can inject a step current into the glomerulus
// (the apical tuft of the primary dendrite).
// The stimulus applies to the next recording call.
type GlomerulusInjector interface {
	InjectStepCurrentGlomerulus(stim Stimulus) error
}

// SomaRecorder runs the model for tstop ms while recording
// the somatic membrane potential.  It returns the time series (ms)
// and the membrane potential series (mV), of equal length.
type SomaRecorder interface {
	MembranePotentialSoma(tstop float64) (t, v []float64, err error)
}

// Inject applies stim at site, returning ErrNotImplemented if the
// model cannot be stimulated there.
func Inject(m Model, site Site, stim Stimulus) error {
	switch site {
	case Soma:
		inj, ok := m.(SomaInjector)
		if !ok {
			return fmt.Errorf("%s: inject at %v: %w", m.Name(), site, ErrNotImplemented)
		}
		return inj.InjectStepCurrentSoma(stim)
	case Glomerulus:
		inj, ok := m.(GlomerulusInjector)
		if !ok {
			return fmt.Errorf("%s: inject at %v: %w", m.Name(), site, ErrNotImplemented)
		}
		return inj.InjectStepCurrentGlomerulus(stim)
	}
	return fmt.Errorf("%s: inject at site %d: %w", m.Name(), int(site), ErrNotImplemented)
}

// EFELTrace calls MembranePotentialSoma and reformats its output into the
// trace layout used by the feature extractor, with the stimulus window
// [start, stop].
func EFELTrace(rec SomaRecorder, tstop, start, stop float64) (efeature.Trace, error) {
	t, v, err := rec.MembranePotentialSoma(tstop)
	if err != nil {
		return efeature.Trace{}, err
	}
	if len(t) != len(v) {
		return efeature.Trace{}, fmt.Errorf("%w: recorder returned %d times and %d voltages", efeature.ErrTrace, len(t), len(v))
	}
	return efeature.Trace{T: t, V: v, StimStart: start, StimEnd: stop}, nil
}

//////////////////////////////////////////////////////////////////////
//  Conformance

// Cap identifies one capability for conformance checks.
type Cap int

const (
	InjectSoma Cap = iota
	InjectGlomerulus
	RecordSoma
)

var capNames = [...]string{"InjectStepCurrentSoma", "InjectStepCurrentGlomerulus", "RecordMembranePotentialSoma"}

func (cp Cap) String() string {
	if cp < 0 || int(cp) >= len(capNames) {
		return fmt.Sprintf("Cap(%d)", int(cp))
	}
	return capNames[cp]
}

// Has returns true if m implements capability cp.
func Has(m Model, cp Cap) bool {
	switch cp {
	case InjectSoma:
		_, ok := m.(SomaInjector)
		return ok
	case InjectGlomerulus:
		_, ok := m.(GlomerulusInjector)
		return ok
	case RecordSoma:
		_, ok := m.(SomaRecorder)
		return ok
	}
	return false
}

// InjectCap returns the capability needed to inject at site.
func InjectCap(site Site) Cap {
	if site == Glomerulus {
		return InjectGlomerulus
	}
	return InjectSoma
}

// MissingError lists the capabilities a model lacks.
type MissingError struct {
	Model   string
	Missing []Cap
}

func (me *MissingError) Error() string {
	nms := make([]string, len(me.Missing))
	for i, cp := range me.Missing {
		nms[i] = cp.String()
	}
	return fmt.Sprintf("model %q does not implement: %s", me.Model, strings.Join(nms, ", "))
}

func (me *MissingError) Unwrap() error { return ErrNotImplemented }

// Check returns a *MissingError if m does not implement all of caps.
func Check(m Model, caps ...Cap) error {
	var miss []Cap
	for _, cp := range caps {
		if !Has(m, cp) {
			miss = append(miss, cp)
		}
	}
	if len(miss) == 0 {
		return nil
	}
	return &MissingError{Model: m.Name(), Missing: miss}
}

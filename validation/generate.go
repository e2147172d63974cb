// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"os"

	"github.com/emer/davison2000unit/capability"
)

// DefaultAmps are the stimulus amplitudes, in nA, of generated observations.
var DefaultAmps = []string{"0.2", "0.4", "0.8", "1.6"}

// DefaultAmpValues returns DefaultAmps as numbers.
func DefaultAmpValues() []float64 {
	return Observation(NewEntries(DefaultAmps)).Amplitudes()
}

// NewEntries returns entries with the given keys and zero values.
func NewEntries(keys []string) []Entry {
	ents := make([]Entry, len(keys))
	for i, k := range keys {
		ents[i] = Entry{Key: k}
	}
	return ents
}

// GenerateObservation runs the prediction phase of the firing test desc on
// a reference model at the given amplitudes, and returns the prediction
// for use as an observation.  Nothing is written to disk.
func GenerateObservation(desc FiringDesc, amps []string, ref capability.Model, pr Params) (Observation, error) {
	ob := Observation(NewEntries(amps))
	ft, err := NewFiringTest(desc, ob, pr)
	if err != nil {
		return nil, err
	}
	if err := capability.Check(ref, ft.Required()...); err != nil {
		return nil, err
	}
	return ft.Predict(ref)
}

// GenerateRunTimeObservation times one run time test run of a reference model.
func GenerateRunTimeObservation(ref capability.Model, pr Params) (float64, error) {
	rt, err := NewRunTime(0, pr)
	if err != nil {
		return 0, err
	}
	if err := capability.Check(ref, rt.Required()...); err != nil {
		return 0, err
	}
	return rt.Predict(ref)
}

// ReadObservation reads a stimulus-keyed observation from a JSON file.
func ReadObservation(fnm string) (Observation, error) {
	b, err := os.ReadFile(fnm)
	if err != nil {
		return nil, err
	}
	return ParseObservation(b)
}

// WriteObservation writes ob to a JSON file.
func WriteObservation(fnm string, ob Observation) error {
	return WriteJSON(nil, fnm, ob)
}

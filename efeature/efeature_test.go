// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package efeature

import (
	"errors"
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-9

// spikeTrain returns a 0.1 ms resolution trace resting at -65 mV with
// one-sample spikes to +20 mV at the given times (ms).
func spikeTrain(tstop float64, spikes ...float64) Trace {
	n := int(tstop/0.1) + 1
	tr := Trace{T: make([]float64, n), V: make([]float64, n), StimStart: 50, StimEnd: 200}
	for i := range tr.T {
		tr.T[i] = float64(i) * 0.1
		tr.V[i] = -65
	}
	for _, st := range spikes {
		tr.V[int(math.Round(st/0.1))] = 20
	}
	return tr
}

func TestSpikeFeatures(t *testing.T) {
	lb := NewLib()
	lb.Reset()
	tr := spikeTrain(250, 20, 60, 70, 90, 220)
	res, err := lb.FeatureValues([]Trace{tr}, []string{"Spikecount", "Spikecount_stimint", "time_to_first_spike", "peak_time", "ISI_values", "mean_frequency"})
	if err != nil {
		t.Fatal(err)
	}
	vals := res[0]
	if got := FirstValue(vals, "Spikecount"); got != 5 {
		t.Errorf("Spikecount: %v, want 5", got)
	}
	if got := FirstValue(vals, "Spikecount_stimint"); got != 3 {
		t.Errorf("Spikecount_stimint: %v, want 3", got)
	}
	if got := FirstValue(vals, "time_to_first_spike"); math.Abs(got-10) > difTol {
		t.Errorf("time_to_first_spike: %v, want 10", got)
	}
	cpt := []float64{20, 60, 70, 90, 220}
	for i, pt := range vals["peak_time"] {
		if math.Abs(pt-cpt[i]) > difTol {
			t.Errorf("peak_time[%d]: %v, want %v", i, pt, cpt[i])
		}
	}
	if len(vals["ISI_values"]) != 4 || math.Abs(vals["ISI_values"][0]-40) > difTol {
		t.Errorf("ISI_values: %v", vals["ISI_values"])
	}
	// 3 spikes from onset at 50 to last at 90
	if got := FirstValue(vals, "mean_frequency"); math.Abs(got-75) > difTol {
		t.Errorf("mean_frequency: %v, want 75", got)
	}
}

func TestNoSpikes(t *testing.T) {
	lb := NewLib()
	lb.Reset()
	res, err := lb.FeatureValues([]Trace{spikeTrain(250)}, []string{"time_to_first_spike", "Spikecount_stimint"})
	if err != nil {
		t.Fatal(err)
	}
	if got := FirstValue(res[0], "time_to_first_spike"); !math.IsNaN(got) {
		t.Errorf("time_to_first_spike without spikes: %v, want NaN", got)
	}
	if got := FirstValue(res[0], "Spikecount_stimint"); got != 0 {
		t.Errorf("Spikecount_stimint: %v, want 0", got)
	}
}

func TestSlowDepolarizationIgnored(t *testing.T) {
	lb := NewLib()
	lb.Reset()
	tr := spikeTrain(250, 100)
	// ramp rising at 1 mV/ms from rest, across threshold at 195 ms
	for i := range tr.T {
		if t := tr.T[i]; t >= 150 {
			tr.V[i] = -65 + (t - 150)
		}
	}
	pks := lb.PeakIndices(&tr)
	if len(pks) != 1 {
		t.Errorf("peaks: %v, want only the spike at 100 ms", pks)
	}
}

func TestNaNSamples(t *testing.T) {
	lb := NewLib()
	lb.Reset()
	nan := math.NaN()
	trace := func(v ...float64) Trace {
		tr := Trace{T: make([]float64, len(v)), V: v, StimEnd: float64(len(v) - 1)}
		for i := range tr.T {
			tr.T[i] = float64(i)
		}
		return tr
	}
	nms := []string{"Spikecount", "time_to_first_spike"}

	res, err := lb.FeatureValues([]Trace{trace(-65, -65, nan, -65)}, nms)
	if err != nil {
		t.Fatal(err)
	}
	if got := FirstValue(res[0], "Spikecount"); got != 0 {
		t.Errorf("Spikecount: %v, want 0", got)
	}
	if got := FirstValue(res[0], "time_to_first_spike"); !math.IsNaN(got) {
		t.Errorf("time_to_first_spike: %v, want NaN", got)
	}

	// excursion cut short by a NaN sample still counts
	res, err = lb.FeatureValues([]Trace{trace(-65, -65, 0, nan, -65)}, nms)
	if err != nil {
		t.Fatal(err)
	}
	if got := FirstValue(res[0], "Spikecount"); got != 1 {
		t.Errorf("Spikecount: %v, want 1", got)
	}
	if got := FirstValue(res[0], "time_to_first_spike"); math.Abs(got-2) > difTol {
		t.Errorf("time_to_first_spike: %v, want 2", got)
	}

	tr := spikeTrain(250, 60, 70)
	tr.V[1500] = nan
	res, err = lb.FeatureValues([]Trace{tr}, []string{"Spikecount_stimint"})
	if err != nil {
		t.Fatal(err)
	}
	if got := FirstValue(res[0], "Spikecount_stimint"); got != 2 {
		t.Errorf("Spikecount_stimint: %v, want 2", got)
	}
}

func TestThresholdReset(t *testing.T) {
	lb := NewLib()
	lb.SetThreshold(30)
	tr := spikeTrain(250, 60)
	res, _ := lb.FeatureValues([]Trace{tr}, []string{"Spikecount"})
	if got := FirstValue(res[0], "Spikecount"); got != 0 {
		t.Errorf("Spikecount above raised threshold: %v, want 0", got)
	}
	lb.Reset()
	if lb.Params.Thr != -20 || lb.NReset != 1 {
		t.Errorf("Reset did not restore defaults: %+v, resets %d", lb.Params, lb.NReset)
	}
	res, _ = lb.FeatureValues([]Trace{tr}, []string{"Spikecount"})
	if got := FirstValue(res[0], "Spikecount"); got != 1 {
		t.Errorf("Spikecount after Reset: %v, want 1", got)
	}
}

func TestErrors(t *testing.T) {
	lb := NewLib()
	if _, err := lb.FeatureValues([]Trace{spikeTrain(10)}, []string{"AP_width_magic"}); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("unknown feature: err = %v", err)
	}
	bad := Trace{T: []float64{0, 1, 2}, V: []float64{0, 1}}
	if _, err := lb.FeatureValues([]Trace{bad}, []string{"Spikecount"}); !errors.Is(err, ErrTrace) {
		t.Errorf("mismatched trace: err = %v", err)
	}
	if len(FeatureNames()) != len(featureFuns) {
		t.Errorf("FeatureNames: %v", FeatureNames())
	}
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package efeature extracts electrophysiological features (spike counts,
spike times, first-spike latency) from somatic membrane potential traces.

The Extractor interface is the collaborator used by the validation tests.
It carries process-level settings (detection thresholds) that are restored
to their defaults by Reset: a test run must call Reset once, before its
first FeatureValues call, so that settings changed by an earlier run never
leak into the next one.  Extractors are not safe for concurrent use.

Lib is the default implementation.  Feature names follow the eFEL
conventions so observation files and results remain comparable:

	peak_indices, peak_time, Spikecount, Spikecount_stimint,
	time_to_first_spike, mean_frequency, ISI_values
*/
package efeature

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrUnknownFeature is returned for feature names Lib does not implement.
	ErrUnknownFeature = errors.New("efeature: unknown feature")

	// ErrTrace is returned for traces with mismatched or empty T / V series.
	ErrTrace = errors.New("efeature: malformed trace")
)

// Trace is one recorded voltage trace with its stimulus window,
// in the layout expected by FeatureValues.
type Trace struct {

	// time series, in ms
	T []float64

	// somatic membrane potential series, in mV
	V []float64

	// stimulus onset, in ms
	StimStart float64

	// stimulus offset, in ms
	StimEnd float64
}

// Validate returns ErrTrace if the trace cannot be analyzed.
func (tr *Trace) Validate() error {
	if len(tr.T) != len(tr.V) {
		return fmt.Errorf("%w: len(T) = %d, len(V) = %d", ErrTrace, len(tr.T), len(tr.V))
	}
	if len(tr.T) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, have %d", ErrTrace, len(tr.T))
	}
	if tr.StimEnd < tr.StimStart {
		return fmt.Errorf("%w: stim_end %g before stim_start %g", ErrTrace, tr.StimEnd, tr.StimStart)
	}
	return nil
}

// Extractor computes named features for a list of traces.
// Reset must happen-before any FeatureValues call of a test run.
type Extractor interface {

	// Reset restores all settings to their defaults.
	Reset()

	// FeatureValues returns, for each trace, a map from feature name to the
	// values of that feature.  A feature that has no value for a trace
	// (e.g., latency with no spikes) maps to an empty slice.
	FeatureValues(traces []Trace, names []string) ([]map[string][]float64, error)
}

// FirstValue returns the first value of the named feature, or NaN if the
// feature has no values.  This is how the tests reduce a feature to a scalar.
func FirstValue(vals map[string][]float64, name string) float64 {
	v := vals[name]
	if len(v) == 0 {
		return math.NaN()
	}
	return v[0]
}

// Params are the spike detection settings.
type Params struct {

	// voltage threshold for detecting an action potential, in mV
	Thr float64 `def:"-20"`

	// minimum rate of rise (dV/dt) reached on the upstroke for a threshold crossing to count as a spike, in mV/ms
	DerivThr float64 `def:"10"`
}

func (fp *Params) Defaults() {
	fp.Thr = -20
	fp.DerivThr = 10
}

// Lib is the default Extractor.
type Lib struct {
	Params Params

	// number of Reset calls, for lifecycle checks
	NReset int
}

// NewLib returns a new Lib with default settings.
func NewLib() *Lib {
	lb := &Lib{}
	lb.Params.Defaults()
	return lb
}

// Reset restores default settings.
func (lb *Lib) Reset() {
	lb.Params.Defaults()
	lb.NReset++
}

// SetThreshold sets the spike detection voltage threshold, in mV,
// until the next Reset.
func (lb *Lib) SetThreshold(thr float64) {
	lb.Params.Thr = thr
}

// SetDerivativeThreshold sets the minimum upstroke dV/dt, in mV/ms,
// until the next Reset.
func (lb *Lib) SetDerivativeThreshold(thr float64) {
	lb.Params.DerivThr = thr
}

// FeatureNames returns the features Lib implements, sorted.
func FeatureNames() []string {
	nms := make([]string, 0, len(featureFuns))
	for nm := range featureFuns {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	return nms
}

type featureFun func(lb *Lib, tr *Trace, pks []int) []float64

var featureFuns = map[string]featureFun{
	"peak_indices":        (*Lib).peakIndices,
	"peak_time":           (*Lib).peakTime,
	"Spikecount":          (*Lib).spikecount,
	"Spikecount_stimint":  (*Lib).spikecountStimInt,
	"time_to_first_spike": (*Lib).timeToFirstSpike,
	"mean_frequency":      (*Lib).meanFrequency,
	"ISI_values":          (*Lib).isiValues,
}

// FeatureValues implements Extractor.
func (lb *Lib) FeatureValues(traces []Trace, names []string) ([]map[string][]float64, error) {
	for _, nm := range names {
		if _, ok := featureFuns[nm]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, nm)
		}
	}
	res := make([]map[string][]float64, len(traces))
	for ti := range traces {
		tr := &traces[ti]
		if err := tr.Validate(); err != nil {
			return nil, fmt.Errorf("trace %d: %w", ti, err)
		}
		pks := lb.PeakIndices(tr)
		vals := make(map[string][]float64, len(names))
		for _, nm := range names {
			vals[nm] = featureFuns[nm](lb, tr, pks)
		}
		res[ti] = vals
	}
	return res, nil
}

// PeakIndices returns the index of the voltage maximum of every excursion
// above Params.Thr whose upstroke reaches Params.DerivThr.
// An excursion still above threshold at the end of the trace is included.
// NaN samples count as below threshold.
func (lb *Lib) PeakIndices(tr *Trace) []int {
	var pks []int
	n := len(tr.V)
	i := 0
	for i < n {
		if !(tr.V[i] >= lb.Params.Thr) {
			i++
			continue
		}
		st := i
		for i < n && tr.V[i] >= lb.Params.Thr {
			i++
		}
		if i == st || !(lb.maxUpstroke(tr, st) >= lb.Params.DerivThr) {
			continue
		}
		pks = append(pks, st+floats.MaxIdx(tr.V[st:i]))
	}
	return pks
}

// maxUpstroke returns the largest dV/dt over the rising samples leading into
// the excursion starting at st.  The rising run ends at a NaN sample.
func (lb *Lib) maxUpstroke(tr *Trace, st int) float64 {
	mx := math.Inf(-1)
	for j := st; j > 0; j-- {
		dt := tr.T[j] - tr.T[j-1]
		dv := tr.V[j] - tr.V[j-1]
		if math.IsNaN(dv) || (dv <= 0 && j < st) {
			break
		}
		if dt <= 0 {
			continue
		}
		mx = math.Max(mx, dv/dt)
	}
	if st+1 < len(tr.V) {
		dv := tr.V[st+1] - tr.V[st]
		if dt := tr.T[st+1] - tr.T[st]; dt > 0 && !math.IsNaN(dv) {
			mx = math.Max(mx, dv/dt)
		}
	}
	return mx
}

func (lb *Lib) peakIndices(tr *Trace, pks []int) []float64 {
	vals := make([]float64, len(pks))
	for i, pi := range pks {
		vals[i] = float64(pi)
	}
	return vals
}

func (lb *Lib) peakTime(tr *Trace, pks []int) []float64 {
	vals := make([]float64, len(pks))
	for i, pi := range pks {
		vals[i] = tr.T[pi]
	}
	return vals
}

func (lb *Lib) spikecount(tr *Trace, pks []int) []float64 {
	return []float64{float64(len(pks))}
}

// stimPeaks returns the peak times that fall within the stimulus window.
func stimPeaks(tr *Trace, pks []int) []float64 {
	var pt []float64
	for _, pi := range pks {
		t := tr.T[pi]
		if t >= tr.StimStart && t <= tr.StimEnd {
			pt = append(pt, t)
		}
	}
	return pt
}

func (lb *Lib) spikecountStimInt(tr *Trace, pks []int) []float64 {
	return []float64{float64(len(stimPeaks(tr, pks)))}
}

func (lb *Lib) timeToFirstSpike(tr *Trace, pks []int) []float64 {
	for _, pi := range pks {
		if t := tr.T[pi]; t >= tr.StimStart {
			return []float64{t - tr.StimStart}
		}
	}
	return nil
}

// meanFrequency is spikes in the stimulus window over the time from onset
// to the last of them, in Hz.
func (lb *Lib) meanFrequency(tr *Trace, pks []int) []float64 {
	pt := stimPeaks(tr, pks)
	if len(pt) == 0 {
		return nil
	}
	dur := pt[len(pt)-1] - tr.StimStart
	if dur <= 0 {
		return nil
	}
	return []float64{1000 * float64(len(pt)) / dur}
}

func (lb *Lib) isiValues(tr *Trace, pks []int) []float64 {
	if len(pks) < 2 {
		return nil
	}
	pt := lb.peakTime(tr, pks)
	isi := make([]float64, len(pt)-1)
	floats.SubTo(isi, pt[1:], pt[:len(pt)-1])
	return isi
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/emer/davison2000unit/capability"
	"github.com/emer/davison2000unit/efeature"
	"github.com/emer/davison2000unit/plots"
	"github.com/emer/davison2000unit/score"
	"github.com/emer/emergent/v2/timer"
	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
)

// FiringDesc describes one firing test: where the stimulus is applied,
// its timing, the feature extracted, and how results are named and drawn.
type FiringDesc struct {

	// test name, also the artifact directory name
	Name string

	// injection site
	Site capability.Site

	// feature derived from each trace
	Feature Feature

	// stimulus onset, in ms
	Delay float64

	// stimulus duration, in ms
	Duration float64

	// stem of all artifact file names
	Stem string

	// title of the observation vs. prediction plot
	Title string

	// title of the traces plot
	TracesTitle string
}

// The four firing tests
var (
	SomaFiringFrequencyDesc = FiringDesc{
		Name:        "Soma Stim Firing Frequency",
		Site:        capability.Soma,
		Feature:     FiringFreq,
		Delay:       50,
		Duration:    500,
		Stem:        "soma_stim_freq",
		Title:       "Stimulus at Soma: Firing Frequency",
		TracesTitle: "Somatic Vm: Stimulus at Soma",
	}
	GlomFiringFrequencyDesc = FiringDesc{
		Name:        "Glom Stim Firing Frequency",
		Site:        capability.Glomerulus,
		Feature:     FiringFreq,
		Delay:       50,
		Duration:    500,
		Stem:        "glom_stim_freq",
		Title:       "Stimulus at Glomerulus: Firing Frequency",
		TracesTitle: "Somatic Vm: Stimulus at Glomerulus",
	}
	SomaFirstSpikeLatencyDesc = FiringDesc{
		Name:        "Soma Stim First Spike Latency",
		Site:        capability.Soma,
		Feature:     FirstSpikeLatency,
		Delay:       50,
		Duration:    150,
		Stem:        "soma_stim_latency",
		Title:       "Stimulus at Soma: First Spike Latency",
		TracesTitle: "Somatic Vm: Stimulus at Soma",
	}
	GlomFirstSpikeLatencyDesc = FiringDesc{
		Name:        "Glom Stim First Spike Latency",
		Site:        capability.Glomerulus,
		Feature:     FirstSpikeLatency,
		Delay:       50,
		Duration:    150,
		Stem:        "glom_stim_latency",
		Title:       "Stimulus at Glomerulus: First Spike Latency",
		TracesTitle: "Somatic Vm: Stimulus at Glomerulus",
	}
)

// FiringDescs lists the firing tests in figure panel order.
var FiringDescs = []FiringDesc{SomaFiringFrequencyDesc, GlomFiringFrequencyDesc, SomaFirstSpikeLatencyDesc, GlomFirstSpikeLatencyDesc}

// Common axis settings of the firing test plots.
const (
	CurrentLabel = "Injected current (μA/cm²)"
	FreqLabel    = "Firing frequency (Hz)"
	LatencyLabel = "First spike latency (ms)"
	TimeLabel    = "Time (ms)"
	VmLabel      = "Membrane potential (mV)"
)

// YLabel returns the y axis label for the feature.
func (fd *FiringDesc) YLabel() string {
	if fd.Feature == FirstSpikeLatency {
		return LatencyLabel
	}
	return FreqLabel
}

// YLim returns the y axis range for the feature.
func (fd *FiringDesc) YLim() minmax.F64 {
	if fd.Feature == FirstSpikeLatency {
		return minmax.F64{Min: 3, Max: 150}
	}
	return minmax.F64{Min: 10, Max: 200}
}

// PlotParams returns the log plot settings, with a score annotation.
func (fd *FiringDesc) PlotParams(obsLabel, predLabel string, sc float64) plots.Params {
	pp := plots.Params{
		Title:     fd.Title,
		ObsLabel:  obsLabel,
		PredLabel: predLabel,
		XLabel:    CurrentLabel,
		YLabel:    fd.YLabel(),
		XLim:      minmax.F64{Min: 0.15, Max: 3},
		YLim:      fd.YLim(),
		XTicks:    []float64{0.2, 0.4, 0.8, 1.6},
		YTicks:    []float64{10, 100},
		ScoreText: "RMS Score = " + Round2(sc),
		ScoreXY:   mat32.Vec2{X: 0.7, Y: 0.1},
	}
	if fd.Feature == FirstSpikeLatency {
		pp.ScoreXY.Y = 0.7
	}
	return pp
}

// Round2 formats v rounded to 2 decimals, always with a decimal point.
func Round2(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return string(marshalFloat(math.Round(v*100) / 100))
}

// Stimulus returns the step current for amplitude amp.
func (fd *FiringDesc) Stimulus(amp float64) capability.Stimulus {
	return capability.Stimulus{Delay: fd.Delay, Duration: fd.Duration, Amplitude: amp}
}

// FiringTest stimulates a model at one site with each observation
// amplitude and compares one feature of the responses to the observation.
type FiringTest struct {
	Desc   FiringDesc
	Obs    Observation
	Params Params

	// prediction of the last run
	Pred Prediction

	// wall-clock seconds of each record call of the last run, keyed as Obs
	RunTimes Observation

	// traces of the last run, in stimulus order
	Traces []Trace
}

// NewFiringTest returns a firing test for desc, validating obs.
func NewFiringTest(desc FiringDesc, obs Observation, pr Params) (*FiringTest, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	pr.Update()
	return &FiringTest{Desc: desc, Obs: obs, Params: pr}, nil
}

// NewSomaFiringFrequency tests firing frequency under somatic stimulation.
func NewSomaFiringFrequency(obs Observation, pr Params) (*FiringTest, error) {
	return NewFiringTest(SomaFiringFrequencyDesc, obs, pr)
}

// NewGlomFiringFrequency tests somatic firing frequency under glomerular stimulation.
func NewGlomFiringFrequency(obs Observation, pr Params) (*FiringTest, error) {
	return NewFiringTest(GlomFiringFrequencyDesc, obs, pr)
}

// NewSomaFirstSpikeLatency tests first spike latency under somatic stimulation.
func NewSomaFirstSpikeLatency(obs Observation, pr Params) (*FiringTest, error) {
	return NewFiringTest(SomaFirstSpikeLatencyDesc, obs, pr)
}

// NewGlomFirstSpikeLatency tests somatic first spike latency under glomerular stimulation.
func NewGlomFirstSpikeLatency(obs Observation, pr Params) (*FiringTest, error) {
	return NewFiringTest(GlomFirstSpikeLatencyDesc, obs, pr)
}

func (ft *FiringTest) Name() string { return ft.Desc.Name }

func (ft *FiringTest) Required() []capability.Cap {
	return []capability.Cap{capability.InjectCap(ft.Desc.Site), capability.RecordSoma}
}

func (ft *FiringTest) SetLogger(lg *slog.Logger) { ft.Params.Logger = lg }

// Judge checks that m has the required capabilities, generates the
// prediction, scores it and writes the artifacts.
func (ft *FiringTest) Judge(m capability.Model) (*score.Score, error) {
	if err := capability.Check(m, ft.Required()...); err != nil {
		return nil, err
	}
	lg := ft.Params.Logger.With("test", ft.Desc.Name, "model", m.Name())
	lg.Info("judging", "stimuli", len(ft.Obs))
	pred, err := ft.Predict(m)
	if err != nil {
		return nil, err
	}
	sc, err := score.RMS(ft.Obs.Values(), pred.Values())
	if err != nil {
		return nil, err
	}
	sc.Description = "Root Mean Square (RMS) of difference between observation and prediction for each stimulus"
	sc.Model = m.Name()
	sc.Test = ft.Desc.Name
	if err := ft.Bind(&sc); err != nil {
		return nil, err
	}
	lg.Info("scored", "score", sc.String(), "dir", sc.TargetDir)
	return &sc, nil
}

// Predict stimulates m once per observation key, in order, and returns
// the feature value for each.  A missing feature (no spikes) is NaN.
func (ft *FiringTest) Predict(m capability.Model) (Prediction, error) {
	rec, ok := m.(capability.SomaRecorder)
	if !ok {
		return nil, &capability.MissingError{Model: m.Name(), Missing: []capability.Cap{capability.RecordSoma}}
	}
	lg := ft.Params.Logger.With("test", ft.Desc.Name, "model", m.Name())
	ft.Params.Extractor.Reset()
	ft.Pred = make(Prediction, len(ft.Obs))
	ft.RunTimes = make(Observation, len(ft.Obs))
	ft.Traces = make([]Trace, 0, len(ft.Obs))
	amps := ft.Obs.Amplitudes()
	for i, e := range ft.Obs {
		v, secs, err := ft.runStim(m, rec, amps[i])
		if err != nil {
			return nil, fmt.Errorf("%s: stimulus %s: %w", ft.Desc.Name, e.Key, err)
		}
		ft.Pred[i] = Entry{Key: e.Key, Value: v}
		ft.RunTimes[i] = Entry{Key: e.Key, Value: secs}
		lg.Debug("stimulus", "stim", e.Key, ft.Desc.Feature.String(), v, "secs", secs)
	}
	return ft.Pred, nil
}

// runStim applies one stimulus and returns the feature value and the
// wall-clock seconds of the record call.
func (ft *FiringTest) runStim(m capability.Model, rec capability.SomaRecorder, amp float64) (float64, float64, error) {
	stim := ft.Desc.Stimulus(amp)
	if err := capability.Inject(m, ft.Desc.Site, stim); err != nil {
		return 0, 0, err
	}
	tmr := timer.Time{}
	tmr.Start()
	tr, err := capability.EFELTrace(rec, stim.End(), stim.Delay, stim.End())
	tmr.Stop()
	if err != nil {
		return 0, 0, err
	}
	ft.Traces = append(ft.Traces, NewTrace(amp, &tr))
	fnm := ft.Desc.Feature.EFeature()
	vals, err := ft.Params.Extractor.FeatureValues([]efeature.Trace{tr}, []string{fnm})
	if err != nil {
		return 0, 0, err
	}
	v := efeature.FirstValue(vals[0], fnm)
	if ft.Desc.Feature == FiringFreq {
		v /= stim.Duration * 1e-3
	}
	return v, tmr.TotalSecs(), nil
}

// firingData is the layout of the <stem>.json artifact.
type firingData struct {
	ObsLabel    string      `json:"obs_label"`
	PredLabel   string      `json:"pred_label"`
	Observation Observation `json:"observation"`
	Prediction  Prediction  `json:"prediction"`
	Score       Float       `json:"score"`
	RunTimes    Observation `json:"run_times"`
}

// Bind writes the artifacts of the last run for score sc, setting its
// TargetDir and Figures.
func (ft *FiringTest) Bind(sc *score.Score) error {
	dir, err := TargetDir(ft.Params.OutputDir, ft.Desc.Name, sc.Model)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	sc.TargetDir = dir
	lg := ft.Params.Logger.With("test", ft.Desc.Name, "model", sc.Model)
	stem := ft.Desc.Stem

	dat := firingData{
		ObsLabel:    ft.Params.ObsLabel,
		PredLabel:   sc.Model,
		Observation: ft.Obs,
		Prediction:  ft.Pred,
		Score:       Float(sc.Score),
		RunTimes:    ft.RunTimes,
	}
	if err := WriteJSON(lg, filepath.Join(dir, stem+".json"), dat); err != nil {
		return err
	}
	if err := WriteJSON(lg, filepath.Join(dir, stem+"_traces.json"), ft.Traces); err != nil {
		return err
	}
	if err := WriteTSV(lg, filepath.Join(dir, stem+"_traces.tsv"), TracesTable(ft.Traces)); err != nil {
		return err
	}

	amps := ft.Obs.Amplitudes()
	fig, err := plots.LogPlot(stem, sc, amps, ft.Obs.Values(), ft.Pred.Values(), ft.Desc.PlotParams(ft.Params.ObsLabel, sc.Model, sc.Score))
	if err != nil {
		return err
	}
	sc.Figures = append(sc.Figures, fig)
	fig, err = plots.Traces(stem+"_traces", sc, PlotTraces(ft.Traces), TracesParams(ft.Desc.TracesTitle))
	if err != nil {
		return err
	}
	sc.Figures = append(sc.Figures, fig)
	return nil
}

// PlotTraces converts traces for plots.Traces, labeled by stimulus.
func PlotTraces(trs []Trace) []plots.Trace {
	pts := make([]plots.Trace, len(trs))
	for i, tr := range trs {
		pts[i] = plots.Trace{Label: fmt.Sprintf("%g nA", tr.Stim), T: tr.T, V: tr.V}
	}
	return pts
}

// TracesParams returns the traces plot settings with the given title.
func TracesParams(title string) plots.Params {
	return plots.Params{Title: title, XLabel: TimeLabel, YLabel: VmLabel}
}

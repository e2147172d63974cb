// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/emer/davison2000unit/capability"
	"github.com/emer/davison2000unit/plots"
	"github.com/emer/davison2000unit/score"
	"github.com/emer/emergent/v2/timer"
)

// RunTimeName is the name of the run time test.
const RunTimeName = "Run Time"

// RunTimeStim is the stimulus of the run time test: one minute of
// simulation with a 0.4 nA somatic step from 50 ms to the end.
var RunTimeStim = capability.Stimulus{Delay: 50, Duration: 60*1000 - 50, Amplitude: 0.4}

// RunTimeTest measures the wall-clock time a model takes to simulate
// one minute.  The score is the prediction minus the observation, in s.
type RunTimeTest struct {

	// reference run time, in s
	Obs float64

	Params Params

	// stimulus applied -- RunTimeStim by default
	Stim capability.Stimulus

	// run time of the last run, in s
	Pred float64

	// trace of the last run
	Traces []Trace
}

// NewRunTime returns a run time test with the given reference run time in s,
// which must be a finite number.
func NewRunTime(obs float64, pr Params) (*RunTimeTest, error) {
	if math.IsNaN(obs) || math.IsInf(obs, 0) {
		return nil, &ObservationError{Msg: "Observation must be a number!", Err: fmt.Errorf("got %v", obs)}
	}
	pr.Update()
	return &RunTimeTest{Obs: obs, Params: pr, Stim: RunTimeStim}, nil
}

// ParseRunTimeObservation decodes a run time observation, which must be
// a bare JSON number.
func ParseRunTimeObservation(b []byte) (float64, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, &ObservationError{Msg: "Observation must be a number!", Err: err}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &ObservationError{Msg: "Observation must be a number!", Err: fmt.Errorf("got %T", v)}
	}
	return f, nil
}

func (rt *RunTimeTest) Name() string { return RunTimeName }

func (rt *RunTimeTest) Required() []capability.Cap {
	return []capability.Cap{capability.InjectSoma, capability.RecordSoma}
}

func (rt *RunTimeTest) SetLogger(lg *slog.Logger) { rt.Params.Logger = lg }

// Judge checks capabilities, times one run of m, and writes the artifacts.
func (rt *RunTimeTest) Judge(m capability.Model) (*score.Score, error) {
	if err := capability.Check(m, rt.Required()...); err != nil {
		return nil, err
	}
	lg := rt.Params.Logger.With("test", RunTimeName, "model", m.Name())
	lg.Info("judging", "tstop", rt.Stim.End())
	pred, err := rt.Predict(m)
	if err != nil {
		return nil, err
	}
	sc := score.Float(pred, rt.Obs)
	sc.Description = "Time (in seconds) required to complete simulation"
	sc.Model = m.Name()
	sc.Test = RunTimeName
	if err := rt.Bind(&sc); err != nil {
		return nil, err
	}
	lg.Info("scored", "score", sc.String(), "secs", pred)
	return &sc, nil
}

// Predict runs the stimulus once and returns the wall-clock seconds
// taken by the record call.
func (rt *RunTimeTest) Predict(m capability.Model) (float64, error) {
	rec, ok := m.(capability.SomaRecorder)
	if !ok {
		return 0, &capability.MissingError{Model: m.Name(), Missing: []capability.Cap{capability.RecordSoma}}
	}
	rt.Traces = nil
	if err := capability.Inject(m, capability.Soma, rt.Stim); err != nil {
		return 0, fmt.Errorf("%s: %w", RunTimeName, err)
	}
	tmr := timer.Time{}
	tmr.Start()
	tr, err := capability.EFELTrace(rec, rt.Stim.End(), rt.Stim.Delay, rt.Stim.End())
	tmr.Stop()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", RunTimeName, err)
	}
	rt.Traces = []Trace{NewTrace(rt.Stim.Amplitude, &tr)}
	rt.Pred = tmr.TotalSecs()
	return rt.Pred, nil
}

// runTimeData is the layout of the run_time.json artifact.
type runTimeData struct {
	PredLabel   string `json:"pred_label"`
	Observation Float  `json:"observation"`
	Prediction  Float  `json:"prediction"`
	Score       Float  `json:"score"`
}

// Bind writes the artifacts of the last run for score sc.
func (rt *RunTimeTest) Bind(sc *score.Score) error {
	dir, err := TargetDir(rt.Params.OutputDir, RunTimeName, sc.Model)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	sc.TargetDir = dir
	lg := rt.Params.Logger.With("test", RunTimeName, "model", sc.Model)
	dat := runTimeData{PredLabel: sc.Model, Observation: Float(rt.Obs), Prediction: Float(rt.Pred), Score: Float(sc.Score)}
	if err := WriteJSON(lg, filepath.Join(dir, "run_time.json"), dat); err != nil {
		return err
	}
	if err := WriteJSON(lg, filepath.Join(dir, "run_time_trace.json"), rt.Traces); err != nil {
		return err
	}
	fig, err := plots.Traces("run_time_trace", sc, PlotTraces(rt.Traces), TracesParams("Somatic Vm: Stimulus at Soma"))
	if err != nil {
		return err
	}
	sc.Figures = append(sc.Figures, fig)
	return nil
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emer/davison2000unit/capability"
	"github.com/emer/davison2000unit/score"
	"github.com/google/uuid"
)

// SuiteName is the artifact directory name of suite summaries.
const SuiteName = "Suite"

// Suite runs a list of tests against one model.  Conformance of the model
// to every test is checked when the suite is made.
type Suite struct {
	Model capability.Model
	Tests []Test

	// identifies this run in logs and the summary
	RunID uuid.UUID

	// directory under which the validation_davison2000unit tree is written
	OutputDir string

	// logger carrying the run id
	Logger *slog.Logger

	// scores of the last Judge, one per test, nil for failed tests
	Scores []*score.Score
}

// NewSuite returns a suite for m, or a *capability.MissingError listing
// every capability m lacks for any of the tests.
func NewSuite(m capability.Model, pr Params, tests ...Test) (*Suite, error) {
	pr.Update()
	var caps []capability.Cap
	seen := map[capability.Cap]bool{}
	for _, ts := range tests {
		for _, cp := range ts.Required() {
			if !seen[cp] {
				seen[cp] = true
				caps = append(caps, cp)
			}
		}
	}
	if err := capability.Check(m, caps...); err != nil {
		return nil, err
	}
	id := uuid.New()
	su := &Suite{Model: m, Tests: tests, RunID: id, OutputDir: pr.OutputDir}
	su.Logger = pr.Logger.With("run", id.String())
	return su, nil
}

// loggerSetter is implemented by tests that log.
type loggerSetter interface {
	SetLogger(lg *slog.Logger)
}

// suiteResult is one test entry of suite_summary.json.
type suiteResult struct {
	Test        string   `json:"test"`
	Score       *Float   `json:"score"`
	Description string   `json:"description,omitempty"`
	TargetDir   string   `json:"target_dir,omitempty"`
	Figures     []string `json:"figures,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type suiteSummary struct {
	RunID   string        `json:"run_id"`
	Model   string        `json:"model"`
	Started string        `json:"started"`
	Secs    Float         `json:"secs"`
	Results []suiteResult `json:"results"`
}

// Judge runs every test in order.  A failing test does not stop the
// others; all errors are returned joined.  The summary is written to
// <OutputDir>/validation_davison2000unit/Suite/<model>/suite_summary.json.
func (su *Suite) Judge() ([]*score.Score, error) {
	st := time.Now()
	su.Scores = make([]*score.Score, len(su.Tests))
	sum := suiteSummary{RunID: su.RunID.String(), Model: su.Model.Name(), Started: st.Format(time.RFC3339)}
	var errs []error
	for i, ts := range su.Tests {
		if ls, ok := ts.(loggerSetter); ok {
			ls.SetLogger(su.Logger)
		}
		res := suiteResult{Test: ts.Name()}
		sc, err := ts.Judge(su.Model)
		if err != nil {
			su.Logger.Error("test failed", "test", ts.Name(), "model", su.Model.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", ts.Name(), err))
			res.Error = err.Error()
		} else {
			su.Scores[i] = sc
			v := Float(sc.Score)
			res.Score = &v
			res.Description = sc.Description
			res.TargetDir = sc.TargetDir
			res.Figures = sc.Figures
		}
		sum.Results = append(sum.Results, res)
	}
	sum.Secs = Float(time.Since(st).Seconds())
	dir, err := TargetDir(su.OutputDir, SuiteName, su.Model.Name())
	if err == nil {
		err = os.MkdirAll(dir, 0755)
	}
	if err == nil {
		err = WriteJSON(su.Logger, filepath.Join(dir, "suite_summary.json"), sum)
	}
	if err != nil {
		errs = append(errs, err)
	}
	su.Logger.Info("suite done", "model", su.Model.Name(), "tests", len(su.Tests), "failed", len(errs))
	return su.Scores, errors.Join(errs...)
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package validation implements the davison2000unit validation tests for
reduced mitral cell models: firing frequency and first spike latency under
step current stimulation at the soma or the glomerulus, and simulation run
time.

Each test holds a reference Observation and judges a model in three
steps: it generates a Prediction by stimulating the model once per
observation key, in key order; it scores the prediction against the
observation; and it binds the score by writing the artifact bundle under
<OutputDir>/validation_davison2000unit/<test name>/<model name>/.
Errors from the model abort the test before any artifact is written.

Tests run synchronously on the calling goroutine.  The feature extractor
is reset at the start of every prediction phase, so one extractor may be
shared by the tests of a Suite but not by concurrent tests.
*/
package validation

import (
	"log/slog"

	"github.com/emer/davison2000unit/capability"
	"github.com/emer/davison2000unit/efeature"
	"github.com/emer/davison2000unit/score"
)

// Test is a validation test that can judge a model.
type Test interface {

	// Name is the test name, also the artifact directory name.
	Name() string

	// Required returns the capabilities a model needs to take the test.
	Required() []capability.Cap

	// Judge runs the test on m and writes its artifacts.
	Judge(m capability.Model) (*score.Score, error)
}

// Params are the settings shared by all tests.
type Params struct {

	// directory under which the validation_davison2000unit tree is written
	OutputDir string `def:"."`

	// label of the observation series in artifacts and figures
	ObsLabel string `def:"Full model"`

	// feature extractor -- efeature.NewLib() if nil
	Extractor efeature.Extractor

	// logger -- slog.Default() if nil
	Logger *slog.Logger
}

func (pr *Params) Defaults() {
	pr.OutputDir = "."
	pr.ObsLabel = "Full model"
	pr.Extractor = efeature.NewLib()
	pr.Logger = slog.Default()
}

// Update fills in defaults for unset fields.
func (pr *Params) Update() {
	if pr.OutputDir == "" {
		pr.OutputDir = "."
	}
	if pr.ObsLabel == "" {
		pr.ObsLabel = "Full model"
	}
	if pr.Extractor == nil {
		pr.Extractor = efeature.NewLib()
	}
	if pr.Logger == nil {
		pr.Logger = slog.Default()
	}
}

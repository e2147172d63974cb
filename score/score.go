// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package score holds the result of judging a model: a single number with a
description and the names of the model and test that produced it.

RMS computes the root-mean-square deviation between two sequences paired
by position, and Float is the plain difference used for run times.
*/
package score

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrLength is returned when observation and prediction differ in length.
var ErrLength = errors.New("score: observation and prediction lengths differ")

// Score is the carrier for a test result, used to build output paths
// and figures.
type Score struct {

	// the score value: NaN if any prediction was NaN
	Score float64 `json:"score"`

	// what the score measures
	Description string `json:"description"`

	// name of the model that was judged
	Model string `json:"model"`

	// name of the test that judged it
	Test string `json:"test"`

	// directory where the test writes its artifacts
	TargetDir string `json:"target_dir,omitempty"`

	// paths of the figures written for this score
	Figures []string `json:"figures,omitempty"`
}

// String formats the value with 3 significant digits.
func (sc *Score) String() string {
	return fmt.Sprintf("%.3g", sc.Score)
}

// IsNaN returns true if the score is not a number.
func (sc *Score) IsNaN() bool {
	return math.IsNaN(sc.Score)
}

// RMSDescription is the description of RMS scores.
const RMSDescription = "Root Mean Square error between observation and prediction"

// FloatDescription is the default description of Float scores.
const FloatDescription = "Difference between prediction and observation"

// RMS returns the root-mean-square deviation of pred from obs, paired by
// position.  If any prediction is NaN the score is NaN.
func RMS(obs, pred []float64) (Score, error) {
	sc := Score{Description: RMSDescription}
	if len(obs) != len(pred) {
		return sc, fmt.Errorf("%w: %d vs %d", ErrLength, len(obs), len(pred))
	}
	if floats.HasNaN(pred) {
		sc.Score = math.NaN()
		return sc, nil
	}
	if len(obs) == 0 {
		return sc, nil
	}
	sc.Score = floats.Distance(obs, pred, 2) / math.Sqrt(float64(len(obs)))
	return sc, nil
}

// Float returns a score of pred - obs.
func Float(pred, obs float64) Score {
	return Score{Score: pred - obs, Description: FloatDescription}
}

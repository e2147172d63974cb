// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package score

import (
	"errors"
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-12

func TestRMS(t *testing.T) {
	obs := []float64{12, 20, 35.5}
	sc, err := RMS(obs, obs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sc.Score) > difTol {
		t.Errorf("identical: %v, want 0", sc.Score)
	}

	pred := []float64{13, 18, 35.5}
	ab, _ := RMS(obs, pred)
	ba, _ := RMS(pred, obs)
	cor := math.Sqrt(5.0 / 3.0)
	if math.Abs(ab.Score-cor) > difTol {
		t.Errorf("RMS: %v, want %v", ab.Score, cor)
	}
	if ab.Score != ba.Score {
		t.Errorf("not symmetric: %v vs %v", ab.Score, ba.Score)
	}
	if ab.String() != "1.29" {
		t.Errorf("String: %q, want 1.29", ab.String())
	}
}

func TestRMSNaN(t *testing.T) {
	sc, err := RMS([]float64{1, 2, 3}, []float64{1, math.NaN(), 3})
	if err != nil {
		t.Fatal(err)
	}
	if !sc.IsNaN() {
		t.Errorf("NaN prediction: %v, want NaN", sc.Score)
	}
	if _, err := RMS([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrLength) {
		t.Errorf("length mismatch: err = %v", err)
	}
}

func TestFloat(t *testing.T) {
	sc := Float(2.5, 2.0)
	if sc.Score != 0.5 {
		t.Errorf("Float: %v, want 0.5", sc.Score)
	}
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plots

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/davison2000unit/score"
	"github.com/emer/etable/v2/minmax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestParamsUpdate(t *testing.T) {
	pp := Params{YLabel: "Firing frequency (Hz)"}
	pp.Update()
	assert.Equal(t, "Frequency", pp.Title)
	assert.Equal(t, "observation", pp.ObsLabel)
	assert.Equal(t, "prediction", pp.PredLabel)
	assert.Equal(t, float32(0.7), pp.ScoreXY.X)
	assert.Equal(t, float32(0.1), pp.ScoreXY.Y)
	assert.Equal(t, "Firing frequency (Hz)", pp.YLabel)
	assert.False(t, LimSet(pp.XLim))
	assert.True(t, LimSet(minmax.F64{Min: 0.15, Max: 3}))
}

func TestLogPlot(t *testing.T) {
	sc := &score.Score{Score: 1.5, TargetDir: t.TempDir()}
	pp := Params{
		Title:     "Stimulus at Glomerulus: Firing Frequency",
		XLabel:    "Injected current (μA/cm²)",
		YLabel:    "Firing frequency (Hz)",
		XLim:      minmax.F64{Min: 0.15, Max: 3},
		YLim:      minmax.F64{Min: 10, Max: 200},
		XTicks:    []float64{0.2, 0.4, 0.8, 1.6},
		YTicks:    []float64{10, 100},
		ScoreText: "RMS Score = 1.5",
	}
	x := []float64{0.2, 0.4, 0.8, 1.6}
	obs := []float64{12, 20, 40, 80}
	// NaN and zero predictions cannot be drawn on log axes and are skipped
	pred := []float64{13, math.NaN(), 0, 75}
	fnm, err := LogPlot("glom_stim_freq", sc, x, obs, pred, pp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sc.TargetDir, "glom_stim_freq.pdf"), fnm)
	fi, err := os.Stat(fnm)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}

func TestLogPlotNoData(t *testing.T) {
	sc := &score.Score{TargetDir: t.TempDir()}
	nan := []float64{math.NaN()}
	_, err := LogPlot("empty", sc, []float64{0.2}, nan, nan, Params{})
	assert.NoError(t, err)
}

func TestTraces(t *testing.T) {
	sc := &score.Score{TargetDir: t.TempDir()}
	n := 20000
	tr := Trace{Label: "0.4", T: make([]float64, n), V: make([]float64, n)}
	for i := range tr.T {
		tr.T[i] = float64(i) * 0.025
		tr.V[i] = -65
	}
	tr.V[5000] = 30
	fnm, err := Traces("soma_stim_freq_traces", sc, []Trace{tr}, Params{Title: "Somatic Vm: Stimulus at Soma"})
	require.NoError(t, err)
	_, err = os.Stat(fnm)
	assert.NoError(t, err)
}

func TestDecimate(t *testing.T) {
	n := 10000
	tm := make([]float64, n)
	v := make([]float64, n)
	for i := range tm {
		tm[i] = float64(i)
		v[i] = -65
	}
	v[4321] = 40
	dt, dv := Decimate(tm, v, 300)
	assert.LessOrEqual(t, len(dt), 300)
	assert.Equal(t, len(dt), len(dv))
	assert.Contains(t, dv, 40.0)
	for i := 1; i < len(dt); i++ {
		if dt[i] <= dt[i-1] {
			t.Fatalf("decimated times not increasing at %d: %v, %v", i, dt[i-1], dt[i])
		}
	}
	st, sv := Decimate(tm[:10], v[:10], 300)
	assert.Len(t, st, 10)
	assert.Len(t, sv, 10)
}

func TestSaveGrid(t *testing.T) {
	dir := t.TempDir()
	pn := &Panel{
		Title: "Soma Stim Firing Frequency",
		Log:   true,
		Series: []Series{
			{Label: "Full Model", X: []float64{0.2, 0.4}, Y: []float64{10, 30}, Line: true},
		},
	}
	fnm := filepath.Join(dir, "figure_7.pdf")
	require.NoError(t, SaveGrid(fnm, 2, 2, 8*vg.Inch, 8*vg.Inch, []*Panel{pn, nil, pn}))
	_, err := os.Stat(fnm)
	assert.NoError(t, err)

	err = SaveGrid(fnm, 1, 1, vg.Inch, vg.Inch, []*Panel{pn, pn})
	assert.True(t, errors.Is(err, ErrGrid))
}

func TestSaveBars(t *testing.T) {
	fnm := filepath.Join(t.TempDir(), "figure_runtimes.pdf")
	var bp BarParams
	bp.Defaults()
	bp.Title = "Compare Run Times"
	bp.YLabel = "Real time (s)"
	bp.Names = []string{"2 Compartments", "3 Compartments", "Full Model"}
	bp.Values = []float64{1.234, math.NaN(), 8.5}
	require.NoError(t, SaveBars(fnm, bp))
	_, err := os.Stat(fnm)
	assert.NoError(t, err)

	bp.Names = bp.Names[:1]
	assert.Error(t, SaveBars(fnm, bp))
}

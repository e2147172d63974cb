// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/davison2000unit/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-9

func mustObs(t *testing.T, js string) validation.Observation {
	ob, err := validation.ParseObservation([]byte(js))
	require.NoError(t, err)
	return ob
}

// writeResults writes firing test artifacts for variant v under base.
func writeResults(t *testing.T, base string, v Variant, scale float64) {
	for _, fd := range validation.FiringDescs {
		dir := filepath.Join(base, fd.Name, v.Info().Dir)
		require.NoError(t, os.MkdirAll(dir, 0755))
		pred := mustObs(t, `{"0.2": 12, "0.4": 20, "0.8": 45, "1.6": 90}`)
		for i := range pred {
			pred[i].Value *= scale
		}
		pred[0].Value = math.NaN()
		r := result{
			ObsLabel:    "Full model",
			PredLabel:   v.Info().Dir,
			Observation: mustObs(t, `{"0.2": 11, "0.4": 21, "0.8": 44, "1.6": 88}`),
			Prediction:  pred,
			Score:       validation.Float(math.NaN()),
			RunTimes:    mustObs(t, `{"0.2": 0.5, "0.4": 0.7, "0.8": 0.9, "1.6": 1.1}`),
		}
		require.NoError(t, validation.WriteJSON(nil, filepath.Join(dir, fd.Stem+".json"), r))
	}
}

func writeRunTime(t *testing.T, base string, v Variant, sc float64) {
	dir := filepath.Join(base, validation.RunTimeName, v.Info().Dir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	rr := runTimeResult{PredLabel: v.Info().Dir, Score: validation.Float(sc)}
	require.NoError(t, validation.WriteJSON(nil, filepath.Join(dir, "run_time.json"), rr))
}

func TestParseVariants(t *testing.T) {
	vs, err := ParseVariants(nil)
	require.NoError(t, err)
	assert.Equal(t, []Variant{Var2C, Var3C, Var4C, VarFull}, vs)

	vs, err = ParseVariants([]string{"4C", "2C", "4C"})
	require.NoError(t, err)
	assert.Equal(t, []Variant{Var2C, Var4C}, vs)

	_, err = ParseVariants([]string{"5C"})
	assert.True(t, errors.Is(err, ErrConfig), "err = %v", err)

	assert.Equal(t, "VarFull", VarFull.String())
	assert.Equal(t, "Full Model", VarFull.Info().Dir)
}

func TestConfigErrors(t *testing.T) {
	fns := []func(string, []string) (string, error){CreateFig7, CreateFig7RunTimes, CreateFigRunTimes}
	dir := t.TempDir()
	for _, fn := range fns {
		_, err := fn("", nil)
		var ce *ConfigError
		assert.True(t, errors.As(err, &ce), "err = %v", err)
		_, err = fn(dir, []string{"2C", "7C"})
		assert.True(t, errors.Is(err, ErrConfig), "err = %v", err)
	}
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestCreateFig7(t *testing.T) {
	base := t.TempDir()
	writeResults(t, base, Var2C, 1)
	writeResults(t, base, Var4C, 1.1)

	fnm, err := CreateFig7(base, []string{"2C", "4C"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, Fig7File), fnm)
	fi, err := os.Stat(fnm)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))

	fnm, err = CreateFig7RunTimes(base, []string{"2C"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, RunTimesFile), fnm)
	_, err = os.Stat(fnm)
	assert.NoError(t, err)
}

func TestCreateFig7Single(t *testing.T) {
	base := t.TempDir()
	writeResults(t, base, Var2C, 1)

	fnm, err := CreateFig7(base, []string{"2C"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, Fig7File), fnm)
	_, err = os.Stat(fnm)
	require.NoError(t, err)

	vs := []Variant{Var2C}
	res, err := readResults(base, vs)
	require.NoError(t, err)
	pns := fig7Panels(vs, res)
	require.Len(t, pns, len(validation.FiringDescs))
	for ti, pn := range pns {
		require.Len(t, pn.Series, 2, validation.FiringDescs[ti].Name)
		obs := pn.Series[0]
		assert.Equal(t, "Full model", obs.Label)
		assert.Equal(t, ObsColor, obs.Color)
		assert.Equal(t, []float64{11, 21, 44, 88}, obs.Y)
		assert.Equal(t, []float64{0.2, 0.4, 0.8, 1.6}, obs.X)
		pred := pn.Series[1]
		assert.Equal(t, Var2C.Info().Dir, pred.Label)
		assert.Equal(t, Var2C.Info().Color, pred.Color)
		assert.True(t, math.IsNaN(pred.Y[0]))
		assert.InDelta(t, 90, pred.Y[3], difTol)
	}
}

func TestMissingResults(t *testing.T) {
	base := t.TempDir()
	writeResults(t, base, Var2C, 1)

	_, err := CreateFig7(base, nil)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "err = %v", err)
	_, err = CreateFigRunTimes(base, []string{"2C"})
	assert.True(t, errors.Is(err, fs.ErrNotExist), "err = %v", err)

	_, serr := os.Stat(filepath.Join(base, Fig7File))
	assert.True(t, os.IsNotExist(serr), "figure written after failed read")
	_, serr = os.Stat(filepath.Join(base, RunTimesFile))
	assert.True(t, os.IsNotExist(serr), "figure written after failed read")
}

func TestCreateFigRunTimes(t *testing.T) {
	base := t.TempDir()
	writeRunTime(t, base, Var2C, 1.25)
	writeRunTime(t, base, Var3C, math.NaN())
	writeRunTime(t, base, Var4C, 3.5)

	fnm, err := CreateFigRunTimes(base, []string{"2C", "3C", "4C"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, RunTimesFile), fnm)
	_, err = os.Stat(fnm)
	assert.NoError(t, err)
}

func TestMeanRunTime(t *testing.T) {
	vs := []Variant{Var2C, Var3C}
	rts := mustObs(t, `{"0.2": 1, "0.4": 2}`)
	res := [][]result{
		{{RunTimes: rts}, {RunTimes: mustObs(t, `{"0.2": 4}`)}},
		{{RunTimes: mustObs(t, `{"0.2": 3}`)}, {RunTimes: mustObs(t, `{"0.2": 6}`)}},
	}
	dt := RunTimesTable(vs, res)
	assert.Equal(t, 5, dt.Rows)
	assert.InDelta(t, 2, MeanRunTime(dt, "2C"), difTol)
	assert.InDelta(t, 5, MeanRunTime(dt, "3C"), difTol)
	assert.True(t, math.IsNaN(MeanRunTime(dt, "Full")))
}

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package aggregate builds the summary figures that compare the reduced
model variants, reading back the JSON artifacts written by the
validation tests under one validation_davison2000unit directory.
*/
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/emer/davison2000unit/plots"
	"github.com/emer/davison2000unit/validation"
	"github.com/emer/etable/v2/agg"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrConfig is returned for invalid aggregation arguments.
var ErrConfig = errors.New("aggregate: invalid configuration")

// ConfigError describes an invalid aggregation argument.
type ConfigError struct {
	Msg string
}

func (ce *ConfigError) Error() string { return ce.Msg }

func (ce *ConfigError) Unwrap() error { return ErrConfig }

// File names of the figures, relative to the base directory.
const (
	Fig7File     = "figure_7.pdf"
	RunTimesFile = "figure_runtimes.pdf"
)

// Size of the figures.
var (
	GridWidth  = 14 * vg.Inch
	GridHeight = 12 * vg.Inch
	BarWidth   = 10 * vg.Inch
	BarHeight  = 7 * vg.Inch
)

// RunTimeLabel is the y axis label of the run time figures.
const RunTimeLabel = "Real time (s)"

// result is the part of a firing test artifact used here.
type result struct {
	ObsLabel    string                 `json:"obs_label"`
	PredLabel   string                 `json:"pred_label"`
	Observation validation.Observation `json:"observation"`
	Prediction  validation.Observation `json:"prediction"`
	Score       validation.Float       `json:"score"`
	RunTimes    validation.Observation `json:"run_times"`
}

// runTimeResult is the part of the run time artifact used here.
type runTimeResult struct {
	PredLabel string           `json:"pred_label"`
	Score     validation.Float `json:"score"`
}

// setup validates the arguments, returning the absolute base directory
// and the selected variants.
func setup(baseDir string, tags []string) (string, []Variant, error) {
	if baseDir == "" {
		return "", nil, &ConfigError{Msg: "base directory not specified: it must be the path to " + validation.SuiteDir}
	}
	vs, err := ParseVariants(tags)
	if err != nil {
		return "", nil, err
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", nil, err
	}
	return abs, vs, nil
}

func readJSON(fnm string, v any) error {
	b, err := os.ReadFile(fnm)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("aggregate: %s: %w", fnm, err)
	}
	return nil
}

// readResults reads the firing test results of each variant, indexed
// as [test][variant] in validation.FiringDescs order.
func readResults(base string, vs []Variant) ([][]result, error) {
	res := make([][]result, len(validation.FiringDescs))
	for ti, fd := range validation.FiringDescs {
		res[ti] = make([]result, len(vs))
		for vi, v := range vs {
			fnm := filepath.Join(base, fd.Name, v.Info().Dir, fd.Stem+".json")
			if err := readJSON(fnm, &res[ti][vi]); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// panel returns the empty panel for firing test fd.
func panel(fd *validation.FiringDesc, log bool) *plots.Panel {
	pn := &plots.Panel{
		Title:  fd.Title,
		XLabel: validation.CurrentLabel,
		YLabel: fd.YLabel(),
		Log:    log,
		XLim:   minmax.F64{Min: 0.15, Max: 3},
		XTicks: validation.DefaultAmpValues(),
	}
	if log {
		pn.YLim = fd.YLim()
		pn.YTicks = []float64{10, 100}
	} else {
		pn.YLabel = RunTimeLabel
	}
	return pn
}

func variantSeries(v Variant, label string, x, y []float64) plots.Series {
	vi := v.Info()
	return plots.Series{Label: label, X: x, Y: y, Color: vi.Color, Shape: vi.Shape, Line: true}
}

// CreateFig7 plots observation and each variant's prediction for the four
// firing tests on a 2 x 2 grid of log-log panels.  The observation is
// taken from the first selected variant.  An empty tags list selects all
// variants.  Returns the absolute path of figure_7.pdf in baseDir.
func CreateFig7(baseDir string, tags []string) (string, error) {
	base, vs, err := setup(baseDir, tags)
	if err != nil {
		return "", err
	}
	res, err := readResults(base, vs)
	if err != nil {
		return "", err
	}
	pns := fig7Panels(vs, res)
	fnm := filepath.Join(base, Fig7File)
	if err := plots.SaveGrid(fnm, 2, 2, GridWidth, GridHeight, pns); err != nil {
		return "", err
	}
	slog.Info("wrote figure", "file", fnm, "variants", len(vs))
	return fnm, nil
}

// fig7Panels returns the CreateFig7 panels for results indexed as
// [test][variant].  The observation series comes from variant 0.
func fig7Panels(vs []Variant, res [][]result) []*plots.Panel {
	pns := make([]*plots.Panel, len(validation.FiringDescs))
	for ti := range validation.FiringDescs {
		pn := panel(&validation.FiringDescs[ti], true)
		ref := &res[ti][0]
		pn.Series = append(pn.Series, plots.Series{
			Label: ref.ObsLabel,
			X:     ref.Observation.Amplitudes(),
			Y:     ref.Observation.Values(),
			Color: ObsColor,
			Shape: draw.SquareGlyph{},
			Line:  true,
		})
		for vi, v := range vs {
			r := &res[ti][vi]
			pn.Series = append(pn.Series, variantSeries(v, r.PredLabel, r.Prediction.Amplitudes(), r.Prediction.Values()))
		}
		pns[ti] = pn
	}
	return pns
}

// RunTimesTable returns the run time of every stimulus of the firing test
// results, with columns Variant, Test, Stim and Secs.
func RunTimesTable(vs []Variant, res [][]result) *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "RunTimes")
	dt.SetMetaData("desc", "wall-clock seconds per stimulus")
	sch := etable.Schema{
		{"Variant", etensor.STRING, nil, nil},
		{"Test", etensor.STRING, nil, nil},
		{"Stim", etensor.FLOAT64, nil, nil},
		{"Secs", etensor.FLOAT64, nil, nil},
	}
	n := 0
	for ti := range res {
		for vi := range res[ti] {
			n += len(res[ti][vi].RunTimes)
		}
	}
	dt.SetFromSchema(sch, n)
	row := 0
	for ti := range res {
		for vi, v := range vs {
			rts := res[ti][vi].RunTimes
			amps := rts.Amplitudes()
			for i := range rts {
				dt.SetCellString("Variant", row, v.Info().Tag)
				dt.SetCellString("Test", row, validation.FiringDescs[ti].Name)
				dt.SetCellFloat("Stim", row, amps[i])
				dt.SetCellFloat("Secs", row, rts[i].Value)
				row++
			}
		}
	}
	return dt
}

// MeanRunTime returns the mean seconds per stimulus of variant tag in a
// RunTimesTable, NaN if it has no rows.
func MeanRunTime(dt *etable.Table, tag string) float64 {
	ix := etable.NewIdxView(dt)
	ix.Filter(func(et *etable.Table, row int) bool {
		return et.CellString("Variant", row) == tag
	})
	if ix.Len() == 0 {
		return math.NaN()
	}
	return agg.Mean(ix, "Secs")[0]
}

// CreateFig7RunTimes plots the wall-clock time of each stimulus of the
// four firing tests for each variant on a 2 x 2 grid of linear panels.
// Returns the absolute path of figure_runtimes.pdf in baseDir.
func CreateFig7RunTimes(baseDir string, tags []string) (string, error) {
	base, vs, err := setup(baseDir, tags)
	if err != nil {
		return "", err
	}
	res, err := readResults(base, vs)
	if err != nil {
		return "", err
	}
	pns := make([]*plots.Panel, len(validation.FiringDescs))
	for ti := range validation.FiringDescs {
		pn := panel(&validation.FiringDescs[ti], false)
		for vi, v := range vs {
			r := &res[ti][vi]
			pn.Series = append(pn.Series, variantSeries(v, r.PredLabel, r.RunTimes.Amplitudes(), r.RunTimes.Values()))
		}
		pns[ti] = pn
	}
	dt := RunTimesTable(vs, res)
	for _, v := range vs {
		slog.Info("run times", "variant", v.Info().Tag, "meanSecs", MeanRunTime(dt, v.Info().Tag))
	}
	fnm := filepath.Join(base, RunTimesFile)
	if err := plots.SaveGrid(fnm, 2, 2, GridWidth, GridHeight, pns); err != nil {
		return "", err
	}
	slog.Info("wrote figure", "file", fnm, "variants", len(vs))
	return fnm, nil
}

// CreateFigRunTimes draws a bar chart of the Run Time test score of each
// variant.  Returns the absolute path of figure_runtimes.pdf in baseDir.
func CreateFigRunTimes(baseDir string, tags []string) (string, error) {
	base, vs, err := setup(baseDir, tags)
	if err != nil {
		return "", err
	}
	bp := plots.BarParams{}
	bp.Defaults()
	bp.Title = "Compare Run Times"
	bp.YLabel = RunTimeLabel
	bp.Width = BarWidth
	bp.Height = BarHeight
	for _, v := range vs {
		var rr runTimeResult
		fnm := filepath.Join(base, validation.RunTimeName, v.Info().Dir, "run_time.json")
		if err := readJSON(fnm, &rr); err != nil {
			return "", err
		}
		bp.Names = append(bp.Names, rr.PredLabel)
		bp.Values = append(bp.Values, float64(rr.Score))
		bp.Colors = append(bp.Colors, v.Info().Color)
	}
	fnm := filepath.Join(base, RunTimesFile)
	if err := plots.SaveBars(fnm, bp); err != nil {
		return "", err
	}
	slog.Info("wrote figure", "file", fnm, "variants", len(vs))
	return fnm, nil
}

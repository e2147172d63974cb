// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plots

import (
	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
	"gonum.org/v1/plot/vg"
)

// Params are the display options of the LogPlot and Traces renderers.
// Any field left at its zero value is replaced by its default in Update.
type Params struct {

	// plot title
	Title string `def:"Frequency"`

	// legend label of the observation series
	ObsLabel string `def:"observation"`

	// legend label of the prediction series
	PredLabel string `def:"prediction"`

	// x axis label
	XLabel string

	// y axis label
	YLabel string

	// x axis range -- automatic from the data if Max <= Min
	XLim minmax.F64

	// y axis range -- automatic from the data if Max <= Min
	YLim minmax.F64

	// explicit x tick positions -- automatic if empty
	XTicks []float64

	// labels for XTicks -- formatted from the values if empty
	XTickLabels []string

	// explicit y tick positions -- automatic if empty
	YTicks []float64

	// labels for YTicks -- formatted from the values if empty
	YTickLabels []string

	// annotation text, typically the score -- none if empty
	ScoreText string

	// position of the annotation as a fraction of the data area, from the lower left
	ScoreXY mat32.Vec2 `def:"{0.7,0.1}"`

	// figure width
	Width vg.Length `def:"5in"`

	// figure height
	Height vg.Length `def:"4in"`
}

// Defaults sets all fields to their default values.
func (pp *Params) Defaults() {
	*pp = Params{}
	pp.Update()
}

// Update fills in defaults for all unset fields.
func (pp *Params) Update() {
	if pp.Title == "" {
		pp.Title = "Frequency"
	}
	if pp.ObsLabel == "" {
		pp.ObsLabel = "observation"
	}
	if pp.PredLabel == "" {
		pp.PredLabel = "prediction"
	}
	if pp.ScoreXY == (mat32.Vec2{}) {
		pp.ScoreXY = mat32.Vec2{X: 0.7, Y: 0.1}
	}
	if pp.Width <= 0 {
		pp.Width = 5 * vg.Inch
	}
	if pp.Height <= 0 {
		pp.Height = 4 * vg.Inch
	}
}

// LimSet returns true if the range has been set explicitly.
func LimSet(lim minmax.F64) bool {
	return lim.Max > lim.Min
}

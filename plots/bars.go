// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plots

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

// BarParams describe a bar chart with one bar per named value.
type BarParams struct {
	Title  string
	YLabel string

	// bar names, shown on the x axis
	Names []string

	// bar heights -- NaN values are drawn as empty bars labeled NaN
	Values []float64

	// bar colors -- plotutil defaults if shorter than Values
	Colors []color.Color

	// decimal places of the value labels above the bars
	Prec int `def:"2"`

	Width  vg.Length `def:"5in"`
	Height vg.Length `def:"4in"`
}

func (bp *BarParams) Defaults() {
	bp.Prec = 2
	bp.Width = 5 * vg.Inch
	bp.Height = 4 * vg.Inch
}

// SaveBars renders the bar chart bp to fnm as PDF.
func SaveBars(fnm string, bp BarParams) error {
	if len(bp.Names) != len(bp.Values) {
		return fmt.Errorf("plots: %d bar names for %d values", len(bp.Names), len(bp.Values))
	}
	if bp.Width <= 0 {
		bp.Width = 5 * vg.Inch
	}
	if bp.Height <= 0 {
		bp.Height = 4 * vg.Inch
	}
	p := plot.New()
	p.Title.Text = bp.Title
	p.Y.Label.Text = bp.YLabel
	p.Y.Min = 0

	bw := vg.Points(30)
	lxy := plotter.XYLabels{}
	for i, v := range bp.Values {
		lb := "NaN"
		h := 0.0
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			h = v
			lb = strconv.FormatFloat(v, 'f', bp.Prec, 64)
		}
		bc, err := plotter.NewBarChart(plotter.Values{h}, bw)
		if err != nil {
			return err
		}
		bc.XMin = float64(i)
		bc.Color = plotutil.Color(i)
		if i < len(bp.Colors) && bp.Colors[i] != nil {
			bc.Color = bp.Colors[i]
		}
		bc.LineStyle.Width = 0
		p.Add(bc)
		lxy.XYs = append(lxy.XYs, plotter.XY{X: float64(i), Y: h})
		lxy.Labels = append(lxy.Labels, lb)
	}
	if len(bp.Values) > 0 {
		lbls, err := plotter.NewLabels(lxy)
		if err != nil {
			return err
		}
		for i := range lbls.TextStyle {
			lbls.TextStyle[i].XAlign = draw.XCenter
		}
		lbls.Offset = vg.Point{Y: vg.Points(3)}
		p.Add(lbls)
	}
	p.NominalX(bp.Names...)

	cv := vgpdf.New(bp.Width, bp.Height)
	p.Draw(draw.New(cv))
	return writeCanvas(fnm, cv)
}

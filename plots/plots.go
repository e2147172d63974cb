// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package plots renders the validation figures as PDF files using gonum/plot.

LogPlot draws observation vs. prediction on log-log axes, and Traces
overlays recorded membrane potential traces.  Both write exactly one file,
at <TargetDir>/<name>.pdf of the given score, and return its path.

Panel is the shared descriptor behind all renderers: SaveGrid tiles any
number of panels onto a single PDF page, which is how the aggregated
figures are assembled, and SaveBars draws a labeled bar chart.

Rendering is not safe for concurrent use: all figures of a process must be
drawn from a single goroutine.
*/
package plots

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emer/davison2000unit/score"
	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

// ErrGrid is returned when panels do not fit the requested grid.
var ErrGrid = errors.New("plots: panels do not fit grid")

// MaxTracePoints is the maximum number of points drawn per trace.
// Longer traces are decimated, keeping the min and max of each bin
// so that spikes survive.
var MaxTracePoints = 4000

// Series is one data series of a panel.
type Series struct {

	// legend label -- not shown in the legend if empty
	Label string

	// x values
	X []float64

	// y values, same length as X
	Y []float64

	// series color -- plotutil default if nil
	Color color.Color

	// marker shape -- no markers if nil
	Shape draw.GlyphDrawer

	// connect points with lines
	Line bool

	// line width -- default 1pt
	Width vg.Length
}

// Panel describes one plot: axes, ticks, and series.
type Panel struct {
	Title  string
	XLabel string
	YLabel string

	// use log scale on both axes
	Log bool

	// x axis range -- automatic if Max <= Min
	XLim minmax.F64

	// y axis range -- automatic if Max <= Min
	YLim minmax.F64

	XTicks      []float64
	XTickLabels []string
	YTicks      []float64
	YTickLabels []string

	// annotation text -- none if empty
	Note string

	// position of Note as a fraction of the data area
	NoteXY mat32.Vec2

	Series []Series
}

// FigPath returns the path of the figure name for score sc.
func FigPath(sc *score.Score, name string) string {
	return filepath.Join(sc.TargetDir, name+".pdf")
}

// LogPlot plots obs and pred against x on log-log axes.  Points that cannot
// be shown on a log scale (NaN or <= 0) are skipped.
func LogPlot(name string, sc *score.Score, x, obs, pred []float64, pp Params) (string, error) {
	pp.Update()
	pn := &Panel{
		Title:       pp.Title,
		XLabel:      pp.XLabel,
		YLabel:      pp.YLabel,
		Log:         true,
		XLim:        pp.XLim,
		YLim:        pp.YLim,
		XTicks:      pp.XTicks,
		XTickLabels: pp.XTickLabels,
		YTicks:      pp.YTicks,
		YTickLabels: pp.YTickLabels,
		Note:        pp.ScoreText,
		NoteXY:      pp.ScoreXY,
		Series: []Series{
			{Label: pp.ObsLabel, X: x, Y: obs, Color: color.RGBA{B: 255, A: 255}, Shape: draw.SquareGlyph{}, Line: true},
			{Label: pp.PredLabel, X: x, Y: pred, Color: color.RGBA{R: 255, A: 255}, Shape: draw.CircleGlyph{}, Line: true},
		},
	}
	fnm := FigPath(sc, name)
	if err := SaveGrid(fnm, 1, 1, pp.Width, pp.Height, []*Panel{pn}); err != nil {
		return "", err
	}
	return fnm, nil
}

// Trace is one voltage trace for the Traces renderer.
type Trace struct {
	Label string
	T     []float64
	V     []float64
}

// Traces overlays all traces on linear axes, one color per trace.
// The ObsLabel, PredLabel and Score fields of pp are not used.
func Traces(name string, sc *score.Score, trs []Trace, pp Params) (string, error) {
	pp.Update()
	pn := &Panel{
		Title:       pp.Title,
		XLabel:      pp.XLabel,
		YLabel:      pp.YLabel,
		XLim:        pp.XLim,
		YLim:        pp.YLim,
		XTicks:      pp.XTicks,
		XTickLabels: pp.XTickLabels,
		YTicks:      pp.YTicks,
		YTickLabels: pp.YTickLabels,
	}
	for i, tr := range trs {
		x, y := Decimate(tr.T, tr.V, MaxTracePoints)
		pn.Series = append(pn.Series, Series{Label: tr.Label, X: x, Y: y, Color: plotutil.Color(i), Line: true, Width: vg.Points(0.5)})
	}
	fnm := FigPath(sc, name)
	if err := SaveGrid(fnm, 1, 1, pp.Width, pp.Height, []*Panel{pn}); err != nil {
		return "", err
	}
	return fnm, nil
}

// SaveGrid renders panels in row-major order on a rows x cols grid and
// writes the result as one PDF page of size w x h.  Grid cells beyond
// len(panels), or nil panels, are left blank.
func SaveGrid(fnm string, rows, cols int, w, h vg.Length, panels []*Panel) error {
	if rows <= 0 || cols <= 0 || len(panels) > rows*cols {
		return fmt.Errorf("%w: %d panels on %d x %d", ErrGrid, len(panels), rows, cols)
	}
	plts := make([][]*plot.Plot, rows)
	for r := range plts {
		plts[r] = make([]*plot.Plot, cols)
		for c := range plts[r] {
			pi := r*cols + c
			if pi >= len(panels) || panels[pi] == nil {
				continue
			}
			p, err := NewPlot(panels[pi])
			if err != nil {
				return fmt.Errorf("panel %q: %w", panels[pi].Title, err)
			}
			plts[r][c] = p
		}
	}
	cv := vgpdf.New(w, h)
	dc := draw.New(cv)
	if rows == 1 && cols == 1 {
		if plts[0][0] != nil {
			plts[0][0].Draw(dc)
		}
	} else {
		tiles := draw.Tiles{
			Rows: rows, Cols: cols,
			PadX: vg.Millimeter * 6, PadY: vg.Millimeter * 6,
			PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
			PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
		}
		cvs := plot.Align(plts, tiles, dc)
		for r := range plts {
			for c, p := range plts[r] {
				if p != nil {
					p.Draw(cvs[r][c])
				}
			}
		}
	}
	return writeCanvas(fnm, cv)
}

func writeCanvas(fnm string, cv *vgpdf.Canvas) (err error) {
	f, err := os.Create(fnm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = cv.WriteTo(f)
	return err
}

// NewPlot builds the gonum plot for panel pn.
func NewPlot(pn *Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.Title
	p.X.Label.Text = pn.XLabel
	p.Y.Label.Text = pn.YLabel
	p.Legend.Top = true
	if pn.Log {
		p.X.Scale = plot.LogScale{}
		p.Y.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if len(pn.XTicks) > 0 {
		p.X.Tick.Marker = ConstTicks(pn.XTicks, pn.XTickLabels)
	}
	if len(pn.YTicks) > 0 {
		p.Y.Tick.Marker = ConstTicks(pn.YTicks, pn.YTickLabels)
	}

	for si := range pn.Series {
		sr := &pn.Series[si]
		xys := validXYs(sr.X, sr.Y, pn.Log)
		if len(xys) == 0 {
			continue
		}
		clr := sr.Color
		if clr == nil {
			clr = plotutil.Color(si)
		}
		var thumbs []plot.Thumbnailer
		if sr.Line {
			ln, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			ln.LineStyle.Color = clr
			if sr.Width > 0 {
				ln.LineStyle.Width = sr.Width
			}
			p.Add(ln)
			thumbs = append(thumbs, ln)
		}
		if sr.Shape != nil {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, err
			}
			sc.GlyphStyle.Color = clr
			sc.GlyphStyle.Shape = sr.Shape
			sc.GlyphStyle.Radius = vg.Points(3)
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		if sr.Label != "" && len(thumbs) > 0 {
			p.Legend.Add(sr.Label, thumbs...)
		}
	}

	if LimSet(pn.XLim) {
		p.X.Min, p.X.Max = pn.XLim.Min, pn.XLim.Max
	}
	if LimSet(pn.YLim) {
		p.Y.Min, p.Y.Max = pn.YLim.Min, pn.YLim.Max
	}
	if pn.Log {
		logRange(&p.X)
		logRange(&p.Y)
	}
	if pn.Note != "" {
		p.Add(&note{Text: pn.Note, Pos: pn.NoteXY})
	}
	return p, nil
}

// ConstTicks returns a fixed set of labeled ticks.
func ConstTicks(vals []float64, labels []string) plot.ConstantTicks {
	tks := make(plot.ConstantTicks, len(vals))
	for i, v := range vals {
		lb := ""
		if i < len(labels) {
			lb = labels[i]
		}
		if lb == "" {
			lb = strconv.FormatFloat(v, 'g', -1, 64)
		}
		tks[i] = plot.Tick{Value: v, Label: lb}
	}
	return tks
}

// validXYs pairs x and y, dropping points that cannot be drawn.
func validXYs(x, y []float64, log bool) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xys := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if plotter.CheckFloats(x[i], y[i]) != nil {
			continue
		}
		if log && (x[i] <= 0 || y[i] <= 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	return xys
}

// logRange makes the axis range valid for a log scale.
func logRange(ax *plot.Axis) {
	switch {
	case math.IsInf(ax.Min, 0) || math.IsInf(ax.Max, 0) || ax.Min <= 0 || ax.Max <= 0:
		ax.Min, ax.Max = 1, 10
	case ax.Min >= ax.Max:
		ax.Min, ax.Max = ax.Min/2, ax.Min*2
	}
}

// note draws text at a fixed fraction of the data area.
type note struct {
	Text string
	Pos  mat32.Vec2
}

func (nt *note) Plot(c draw.Canvas, p *plot.Plot) {
	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(11)),
		Handler: plot.DefaultTextHandler,
	}
	pt := vg.Point{
		X: c.Min.X + vg.Length(nt.Pos.X)*(c.Max.X-c.Min.X),
		Y: c.Min.Y + vg.Length(nt.Pos.Y)*(c.Max.Y-c.Min.Y),
	}
	c.FillText(sty, pt, nt.Text)
}

// Decimate reduces t, v to at most about n points by keeping the first,
// min and max samples of each bin, in time order.
func Decimate(t, v []float64, n int) ([]float64, []float64) {
	if n < 3 || len(t) <= n {
		return t, v
	}
	bins := n / 3
	bsz := (len(t) + bins - 1) / bins
	ot := make([]float64, 0, 3*bins)
	ov := make([]float64, 0, 3*bins)
	for st := 0; st < len(t); st += bsz {
		ed := st + bsz
		if ed > len(t) {
			ed = len(t)
		}
		mn, mx := st, st
		for i := st + 1; i < ed; i++ {
			if v[i] < v[mn] {
				mn = i
			}
			if v[i] > v[mx] {
				mx = i
			}
		}
		idx := []int{st, mn, mx}
		if mx < mn {
			idx[1], idx[2] = mx, mn
		}
		last := -1
		for _, i := range idx {
			if i == last {
				continue
			}
			ot = append(ot, t[i])
			ov = append(ov, v[i])
			last = i
		}
	}
	return ot, ov
}

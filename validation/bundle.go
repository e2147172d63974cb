// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/emer/davison2000unit/efeature"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// SuiteDir is the name of the directory under the output directory that
// holds all validation artifacts.
const SuiteDir = "validation_davison2000unit"

// JSONIndent is the indentation of all JSON artifacts.
const JSONIndent = "    "

// TargetDir returns the absolute artifact directory for a test and model:
// <outDir>/validation_davison2000unit/<test>/<model>.
func TargetDir(outDir, test, model string) (string, error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, SuiteDir, test, model), nil
}

// Trace is one recorded somatic voltage trace, keyed by its stimulus.
type Trace struct {

	// stimulus amplitude, in nA
	Stim float64 `json:"stim"`

	// time, in ms
	T []float64 `json:"t"`

	// membrane potential, in mV
	V []float64 `json:"v"`
}

// traceJSON is the JSON layout of a Trace, with NaN samples as null.
type traceJSON struct {
	Stim Float   `json:"stim"`
	T    []Float `json:"t"`
	V    []Float `json:"v"`
}

func toFloats(vs []float64) []Float {
	fs := make([]Float, len(vs))
	for i, v := range vs {
		fs[i] = Float(v)
	}
	return fs
}

func fromFloats(fs []Float) []float64 {
	vs := make([]float64, len(fs))
	for i, f := range fs {
		vs[i] = float64(f)
	}
	return vs
}

func (tr Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(traceJSON{Stim: Float(tr.Stim), T: toFloats(tr.T), V: toFloats(tr.V)})
}

func (tr *Trace) UnmarshalJSON(b []byte) error {
	var tj traceJSON
	if err := json.Unmarshal(b, &tj); err != nil {
		return err
	}
	*tr = Trace{Stim: float64(tj.Stim), T: fromFloats(tj.T), V: fromFloats(tj.V)}
	return nil
}

// NewTrace returns the Trace for stimulus amplitude amp from an
// extractor-format trace.
func NewTrace(amp float64, tr *efeature.Trace) Trace {
	return Trace{Stim: amp, T: tr.T, V: tr.V}
}

// TracesTable returns all traces in one table in long format,
// with columns Stim, T and V.
func TracesTable(trs []Trace) *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Traces")
	dt.SetMetaData("desc", "somatic membrane potential per stimulus")
	dt.SetMetaData("precision", "6")
	sch := etable.Schema{
		{"Stim", etensor.FLOAT64, nil, nil},
		{"T", etensor.FLOAT64, nil, nil},
		{"V", etensor.FLOAT64, nil, nil},
	}
	n := 0
	for i := range trs {
		n += len(trs[i].T)
	}
	dt.SetFromSchema(sch, n)
	row := 0
	for i := range trs {
		tr := &trs[i]
		for j := range tr.T {
			dt.SetCellFloat("Stim", row, tr.Stim)
			dt.SetCellFloat("T", row, tr.T[j])
			dt.SetCellFloat("V", row, tr.V[j])
			row++
		}
	}
	return dt
}

// WriteJSON writes v as indented JSON to fnm, logging its size
// (to slog.Default if lg is nil).
func WriteJSON(lg *slog.Logger, fnm string, v any) error {
	b, err := json.MarshalIndent(v, "", JSONIndent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fnm, b, 0644); err != nil {
		return err
	}
	logWrite(lg, fnm, int64(len(b)))
	return nil
}

// WriteTSV saves dt as tab-separated values with headers.
func WriteTSV(lg *slog.Logger, fnm string, dt *etable.Table) (err error) {
	f, err := os.Create(fnm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = dt.WriteCSV(f, etable.Tab, etable.Headers); err != nil {
		return err
	}
	if fi, serr := f.Stat(); serr == nil {
		logWrite(lg, fnm, fi.Size())
	}
	return nil
}

func logWrite(lg *slog.Logger, fnm string, sz int64) {
	if lg == nil {
		lg = slog.Default()
	}
	lg.Debug("wrote artifact", "file", filepath.Base(fnm), "size", datasize.ByteSize(sz).HumanReadable())
}

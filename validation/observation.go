// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ErrObservation is the sentinel wrapped by all ObservationErrors.
var ErrObservation = errors.New("invalid observation")

// ObservationError reports an observation of the wrong shape.
type ObservationError struct {
	Msg string

	// underlying cause, if any
	Err error
}

func (oe *ObservationError) Error() string {
	if oe.Err != nil {
		return oe.Msg + ": " + oe.Err.Error()
	}
	return oe.Msg
}

func (oe *ObservationError) Unwrap() []error {
	if oe.Err != nil {
		return []error{ErrObservation, oe.Err}
	}
	return []error{ErrObservation}
}

// ObsFormMsg is the message of ObservationErrors for stimulus-keyed observations.
const ObsFormMsg = "Observation must return a dictionary of the form: {'amp1': freq1, 'amp2': freq2, ...}"

// Float is a float64 that encodes NaN and Inf as JSON null,
// and decodes null as NaN.
type Float float64

func (fv Float) MarshalJSON() ([]byte, error) {
	f := float64(fv)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return marshalFloat(f), nil
}

func (fv *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*fv = Float(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*fv = Float(f)
	return nil
}

// marshalFloat formats f like Python's json module does: integral values
// keep a trailing .0 so they read back as floats.
func marshalFloat(f float64) []byte {
	b := strconv.AppendFloat(nil, f, 'g', -1, 64)
	if !bytes.ContainsAny(b, ".eEn") {
		b = append(b, '.', '0')
	}
	return b
}

// Entry is one stimulus -> value pair.
type Entry struct {

	// stimulus amplitude, in nA, as written in the source file
	Key string

	Value float64
}

// Observation maps stimulus amplitudes to reference values.  It is an
// ordered list, not a map: stimuli are applied in this order, and the
// JSON encoding and decoding keep it.  A Prediction has the same keys,
// in the same order.
type Observation []Entry

// Prediction is the model counterpart of an Observation.
type Prediction = Observation

// NewObservation returns a validated Observation with the given entries.
func NewObservation(ents ...Entry) (Observation, error) {
	ob := Observation(ents)
	if err := ob.Validate(); err != nil {
		return nil, err
	}
	return ob, nil
}

// ParseObservation decodes and validates a JSON object of the form
// {"amp1": val1, "amp2": val2, ...}, keeping key order.
func ParseObservation(b []byte) (Observation, error) {
	var ob Observation
	if err := json.Unmarshal(b, &ob); err != nil {
		var oe *ObservationError
		if errors.As(err, &oe) {
			return nil, oe
		}
		return nil, &ObservationError{Msg: ObsFormMsg, Err: err}
	}
	if err := ob.Validate(); err != nil {
		return nil, err
	}
	return ob, nil
}

// Validate returns an ObservationError unless there is at least one
// stimulus, every key parses as a number and there are no duplicate keys.
func (ob Observation) Validate() error {
	if len(ob) == 0 {
		return &ObservationError{Msg: ObsFormMsg, Err: errors.New("no stimuli")}
	}
	seen := make(map[string]bool, len(ob))
	for _, e := range ob {
		if _, err := strconv.ParseFloat(e.Key, 64); err != nil {
			return &ObservationError{Msg: ObsFormMsg, Err: fmt.Errorf("key %q is not a stimulus amplitude", e.Key)}
		}
		if seen[e.Key] {
			return &ObservationError{Msg: ObsFormMsg, Err: fmt.Errorf("duplicate key %q", e.Key)}
		}
		seen[e.Key] = true
	}
	return nil
}

// Keys returns the keys in order.
func (ob Observation) Keys() []string {
	ks := make([]string, len(ob))
	for i, e := range ob {
		ks[i] = e.Key
	}
	return ks
}

// Values returns the values in key order.
func (ob Observation) Values() []float64 {
	vs := make([]float64, len(ob))
	for i, e := range ob {
		vs[i] = e.Value
	}
	return vs
}

// Amplitudes returns the keys parsed as numbers, in order.
// Keys of a validated Observation always parse.
func (ob Observation) Amplitudes() []float64 {
	as := make([]float64, len(ob))
	for i, e := range ob {
		as[i], _ = strconv.ParseFloat(e.Key, 64)
	}
	return as
}

// Value returns the value for key, and false if it is not present.
func (ob Observation) Value(key string) (float64, bool) {
	for _, e := range ob {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// MarshalJSON writes an object with keys in order.
// NaN and Inf values are written as null.
func (ob Observation) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range ob {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, _ := Float(e.Value).MarshalJSON()
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order.  Values must be numbers
// or null (NaN); anything else is an ObservationError.
func (ob *Observation) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if dl, ok := tok.(json.Delim); !ok || dl != '{' {
		return &ObservationError{Msg: ObsFormMsg, Err: fmt.Errorf("expected object, got %v", tok)}
	}
	res := Observation{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if dl, ok := tok.(json.Delim); ok && dl == '}' {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return &ObservationError{Msg: ObsFormMsg, Err: fmt.Errorf("unexpected token %v", tok)}
		}
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := vt.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return &ObservationError{Msg: ObsFormMsg, Err: err}
			}
			res = append(res, Entry{Key: key, Value: f})
		case nil:
			res = append(res, Entry{Key: key, Value: math.NaN()})
		default:
			return &ObservationError{Msg: ObsFormMsg, Err: fmt.Errorf("value of %q is not a number: %v", key, v)}
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &ObservationError{Msg: ObsFormMsg, Err: errors.New("trailing data after object")}
	}
	*ob = res
	return nil
}

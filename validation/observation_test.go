// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationOrder(t *testing.T) {
	ob, err := ParseObservation([]byte(`{"0.8": 40, "0.2": 12.5, "1.6": 80, "0.4": 20}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"0.8", "0.2", "1.6", "0.4"}, ob.Keys())
	assert.Equal(t, []float64{40, 12.5, 80, 20}, ob.Values())
	assert.Equal(t, []float64{0.8, 0.2, 1.6, 0.4}, ob.Amplitudes())
	v, ok := ob.Value("1.6")
	assert.True(t, ok)
	assert.Equal(t, 80.0, v)

	b, err := json.Marshal(ob)
	require.NoError(t, err)
	assert.Equal(t, `{"0.8":40.0,"0.2":12.5,"1.6":80.0,"0.4":20.0}`, string(b))
}

func TestObservationErrors(t *testing.T) {
	bad := []string{
		`{"0.2": "twelve"}`,
		`{"amp": 12}`,
		`{"0.2": [12]}`,
		`{"0.2": {"v": 12}}`,
		`{"0.2": true}`,
		`[12, 20]`,
		`{}`,
		`{"0.2": 1, "0.2": 2}`,
		`12`,
	}
	for _, js := range bad {
		_, err := ParseObservation([]byte(js))
		if !errors.Is(err, ErrObservation) {
			t.Errorf("%s: err = %v, want ErrObservation", js, err)
		}
		var oe *ObservationError
		if errors.As(err, &oe) && oe.Msg != ObsFormMsg {
			t.Errorf("%s: message %q", js, oe.Msg)
		}
	}
}

func TestObservationNaN(t *testing.T) {
	ob := Observation{{Key: "0.2", Value: 1}, {Key: "0.4", Value: math.NaN()}}
	b, err := json.Marshal(ob)
	require.NoError(t, err)
	assert.Equal(t, `{"0.2":1.0,"0.4":null}`, string(b))

	var rb Observation
	require.NoError(t, json.Unmarshal(b, &rb))
	assert.Equal(t, ob.Keys(), rb.Keys())
	assert.True(t, math.IsNaN(rb[1].Value))
}

func TestObservationFile(t *testing.T) {
	fnm := filepath.Join(t.TempDir(), "obs.json")
	ob, err := NewObservation(Entry{"0.4", 21.5}, Entry{"0.2", 11})
	require.NoError(t, err)
	require.NoError(t, WriteObservation(fnm, ob))
	rb, err := ReadObservation(fnm)
	require.NoError(t, err)
	assert.Equal(t, ob, rb)

	_, err = NewObservation()
	assert.True(t, errors.Is(err, ErrObservation))
}

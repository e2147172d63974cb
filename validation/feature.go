// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validation

import "github.com/goki/ki/kit"

// Feature is the scalar a firing test derives from each trace.
type Feature int

//go:generate stringer -type=Feature

var KiT_Feature = kit.Enums.AddEnum(FeatureN, kit.NotBitFlag, nil)

func (ev Feature) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Feature) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The firing test features
const (
	// FiringFreq is the number of spikes during the stimulus divided by its duration, in Hz
	FiringFreq Feature = iota

	// FirstSpikeLatency is the time from stimulus onset to the first spike, in ms
	FirstSpikeLatency

	FeatureN
)

// EFeature returns the name of the extractor feature this feature is computed from.
func (ev Feature) EFeature() string {
	if ev == FirstSpikeLatency {
		return "time_to_first_spike"
	}
	return "Spikecount_stimint"
}

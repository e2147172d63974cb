// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capability

import "github.com/goki/ki/kit"

// Site is an anatomical location at which current can be injected.
type Site int

//go:generate stringer -type=Site

var KiT_Site = kit.Enums.AddEnum(SiteN, kit.NotBitFlag, nil)

func (ev Site) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Site) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The injection sites
const (
	// Soma is the cell body, which is also where voltage is recorded
	Soma Site = iota

	// Glomerulus is the apical dendritic tuft at the end of the primary dendrite
	Glomerulus

	SiteN
)

// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"fmt"
	"image/color"

	"github.com/goki/ki/kit"
	"gonum.org/v1/plot/vg/draw"
)

// Variant is one of the reduced model variants compared in the figures.
type Variant int

//go:generate stringer -type=Variant

var KiT_Variant = kit.Enums.AddEnum(VariantN, kit.NotBitFlag, nil)

func (ev Variant) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Variant) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The model variants
const (
	// Var2C is the 2 compartment model
	Var2C Variant = iota

	// Var3C is the 3 compartment model
	Var3C

	// Var4C is the 4 compartment model
	Var4C

	// VarFull is the full reference model
	VarFull

	VariantN
)

// VariantInfo is how a variant is found on disk and drawn.
type VariantInfo struct {

	// short tag used to select the variant, e.g., 2C
	Tag string

	// model name, which is the artifact directory name
	Dir string

	Color color.Color
	Shape draw.GlyphDrawer
}

// Variants holds the info for each Variant.
var Variants = [VariantN]VariantInfo{
	Var2C:   {Tag: "2C", Dir: "2 Compartments", Color: color.RGBA{R: 191, B: 191, A: 255}, Shape: draw.PlusGlyph{}},
	Var3C:   {Tag: "3C", Dir: "3 Compartments", Color: color.RGBA{G: 128, A: 255}, Shape: draw.CrossGlyph{}},
	Var4C:   {Tag: "4C", Dir: "4 Compartments", Color: color.RGBA{R: 255, A: 255}, Shape: draw.CircleGlyph{}},
	VarFull: {Tag: "Full", Dir: "Full Model", Color: color.Black, Shape: draw.TriangleGlyph{}},
}

// ObsColor is the color of the reference series.
var ObsColor = color.RGBA{B: 255, A: 255}

// Info returns the VariantInfo of the variant.
func (ev Variant) Info() *VariantInfo {
	return &Variants[ev]
}

// ParseVariants returns the variants named by tags, in table order.
// An empty list selects all variants.  Unknown tags are a ConfigError.
func ParseVariants(tags []string) ([]Variant, error) {
	if len(tags) == 0 {
		vs := make([]Variant, VariantN)
		for i := range vs {
			vs[i] = Variant(i)
		}
		return vs, nil
	}
	sel := [VariantN]bool{}
	for _, tg := range tags {
		found := false
		for vi := range Variants {
			if Variants[vi].Tag == tg {
				sel[vi] = true
				found = true
			}
		}
		if !found {
			return nil, &ConfigError{Msg: fmt.Sprintf("unknown model variant %q: must be one of 2C, 3C, 4C, Full", tg)}
		}
	}
	var vs []Variant
	for vi, ok := range sel {
		if ok {
			vs = append(vs, Variant(vi))
		}
	}
	return vs, nil
}

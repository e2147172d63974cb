// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cellmodel

import "fmt"

// Model names, which are also the artifact directory names.
const (
	Name2C   = "2 Compartments"
	Name3C   = "3 Compartments"
	Name4C   = "4 Compartments"
	NameFull = "Full Model"
)

func soma() CompParams {
	cp := CompParams{Name: "soma"}
	cp.ActiveDefaults()
	return cp
}

func passive(name string, area float32) CompParams {
	cp := CompParams{Name: name}
	cp.PassiveDefaults()
	cp.Area = area
	return cp
}

func newModel(name string, comps []CompParams, links []Link, somai, glomi int) *Model {
	md := &Model{Nm: name, Comps: comps, Links: links, Soma: somai, Glom: glomi}
	md.Dt.Defaults()
	md.InitState()
	return md
}

// New2C returns the 2 compartment model: the soma, with the secondary
// dendrites lumped in, coupled to the primary dendrite and glomerulus.
func New2C() *Model {
	return newModel(Name2C,
		[]CompParams{soma(), passive("glomerulus", 1.5)},
		[]Link{{A: 0, B: 1, G: 0.5}},
		0, 1)
}

// New3C returns the 3 compartment model, with a separate primary dendrite.
func New3C() *Model {
	return newModel(Name3C,
		[]CompParams{soma(), passive("primary dendrite", 1), passive("glomerulus", 1.5)},
		[]Link{{A: 0, B: 1, G: 0.8}, {A: 1, B: 2, G: 0.8}},
		0, 2)
}

// New4C returns the 4 compartment model, adding the secondary dendrites.
func New4C() *Model {
	return newModel(Name4C,
		[]CompParams{soma(), passive("secondary dendrites", 3), passive("primary dendrite", 1), passive("glomerulus", 1.5)},
		[]Link{{A: 0, B: 1, G: 0.5}, {A: 0, B: 2, G: 0.8}, {A: 2, B: 3, G: 0.8}},
		0, 3)
}

// NewFull returns the reference model, with the primary and secondary
// dendrites each divided into segments.
func NewFull() *Model {
	comps := []CompParams{soma()}
	var links []Link
	prv := 0
	for i := 0; i < 2; i++ {
		comps = append(comps, passive(fmt.Sprintf("secondary dendrite %d", i), 1.5))
		links = append(links, Link{A: prv, B: len(comps) - 1, G: 0.5})
		prv = len(comps) - 1
	}
	prv = 0
	for i := 0; i < 3; i++ {
		comps = append(comps, passive(fmt.Sprintf("primary dendrite %d", i), 0.4))
		links = append(links, Link{A: prv, B: len(comps) - 1, G: 1.2})
		prv = len(comps) - 1
	}
	comps = append(comps, passive("glomerulus", 1.5))
	links = append(links, Link{A: prv, B: len(comps) - 1, G: 1.2})
	return newModel(NameFull, comps, links, 0, len(comps)-1)
}

// Constructors maps each model name to its constructor.
var Constructors = map[string]func() *Model{
	Name2C:   New2C,
	Name3C:   New3C,
	Name4C:   New4C,
	NameFull: NewFull,
}

// New returns a new model by name.
func New(name string) (*Model, error) {
	fn, ok := Constructors[name]
	if !ok {
		return nil, fmt.Errorf("cellmodel: unknown model %q", name)
	}
	return fn(), nil
}

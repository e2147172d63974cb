// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package davison2000unit is the overall repository for the validation tests of
the reduced mitral cell models of Davison, Feng and Brown (2000), implemented
in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* capability: the interfaces a model implements to be tested: step current
injection at the soma and at the glomerulus, and recording of the somatic
membrane potential.

* validation: the firing frequency, first spike latency and run time tests,
which stimulate a model, compare its response to observations with an RMS
score, and write JSON, TSV and PDF artifacts.  Suite runs them all on one model.

* efeature: extraction of spike features (spike counts, latencies) from
voltage traces.

* score, plots: score values and their figures.

* aggregate: figures comparing all model variants, read back from the
artifacts of previous runs.

* cellmodel, chans: reference 2, 3 and 4 compartment models and the full
model that generates observations.

* examples/validate: a command line program that runs everything and
is the place to start.
*/
package davison2000unit

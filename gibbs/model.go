// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"fmt"

	"github.com/bocklund/pycalphad/symdiff"
)

// IndexPair is an unordered pair of variable indices stored with
// Row ≤ Col by convention.
type IndexPair struct {
	Row, Col int
}

// MakePair normalizes an index pair to the triangular convention.
func MakePair(i, j int) IndexPair {
	if i > j {
		i, j = j, i
	}
	return IndexPair{Row: i, Col: j}
}

// CompositionModel owns the free-energy expression of one phase: its energy
// tree over the shared variable map, the subset of variables relevant to it,
// an optional pinned starting point and its contribution to the global
// Hessian sparsity pattern.
//
// The problem assembler consumes this interface; it never inspects how the
// energy expression was built.
type CompositionModel interface {
	// Phase returns the phase name this model describes.
	Phase() string
	// Variables returns the model's internal degrees of freedom: the names
	// of its site-fraction variables, in variable-map order.
	Variables() []string
	// Energy returns the molar Gibbs energy tree of the phase.
	Energy() *symdiff.Tree
	// Moles returns the tree for the mole fraction of an element within
	// this phase, as a function of the model's site fractions.
	Moles(element string) *symdiff.Tree
	// SetStartingPoint pins the solver starting point, one value per entry
	// of Variables.
	SetStartingPoint(point []float64)
	// StartingPoint returns the pinned point, or nil when none was set.
	StartingPoint() []float64
	// HessianSparsity returns the variable-index pairs at which the
	// objective's second derivative may be nonzero for this phase.
	HessianSparsity(vars *VariableMap) ([]IndexPair, error)
}

// MinimaLocator finds the distinct low-energy points of a phase's energy
// surface under the given conditions, one vector per minimum with one value
// per model variable. It is an external collaborator: the assembler only
// dispatches on how many minima come back.
type MinimaLocator func(model CompositionModel, conds *Conditions) ([][]float64, error)

// UniformLocator is the default locator. It reports the single interior
// point with equal site fractions on every sublattice, which is a feasible
// starting point but carries no claim of global optimality.
func UniformLocator(model CompositionModel, conds *Conditions) ([][]float64, error) {
	names := model.Variables()
	point := make([]float64, len(names))
	// Count the occupants of each sublattice by grouping the variable names
	// on their phase/sublattice prefix.
	counts := make(map[string]int)
	prefixes := make([]string, len(names))
	for i, n := range names {
		p := sublatticePrefix(n)
		prefixes[i] = p
		counts[p]++
	}
	for i := range point {
		point[i] = 1 / float64(counts[prefixes[i]])
	}
	return [][]float64{point}, nil
}

func sublatticePrefix(name string) string {
	// "<PHASE>_<subl>_<SPECIES>" → "<PHASE>_<subl>"
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '_' {
			return name[:i]
		}
	}
	panic(fmt.Sprintf("gibbs: %q is not a site-fraction variable", name))
}

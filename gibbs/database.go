// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gibbs assembles constrained Gibbs-energy minimization problems.
//
// Given a thermodynamic database of phase definitions and parameters, and a
// set of conditions naming the active phases and the elements of interest,
// the package enumerates the optimization variables, instantiates a
// composition model per active phase, builds the equality-constraint set,
// and pre-computes the symbolic Jacobian and constraint-Hessian trees with
// their sparsity patterns. The frozen result is handed to an external
// numeric solver; the solve itself is not part of this package.
package gibbs

import (
	"fmt"
	"sort"

	"github.com/bocklund/pycalphad/symdiff"
)

// Sublattice is one partition of a phase's crystal structure. It hosts its
// own set of species whose site fractions sum to one.
type Sublattice struct {
	// Sites is the stoichiometric number of sites (the site ratio).
	Sites float64
	// Species are the constituents that may occupy this sublattice.
	Species []string
}

// Phase is a single thermodynamic phase definition.
type Phase struct {
	Name        string
	Sublattices []Sublattice
}

// Parameter is one database entry contributing to a phase's energy.
// Value is an expression over the state variables (T), bound numerically
// when a composition model is built.
type Parameter struct {
	Phase string
	// Type is "G" for endmember energies, "L" for interaction parameters.
	Type string
	// Constituents holds one species list per sublattice. A single species
	// in every sublattice denotes an endmember; two or more species in some
	// sublattice denote an interaction.
	Constituents [][]string
	// Order is the Redlich-Kister polynomial order of an interaction.
	Order int
	Value *symdiff.Tree
}

// ParameterSet is the database's searchable parameter collection.
type ParameterSet struct {
	params []Parameter
}

// Add appends a parameter.
func (ps *ParameterSet) Add(p Parameter) {
	ps.params = append(ps.params, p)
}

// Search returns the parameters satisfying pred, in insertion order.
func (ps *ParameterSet) Search(pred func(*Parameter) bool) []*Parameter {
	var out []*Parameter
	for i := range ps.params {
		if pred(&ps.params[i]) {
			out = append(out, &ps.params[i])
		}
	}
	return out
}

// Len returns the number of parameters.
func (ps *ParameterSet) Len() int { return len(ps.params) }

// Database holds phase definitions and the parameter set.
type Database struct {
	phases map[string]*Phase
	params ParameterSet
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{phases: make(map[string]*Phase)}
}

// AddPhase registers a phase definition. Duplicate names are rejected.
func (db *Database) AddPhase(p Phase) error {
	if _, ok := db.phases[p.Name]; ok {
		return fmt.Errorf("gibbs: duplicate phase %q", p.Name)
	}
	cp := p
	db.phases[p.Name] = &cp
	return nil
}

// AddParameter appends a parameter to the database's parameter set.
func (db *Database) AddParameter(p Parameter) {
	db.params.Add(p)
}

// Phase looks up a phase definition by name.
func (db *Database) Phase(name string) (*Phase, bool) {
	p, ok := db.phases[name]
	return p, ok
}

// PhaseNames returns the defined phase names in sorted order.
func (db *Database) PhaseNames() []string {
	names := make([]string, 0, len(db.phases))
	for n := range db.phases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parameters returns the database's parameter set.
func (db *Database) Parameters() *ParameterSet { return &db.params }

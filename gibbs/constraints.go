// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"fmt"

	"github.com/bocklund/pycalphad/symdiff"
)

// ConstraintKind identifies the provenance of a constraint. Behavior
// differences between kinds are fully captured at construction time; the
// kind exists for diagnostics only.
type ConstraintKind int

const (
	PhaseFractionBalance ConstraintKind = iota
	SublatticeBalance
	MassBalance
)

func (k ConstraintKind) String() string {
	switch k {
	case PhaseFractionBalance:
		return "phase-fraction balance"
	case SublatticeBalance:
		return "sublattice balance"
	case MassBalance:
		return "mass balance"
	}
	return "unknown"
}

// Constraint is one named equality lhs = rhs. It is immutable after
// insertion into the ConstraintManager.
type Constraint struct {
	Kind ConstraintKind
	Name string
	LHS  *symdiff.Tree
	RHS  *symdiff.Tree
}

// ConstraintManager holds the ordered constraint list and the fixed-index
// list. Insertion order is significant: it determines the constraint index
// that Jacobian and Hessian entries reference.
type ConstraintManager struct {
	constraints []Constraint
	names       map[string]int
	fixed       []int
}

func newConstraintManager() *ConstraintManager {
	return &ConstraintManager{names: make(map[string]int)}
}

// Add appends a constraint. A duplicate name is a broken structural
// invariant and fails fast.
func (cm *ConstraintManager) Add(c Constraint) error {
	if _, ok := cm.names[c.Name]; ok {
		return fmt.Errorf("gibbs: duplicate constraint %q", c.Name)
	}
	cm.names[c.Name] = len(cm.constraints)
	cm.constraints = append(cm.constraints, c)
	return nil
}

// pinIndex records a variable whose value is fixed directly instead of
// being governed by a degenerate single-term constraint.
func (cm *ConstraintManager) pinIndex(i int) {
	cm.fixed = append(cm.fixed, i)
}

// Constraints returns the ordered constraint list.
func (cm *ConstraintManager) Constraints() []Constraint { return cm.constraints }

// FixedIndices returns the ordered fixed-index list.
func (cm *ConstraintManager) FixedIndices() []int { return cm.fixed }

// phaseFractionBalance constrains the active phases' fraction variables to
// sum to one. Only built when more than one phase is active.
func phaseFractionBalance(phases []string) Constraint {
	terms := make([]*symdiff.Tree, len(phases))
	for i, p := range phases {
		terms[i] = symdiff.Var(PhaseFractionVariable(p))
	}
	return Constraint{
		Kind: PhaseFractionBalance,
		Name: "PHASE_FRACTION_BALANCE",
		LHS:  symdiff.Add(terms...),
		RHS:  symdiff.Num(1),
	}
}

// sublatticeBalance constrains the tracked species' site fractions on one
// sublattice to sum to one. Only built for two or more tracked species.
func sublatticeBalance(phase string, sublattice int, species []string) Constraint {
	terms := make([]*symdiff.Tree, len(species))
	for i, sp := range species {
		terms[i] = symdiff.Var(SiteFractionVariable(phase, sublattice, sp))
	}
	return Constraint{
		Kind: SublatticeBalance,
		Name: fmt.Sprintf("%s_%d_SUBLATTICE_BALANCE", phase, sublattice),
		LHS:  symdiff.Add(terms...),
		RHS:  symdiff.Num(1),
	}
}

// massBalance ties the overall mole fraction of an element, aggregated over
// the active phases weighted by their fractions, to the target value.
func massBalance(element string, target float64, models []CompositionModel) Constraint {
	terms := make([]*symdiff.Tree, len(models))
	for i, m := range models {
		terms[i] = symdiff.Mul(
			symdiff.Var(PhaseFractionVariable(m.Phase())),
			m.Moles(element),
		)
	}
	return Constraint{
		Kind: MassBalance,
		Name: fmt.Sprintf("X_%s_MASS_BALANCE", element),
		LHS:  symdiff.Add(terms...),
		RHS:  symdiff.Num(target),
	}
}

// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/bocklund/pycalphad/symdiff"
)

// Problem specifies a Gibbs-energy minimization problem to assemble.
type Problem struct {
	Database   *Database
	Conditions *Conditions
	// Locator finds the low-energy points of each phase's energy surface.
	// UniformLocator is used when nil.
	Locator MinimaLocator
	// Logger is the observability port. Construction is silent when nil.
	Logger *zap.Logger
}

// Assembly is the frozen output of problem assembly. Every field is built
// exactly once and must be treated as read-only; downstream solver
// callbacks may read concurrently but must never mutate.
type Assembly struct {
	Variables    *VariableMap
	Models       []CompositionModel // ordered by phase name
	Objective    *symdiff.Tree      // Σ phase_frac · G_phase
	Constraints  []Constraint
	FixedIndices []int
	Jacobian     []JacobianEntry
	Hessian      []HessianEntry
	Sparsity     *SparsityStructure
}

// Assemble runs the construction pipeline: filter active phases, build the
// variable map, instantiate the composition models, add the mandatory and
// user constraints, and pre-compute the Jacobian and Hessian trees.
//
// A configuration with no tracked elements or no active phases is reported
// through the logger at error severity and construction proceeds with an
// empty structure; the solver fails loudly downstream. A phase whose energy
// surface shows more than one minimum is a miscibility gap, which the
// assembler has no splitting strategy for and therefore rejects.
func (p *Problem) Assemble() (*Assembly, error) {
	switch {
	case p.Database == nil:
		return nil, errors.New("gibbs: database is required")
	case p.Conditions == nil:
		return nil, errors.New("gibbs: conditions are required")
	}

	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	locate := p.Locator
	if locate == nil {
		locate = UniformLocator
	}
	conds := p.Conditions

	active := conds.ActivePhases(p.Database)
	if len(conds.Elements) == 0 {
		log.Error("no components entered")
	}
	if len(active) == 0 {
		log.Error("no phases found")
	}

	vars := buildVariableMap(active, conds)
	for i := 0; i < vars.Len(); i++ {
		log.Debug("variable indexed", zap.Int("index", i), zap.String("name", vars.Name(i)))
	}

	pset := p.Database.Parameters()

	// Instantiate one composition model per active phase and consult the
	// minima locator for a starting point.
	var models []CompositionModel
	var objective *symdiff.Tree
	for _, phase := range active {
		model, err := NewRKMModel(phase, pset, conds, vars)
		if err != nil {
			return nil, err
		}
		minima, err := locate(model, conds)
		if err != nil {
			return nil, fmt.Errorf("gibbs: locating minima of %s: %w", phase.Name, err)
		}
		log.Debug("minima detected", zap.String("phase", phase.Name), zap.Int("count", len(minima)))
		switch {
		case len(minima) == 1:
			model.SetStartingPoint(minima[0])
		case len(minima) > 1:
			// A miscibility gap needs one extra composition model per extra
			// minimum. No splitting strategy is defined here, so refuse
			// rather than proceed with a single model.
			return nil, fmt.Errorf("gibbs: %s: %d energy minima indicate a miscibility gap, which assembly cannot split",
				phase.Name, len(minima))
		}
		models = append(models, model)

		term := symdiff.Mul(symdiff.Var(PhaseFractionVariable(phase.Name)), model.Energy())
		if objective == nil {
			objective = term
		} else {
			objective = symdiff.Add(objective, term)
		}
	}

	cm := newConstraintManager()
	if err := p.addMandatoryConstraints(cm, active, vars); err != nil {
		return nil, err
	}
	if err := addMassBalances(cm, conds, models); err != nil {
		return nil, err
	}
	for _, c := range cm.Constraints() {
		log.Debug("constraint added",
			zap.String("name", c.Name),
			zap.Stringer("kind", c.Kind),
			zap.String("lhs", c.LHS.String()),
			zap.String("rhs", c.RHS.String()))
	}

	jac := buildJacobian(vars, cm, log)

	sparsity := newSparsityStructure()
	for _, m := range models {
		pairs, err := m.HessianSparsity(vars)
		if err != nil {
			return nil, err
		}
		for _, pair := range pairs {
			sparsity.Insert(pair)
		}
	}
	hess := buildHessian(vars, jac, sparsity, log)

	return &Assembly{
		Variables:    vars,
		Models:       models,
		Objective:    objective,
		Constraints:  cm.Constraints(),
		FixedIndices: cm.FixedIndices(),
		Jacobian:     jac,
		Hessian:      hess,
		Sparsity:     sparsity,
	}, nil
}

// addMandatoryConstraints builds the phase-fraction balance and the
// per-sublattice balances, pinning the degenerate single-term cases to the
// fixed-index list instead of constraining them.
func (p *Problem) addMandatoryConstraints(cm *ConstraintManager, active []*Phase, vars *VariableMap) error {
	if len(active) > 1 {
		names := make([]string, len(active))
		for i, phase := range active {
			names[i] = phase.Name
		}
		if err := cm.Add(phaseFractionBalance(names)); err != nil {
			return err
		}
	}
	if len(active) == 1 {
		// With one phase its fraction is already determined; pin the
		// variable instead of adding a degenerate constraint.
		i, err := vars.Index(PhaseFractionVariable(active[0].Name))
		if err != nil {
			return err
		}
		cm.pinIndex(i)
	}

	for _, phase := range active {
		for l, subl := range phase.Sublattices {
			var tracked []string
			for _, sp := range subl.Species {
				if p.Conditions.Tracks(sp) {
					tracked = append(tracked, sp)
				}
			}
			switch {
			case len(tracked) == 1:
				i, err := vars.Index(SiteFractionVariable(phase.Name, l, tracked[0]))
				if err != nil {
					return err
				}
				cm.pinIndex(i)
			case len(tracked) > 1:
				if err := cm.Add(sublatticeBalance(phase.Name, l, tracked)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// addMassBalances appends one mass-balance constraint per user-specified
// target mole fraction, in element order.
func addMassBalances(cm *ConstraintManager, conds *Conditions, models []CompositionModel) error {
	elements := make([]string, 0, len(conds.MoleFractions))
	for e := range conds.MoleFractions {
		elements = append(elements, e)
	}
	sort.Strings(elements)
	for _, e := range elements {
		if err := cm.Add(massBalance(e, conds.MoleFractions[e], models)); err != nil {
			return err
		}
	}
	return nil
}

// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"go.uber.org/zap"

	"github.com/bocklund/pycalphad/symdiff"
)

// JacobianEntry is the pre-computed first derivative of one constraint with
// respect to one variable. Entries exist only for derivatives that are not
// provably zero.
type JacobianEntry struct {
	ConsIndex  int
	VarIndex   int
	Derivative *symdiff.Tree
}

// buildJacobian differentiates every constraint with respect to every
// variable. For each pair, both sides are differentiated and simplified:
// when both collapse to numeric constants of equal value the entry is
// degenerate and dropped. Otherwise the retained derivative is
// d(lhs) − d(rhs) over the simplified sides.
func buildJacobian(vars *VariableMap, cm *ConstraintManager, log *zap.Logger) []JacobianEntry {
	var entries []JacobianEntry
	for i := 0; i < vars.Len(); i++ {
		name := vars.Name(i)
		for j, c := range cm.Constraints() {
			lhs := symdiff.Simplify(symdiff.Differentiate(c.LHS, name))
			rhs := symdiff.Simplify(symdiff.Differentiate(c.RHS, name))
			if lhs.IsNum() && rhs.IsNum() && lhs.Value() == rhs.Value() {
				continue // don't add zeros to the Jacobian
			}
			entries = append(entries, JacobianEntry{
				ConsIndex:  j,
				VarIndex:   i,
				Derivative: symdiff.Sub(lhs, rhs),
			})
			log.Debug("jacobian entry pre-calculated",
				zap.Int("constraint", j), zap.Int("variable", i))
		}
	}
	return entries
}

// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bocklund/pycalphad/symdiff"
)

func TestConstraintManagerOrderAndDuplicates(t *testing.T) {
	cm := newConstraintManager()
	require.NoError(t, cm.Add(phaseFractionBalance([]string{"ALPHA", "BETA"})))
	require.NoError(t, cm.Add(sublatticeBalance("ALPHA", 0, []string{"AL", "NI"})))

	err := cm.Add(sublatticeBalance("ALPHA", 0, []string{"AL", "NI"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate constraint")

	// The failed insert must not disturb the ordered list.
	cs := cm.Constraints()
	require.Len(t, cs, 2)
	assert.Equal(t, "PHASE_FRACTION_BALANCE", cs[0].Name)
	assert.Equal(t, "ALPHA_0_SUBLATTICE_BALANCE", cs[1].Name)

	cm.pinIndex(4)
	cm.pinIndex(2)
	assert.Equal(t, []int{4, 2}, cm.FixedIndices())
}

func TestPhaseFractionBalance(t *testing.T) {
	c := phaseFractionBalance([]string{"ALPHA", "BETA", "GAMMA"})
	assert.Equal(t, PhaseFractionBalance, c.Kind)
	assert.Equal(t, "PHASE_FRACTION_BALANCE", c.Name)
	assert.Equal(t, "(ALPHA_FRAC+BETA_FRAC+GAMMA_FRAC)", c.LHS.String())
	assert.True(t, symdiff.Equal(symdiff.Num(1), c.RHS))
}

func TestSublatticeBalance(t *testing.T) {
	c := sublatticeBalance("BETA", 1, []string{"NI", "VA"})
	assert.Equal(t, SublatticeBalance, c.Kind)
	assert.Equal(t, "BETA_1_SUBLATTICE_BALANCE", c.Name)
	assert.Equal(t, "(BETA_1_NI+BETA_1_VA)", c.LHS.String())
	assert.True(t, symdiff.Equal(symdiff.Num(1), c.RHS))
}

func TestMassBalance(t *testing.T) {
	db := binaryDatabase(t)
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)

	var models []CompositionModel
	for _, p := range active {
		m, err := NewRKMModel(p, db.Parameters(), conds, vars)
		require.NoError(t, err)
		models = append(models, m)
	}

	c := massBalance("AL", 0.4, models)
	assert.Equal(t, MassBalance, c.Kind)
	assert.Equal(t, "X_AL_MASS_BALANCE", c.Name)
	assert.True(t, symdiff.Equal(symdiff.Num(0.4), c.RHS))

	// X_AL = f_ALPHA·0.5 + f_BETA·(3·0.25)/(3·(0.25+0.75)+1·1) = 0.375.
	got, err := symdiff.Eval(c.LHS, map[string]float64{
		"ALPHA_FRAC": 0.6,
		"ALPHA_0_AL": 0.5,
		"ALPHA_0_NI": 0.5,
		"BETA_FRAC":  0.4,
		"BETA_0_AL":  0.25,
		"BETA_0_NI":  0.75,
		"BETA_1_NI":  1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.375, got, 1e-12)
}

func TestConstraintKindString(t *testing.T) {
	assert.Equal(t, "phase-fraction balance", PhaseFractionBalance.String())
	assert.Equal(t, "sublattice balance", SublatticeBalance.String())
	assert.Equal(t, "mass balance", MassBalance.String())
	assert.Equal(t, "unknown", ConstraintKind(42).String())
}

// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bocklund/pycalphad/symdiff"
)

// binaryDatabase defines a two-phase AL-NI system. ALPHA is a single
// substitutional sublattice, BETA is a two-sublattice compound whose second
// sublattice hosts only NI.
func binaryDatabase(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase()
	require.NoError(t, db.AddPhase(Phase{
		Name: "ALPHA",
		Sublattices: []Sublattice{
			{Sites: 1, Species: []string{"AL", "NI"}},
		},
	}))
	require.NoError(t, db.AddPhase(Phase{
		Name: "BETA",
		Sublattices: []Sublattice{
			{Sites: 3, Species: []string{"AL", "NI"}},
			{Sites: 1, Species: []string{"NI"}},
		},
	}))

	db.AddParameter(Parameter{
		Phase: "ALPHA", Type: "G",
		Constituents: [][]string{{"AL"}},
		Value:        symdiff.Num(-1000),
	})
	db.AddParameter(Parameter{
		Phase: "ALPHA", Type: "G",
		Constituents: [][]string{{"NI"}},
		Value:        symdiff.Num(-2000),
	})
	db.AddParameter(Parameter{
		Phase: "ALPHA", Type: "L",
		Constituents: [][]string{{"AL", "NI"}},
		Order:        0,
		Value:        symdiff.Num(-500),
	})
	db.AddParameter(Parameter{
		Phase: "ALPHA", Type: "L",
		Constituents: [][]string{{"AL", "NI"}},
		Order:        1,
		Value:        symdiff.Num(100),
	})
	db.AddParameter(Parameter{
		Phase: "BETA", Type: "G",
		Constituents: [][]string{{"AL"}, {"NI"}},
		Value:        symdiff.Num(-4000),
	})
	db.AddParameter(Parameter{
		Phase: "BETA", Type: "G",
		Constituents: [][]string{{"NI"}, {"NI"}},
		Value:        symdiff.Num(-3000),
	})
	return db
}

func binaryConditions() *Conditions {
	return &Conditions{
		Phases: map[string]PhaseStatus{
			"ALPHA": StatusEntered,
			"BETA":  StatusEntered,
		},
		Elements:      []string{"AL", "NI"},
		MoleFractions: map[string]float64{"AL": 0.4},
		Temperature:   1000,
		Pressure:      101325,
	}
}

// binaryVariables is the expected enumeration order for the fixture:
// phases sorted by name, phase fraction first, then site fractions in
// definition order.
var binaryVariables = []string{
	"ALPHA_FRAC",
	"ALPHA_0_AL",
	"ALPHA_0_NI",
	"BETA_FRAC",
	"BETA_0_AL",
	"BETA_0_NI",
	"BETA_1_NI",
}

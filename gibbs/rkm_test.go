// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bocklund/pycalphad/symdiff"
)

func alphaModel(t *testing.T) (*RKMModel, *Conditions) {
	t.Helper()
	db := binaryDatabase(t)
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.NoError(t, err)
	return m, conds
}

func TestNewRKMModelValidation(t *testing.T) {
	db := binaryDatabase(t)
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)

	// No tracked constituent on the second BETA sublattice.
	narrow := &Conditions{
		Phases:      conds.Phases,
		Elements:    []string{"AL"},
		Temperature: 1000, Pressure: 101325,
	}
	_, err := NewRKMModel(active[1], db.Parameters(), narrow, vars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tracked constituents")

	// A phase holding only vacancies has no usable degrees of freedom.
	vac := NewDatabase()
	require.NoError(t, vac.AddPhase(Phase{
		Name:        "GAS",
		Sublattices: []Sublattice{{Sites: 1, Species: []string{"VA"}}},
	}))
	vconds := &Conditions{
		Phases:      map[string]PhaseStatus{"GAS": StatusEntered},
		Elements:    []string{"VA"},
		Temperature: 1000, Pressure: 101325,
	}
	p, _ := vac.Phase("GAS")
	vvars := buildVariableMap([]*Phase{p}, vconds)
	_, err = NewRKMModel(p, vac.Parameters(), vconds, vvars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacancies")
}

func TestRKMModelVariables(t *testing.T) {
	m, _ := alphaModel(t)
	assert.Equal(t, "ALPHA", m.Phase())
	if diff := cmp.Diff([]string{"ALPHA_0_AL", "ALPHA_0_NI"}, m.Variables()); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

// TestRKMModelEnergy evaluates the assembled energy at the equimolar point
// against the hand-computed reference, ideal mixing and excess terms.
func TestRKMModelEnergy(t *testing.T) {
	m, conds := alphaModel(t)

	energy := m.Energy()
	// State variables were bound numerically at build time.
	for _, name := range energy.FreeVariables() {
		assert.NotEqual(t, VarTemperature, name)
		assert.NotEqual(t, VarPressure, name)
	}

	got, err := symdiff.Eval(energy, map[string]float64{
		"ALPHA_0_AL": 0.5,
		"ALPHA_0_NI": 0.5,
	})
	require.NoError(t, err)

	ref := 0.5*-1000 + 0.5*-2000
	idmix := GasConstant * conds.Temperature * math.Log(0.5)
	excess := 0.25 * -500 // the order-1 term vanishes at y_AL = y_NI
	assert.InDelta(t, ref+idmix+excess, got, 1e-9)
}

// The order-1 Redlich-Kister term carries the (y_AL - y_NI) factor away
// from the equimolar point.
func TestRKMModelExcessOrder(t *testing.T) {
	m, conds := alphaModel(t)

	yAL, yNI := 0.7, 0.3
	got, err := symdiff.Eval(m.Energy(), map[string]float64{
		"ALPHA_0_AL": yAL,
		"ALPHA_0_NI": yNI,
	})
	require.NoError(t, err)

	ref := yAL*-1000 + yNI*-2000
	idmix := GasConstant * conds.Temperature * (yAL*math.Log(yAL) + yNI*math.Log(yNI))
	excess := yAL*yNI*-500 + yAL*yNI*(yAL-yNI)*100
	assert.InDelta(t, ref+idmix+excess, got, 1e-9)
}

// BETA is a two-sublattice compound: the energy is normalized by the
// site-ratio weighted occupancy so it stays per mole of atoms.
func TestRKMModelNormalization(t *testing.T) {
	db := binaryDatabase(t)
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[1], db.Parameters(), conds, vars)
	require.NoError(t, err)

	got, err := symdiff.Eval(m.Energy(), map[string]float64{
		"BETA_0_AL": 1e-12,
		"BETA_0_NI": 1,
		"BETA_1_NI": 1,
	})
	require.NoError(t, err)

	// Nearly pure NI:NI endmember, -3000 J per 4 moles of sites.
	assert.InDelta(t, -3000.0/4, got, 1)
}

func TestRKMModelMoles(t *testing.T) {
	m, _ := alphaModel(t)
	b := map[string]float64{"ALPHA_0_AL": 0.3, "ALPHA_0_NI": 0.7}

	for element, want := range map[string]float64{"AL": 0.3, "NI": 0.7} {
		got, err := symdiff.Eval(m.Moles(element), b)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12, element)
	}

	// An element absent from the phase contributes zero moles.
	got, err := symdiff.Eval(m.Moles("CR"), b)
	require.NoError(t, err)
	assert.Zero(t, got)
}

// Vacancies occupy sites but carry no atoms: they are excluded from both
// the numerator and denominator of the mole fraction.
func TestRKMModelMolesVacancy(t *testing.T) {
	db := NewDatabase()
	require.NoError(t, db.AddPhase(Phase{
		Name: "FCC",
		Sublattices: []Sublattice{
			{Sites: 1, Species: []string{"AL", "NI"}},
			{Sites: 1, Species: []string{"VA"}},
		},
	}))
	conds := &Conditions{
		Phases:      map[string]PhaseStatus{"FCC": StatusEntered},
		Elements:    []string{"AL", "NI", "VA"},
		Temperature: 1000, Pressure: 101325,
	}
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.NoError(t, err)

	got, err := symdiff.Eval(m.Moles("AL"), map[string]float64{
		"FCC_0_AL": 0.2,
		"FCC_0_NI": 0.8,
		"FCC_1_VA": 1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got, 1e-12)
}

func TestRKMModelStartingPoint(t *testing.T) {
	m, _ := alphaModel(t)
	assert.Nil(t, m.StartingPoint())

	m.SetStartingPoint([]float64{0.4, 0.6})
	assert.Equal(t, []float64{0.4, 0.6}, m.StartingPoint())

	assert.Panics(t, func() { m.SetStartingPoint([]float64{1}) })
}

func TestRKMModelHessianSparsity(t *testing.T) {
	db := binaryDatabase(t)
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.NoError(t, err)

	pairs, err := m.HessianSparsity(vars)
	require.NoError(t, err)

	// Dense triangular block over ALPHA_FRAC and the two site fractions.
	assert.Len(t, pairs, 6)
	for _, p := range pairs {
		assert.LessOrEqual(t, p.Row, p.Col)
		assert.GreaterOrEqual(t, p.Row, 0)
		assert.LessOrEqual(t, p.Col, 2)
	}
}

func ternaryDatabase(t *testing.T, order int) (*Database, *Conditions) {
	t.Helper()
	db := NewDatabase()
	require.NoError(t, db.AddPhase(Phase{
		Name:        "TERN",
		Sublattices: []Sublattice{{Sites: 1, Species: []string{"AL", "CR", "NI"}}},
	}))
	db.AddParameter(Parameter{
		Phase: "TERN", Type: "L",
		Constituents: [][]string{{"AL", "CR", "NI"}},
		Order:        order,
		Value:        symdiff.Num(-9000),
	})
	conds := &Conditions{
		Phases:      map[string]PhaseStatus{"TERN": StatusEntered},
		Elements:    []string{"AL", "CR", "NI"},
		Temperature: 1000, Pressure: 101325,
	}
	return db, conds
}

// A three-constituent interaction carries the Muggianu factor: the site
// fraction selected by the parameter order, shifted by (1 - Σy)/3.
func TestRKMModelTernaryMuggianu(t *testing.T) {
	db, conds := ternaryDatabase(t, 0)
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.NoError(t, err)

	// Away from Σy = 1 so the correction term is nonzero.
	yAL, yCR, yNI := 0.2, 0.3, 0.4
	got, err := symdiff.Eval(m.Energy(), map[string]float64{
		"TERN_0_AL": yAL,
		"TERN_0_CR": yCR,
		"TERN_0_NI": yNI,
	})
	require.NoError(t, err)

	sum := yAL + yCR + yNI
	idmix := GasConstant * conds.Temperature *
		(yAL*math.Log(yAL) + yCR*math.Log(yCR) + yNI*math.Log(yNI))
	corrected := yAL + (1-sum)/3 // order 0 selects y_AL
	excess := yAL * yCR * yNI * corrected * -9000
	assert.InDelta(t, (idmix+excess)/sum, got, 1e-9)
}

// A ternary order outside the constituent range would drop the Muggianu
// factor and silently change the energy, so model construction refuses it.
func TestRKMModelTernaryOrderOutOfRange(t *testing.T) {
	db, conds := ternaryDatabase(t, 3)
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	_, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ternary parameter order")
}

// Parameters referencing species outside the tracked set are ignored
// rather than producing dangling variable references.
func TestRKMModelIgnoresUntrackedParameters(t *testing.T) {
	db := binaryDatabase(t)
	db.AddParameter(Parameter{
		Phase: "ALPHA", Type: "L",
		Constituents: [][]string{{"AL", "CR"}},
		Value:        symdiff.Num(1e6),
	})
	conds := binaryConditions()
	active := conds.ActivePhases(db)
	vars := buildVariableMap(active, conds)
	m, err := NewRKMModel(active[0], db.Parameters(), conds, vars)
	require.NoError(t, err)

	for _, name := range m.Energy().FreeVariables() {
		_, err := vars.Index(name)
		assert.NoError(t, err, name)
	}
}

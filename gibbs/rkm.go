// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"fmt"

	"github.com/bocklund/pycalphad/symdiff"
)

// GasConstant is the molar gas constant in J/(mol·K).
const GasConstant = 8.3145

// State-variable names understood in parameter expressions.
const (
	VarTemperature = "T"
	VarPressure    = "P"
)

// RKMModel is a Redlich-Kister-Muggianu composition model: the weighted
// endmember reference energy, the ideal mixing entropy and the excess
// mixing energy in Redlich-Kister polynomial basis with the Muggianu
// ternary extension, all normalized per mole of sites.
type RKMModel struct {
	phase  *Phase
	active [][]string // tracked species per sublattice, definition order
	vars   []string
	energy *symdiff.Tree
	start  []float64
}

// NewRKMModel builds the energy tree of one phase from the database's
// parameter set under the given conditions. State variables in parameter
// expressions are bound numerically at build time. Every sublattice must
// host at least one tracked species, and at least one sublattice must host
// a species with atoms; otherwise the phase has no usable degrees of
// freedom and an error is returned.
func NewRKMModel(phase *Phase, params *ParameterSet, conds *Conditions, vars *VariableMap) (*RKMModel, error) {
	m := &RKMModel{phase: phase}

	anyAtoms := false
	for l, subl := range phase.Sublattices {
		var active []string
		for _, sp := range subl.Species {
			if conds.Tracks(sp) {
				active = append(active, sp)
				anyAtoms = anyAtoms || speciesAtoms(sp) > 0
			}
		}
		if len(active) == 0 {
			return nil, fmt.Errorf("gibbs: %s: sublattice %d has no tracked constituents", phase.Name, l)
		}
		m.active = append(m.active, active)
	}
	if !anyAtoms {
		return nil, fmt.Errorf("gibbs: %s: all sublattices contain only vacancies", phase.Name)
	}

	for l, active := range m.active {
		for _, sp := range active {
			name := SiteFractionVariable(phase.Name, l, sp)
			if _, err := vars.Index(name); err != nil {
				return nil, err
			}
			m.vars = append(m.vars, name)
		}
	}

	norm := m.siteRatioNormalization()
	ref, err := m.referenceEnergy(params)
	if err != nil {
		return nil, err
	}
	excess, err := m.excessMixingEnergy(params)
	if err != nil {
		return nil, err
	}
	idmix := m.idealMixingEnergy()

	energy := symdiff.Add(
		symdiff.Div(ref, norm),
		symdiff.Div(idmix, norm),
		symdiff.Div(excess, norm),
	)
	energy = symdiff.Substitute(energy, VarTemperature, symdiff.Num(conds.Temperature))
	energy = symdiff.Substitute(energy, VarPressure, symdiff.Num(conds.Pressure))
	m.energy = energy
	return m, nil
}

func (m *RKMModel) Phase() string            { return m.phase.Name }
func (m *RKMModel) Energy() *symdiff.Tree    { return m.energy }
func (m *RKMModel) Variables() []string      { return m.vars }
func (m *RKMModel) StartingPoint() []float64 { return m.start }

func (m *RKMModel) SetStartingPoint(point []float64) {
	if len(point) != len(m.vars) {
		panic(fmt.Sprintf("gibbs: %s: starting point has %d values for %d variables",
			m.phase.Name, len(point), len(m.vars)))
	}
	m.start = append([]float64(nil), point...)
}

// HessianSparsity reports a dense triangular block over the phase-fraction
// variable and the model's site fractions. The energy couples all of the
// phase's degrees of freedom, so no finer pattern is claimed.
func (m *RKMModel) HessianSparsity(vars *VariableMap) ([]IndexPair, error) {
	names := append([]string{PhaseFractionVariable(m.phase.Name)}, m.vars...)
	idx := make([]int, len(names))
	for k, n := range names {
		i, err := vars.Index(n)
		if err != nil {
			return nil, err
		}
		idx[k] = i
	}
	var pairs []IndexPair
	for a := 0; a < len(idx); a++ {
		for b := a; b < len(idx); b++ {
			pairs = append(pairs, MakePair(idx[a], idx[b]))
		}
	}
	return pairs, nil
}

// Moles returns the mole-fraction tree of an element within the phase:
// the site-ratio weighted occupancy of the element over the site-ratio
// weighted occupancy of everything with atoms.
func (m *RKMModel) Moles(element string) *symdiff.Tree {
	num := symdiff.Num(0)
	var numTerms []*symdiff.Tree
	var denTerms []*symdiff.Tree
	for l, active := range m.active {
		sites := symdiff.Num(m.phase.Sublattices[l].Sites)
		for _, sp := range active {
			if speciesAtoms(sp) == 0 {
				continue
			}
			y := m.siteFraction(l, sp)
			denTerms = append(denTerms, symdiff.Mul(sites, y))
			if sp == element {
				numTerms = append(numTerms, symdiff.Mul(sites, y))
			}
		}
	}
	if len(numTerms) > 0 {
		num = symdiff.Add(numTerms...)
	}
	return symdiff.Div(num, symdiff.Add(denTerms...))
}

func (m *RKMModel) siteFraction(sublattice int, species string) *symdiff.Tree {
	return symdiff.Var(SiteFractionVariable(m.phase.Name, sublattice, species))
}

// siteRatioNormalization is Σₗ aₗ·Σₛ yₗₛ over species with atoms.
func (m *RKMModel) siteRatioNormalization() *symdiff.Tree {
	var terms []*symdiff.Tree
	for l, active := range m.active {
		sites := symdiff.Num(m.phase.Sublattices[l].Sites)
		for _, sp := range active {
			if speciesAtoms(sp) == 0 {
				continue
			}
			terms = append(terms, symdiff.Mul(sites, m.siteFraction(l, sp)))
		}
	}
	return symdiff.Add(terms...)
}

// referenceEnergy is the weighted average of the endmember energies:
// the zeroth-order G parameters with exactly one constituent per sublattice.
func (m *RKMModel) referenceEnergy(params *ParameterSet) (*symdiff.Tree, error) {
	pure := params.Search(func(p *Parameter) bool {
		return p.Phase == m.phase.Name && p.Type == "G" && p.Order == 0 &&
			m.arrayValid(p.Constituents) && isEndmember(p.Constituents)
	})
	return m.redlichKisterSum(pure)
}

// idealMixingEnergy is R·T·Σₗ aₗ·Σₛ yₗₛ·ln(yₗₛ). T stays symbolic here and
// is bound numerically by the caller.
func (m *RKMModel) idealMixingEnergy() *symdiff.Tree {
	var terms []*symdiff.Tree
	for l, active := range m.active {
		sites := symdiff.Num(m.phase.Sublattices[l].Sites)
		for _, sp := range active {
			y := m.siteFraction(l, sp)
			terms = append(terms, symdiff.Mul(sites, y, symdiff.Ln(y)))
		}
	}
	if len(terms) == 0 {
		return symdiff.Num(0)
	}
	return symdiff.Mul(symdiff.Num(GasConstant), symdiff.Var(VarTemperature), symdiff.Add(terms...))
}

// excessMixingEnergy is the interaction contribution in Redlich-Kister
// polynomial basis with the Muggianu ternary extension.
func (m *RKMModel) excessMixingEnergy(params *ParameterSet) (*symdiff.Tree, error) {
	inter := params.Search(func(p *Parameter) bool {
		return p.Phase == m.phase.Name && (p.Type == "G" || p.Type == "L") &&
			m.arrayValid(p.Constituents) && isInteraction(p.Constituents)
	})
	return m.redlichKisterSum(inter)
}

// redlichKisterSum constructs Σ over parameters of the sublattice occupancy
// product times the parameter value, with the (yᵢ−yⱼ)^order polynomial for
// binary interactions and the Muggianu correction for ternary ones.
func (m *RKMModel) redlichKisterSum(params []*Parameter) (*symdiff.Tree, error) {
	var rkTerms []*symdiff.Tree
	for _, p := range params {
		var factors []*symdiff.Tree
		for l, comps := range p.Constituents {
			syms := make([]*symdiff.Tree, len(comps))
			for k, sp := range comps {
				syms[k] = m.siteFraction(l, sp)
			}
			factors = append(factors, syms...)
			if len(comps) == 2 && p.Order > 0 {
				factors = append(factors,
					symdiff.Pow(symdiff.Sub(syms[0], syms[1]), symdiff.Num(float64(p.Order))))
			}
			if len(comps) == 3 {
				// Muggianu correction: the site fraction selected by the
				// parameter order is shifted by (1 - Σy)/3 so the binary
				// parameter stays symmetric in higher-order systems.
				if p.Order < 0 || p.Order >= len(syms) {
					return nil, fmt.Errorf("gibbs: %s: ternary parameter order %d outside [0,3)",
						m.phase.Name, p.Order)
				}
				corrected := symdiff.Add(syms[p.Order],
					symdiff.Div(symdiff.Sub(symdiff.Num(1), symdiff.Add(syms...)), symdiff.Num(3)))
				factors = append(factors, corrected)
			}
		}
		factors = append(factors, p.Value)
		rkTerms = append(rkTerms, symdiff.Mul(factors...))
	}
	if len(rkTerms) == 0 {
		return symdiff.Num(0), nil
	}
	return symdiff.Add(rkTerms...), nil
}

// arrayValid reports whether every constituent list is a subset of the
// tracked species of its sublattice.
func (m *RKMModel) arrayValid(constituents [][]string) bool {
	if len(constituents) != len(m.active) {
		return false
	}
	for l, comps := range constituents {
		for _, sp := range comps {
			if !contains(m.active[l], sp) {
				return false
			}
		}
	}
	return true
}

func isEndmember(constituents [][]string) bool {
	for _, comps := range constituents {
		if len(comps) != 1 {
			return false
		}
	}
	return true
}

func isInteraction(constituents [][]string) bool {
	for _, comps := range constituents {
		if len(comps) > 1 {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// speciesAtoms is the atom count of a species; vacancies carry none.
func speciesAtoms(species string) int {
	if species == "VA" {
		return 0
	}
	return 1
}

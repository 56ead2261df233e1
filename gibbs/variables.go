// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"fmt"
)

// VariableNotFoundError reports a lookup of a name the variable map does not
// contain. All downstream indexing assumes successful lookups, so this is
// always a hard failure.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("gibbs: variable %q not in variable map", e.Name)
}

// PhaseFractionVariable returns the name of a phase's fraction variable.
func PhaseFractionVariable(phase string) string {
	return phase + "_FRAC"
}

// SiteFractionVariable returns the name of the site-fraction variable for a
// species on a sublattice of a phase.
func SiteFractionVariable(phase string, sublattice int, species string) string {
	return fmt.Sprintf("%s_%d_%s", phase, sublattice, species)
}

// VariableMap is the bidirectional mapping between optimization-variable
// names and contiguous indices in [0, Len). It is built once during problem
// assembly and read-only afterwards. Two synchronized structures back it:
// a name→index map and an index→name slice.
type VariableMap struct {
	index map[string]int
	names []string
}

// buildVariableMap enumerates one phase-fraction variable per active phase
// and one site-fraction variable per (phase, sublattice, tracked species)
// triple, in phase order then definition order.
func buildVariableMap(active []*Phase, conds *Conditions) *VariableMap {
	m := &VariableMap{index: make(map[string]int)}
	for _, phase := range active {
		m.add(PhaseFractionVariable(phase.Name))
		for l, subl := range phase.Sublattices {
			for _, sp := range subl.Species {
				if conds.Tracks(sp) {
					m.add(SiteFractionVariable(phase.Name, l, sp))
				}
			}
		}
	}
	return m
}

func (m *VariableMap) add(name string) {
	if _, ok := m.index[name]; ok {
		panic(fmt.Sprintf("gibbs: variable %q enumerated twice", name))
	}
	m.index[name] = len(m.names)
	m.names = append(m.names, name)
}

// Index returns the index of a variable name.
func (m *VariableMap) Index(name string) (int, error) {
	i, ok := m.index[name]
	if !ok {
		return 0, &VariableNotFoundError{Name: name}
	}
	return i, nil
}

// Name returns the variable name at index i. It panics when i is outside
// [0, Len): indices only ever originate from this map.
func (m *VariableMap) Name(i int) string {
	if i < 0 || i >= len(m.names) {
		panic(fmt.Sprintf("gibbs: variable index %d out of range [0,%d)", i, len(m.names)))
	}
	return m.names[i]
}

// Len returns the number of variables.
func (m *VariableMap) Len() int { return len(m.names) }

// Names returns a copy of the index→name slice.
func (m *VariableMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

// PhaseStatus controls whether a phase participates in the equilibrium.
type PhaseStatus int

const (
	// StatusEntered phases participate in the minimization.
	StatusEntered PhaseStatus = iota
	// StatusSuspended phases are excluded from the calculation.
	StatusSuspended
	// StatusDormant phases are excluded but may be monitored downstream.
	StatusDormant
)

func (s PhaseStatus) String() string {
	switch s {
	case StatusEntered:
		return "ENTERED"
	case StatusSuspended:
		return "SUSPENDED"
	case StatusDormant:
		return "DORMANT"
	}
	return "UNKNOWN"
}

// Conditions describes the system state the problem is assembled for.
type Conditions struct {
	// Phases maps phase names to their status. Only entered phases are
	// active; phases absent from the map are ignored.
	Phases map[string]PhaseStatus
	// Elements lists the tracked species. Species outside this list carry
	// no site-fraction variables and contribute nothing to any constraint.
	Elements []string
	// MoleFractions maps an element to its target overall mole fraction.
	// Each entry produces one mass-balance constraint.
	MoleFractions map[string]float64
	// Temperature in kelvin and Pressure in pascal; bound numerically into
	// parameter expressions at model-build time.
	Temperature float64
	Pressure    float64
}

// Tracks reports whether the species is on the tracked element list.
func (c *Conditions) Tracks(species string) bool {
	for _, e := range c.Elements {
		if e == species {
			return true
		}
	}
	return false
}

// ActivePhases returns the entered phases found in the database, sorted by
// name. Entered phases missing from the database are skipped.
func (c *Conditions) ActivePhases(db *Database) []*Phase {
	var active []*Phase
	for _, name := range db.PhaseNames() {
		if c.Phases[name] == StatusEntered {
			if _, declared := c.Phases[name]; declared {
				p, _ := db.Phase(name)
				active = append(active, p)
			}
		}
	}
	return active
}

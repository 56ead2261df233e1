// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bocklund/pycalphad/gibbs"
	"github.com/bocklund/pycalphad/symdiff"
)

// systemFile mirrors the YAML layout of a system description.
type systemFile struct {
	Temperature   float64            `yaml:"temperature"`
	Pressure      float64            `yaml:"pressure"`
	Elements      []string           `yaml:"elements"`
	MoleFractions map[string]float64 `yaml:"mole_fractions"`
	Phases        []phaseEntry       `yaml:"phases"`
	Parameters    []parameterEntry   `yaml:"parameters"`
}

type phaseEntry struct {
	Name        string            `yaml:"name"`
	Status      string            `yaml:"status"`
	Sublattices []sublatticeEntry `yaml:"sublattices"`
}

type sublatticeEntry struct {
	Sites   float64  `yaml:"sites"`
	Species []string `yaml:"species"`
}

// parameterEntry carries a Gibbs energy parameter whose value is the
// polynomial A + B*T + C*T*ln(T).
type parameterEntry struct {
	Phase        string     `yaml:"phase"`
	Type         string     `yaml:"type"`
	Constituents [][]string `yaml:"constituents"`
	Order        int        `yaml:"order"`
	A            float64    `yaml:"a"`
	B            float64    `yaml:"b"`
	C            float64    `yaml:"c"`
}

func loadSystem(path string) (*systemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system file: %w", err)
	}
	var sys systemFile
	if err := yaml.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &sys, nil
}

func parseStatus(s string) (gibbs.PhaseStatus, error) {
	switch strings.ToUpper(s) {
	case "", "ENTERED":
		return gibbs.StatusEntered, nil
	case "SUSPENDED":
		return gibbs.StatusSuspended, nil
	case "DORMANT":
		return gibbs.StatusDormant, nil
	}
	return 0, fmt.Errorf("unknown phase status %q", s)
}

// build converts the decoded file into a database and conditions pair.
func (s *systemFile) build() (*gibbs.Database, *gibbs.Conditions, error) {
	db := gibbs.NewDatabase()
	conds := &gibbs.Conditions{
		Phases:        make(map[string]gibbs.PhaseStatus, len(s.Phases)),
		Elements:      s.Elements,
		MoleFractions: s.MoleFractions,
		Temperature:   s.Temperature,
		Pressure:      s.Pressure,
	}

	for _, p := range s.Phases {
		phase := gibbs.Phase{Name: p.Name}
		for _, sub := range p.Sublattices {
			phase.Sublattices = append(phase.Sublattices, gibbs.Sublattice{
				Sites:   sub.Sites,
				Species: sub.Species,
			})
		}
		if err := db.AddPhase(phase); err != nil {
			return nil, nil, err
		}
		status, err := parseStatus(p.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("phase %s: %w", p.Name, err)
		}
		conds.Phases[p.Name] = status
	}

	for _, p := range s.Parameters {
		db.AddParameter(gibbs.Parameter{
			Phase:        p.Phase,
			Type:         p.Type,
			Constituents: p.Constituents,
			Order:        p.Order,
			Value:        parameterTree(p.A, p.B, p.C),
		})
	}

	return db, conds, nil
}

// parameterTree builds A + B*T + C*T*ln(T), dropping terms whose
// coefficient is zero.
func parameterTree(a, b, c float64) *symdiff.Tree {
	t := symdiff.Var(gibbs.VarTemperature)
	expr := symdiff.Num(a)
	if b != 0 {
		expr = symdiff.Add(expr, symdiff.Mul(symdiff.Num(b), t))
	}
	if c != 0 {
		expr = symdiff.Add(expr, symdiff.Mul(symdiff.Num(c), symdiff.Mul(t, symdiff.Ln(t))))
	}
	return expr
}

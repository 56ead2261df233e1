// Copyright ©2025 bocklund. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gibbs

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/bocklund/pycalphad/symdiff"
)

// HessianEntry holds the second-derivative trees at one variable pair,
// keyed by constraint index. The pair obeys the triangular Row ≤ Col
// convention; the mirrored pair is implied by symmetry of mixed partials.
type HessianEntry struct {
	Pair  IndexPair
	Trees map[int]*symdiff.Tree
}

// SparsityStructure is the set of variable-index pairs known to carry a
// nonzero second derivative, merged from the composition models' objective
// contributions and from constraint second derivatives.
type SparsityStructure struct {
	pairs map[IndexPair]struct{}
}

func newSparsityStructure() *SparsityStructure {
	return &SparsityStructure{pairs: make(map[IndexPair]struct{})}
}

// Insert adds a pair. Pairs violating the triangular convention indicate a
// broken invariant and fail fast.
func (s *SparsityStructure) Insert(p IndexPair) {
	if p.Row > p.Col {
		panic(fmt.Sprintf("gibbs: sparsity pair (%d,%d) violates row<=col", p.Row, p.Col))
	}
	s.pairs[p] = struct{}{}
}

// Contains reports membership of the normalized pair (i,j).
func (s *SparsityStructure) Contains(i, j int) bool {
	_, ok := s.pairs[MakePair(i, j)]
	return ok
}

// Len returns the number of distinct pairs.
func (s *SparsityStructure) Len() int { return len(s.pairs) }

// Pairs returns the pairs sorted by (row, col).
func (s *SparsityStructure) Pairs() []IndexPair {
	out := make([]IndexPair, 0, len(s.pairs))
	for p := range s.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Row != out[b].Row {
			return out[a].Row < out[b].Row
		}
		return out[a].Col < out[b].Col
	})
	return out
}

// buildHessian computes the constraint second derivatives over the
// triangular region and merges them with the composition models' sparsity
// contributions, which were already inserted into sparsity by the caller.
//
// For every variable i and Jacobian entry j, the pair (i, j.VarIndex) is
// visited only when i ≤ j.VarIndex; the upper triangle is skipped by
// symmetry. A second derivative that simplifies to the zero constant is
// dropped. Everything else is recorded under the entry for its pair,
// merging per-constraint trees into any existing entry.
func buildHessian(vars *VariableMap, jac []JacobianEntry, sparsity *SparsityStructure, log *zap.Logger) []HessianEntry {
	entries := make(map[IndexPair]*HessianEntry)
	for i := 0; i < vars.Len(); i++ {
		name := vars.Name(i)
		for _, j := range jac {
			if i > j.VarIndex {
				continue // upper triangle, implied by symmetry
			}
			second := symdiff.Differentiate(j.Derivative, name)
			if symdiff.IsZero(second) {
				continue // don't add zeros to the Hessian
			}
			pair := IndexPair{Row: i, Col: j.VarIndex}
			e, ok := entries[pair]
			if !ok {
				e = &HessianEntry{Pair: pair, Trees: make(map[int]*symdiff.Tree)}
				entries[pair] = e
			}
			if _, dup := e.Trees[j.ConsIndex]; dup {
				panic(fmt.Sprintf("gibbs: hessian entry (%d,%d) already holds constraint %d",
					pair.Row, pair.Col, j.ConsIndex))
			}
			e.Trees[j.ConsIndex] = second
			sparsity.Insert(pair)
			log.Debug("constraint hessian entry pre-calculated",
				zap.Int("constraint", j.ConsIndex),
				zap.Int("row", pair.Row), zap.Int("col", pair.Col))
		}
	}

	out := make([]HessianEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Pair.Row != out[b].Pair.Row {
			return out[a].Pair.Row < out[b].Pair.Row
		}
		return out[a].Pair.Col < out[b].Pair.Col
	})
	return out
}

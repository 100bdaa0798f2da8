// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"slices"

	"github.com/pdiddy/prereqs/pkg/types"
)

// Expand computes the cartesian product of groups: each result alternative
// concatenates one alternative from every group, in group order. The
// result has the product of the groups' alternative counts as its length
// and is ordered by the first group's alternatives, then the second's, and
// so on. Duplicate clauses are kept. No groups expands to an empty DNF.
//
// Every result alternative is a fresh slice; the input is not modified.
func Expand(groups []types.RequiredGroup) types.DNF {
	if len(groups) == 0 {
		return types.DNF{}
	}

	acc := make(types.DNF, 0, len(groups[0].Alternatives))
	for _, alt := range groups[0].Alternatives {
		acc = append(acc, slices.Clone(alt))
	}

	for _, g := range groups[1:] {
		next := make(types.DNF, 0, len(acc)*len(g.Alternatives))
		for _, partial := range acc {
			for _, alt := range g.Alternatives {
				next = append(next, slices.Concat(partial, alt))
			}
		}
		acc = next
	}
	return acc
}

// Count returns the number of alternatives Expand would produce without
// building them.
func Count(groups []types.RequiredGroup) int {
	if len(groups) == 0 {
		return 0
	}
	n := 1
	for _, g := range groups {
		n *= len(g.Alternatives)
	}
	return n
}

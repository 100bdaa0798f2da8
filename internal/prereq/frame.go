// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"github.com/pdiddy/prereqs/pkg/types"
)

// frameState is the state of one parsing frame.
type frameState int

const (
	// buildingConjunction collects factors joined by AND. Every frame
	// starts here.
	buildingConjunction frameState = iota
	// awaitingDisjunct follows an OR: the previous conjunction is closed
	// and the next factor starts a new one.
	awaitingDisjunct
)

func (s frameState) String() string {
	if s == awaitingDisjunct {
		return "AwaitingDisjunct"
	}
	return "BuildingConjunction"
}

// frame accumulates one parenthesis level. conj holds the factors of the
// conjunction being built, each factor one or more RequiredGroups;
// disjuncts holds the conjunctions already closed by OR.
type frame struct {
	state     frameState
	conj      []types.RequiredGroup
	disjuncts [][]types.RequiredGroup
}

// clause adds a single leaf as a factor of the current conjunction.
func (f *frame) clause(c types.Clause) {
	f.factor(types.RequiredGroup{Alternatives: []types.Alternative{{c}}})
}

// group adds a parenthesized sub-result as a factor of the current
// conjunction. An empty sub-result, as from "()", adds nothing.
func (f *frame) group(sub []types.RequiredGroup) {
	f.factor(sub...)
}

func (f *frame) factor(groups ...types.RequiredGroup) {
	if len(groups) == 0 {
		return
	}
	f.state = buildingConjunction
	f.conj = append(f.conj, groups...)
}

// and keeps building the current conjunction.
func (f *frame) and() {
	f.state = buildingConjunction
}

// or closes the current conjunction as a disjunct.
func (f *frame) or() {
	f.closeConjunction()
	f.state = awaitingDisjunct
}

func (f *frame) closeConjunction() {
	if len(f.conj) == 0 {
		return
	}
	f.disjuncts = append(f.disjuncts, f.conj)
	f.conj = nil
}

// finish closes the frame. A single disjunct keeps its groups, so
// "A and B" stays two groups. Several disjuncts collapse into one group
// whose alternatives are the expansions of each disjunct, in order.
func (f *frame) finish() []types.RequiredGroup {
	f.closeConjunction()
	switch len(f.disjuncts) {
	case 0:
		return nil
	case 1:
		return f.disjuncts[0]
	}
	var alts []types.Alternative
	for _, d := range f.disjuncts {
		alts = append(alts, Expand(d)...)
	}
	return []types.RequiredGroup{{Alternatives: alts}}
}

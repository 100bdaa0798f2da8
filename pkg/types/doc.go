// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the prereqs pipeline:
// the prerequisite logic tree and its DNF expansion, catalog course records,
// and the configuration for each stage.
//
// The tree is three levels deep. LogicTree.Groups are combined with AND,
// each RequiredGroup lists Alternatives combined with OR, and each
// Alternative lists Clauses combined with AND.
package types

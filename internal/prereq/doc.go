// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prereq parses catalog prerequisite descriptions into a LogicTree
// and expands the tree into disjunctive normal form.
//
// The grammar is fixed and keyword driven:
//
//	CPSC 1230: C or better and (MATH 1334: C or better or MATH 1521: C or better)
//
// A clause is a course code, a colon, a grade and "or better". The phrase
// "can be taken concurrently" before the colon marks the clause concurrent.
// Clauses combine with AND and OR (case-insensitive, whole words only) and
// parentheses group sub-expressions. AND binds tighter than OR; adjacent
// clauses with no keyword are joined with AND.
//
// Parsing is a pure function of its input. A Parser holds only
// configuration and is safe for concurrent use.
package prereq

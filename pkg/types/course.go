// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Course holds one catalog course with its parsed requirement sections.
type Course struct {
	// Code is the course code (e.g. "CPSC 1230").
	Code string `json:"code" yaml:"code"`

	// Name is the course title.
	Name string `json:"name" yaml:"name"`

	// Description is the catalog description with line breaks removed.
	Description string `json:"description" yaml:"description"`

	// Credits is the credit value as listed; empty when the catalog has none.
	// Ranges such as "1 - 5" keep the upper bound.
	Credits string `json:"credits" yaml:"credits"`

	// Attributes lists the raw attribute names (e.g. "Upper-Division").
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Restrictions is the raw restrictions line.
	Restrictions string `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`

	// PrerequisiteText is the raw prerequisite description.
	PrerequisiteText string `json:"prerequisite_text,omitempty" yaml:"prerequisite_text,omitempty"`

	// Prerequisites is the parsed prerequisite; nil when the course has none.
	Prerequisites *Result `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`

	// Corequisites lists corequisite course codes.
	Corequisites []string `json:"corequisites,omitempty" yaml:"corequisites,omitempty"`

	// ApprovalRequired is set when the catalog lists an approval requirement.
	ApprovalRequired bool `json:"approval_required" yaml:"approval_required"`
}

// HasExamRequirement reports whether the parsed prerequisite includes an
// exam placeholder.
func (c Course) HasExamRequirement() bool {
	return c.Prerequisites != nil && c.Prerequisites.Tree.HasExamRequirement
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Clause is one atomic requirement: a course with a minimum grade, or an
// exam placeholder when Exam is set. Exam placeholders carry no grade and
// no concurrency flag. Clauses are values and are never modified after
// the parser builds them.
type Clause struct {
	// CourseID is the course code as it appears in the catalog (e.g. "CPSC 1230").
	CourseID string `json:"course_id" yaml:"course_id"`

	// MinGrade is the minimum grade token, stored verbatim (e.g. "C-").
	MinGrade string `json:"min_grade" yaml:"min_grade"`

	// ConcurrentAllowed reports whether the course may be taken in the same term.
	ConcurrentAllowed bool `json:"concurrent_allowed" yaml:"concurrent_allowed"`

	// Exam holds the placeholder phrase (e.g. "Math Placement Test") for
	// requirements that are not courses. Empty for course clauses.
	Exam string `json:"exam,omitempty" yaml:"exam,omitempty"`
}

// CourseClause returns a course requirement.
func CourseClause(courseID, minGrade string, concurrent bool) Clause {
	return Clause{CourseID: courseID, MinGrade: minGrade, ConcurrentAllowed: concurrent}
}

// ExamPlaceholder returns a non-course requirement described by phrase.
func ExamPlaceholder(phrase string) Clause {
	return Clause{Exam: phrase}
}

// IsExam reports whether c is an exam placeholder.
func (c Clause) IsExam() bool {
	return c.Exam != ""
}

// String renders the clause the way the catalog writes it.
func (c Clause) String() string {
	if c.IsExam() {
		return c.Exam
	}
	s := c.CourseID
	if c.ConcurrentAllowed {
		s += " can be taken concurrently"
	}
	return s + ": " + c.MinGrade + " or better"
}

// Alternative is a conjunction of clauses. It is never empty.
type Alternative []Clause

// RequiredGroup is a disjunction: any one of its alternatives satisfies it.
type RequiredGroup struct {
	Alternatives []Alternative `json:"alternatives" yaml:"alternatives"`
}

// LogicTree is the parsed form of one prerequisite description. Every group
// must be satisfied.
type LogicTree struct {
	Groups []RequiredGroup `json:"groups" yaml:"groups"`

	// HasExamRequirement is set when any clause is an exam placeholder.
	HasExamRequirement bool `json:"has_exam_requirement" yaml:"has_exam_requirement"`
}

// IsEmpty reports whether the tree has no requirements.
func (t LogicTree) IsEmpty() bool {
	return len(t.Groups) == 0
}

// DNF is the flat expansion of a LogicTree: satisfying any one alternative
// satisfies the whole prerequisite. An empty DNF means no prerequisites.
type DNF []Alternative

// Result pairs a LogicTree with its DNF expansion.
type Result struct {
	Tree LogicTree `json:"tree" yaml:"tree"`
	DNF  DNF       `json:"dnf" yaml:"dnf"`
}

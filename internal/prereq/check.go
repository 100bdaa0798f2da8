// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"strings"

	"github.com/pdiddy/prereqs/pkg/types"
)

// Record describes what a student has done toward a prerequisite.
type Record struct {
	// Completed lists finished course codes.
	Completed []string `json:"completed" yaml:"completed"`

	// InProgress lists courses taken in the same term; they count only
	// for clauses that allow concurrent enrollment.
	InProgress []string `json:"in_progress" yaml:"in_progress"`

	// ExamsPassed marks every exam placeholder as met.
	ExamsPassed bool `json:"exams_passed" yaml:"exams_passed"`
}

// NormalizeCode upper-cases a course code and collapses its whitespace so
// "cpsc  1230" and "CPSC 1230" compare equal.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), " "))
}

// Satisfying returns the indices of the alternatives in dnf that rec meets.
// Grades are not compared.
func Satisfying(dnf types.DNF, rec Record) []int {
	completed := codeSet(rec.Completed)
	inProgress := codeSet(rec.InProgress)

	var idx []int
	for i, alt := range dnf {
		if meets(alt, completed, inProgress, rec.ExamsPassed) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Satisfies reports whether rec meets dnf. An empty dnf has no
// prerequisites and is always met.
func Satisfies(dnf types.DNF, rec Record) bool {
	return len(dnf) == 0 || len(Satisfying(dnf, rec)) > 0
}

func meets(alt types.Alternative, completed, inProgress map[string]bool, exams bool) bool {
	for _, c := range alt {
		if c.IsExam() {
			if !exams {
				return false
			}
			continue
		}
		code := NormalizeCode(c.CourseID)
		if completed[code] {
			continue
		}
		if c.ConcurrentAllowed && inProgress[code] {
			continue
		}
		return false
	}
	return true
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[NormalizeCode(c)] = true
	}
	return set
}

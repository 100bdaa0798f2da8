// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/prereqs/pkg/types"
)

// extractClause reads one clause starting at token pos: the course code up
// to the next colon, then the grade up to the next "or better". It returns
// the leaf and the index of the first token after "or better".
//
// A course code whose length falls outside the configured band is read as
// an exam placeholder when the exam heuristic is on.
func (p *Parser) extractClause(src string, toks []Token, pos int) (types.Clause, int, error) {
	start := toks[pos].Start

	colon, concurrent := -1, -1
	for i := pos; colon < 0; i++ {
		switch toks[i].Kind {
		case TokColon:
			colon = i
		case TokConcurrently:
			if concurrent < 0 {
				concurrent = i
			}
		case TokOpenParen, TokCloseParen, TokOrBetter, TokEnd:
			return types.Clause{}, 0, errorf(MalformedClause, start, "no ':' after %q", strings.TrimSpace(src[start:toks[i].Start]))
		}
	}

	courseID := clauseText(src[start:toks[colon].Start])
	if concurrent >= 0 {
		before := clauseText(src[start:toks[concurrent].Start])
		after := clauseText(src[toks[concurrent].End:toks[colon].Start])
		courseID = strings.TrimSpace(before + " " + after)
	}
	if courseID == "" {
		return types.Clause{}, 0, errorf(MalformedClause, start, "missing course code before ':'")
	}

	better := -1
	for i := colon + 1; better < 0; i++ {
		switch toks[i].Kind {
		case TokOrBetter:
			better = i
		case TokWord:
		default:
			return types.Clause{}, 0, errorf(MalformedClause, toks[colon].Start, "no \"or better\" after %q", courseID)
		}
	}
	next := better + 1

	if !p.looksLikeCourse(courseID) {
		return types.ExamPlaceholder(courseID), next, nil
	}

	grade := clauseText(src[toks[colon].End:toks[better].Start])
	return types.CourseClause(courseID, grade, concurrent >= 0), next, nil
}

// clauseText trims s and turns no-break spaces into plain ones.
func clauseText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, nbsp, " "))
}

// looksLikeCourse applies the code-length heuristic.
func (p *Parser) looksLikeCourse(courseID string) bool {
	if !p.cfg.ExamHeuristic {
		return true
	}
	n := utf8.RuneCountInString(courseID)
	return n >= p.cfg.MinCodeLength && n <= p.cfg.MaxCodeLength
}

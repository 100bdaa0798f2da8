// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prereqs/pkg/types"
)

func course(id, grade string) types.Clause {
	return types.CourseClause(id, grade, false)
}

func single(c types.Clause) types.RequiredGroup {
	return types.RequiredGroup{Alternatives: []types.Alternative{{c}}}
}

func TestParse(t *testing.T) {
	cpsc := course("CPSC 1230", "C")
	cpsc1420 := course("CPSC 1420", "C-")
	math := course("MATH 1334", "C")
	phys := course("PHYS 1210", "B")

	tests := []struct {
		name  string
		input string
		want  []types.RequiredGroup
	}{
		{
			name:  "single clause",
			input: "CPSC 1230: C or better",
			want:  []types.RequiredGroup{single(cpsc)},
		},
		{
			name:  "and makes one group per clause",
			input: "CPSC 1230: C or better and MATH 1334: C or better",
			want:  []types.RequiredGroup{single(cpsc), single(math)},
		},
		{
			name:  "or makes one group with two alternatives",
			input: "CPSC 1230: C or better or MATH 1334: C or better",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{cpsc}, {math}}},
			},
		},
		{
			name:  "parenthesized or then and",
			input: "(CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334: C or better",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{cpsc}, {cpsc1420}}},
				single(math),
			},
		},
		{
			name:  "and binds tighter than or",
			input: "CPSC 1230: C or better AND MATH 1334: C or better OR PHYS 1210: B or better",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{cpsc, math}, {phys}}},
			},
		},
		{
			name:  "or before and",
			input: "PHYS 1210: B or better or CPSC 1230: C or better and MATH 1334: C or better",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{phys}, {cpsc, math}}},
			},
		},
		{
			name:  "or merges a parenthesized conjunction",
			input: "PHYS 1210: B or better or (CPSC 1230: C or better and MATH 1334: C or better)",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{phys}, {cpsc, math}}},
			},
		},
		{
			name:  "nested parentheses pair by depth",
			input: "((CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334: C or better) or PHYS 1210: B or better",
			want: []types.RequiredGroup{
				{Alternatives: []types.Alternative{{cpsc, math}, {cpsc1420, math}, {phys}}},
			},
		},
		{
			name:  "adjacent clauses are joined with and",
			input: "CPSC 1230: C or better, MATH 1334: C or better",
			want:  []types.RequiredGroup{single(cpsc), single(math)},
		},
		{
			name:  "keywords inside words are not keywords",
			input: "BAND 1000: C or better and ORTHO 1010: C or better",
			want:  []types.RequiredGroup{single(course("BAND 1000", "C")), single(course("ORTHO 1010", "C"))},
		},
		{
			name:  "empty parentheses add nothing",
			input: "() CPSC 1230: C or better",
			want:  []types.RequiredGroup{single(cpsc)},
		},
		{
			name:  "dangling keywords are tolerated",
			input: "and CPSC 1230: C or better or",
			want:  []types.RequiredGroup{single(cpsc)},
		},
		{
			name:  "blank input",
			input: "   ",
			want:  []types.RequiredGroup{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.Groups)
			assert.False(t, tree.HasExamRequirement)
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	tree, err := Parse("CPSC 1230 can be taken concurrently: C or better")
	require.NoError(t, err)
	require.Len(t, tree.Groups, 1)
	assert.Equal(t, types.CourseClause("CPSC 1230", "C", true), tree.Groups[0].Alternatives[0][0])
}

func TestParseNoBreakSpace(t *testing.T) {
	tree, err := Parse("CPSC\u00a01230: C-\u00a0or\u00a0better and MATH 1334 can\u00a0be taken concurrently: C or better")
	require.NoError(t, err)
	assert.Equal(t, []types.RequiredGroup{
		single(course("CPSC 1230", "C-")),
		single(types.CourseClause("MATH 1334", "C", true)),
	}, tree.Groups)
}

func TestParseWithoutExamHeuristic(t *testing.T) {
	p := New(types.ParserConfig{ExamHeuristic: false})

	tree, err := p.Parse("A can be taken concurrently: C or better")
	require.NoError(t, err)
	assert.Equal(t, []types.RequiredGroup{single(types.CourseClause("A", "C", true))}, tree.Groups)

	tree, err = p.Parse("A: C or better and B: C or better")
	require.NoError(t, err)
	assert.Equal(t, []types.RequiredGroup{single(course("A", "C")), single(course("B", "C"))}, tree.Groups)
}

func TestParseExamPlaceholder(t *testing.T) {
	tree, err := Parse("Math Placement Test: 45 or better or MATH 1334: C or better")
	require.NoError(t, err)

	assert.True(t, tree.HasExamRequirement)
	require.Len(t, tree.Groups, 1)
	require.Len(t, tree.Groups[0].Alternatives, 2)

	exam := tree.Groups[0].Alternatives[0][0]
	assert.True(t, exam.IsExam())
	assert.Equal(t, "Math Placement Test", exam.Exam)
	assert.Empty(t, exam.CourseID)
	assert.Empty(t, exam.MinGrade)
	assert.Equal(t, course("MATH 1334", "C"), tree.Groups[0].Alternatives[1][0])
}

func TestParseCodeLengthBand(t *testing.T) {
	p := New(types.ParserConfig{ExamHeuristic: true, MinCodeLength: 5, MaxCodeLength: 6})

	tree, err := p.Parse("CS 101: C or better and CPSC 1230: C or better")
	require.NoError(t, err)
	require.Len(t, tree.Groups, 2)
	assert.Equal(t, course("CS 101", "C"), tree.Groups[0].Alternatives[0][0])
	assert.True(t, tree.Groups[1].Alternatives[0][0].IsExam())
	assert.True(t, tree.HasExamRequirement)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cfg        types.ParserConfig
		wantErr    error
		wantOffset int
	}{
		{"missing colon", "CPSC 1230 C or better", types.ParserConfig{}, ErrMalformedClause, 0},
		{"missing or better", "CPSC 1230: C", types.ParserConfig{}, ErrMalformedClause, 9},
		{"clause runs into parenthesis", "MATH 1334: C or better and (CPSC 1230)", types.ParserConfig{}, ErrMalformedClause, 28},
		{"missing course code", ": C or better", types.ParserConfig{}, ErrMalformedClause, 0},
		{"better inside a longer word", "CPSC 1230: C or betterx", types.ParserConfig{}, ErrMalformedClause, 9},
		{"unclosed parenthesis", "(CPSC 1230: C or better", types.ParserConfig{}, ErrUnbalancedParenthesis, 0},
		{"stray close parenthesis", "CPSC 1230: C or better)", types.ParserConfig{}, ErrUnbalancedParenthesis, 22},
		{"too deep", "(((CPSC 1230: C or better)))", types.ParserConfig{MaxDepth: 2}, ErrRecursionLimit, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ExamHeuristic = true
			_, err := New(cfg).Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantOffset, pe.Offset)
		})
	}
}

func TestParseDepthWithinLimit(t *testing.T) {
	tree, err := New(types.ParserConfig{MaxDepth: 3, ExamHeuristic: true}).Parse("(((CPSC 1230: C or better)))")
	require.NoError(t, err)
	assert.Equal(t, []types.RequiredGroup{single(course("CPSC 1230", "C"))}, tree.Groups)
}

func TestParseIsDeterministic(t *testing.T) {
	input := "(CPSC 1230: C or better or CPSC 1420: C- or better) and (MATH 1334: C or better or Math Placement Test: 45 or better)"
	first, err := ParseAndExpand(input)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ParseAndExpand(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseAndExpand(t *testing.T) {
	res, err := ParseAndExpand("(CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334: C or better")
	require.NoError(t, err)

	math := course("MATH 1334", "C")
	assert.Equal(t, types.DNF{
		{course("CPSC 1230", "C"), math},
		{course("CPSC 1420", "C-"), math},
	}, res.DNF)
}

func TestNewDefaults(t *testing.T) {
	cfg := New(types.ParserConfig{ExamHeuristic: true}).Config()
	assert.Equal(t, types.DefaultParserConfig(), cfg)
}

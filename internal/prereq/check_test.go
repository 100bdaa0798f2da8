// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	res, err := ParseAndExpand("(CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334 can be taken concurrently: C or better")
	require.NoError(t, err)
	require.Len(t, res.DNF, 2)

	tests := []struct {
		name string
		rec  Record
		want []int
	}{
		{"nothing done", Record{}, nil},
		{"first alternative", Record{Completed: []string{"CPSC 1230", "MATH 1334"}}, []int{0}},
		{"codes normalized", Record{Completed: []string{"cpsc  1420", "math 1334"}}, []int{1}},
		{"concurrent course in progress", Record{Completed: []string{"CPSC 1420"}, InProgress: []string{"MATH 1334"}}, []int{1}},
		{"non-concurrent course in progress", Record{Completed: []string{"MATH 1334"}, InProgress: []string{"CPSC 1230"}}, nil},
		{"both", Record{Completed: []string{"CPSC 1230", "CPSC 1420", "MATH 1334"}}, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfying(res.DNF, tt.rec))
			assert.Equal(t, len(tt.want) > 0, Satisfies(res.DNF, tt.rec))
		})
	}
}

func TestSatisfiesExam(t *testing.T) {
	res, err := ParseAndExpand("Math Placement Test: 45 or better or MATH 1334: C or better")
	require.NoError(t, err)

	assert.False(t, Satisfies(res.DNF, Record{}))
	assert.True(t, Satisfies(res.DNF, Record{ExamsPassed: true}))
	assert.Equal(t, []int{1}, Satisfying(res.DNF, Record{Completed: []string{"MATH 1334"}}))
}

func TestSatisfiesNoPrerequisites(t *testing.T) {
	res, err := ParseAndExpand("")
	require.NoError(t, err)
	assert.True(t, Satisfies(res.DNF, Record{}))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"github.com/sourcegraph/conc/iter"

	"github.com/pdiddy/prereqs/pkg/types"
)

// Outcome is the result of assembling one row. Course is set whenever the
// heading could be read, even if Err reports a prerequisite parse failure.
type Outcome struct {
	Row    int
	Course types.Course
	Err    error
}

// Failed reports whether the row needs review.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// BuildAll assembles every row, using up to workers goroutines (0 means
// GOMAXPROCS). Rows share no state, so the output order always matches
// the input order.
func (a *Assembler) BuildAll(rows []Row, workers int) []Outcome {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	mapper := iter.Mapper[int, Outcome]{MaxGoroutines: workers}
	return mapper.Map(idx, func(i *int) Outcome {
		c, err := a.Build(rows[*i])
		return Outcome{Row: *i, Course: c, Err: err}
	})
}

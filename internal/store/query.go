// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/prereqs/pkg/types"
)

const courseColumns = `code, name, description, credits, attributes, restrictions,
	prerequisite_text, prerequisites, dnf, has_exam_requirement, corequisites,
	approval_required, fingerprint, run_id`

// Get returns the course with the given code. Codes are compared after
// whitespace normalization and case folding.
func (s *Store) Get(ctx context.Context, code string) (types.Course, error) {
	var row courseRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+courseColumns+` FROM courses WHERE code = ? COLLATE NOCASE`,
		strings.Join(strings.Fields(code), " "))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Course{}, fmt.Errorf("%s: %w", code, ErrNotFound)
	}
	if err != nil {
		return types.Course{}, fmt.Errorf("looking up course: %w", err)
	}
	return row.course()
}

// ListOptions holds filters for List.
type ListOptions struct {
	// Prefix keeps codes starting with it, e.g. "CPSC".
	Prefix string

	// ExamOnly keeps courses with a placement or exam requirement.
	ExamOnly bool

	// Attribute keeps courses carrying the attribute.
	Attribute string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns courses ordered by code.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Course, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + courseColumns + ` FROM courses WHERE 1=1`)

	if opts.Prefix != "" {
		qb.WriteString(` AND code LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(opts.Prefix)+"%")
	}
	if opts.ExamOnly {
		qb.WriteString(` AND has_exam_requirement = 1`)
	}
	if opts.Attribute != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(attributes) WHERE value = ?)`)
		args = append(args, opts.Attribute)
	}

	qb.WriteString(` ORDER BY code LIMIT ?`)
	args = append(args, maxResults)

	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows, qb.String(), args...); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	courses := make([]types.Course, 0, len(rows))
	for _, r := range rows {
		c, err := r.course()
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Failure is a course whose prerequisite text could not be parsed.
type Failure struct {
	Code  string `db:"code" json:"code" yaml:"code"`
	Text  string `db:"text" json:"text" yaml:"text"`
	Error string `db:"error" json:"error" yaml:"error"`
	Row   int    `db:"row_index" json:"row" yaml:"row"`
	RunID string `db:"run_id" json:"run_id" yaml:"run_id"`
}

// Failures returns the rows awaiting review, ordered by code.
func (s *Store) Failures(ctx context.Context) ([]Failure, error) {
	var out []Failure
	err := s.db.SelectContext(ctx, &out,
		`SELECT code, text, error, row_index, COALESCE(run_id, '') AS run_id
		 FROM parse_failures ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing parse failures: %w", err)
	}
	return out, nil
}

// Run is the record of one ingestion.
type Run struct {
	ID         string `db:"id" json:"id" yaml:"id"`
	StartedAt  string `db:"started_at" json:"started_at" yaml:"started_at"`
	FinishedAt string `db:"finished_at" json:"finished_at" yaml:"finished_at"`
	Indexed    int    `db:"indexed" json:"indexed" yaml:"indexed"`
	Updated    int    `db:"updated" json:"updated" yaml:"updated"`
	Skipped    int    `db:"skipped" json:"skipped" yaml:"skipped"`
	Failed     int    `db:"failed" json:"failed" yaml:"failed"`
}

// Runs returns ingestion runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	var out []Run
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, started_at, COALESCE(finished_at, '') AS finished_at,
			indexed, updated, skipped, failed
		 FROM ingest_runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing ingest runs: %w", err)
	}
	return out, nil
}

// Stats holds table counts.
type Stats struct {
	Courses  int `db:"courses" json:"courses" yaml:"courses"`
	WithExam int `db:"with_exam" json:"with_exam" yaml:"with_exam"`
	Failures int `db:"failures" json:"failures" yaml:"failures"`
}

// Stats returns table counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st,
		`SELECT
			(SELECT COUNT(*) FROM courses) AS courses,
			(SELECT COUNT(*) FROM courses WHERE has_exam_requirement = 1) AS with_exam,
			(SELECT COUNT(*) FROM parse_failures) AS failures`)
	if err != nil {
		return st, fmt.Errorf("counting rows: %w", err)
	}
	return st, nil
}

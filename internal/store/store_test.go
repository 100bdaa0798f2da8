// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereqs/internal/catalog"
	"github.com/pdiddy/prereqs/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{
		Path:       filepath.Join(t.TempDir(), "catalog", "prereqs.db"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRows() []catalog.Row {
	return []catalog.Row{
		{
			Heading:        "CPSC 2430: Data Structures",
			Credits:        "5",
			AdditionalInfo: "Attributes: Upper-Division\nPrerequisites: (CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334 can be taken concurrently: C or better",
		},
		{
			Heading:        "CPSC 1230: Programming I",
			Credits:        "5",
			AdditionalInfo: "Prerequisites: Math Placement Test: 45 or better or MATH 1221: C or better",
		},
		{Heading: "MATH 1221: Precalculus"},
		{
			Heading:        "CPSC 3200: Algorithms",
			AdditionalInfo: "Prerequisites: CPSC 2430: C",
		},
	}
}

func testOutcomes(rows []catalog.Row) []catalog.Outcome {
	return catalog.NewAssembler(types.DefaultParserConfig()).BuildAll(rows, 2)
}

func ingest(t *testing.T, s *Store, rows []catalog.Row) (IngestSummary, string) {
	t.Helper()
	var buf bytes.Buffer
	sum, err := s.Ingest(context.Background(), testOutcomes(rows), &buf)
	require.NoError(t, err)
	return sum, buf.String()
}

// --- store ---

func TestNewStoreCreatesSchema(t *testing.T) {
	s := testStore(t)

	var tables []string
	require.NoError(t, s.db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`))
	assert.Equal(t, []string{"courses", "ingest_runs", "parse_failures"}, tables)
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	s := testStore(t)
	_, err := os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestIngest(t *testing.T) {
	s := testStore(t)
	sum, out := ingest(t, s, testRows())

	assert.Equal(t, 3, sum.Indexed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 4, sum.Total())
	assert.True(t, sum.HasFailures())
	assert.NotEmpty(t, sum.RunID)

	assert.Contains(t, out, "indexing CPSC 2430")
	assert.Contains(t, out, "failed  CPSC 3200")
	assert.Contains(t, out, "indexed: 3, updated: 0, skipped: 0, failed: 1")
}

func TestIngestStoresAllFields(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	c, err := s.Get(context.Background(), "CPSC 2430")
	require.NoError(t, err)

	assert.Equal(t, "Data Structures", c.Name)
	assert.Equal(t, "5", c.Credits)
	assert.Equal(t, []string{"Upper-Division"}, c.Attributes)
	require.NotNil(t, c.Prerequisites)
	assert.Len(t, c.Prerequisites.Tree.Groups, 2)
	require.Len(t, c.Prerequisites.DNF, 2)
	assert.Equal(t, types.CourseClause("MATH 1334", "C", true), c.Prerequisites.DNF[1][1])
	assert.False(t, c.HasExamRequirement())
}

func TestIngestStoresExamRequirement(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	c, err := s.Get(context.Background(), "CPSC 1230")
	require.NoError(t, err)
	assert.True(t, c.HasExamRequirement())
	assert.True(t, c.Prerequisites.DNF[0][0].IsExam())
}

func TestIngestCourseWithoutPrerequisites(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	c, err := s.Get(context.Background(), "MATH 1221")
	require.NoError(t, err)
	assert.Nil(t, c.Prerequisites)
	assert.Nil(t, c.Attributes)
}

func TestIngestSkipsUnchanged(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	sum, out := ingest(t, s, testRows())
	assert.Equal(t, 0, sum.Indexed)
	assert.Equal(t, 3, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, out, "skipped CPSC 2430")
}

func TestIngestUpdatesChanged(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	rows := testRows()
	rows[2].Credits = "4"
	sum, out := ingest(t, s, rows)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 2, sum.Skipped)
	assert.Contains(t, out, "updated MATH 1221")

	c, err := s.Get(context.Background(), "MATH 1221")
	require.NoError(t, err)
	assert.Equal(t, "4", c.Credits)
}

func TestIngestRecordsFailures(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	failures, err := s.Failures(context.Background())
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "CPSC 3200", failures[0].Code)
	assert.Equal(t, "CPSC 2430: C", failures[0].Text)
	assert.Equal(t, 3, failures[0].Row)
	assert.Contains(t, failures[0].Error, "malformed clause")
}

func TestIngestClearsFixedFailure(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	rows := testRows()
	rows[3].AdditionalInfo = "Prerequisites: CPSC 2430: C or better"
	sum, _ := ingest(t, s, rows)
	assert.Equal(t, 1, sum.Indexed)
	assert.Equal(t, 0, sum.Failed)

	failures, err := s.Failures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestIngestStampsRunID(t *testing.T) {
	s := testStore(t)
	sum, _ := ingest(t, s, testRows())

	var runID string
	require.NoError(t, s.db.Get(&runID, `SELECT run_id FROM courses WHERE code = ?`, "CPSC 2430"))
	assert.Equal(t, sum.RunID, runID)
}

func TestIngestFailureRemovesStaleCourse(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	rows := testRows()
	rows[3].AdditionalInfo = "Prerequisites: CPSC 2430: C or better"
	ingest(t, s, rows)

	_, err := s.Get(ctx, "CPSC 3200")
	require.NoError(t, err)

	sum, _ := ingest(t, s, testRows())
	assert.Equal(t, 1, sum.Failed)

	_, err = s.Get(ctx, "CPSC 3200")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Courses: 3, WithExam: 1, Failures: 1}, st)
}

func TestIngestGoodBrokenGoodRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	good := testRows()
	good[3].AdditionalInfo = "Prerequisites: CPSC 2430: C or better"

	ingest(t, s, good)
	ingest(t, s, testRows())
	sum, _ := ingest(t, s, good)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, 1, sum.Indexed)
	assert.Equal(t, 3, sum.Skipped)

	failures, err := s.Failures(ctx)
	require.NoError(t, err)
	assert.Empty(t, failures)

	c, err := s.Get(ctx, "CPSC 3200")
	require.NoError(t, err)
	require.NotNil(t, c.Prerequisites)
	assert.Len(t, c.Prerequisites.DNF, 1)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Courses: 4, WithExam: 1, Failures: 0}, st)
}

func TestIngestSkipClearsLeftoverFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	good := testRows()[:3]
	ingest(t, s, good)

	_, err := s.db.Exec(`INSERT INTO parse_failures (code, text, error, row_index) VALUES (?, ?, ?, ?)`,
		"MATH 1221", "MATH 1120: C", "malformed clause at offset 9", 2)
	require.NoError(t, err)

	sum, _ := ingest(t, s, good)
	assert.Equal(t, 3, sum.Skipped)

	failures, err := s.Failures(ctx)
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestIngestRecordsRuns(t *testing.T) {
	s := testStore(t)
	first, _ := ingest(t, s, testRows())
	second, _ := ingest(t, s, testRows())
	assert.NotEqual(t, first.RunID, second.RunID)

	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].ID)
	assert.Equal(t, 3, runs[0].Skipped)
	assert.Equal(t, 3, runs[1].Indexed)
	assert.NotEmpty(t, runs[1].FinishedAt)
}

func TestIngestCancelled(t *testing.T) {
	s := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := s.Ingest(ctx, testOutcomes(testRows()), &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestSummaryTotal(t *testing.T) {
	s := IngestSummary{Indexed: 1, Updated: 2, Skipped: 3, Failed: 4}
	assert.Equal(t, 10, s.Total())
	assert.True(t, s.HasFailures())
	assert.False(t, IngestSummary{Indexed: 1}.HasFailures())
}

// --- queries ---

func TestGetNormalizesCode(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	c, err := s.Get(context.Background(), " cpsc  2430 ")
	require.NoError(t, err)
	assert.Equal(t, "CPSC 2430", c.Code)
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "NOPE 1000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all sorted by code", ListOptions{}, []string{"CPSC 1230", "CPSC 2430", "MATH 1221"}},
		{"prefix", ListOptions{Prefix: "CPSC"}, []string{"CPSC 1230", "CPSC 2430"}},
		{"exam only", ListOptions{ExamOnly: true}, []string{"CPSC 1230"}},
		{"attribute", ListOptions{Attribute: "Upper-Division"}, []string{"CPSC 2430"}},
		{"max results", ListOptions{MaxResults: 1}, []string{"CPSC 1230"}},
		{"literal underscore", ListOptions{Prefix: "CPSC_"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := s.List(context.Background(), tt.opts)
			require.NoError(t, err)
			var codes []string
			for _, c := range courses {
				codes = append(codes, c.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestStats(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Courses: 3, WithExam: 1, Failures: 1}, st)
}

// --- export ---

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	path, err := s.ExportYAML(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(s.Path()), "export.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Export
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Courses, 3)
	assert.Equal(t, "CPSC 1230", doc.Courses[0].Code)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "CPSC 3200", doc.Failures[0].Code)
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	ingest(t, s, testRows())

	path, err := s.ExportJSON(context.Background(), ListOptions{Prefix: "CPSC 24"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Export
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Courses, 1)
	assert.Equal(t, "CPSC 2430", doc.Courses[0].Code)
	assert.Len(t, doc.Courses[0].Prerequisites.DNF, 2)
	assert.Contains(t, string(data), `"concurrent_allowed": true`)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists assembled courses and their parsed prerequisites
// in SQLite. Ingestion is incremental: a course whose fingerprint did not
// change since the last run is skipped. Courses whose prerequisites failed
// to parse are kept in a separate table for manual review.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cnf/structhash"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/prereqs/internal/catalog"
	"github.com/pdiddy/prereqs/pkg/types"
)

// ErrNotFound is returned when a course code is not in the store.
var ErrNotFound = errors.New("course not found")

const fingerprintVersion = 1

// timeFormat has fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the course database.
type Store struct {
	db         *sqlx.DB
	path       string
	maxResults int
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = types.DefaultConfig().Store.Path
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	s := &Store{db: db, path: path, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			indexed INTEGER NOT NULL DEFAULT 0,
			updated INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			credits TEXT NOT NULL DEFAULT '',
			attributes TEXT NOT NULL DEFAULT '[]',
			restrictions TEXT NOT NULL DEFAULT '',
			prerequisite_text TEXT NOT NULL DEFAULT '',
			prerequisites TEXT,
			dnf TEXT,
			has_exam_requirement INTEGER NOT NULL DEFAULT 0,
			corequisites TEXT NOT NULL DEFAULT '[]',
			approval_required INTEGER NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL,
			run_id TEXT REFERENCES ingest_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_exam ON courses(has_exam_requirement)`,
		`CREATE TABLE IF NOT EXISTS parse_failures (
			code TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			error TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			run_id TEXT REFERENCES ingest_runs(id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingestion run.
type IngestSummary struct {
	RunID   string
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of rows processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any row needs review.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest stores assembled courses. New courses are indexed, changed ones
// updated and unchanged ones skipped. Outcomes with errors are written to
// parse_failures when their course code is known. Progress is written to w.
func (s *Store) Ingest(ctx context.Context, outcomes []catalog.Outcome, w io.Writer) (IngestSummary, error) {
	summary := IngestSummary{RunID: uuid.NewString()}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, started_at) VALUES (?, ?)`,
		summary.RunID, time.Now().UTC().Format(timeFormat),
	); err != nil {
		return summary, fmt.Errorf("recording ingest run: %w", err)
	}

	for _, o := range outcomes {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		label := o.Course.Code
		if label == "" {
			label = fmt.Sprintf("row %d", o.Row)
		}

		if o.Err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", label, o.Err)
			summary.Failed++
			if o.Course.Code != "" {
				if err := s.recordFailure(ctx, o, summary.RunID); err != nil {
					fmt.Fprintf(w, "warning: recording failure for %s: %v\n", label, err)
				}
			}
			continue
		}

		fp, err := structhash.Hash(o.Course, fingerprintVersion)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: fingerprint: %v\n", label, err)
			summary.Failed++
			continue
		}

		var stored string
		err = s.db.GetContext(ctx, &stored, `SELECT fingerprint FROM courses WHERE code = ?`, o.Course.Code)
		if err == nil && stored == fp {
			if err := s.clearFailure(ctx, o.Course.Code); err != nil {
				fmt.Fprintf(w, "warning: clearing failure for %s: %v\n", label, err)
			}
			fmt.Fprintf(w, "skipped %s\n", label)
			summary.Skipped++
			continue
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(w, "failed  %s: %v\n", label, err)
			summary.Failed++
			continue
		}
		isUpdate := err == nil

		if err := s.upsertCourse(ctx, o.Course, fp, summary.RunID); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", label, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", label)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s\n", label)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if _, err := s.db.ExecContext(ctx,
		`UPDATE ingest_runs SET finished_at = ?, indexed = ?, updated = ?, skipped = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(timeFormat),
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.RunID,
	); err != nil {
		return summary, fmt.Errorf("finishing ingest run: %w", err)
	}
	return summary, nil
}

func (s *Store) upsertCourse(ctx context.Context, c types.Course, fingerprint, runID string) error {
	row, err := toRow(c)
	if err != nil {
		return err
	}
	row.Fingerprint = fingerprint
	row.RunID = sql.NullString{String: runID, Valid: true}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO courses (code, name, description, credits, attributes, restrictions,
			prerequisite_text, prerequisites, dnf, has_exam_requirement, corequisites,
			approval_required, fingerprint, run_id)
		 VALUES (:code, :name, :description, :credits, :attributes, :restrictions,
			:prerequisite_text, :prerequisites, :dnf, :has_exam_requirement, :corequisites,
			:approval_required, :fingerprint, :run_id)
		 ON CONFLICT(code) DO UPDATE SET
			name=excluded.name, description=excluded.description, credits=excluded.credits,
			attributes=excluded.attributes, restrictions=excluded.restrictions,
			prerequisite_text=excluded.prerequisite_text, prerequisites=excluded.prerequisites,
			dnf=excluded.dnf, has_exam_requirement=excluded.has_exam_requirement,
			corequisites=excluded.corequisites, approval_required=excluded.approval_required,
			fingerprint=excluded.fingerprint, run_id=excluded.run_id`,
		row)
	if err != nil {
		return fmt.Errorf("upserting course: %w", err)
	}

	// A course that parses now is no longer awaiting review.
	if _, err := tx.ExecContext(ctx, `DELETE FROM parse_failures WHERE code = ?`, c.Code); err != nil {
		return fmt.Errorf("clearing parse failure: %w", err)
	}
	return tx.Commit()
}

// recordFailure stores o for review and drops any earlier row for the
// course so its stale prerequisites are no longer served.
func (s *Store) recordFailure(ctx context.Context, o catalog.Outcome, runID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO parse_failures (code, text, error, row_index, run_id) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			text=excluded.text, error=excluded.error, row_index=excluded.row_index, run_id=excluded.run_id`,
		o.Course.Code, o.Course.PrerequisiteText, o.Err.Error(), o.Row, runID,
	); err != nil {
		return fmt.Errorf("recording parse failure: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE code = ?`, o.Course.Code); err != nil {
		return fmt.Errorf("removing stale course: %w", err)
	}
	return tx.Commit()
}

func (s *Store) clearFailure(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM parse_failures WHERE code = ?`, code)
	return err
}

// courseRow is the database form of types.Course. List and tree fields are
// stored as JSON text.
type courseRow struct {
	Code             string         `db:"code"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	Credits          string         `db:"credits"`
	Attributes       string         `db:"attributes"`
	Restrictions     string         `db:"restrictions"`
	PrerequisiteText string         `db:"prerequisite_text"`
	Prerequisites    sql.NullString `db:"prerequisites"`
	DNF              sql.NullString `db:"dnf"`
	HasExam          bool           `db:"has_exam_requirement"`
	Corequisites     string         `db:"corequisites"`
	ApprovalRequired bool           `db:"approval_required"`
	Fingerprint      string         `db:"fingerprint"`
	RunID            sql.NullString `db:"run_id"`
}

func toRow(c types.Course) (courseRow, error) {
	row := courseRow{
		Code:             c.Code,
		Name:             c.Name,
		Description:      c.Description,
		Credits:          c.Credits,
		Restrictions:     c.Restrictions,
		PrerequisiteText: c.PrerequisiteText,
		HasExam:          c.HasExamRequirement(),
		ApprovalRequired: c.ApprovalRequired,
	}

	var err error
	if row.Attributes, err = jsonText(nonNil(c.Attributes)); err != nil {
		return row, err
	}
	if row.Corequisites, err = jsonText(nonNil(c.Corequisites)); err != nil {
		return row, err
	}
	if c.Prerequisites != nil {
		tree, err := jsonText(c.Prerequisites.Tree)
		if err != nil {
			return row, err
		}
		dnf, err := jsonText(c.Prerequisites.DNF)
		if err != nil {
			return row, err
		}
		row.Prerequisites = sql.NullString{String: tree, Valid: true}
		row.DNF = sql.NullString{String: dnf, Valid: true}
	}
	return row, nil
}

func (r courseRow) course() (types.Course, error) {
	c := types.Course{
		Code:             r.Code,
		Name:             r.Name,
		Description:      r.Description,
		Credits:          r.Credits,
		Restrictions:     r.Restrictions,
		PrerequisiteText: r.PrerequisiteText,
		ApprovalRequired: r.ApprovalRequired,
	}
	if err := json.Unmarshal([]byte(r.Attributes), &c.Attributes); err != nil {
		return c, fmt.Errorf("decoding attributes of %s: %w", r.Code, err)
	}
	if err := json.Unmarshal([]byte(r.Corequisites), &c.Corequisites); err != nil {
		return c, fmt.Errorf("decoding corequisites of %s: %w", r.Code, err)
	}
	if len(c.Attributes) == 0 {
		c.Attributes = nil
	}
	if len(c.Corequisites) == 0 {
		c.Corequisites = nil
	}
	if r.Prerequisites.Valid {
		var res types.Result
		if err := json.Unmarshal([]byte(r.Prerequisites.String), &res.Tree); err != nil {
			return c, fmt.Errorf("decoding prerequisites of %s: %w", r.Code, err)
		}
		if r.DNF.Valid {
			if err := json.Unmarshal([]byte(r.DNF.String), &res.DNF); err != nil {
				return c, fmt.Errorf("decoding dnf of %s: %w", r.Code, err)
			}
		}
		c.Prerequisites = &res
	}
	return c, nil
}

func jsonText(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

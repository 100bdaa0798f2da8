// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/prereqs/pkg/types"
)

// Column names written by the catalog scraper.
const (
	colHeading     = "course-heading"
	colCredits     = "Credits"
	colDescription = "Course Description"
	colAdditional  = "Additional Information"
)

// ReadRows reads scraped rows from CSV. The header must name the
// course-heading column; the other columns are optional.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols[colHeading]; !ok {
		return nil, fmt.Errorf("CSV header has no %q column", colHeading)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, Row{
			Heading:        field(rec, colHeading),
			Credits:        field(rec, colCredits),
			Description:    field(rec, colDescription),
			AdditionalInfo: field(rec, colAdditional),
		})
	}
	return rows, nil
}

var outputHeader = []string{
	"CourseID", "Name", "Description", "Credits", "Attributes", "Restrictions",
	"Prerequisites", "HasExamRequirement", "Corequisites", "Approval",
}

// WriteCourses writes formatted courses as CSV. List columns are JSON
// arrays, Prerequisites is the JSON logic tree and missing values are
// written as NULL.
func WriteCourses(w io.Writer, courses []types.Course) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outputHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, c := range courses {
		prereqs := "NULL"
		if c.Prerequisites != nil {
			data, err := json.Marshal(c.Prerequisites.Tree.Groups)
			if err != nil {
				return fmt.Errorf("encoding prerequisites of %s: %w", c.Code, err)
			}
			prereqs = string(data)
		}
		rec := []string{
			c.Code,
			c.Name,
			c.Description,
			orNull(c.Credits),
			jsonList(c.Attributes),
			orNull(c.Restrictions),
			prereqs,
			strconv.FormatBool(c.HasExamRequirement()),
			jsonList(c.Corequisites),
			boolFlag(c.ApprovalRequired),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing %s: %w", c.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func orNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return "NULL"
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

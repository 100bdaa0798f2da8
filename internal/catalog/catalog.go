// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog assembles course records from scraped catalog rows. It
// splits the free-form "Additional Information" text into its sections and
// parses the prerequisite section into a logic tree.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/prereqs/internal/prereq"
	"github.com/pdiddy/prereqs/pkg/types"
)

// ErrNoHeading is returned for rows without a course heading.
var ErrNoHeading = errors.New("row has no course heading")

// Row is one scraped catalog entry.
type Row struct {
	// Heading holds "CODE: Name" followed by page chrome such as "Course Details".
	Heading     string
	Credits     string
	Description string

	// AdditionalInfo holds the Restrictions, Prerequisites, Corequisites,
	// Attributes and Approval sections.
	AdditionalInfo string
}

// Section headers in the order the catalog prints them.
const (
	headerRestrictions  = "Restrictions:"
	headerPrerequisites = "Prerequisites:"
	headerCorequisites  = "Corequisites:"
	headerAttributes    = "Attributes:"
	headerApproval      = "Approval:"
)

var headers = []string{headerRestrictions, headerPrerequisites, headerCorequisites, headerAttributes, headerApproval}

// Sections holds the raw text of each section; empty when absent.
type Sections struct {
	Restrictions  string
	Prerequisites string
	Corequisites  string
	Attributes    string
	Approval      bool
}

// SplitSections locates the section headers in info. Every section but
// Prerequisites ends at the first line break; Prerequisites may wrap and
// runs to the next header or the end of the text.
func SplitSections(info string) Sections {
	var s Sections
	s.Restrictions = section(info, headerRestrictions, true)
	s.Prerequisites = section(info, headerPrerequisites, false)
	s.Corequisites = section(info, headerCorequisites, true)
	s.Attributes = section(info, headerAttributes, true)
	s.Approval = strings.Contains(info, headerApproval)
	return s
}

func section(info, header string, singleLine bool) string {
	i := strings.Index(info, header)
	if i < 0 {
		return ""
	}
	body := info[i+len(header):]

	end := len(body)
	for _, h := range headers {
		if j := strings.Index(body, h); j >= 0 && j < end {
			end = j
		}
	}
	if singleLine {
		if j := strings.IndexAny(body, "\r\n"); j >= 0 && j < end {
			end = j
		}
	}
	return collapse(body[:end])
}

// collapse joins whitespace runs, line breaks included, into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitList splits a ", "-separated catalog list.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitHeading returns the course code and name from a heading such as
// "CPSC 1230: Programming I Course Details".
func SplitHeading(heading string) (code, name string, err error) {
	h := collapse(heading)
	if i := strings.Index(h, "Course Details"); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	if h == "" {
		return "", "", ErrNoHeading
	}
	code, name, found := strings.Cut(h, ":")
	if !found {
		return "", "", fmt.Errorf("heading %q has no ':' after the course code", h)
	}
	return strings.TrimSpace(code), strings.TrimSpace(name), nil
}

// NormalizeCredits keeps the upper bound of a range ("1 - 5" gives "5")
// and maps missing values ("", "nan") to "".
func NormalizeCredits(credits string) string {
	c := strings.TrimSpace(credits)
	if strings.EqualFold(c, "nan") {
		return ""
	}
	if _, hi, found := strings.Cut(c, "-"); found {
		return strings.TrimSpace(hi)
	}
	return c
}

// Assembler builds Course records with a configured parser.
type Assembler struct {
	parser *prereq.Parser
}

// NewAssembler returns an Assembler using cfg for prerequisite parsing.
func NewAssembler(cfg types.ParserConfig) *Assembler {
	return &Assembler{parser: prereq.New(cfg)}
}

// Build assembles the course for row. When the prerequisite text fails to
// parse, Build returns the course without Prerequisites together with the
// parse error so the caller can record it for review.
func (a *Assembler) Build(row Row) (types.Course, error) {
	code, name, err := SplitHeading(row.Heading)
	if err != nil {
		return types.Course{}, err
	}

	sec := SplitSections(row.AdditionalInfo)
	c := types.Course{
		Code:             code,
		Name:             name,
		Description:      collapse(row.Description),
		Credits:          NormalizeCredits(row.Credits),
		Attributes:       splitList(sec.Attributes),
		Restrictions:     sec.Restrictions,
		PrerequisiteText: sec.Prerequisites,
		Corequisites:     splitList(sec.Corequisites),
		ApprovalRequired: sec.Approval,
	}

	if sec.Prerequisites == "" {
		return c, nil
	}
	res, err := a.parser.ParseAndExpand(sec.Prerequisites)
	if err != nil {
		return c, fmt.Errorf("parsing prerequisites of %s: %w", code, err)
	}
	if !res.Tree.IsEmpty() {
		c.Prerequisites = &res
	}
	return c, nil
}

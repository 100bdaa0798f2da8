// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereqs/pkg/types"
)

// writeValue encodes v as JSON or YAML.
func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
}

// renderTree draws the groups of tree, one branch per group and one
// sub-branch per alternative.
func renderTree(tree types.LogicTree) (string, error) {
	if tree.IsEmpty() {
		return "(no prerequisites)\n", nil
	}
	ll := pterm.LeveledList{{Level: 0, Text: "all of"}}
	for i, g := range tree.Groups {
		ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprintf("group %d: one of", i+1)})
		for _, alt := range g.Alternatives {
			ll = append(ll, pterm.LeveledListItem{Level: 2, Text: alternativeString(alt)})
		}
	}
	return pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Srender()
}

// renderDNF draws one table row per alternative.
func renderDNF(dnf types.DNF) (string, error) {
	if len(dnf) == 0 {
		return "(no prerequisites)\n", nil
	}
	data := pterm.TableData{{"#", "Satisfied by all of"}}
	for i, alt := range dnf {
		data = append(data, []string{strconv.Itoa(i + 1), alternativeString(alt)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// renderCourses draws a course summary table.
func renderCourses(courses []types.Course) (string, error) {
	data := pterm.TableData{{"Code", "Name", "Credits", "Alternatives", "Exam"}}
	for _, c := range courses {
		alts := 0
		if c.Prerequisites != nil {
			alts = len(c.Prerequisites.DNF)
		}
		data = append(data, []string{c.Code, c.Name, c.Credits, strconv.Itoa(alts), yesNo(c.HasExamRequirement())})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func alternativeString(alt types.Alternative) string {
	parts := make([]string, len(alt))
	for i, c := range alt {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

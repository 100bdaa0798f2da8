// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/internal/store"
	"github.com/pdiddy/prereqs/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show stored courses, parse failures or ingest runs",
	Long: `Show prints one course with its prerequisite tree and DNF when a course
code is given, or a filtered course list otherwise.

Use --failures to list courses whose prerequisites could not be parsed,
--runs to list ingest runs and --stats to count stored rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	failures, _ := cmd.Flags().GetBool("failures")
	runs, _ := cmd.Flags().GetBool("runs")
	stats, _ := cmd.Flags().GetBool("stats")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case failures:
		list, err := st.Failures(ctx)
		if err != nil {
			return err
		}
		if format != "table" {
			return writeValue(out, format, list)
		}
		return printFailures(out, list)

	case runs:
		list, err := st.Runs(ctx)
		if err != nil {
			return err
		}
		if format != "table" {
			return writeValue(out, format, list)
		}
		return printRuns(out, list)

	case stats:
		st, err := st.Stats(ctx)
		if err != nil {
			return err
		}
		if format != "table" {
			return writeValue(out, format, st)
		}
		printStats(out, st)
		return nil

	case len(args) == 1:
		c, err := st.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if format != "table" {
			return writeValue(out, format, c)
		}
		return printCourse(out, c)
	}

	courses, err := st.List(ctx, listOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	if format != "table" {
		return writeValue(out, format, courses)
	}
	if len(courses) == 0 {
		fmt.Fprintln(out, "No courses found.")
		return nil
	}
	table, err := renderCourses(courses)
	if err != nil {
		return err
	}
	fmt.Fprint(out, table)
	fmt.Fprintf(out, "\n%d course(s)\n", len(courses))
	return nil
}

func printCourse(w io.Writer, c types.Course) error {
	fmt.Fprintf(w, "%s: %s\n", c.Code, c.Name)
	if c.Credits != "" {
		fmt.Fprintf(w, "Credits: %s\n", c.Credits)
	}
	if c.Restrictions != "" {
		fmt.Fprintf(w, "Restrictions: %s\n", c.Restrictions)
	}
	if len(c.Corequisites) > 0 {
		fmt.Fprintf(w, "Corequisites: %s\n", strings.Join(c.Corequisites, ", "))
	}
	if len(c.Attributes) > 0 {
		fmt.Fprintf(w, "Attributes: %s\n", strings.Join(c.Attributes, ", "))
	}
	if c.ApprovalRequired {
		fmt.Fprintln(w, "Approval required")
	}
	if c.PrerequisiteText != "" {
		fmt.Fprintf(w, "Prerequisites: %s\n", c.PrerequisiteText)
	}
	fmt.Fprintln(w)

	var tree types.LogicTree
	var dnf types.DNF
	if c.Prerequisites != nil {
		tree, dnf = c.Prerequisites.Tree, c.Prerequisites.DNF
	}
	s, err := renderTree(tree)
	if err != nil {
		return err
	}
	fmt.Fprint(w, s)
	fmt.Fprintln(w)
	s, err = renderDNF(dnf)
	if err != nil {
		return err
	}
	fmt.Fprint(w, s)
	return nil
}

func printFailures(w io.Writer, list []store.Failure) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No parse failures.")
		return nil
	}
	data := pterm.TableData{{"Code", "Row", "Error", "Text"}}
	for _, f := range list {
		data = append(data, []string{f.Code, strconv.Itoa(f.Row), f.Error, f.Text})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(w, s)
	fmt.Fprintf(w, "\n%d failure(s)\n", len(list))
	return nil
}

func printRuns(w io.Writer, list []store.Run) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No ingest runs.")
		return nil
	}
	data := pterm.TableData{{"Run", "Started", "Indexed", "Updated", "Skipped", "Failed"}}
	for _, r := range list {
		data = append(data, []string{
			r.ID, r.StartedAt,
			strconv.Itoa(r.Indexed), strconv.Itoa(r.Updated),
			strconv.Itoa(r.Skipped), strconv.Itoa(r.Failed),
		})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(w, s)
	return nil
}

func printStats(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "Courses:                %d\n", st.Courses)
	fmt.Fprintf(w, "  with exam requirement: %d\n", st.WithExam)
	fmt.Fprintf(w, "Parse failures:         %d\n", st.Failures)
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return store.NewStore(cfg.Store)
}

func listOptsFromFlags(cmd *cobra.Command) store.ListOptions {
	prefix, _ := cmd.Flags().GetString("prefix")
	exam, _ := cmd.Flags().GetBool("exam")
	attribute, _ := cmd.Flags().GetString("attribute")
	limit, _ := cmd.Flags().GetInt("limit")
	return store.ListOptions{
		Prefix:     prefix,
		ExamOnly:   exam,
		Attribute:  attribute,
		MaxResults: limit,
	}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("prefix", "", "filter by course code prefix, e.g. CPSC")
	cmd.Flags().Bool("exam", false, "only courses with a placement or exam requirement")
	cmd.Flags().String("attribute", "", "filter by course attribute")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	addListFlags(showCmd)
	showCmd.Flags().String("format", "table", "output format: table, json or yaml")
	showCmd.Flags().Bool("failures", false, "list parse failures awaiting review")
	showCmd.Flags().Bool("runs", false, "list ingest runs")
	showCmd.Flags().Bool("stats", false, "count stored courses and parse failures")

	rootCmd.AddCommand(showCmd)
}

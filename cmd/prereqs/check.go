// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prereqs/internal/prereq"
	"github.com/pdiddy/prereqs/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check <code>",
	Short: "Check a student's courses against a course's prerequisites",
	Long: `Check reports whether the given completed and in-progress courses meet
the stored prerequisites of a course, and which DNF alternatives they
satisfy. In-progress courses count only where concurrent enrollment is
allowed. Grades are not compared.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	completed, _ := cmd.Flags().GetStringSlice("completed")
	inProgress, _ := cmd.Flags().GetStringSlice("in-progress")
	exams, _ := cmd.Flags().GetBool("exams-passed")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var dnf types.DNF
	if c.Prerequisites != nil {
		dnf = c.Prerequisites.DNF
	}
	rec := prereq.Record{Completed: completed, InProgress: inProgress, ExamsPassed: exams}
	if !reportCheck(cmd.OutOrStdout(), c.Code, dnf, rec) {
		return fmt.Errorf("prerequisites of %s not met", c.Code)
	}
	return nil
}

// reportCheck prints the outcome of checking rec against dnf and returns
// whether it is met.
func reportCheck(w io.Writer, code string, dnf types.DNF, rec prereq.Record) bool {
	if len(dnf) == 0 {
		fmt.Fprintf(w, "%s has no prerequisites\n", code)
		return true
	}
	idx := prereq.Satisfying(dnf, rec)
	if len(idx) == 0 {
		fmt.Fprintf(w, "%s: not eligible (%d alternative(s), none met)\n", code, len(dnf))
		return false
	}
	fmt.Fprintf(w, "%s: eligible\n", code)
	for _, i := range idx {
		fmt.Fprintf(w, "  met alternative %d: %s\n", i+1, alternativeString(dnf[i]))
	}
	return true
}

func init() {
	checkCmd.Flags().StringSlice("completed", nil, "completed course codes (comma-separated or repeated)")
	checkCmd.Flags().StringSlice("in-progress", nil, "courses taken in the same term")
	checkCmd.Flags().Bool("exams-passed", false, "count placement and exam requirements as met")

	rootCmd.AddCommand(checkCmd)
}

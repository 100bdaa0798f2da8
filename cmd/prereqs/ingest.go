// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/internal/catalog"
	"github.com/pdiddy/prereqs/internal/store"
	"github.com/pdiddy/prereqs/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <catalog.csv>",
	Short: "Load a scraped course catalog into the course store",
	Long: `Ingest reads a scraped catalog CSV (columns course-heading, Credits,
Course Description, Additional Information), parses every prerequisite
section, and stores the courses in the SQLite course store. Unchanged
courses are skipped on subsequent runs. Courses whose prerequisites fail
to parse are recorded for review and make the command exit non-zero.

With --csv-out the assembled courses are also written as a flat CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := catalog.ReadRows(f)
	if err != nil {
		return err
	}

	outcomes := catalog.NewAssembler(cfg.Catalog.Parser).BuildAll(rows, cfg.Catalog.Workers)

	if csvOut, _ := cmd.Flags().GetString("csv-out"); csvOut != "" {
		if err := writeCoursesCSV(csvOut, outcomes); err != nil {
			return err
		}
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Ingest(cmd.Context(), outcomes, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d course(s) failed parsing; run 'prereqs show --failures' to review", summary.Failed)
	}
	return nil
}

func writeCoursesCSV(path string, outcomes []catalog.Outcome) error {
	var courses []types.Course
	for _, o := range outcomes {
		if o.Course.Code != "" {
			courses = append(courses, o.Course)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := catalog.WriteCourses(f, courses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	ingestCmd.Flags().Int("workers", 0, "parallel parse workers (0 = GOMAXPROCS)")
	ingestCmd.Flags().String("csv-out", "", "also write the assembled courses to this CSV file")

	viper.BindPFlag("catalog.workers", ingestCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(ingestCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the course store to YAML or JSON",
	Long: `Export writes the stored courses (or a filtered subset) and the pending
parse failures to export.yaml or export.json next to the database. It
supports the same filter flags as show.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := listOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = st.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
	return nil
}

func init() {
	addListFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}

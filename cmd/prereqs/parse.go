// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/internal/prereq"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Parse one prerequisite description",
	Long: `Parse reads a prerequisite description from the arguments, from --file,
or from standard input when neither is given, and prints its logic tree
and DNF.

Output formats are table (default), json and yaml. With --dnf only the
DNF alternatives are printed.`,
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dnfOnly, _ := cmd.Flags().GetBool("dnf")
	file, _ := cmd.Flags().GetString("file")

	text, err := parseInput(cmd.InOrStdin(), file, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	res, err := prereq.New(cfg.Parser).ParseAndExpand(text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != "table" {
		if dnfOnly {
			return writeValue(out, format, res.DNF)
		}
		return writeValue(out, format, res)
	}

	if !dnfOnly {
		tree, err := renderTree(res.Tree)
		if err != nil {
			return err
		}
		fmt.Fprint(out, tree)
		if res.Tree.HasExamRequirement {
			fmt.Fprintln(out, "requires a placement or exam score")
		}
		fmt.Fprintln(out)
	}
	table, err := renderDNF(res.DNF)
	if err != nil {
		return err
	}
	fmt.Fprint(out, table)
	fmt.Fprintf(out, "\n%d alternative(s)\n", len(res.DNF))
	return nil
}

func parseInput(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}

func init() {
	parseCmd.Flags().String("format", "table", "output format: table, json or yaml")
	parseCmd.Flags().Bool("dnf", false, "print only the DNF alternatives")
	parseCmd.Flags().String("file", "", "read the description from a file")

	rootCmd.AddCommand(parseCmd)
}

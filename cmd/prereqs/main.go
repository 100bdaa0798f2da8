// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prereqs CLI. It parses course
// prerequisite descriptions, ingests scraped catalogs into a SQLite store,
// and serves the results over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the prereqs CLI.
var rootCmd = &cobra.Command{
	Use:   "prereqs",
	Short: "Parse course prerequisite descriptions into logic trees",
	Long: `prereqs turns catalog prerequisite text such as

  (CPSC 1230: C or better or CPSC 1420: C- or better) and MATH 1334: C or better

into a tree of required groups and its disjunctive normal form.

Use parse for single descriptions, ingest to load a scraped catalog CSV into
the course store, and show, check, export or serve to work with the store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotenv(".env")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConfig()
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./prereqs.yaml or ~/.config/prereqs/prereqs.yaml)")
	rootCmd.PersistentFlags().String("db", defaults.Store.Path, "course store database file")
	rootCmd.PersistentFlags().Int("max-depth", defaults.Parser.MaxDepth, "maximum parenthesis nesting")
	rootCmd.PersistentFlags().Bool("exam-heuristic", defaults.Parser.ExamHeuristic, "treat tokens outside the course-code length band as exam requirements")

	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("parser.max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("parser.exam_heuristic", rootCmd.PersistentFlags().Lookup("exam-heuristic"))
}

// loadDotenv exports the variables in path unless they are already set.
// A missing file is not an error.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("prereqs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "prereqs"))
		}
	}

	setDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("parser.max_depth", d.Parser.MaxDepth)
	v.SetDefault("parser.min_code_length", d.Parser.MinCodeLength)
	v.SetDefault("parser.max_code_length", d.Parser.MaxCodeLength)
	v.SetDefault("parser.exam_heuristic", d.Parser.ExamHeuristic)
	v.SetDefault("catalog.workers", d.Catalog.Workers)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.max_results", d.Store.MaxResults)
	v.SetDefault("server.addr", d.Server.Addr)
}

// bindEnv maps keys such as store.path to PREREQS_STORE_PATH.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PREREQS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig resolves the configuration from flags, environment, config
// file and defaults, in that order of precedence.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Catalog.Parser = cfg.Parser
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

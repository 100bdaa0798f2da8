// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/internal/server"
	"github.com/pdiddy/prereqs/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser and the course store over HTTP",
	Long: `Serve starts the HTTP API:

  POST /v1/parse                          parse {"text": ...}
  GET  /v1/courses                        list courses (prefix, exam, attribute, limit)
  GET  /v1/courses/{code}                 one course
  GET  /v1/courses/{code}/prerequisites   its DNF
  POST /v1/courses/{code}/check           check {"completed", "in_progress", "exams_passed"}
  GET  /healthz

The server stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return server.New(cfg.Parser, st, logger).ListenAndServe(cmd.Context(), cfg.Server.Addr)
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().BoolP("verbose", "v", false, "log every request")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/prereqs/internal/prereq"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse prerequisite descriptions interactively",
	Long: `Repl reads prerequisite descriptions line by line and prints the
logic tree and DNF of each. Lines starting with ':' are commands:

  :tokens <text>   show the token stream
  :json <text>     print the parse result as JSON
  :help            list commands
  :quit            leave (as does Ctrl-D)`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	rlCfg := &readline.Config{
		Prompt:          "prereqs> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	}
	if home, err := os.UserHomeDir(); err == nil {
		rlCfg.HistoryFile = filepath.Join(home, ".config", "prereqs", "history")
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	in := &interp{parser: prereq.New(cfg.Parser), out: rl.Stdout()}
	pterm.Info.Println("Quit with :quit or <ctrl>D")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		quit, err := in.eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	return nil
}

// interp evaluates one REPL line at a time.
type interp struct {
	parser *prereq.Parser
	out    io.Writer
}

func (in *interp) eval(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, ":") {
		return false, in.show(line)
	}

	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch command {
	case ":quit", ":q":
		return true, nil
	case ":help", ":h":
		fmt.Fprintln(in.out, ":tokens <text>  :json <text>  :help  :quit")
		return false, nil
	case ":tokens", ":t":
		return false, in.tokens(rest)
	case ":json", ":j":
		res, err := in.parser.ParseAndExpand(rest)
		if err != nil {
			return false, err
		}
		return false, writeValue(in.out, "json", res)
	}
	return false, fmt.Errorf("unknown command %s; try :help", command)
}

func (in *interp) show(text string) error {
	res, err := in.parser.ParseAndExpand(text)
	if err != nil {
		return err
	}
	tree, err := renderTree(res.Tree)
	if err != nil {
		return err
	}
	dnf, err := renderDNF(res.DNF)
	if err != nil {
		return err
	}
	fmt.Fprint(in.out, tree)
	fmt.Fprint(in.out, dnf)
	if res.Tree.HasExamRequirement {
		fmt.Fprintln(in.out, "requires a placement or exam score")
	}
	return nil
}

func (in *interp) tokens(text string) error {
	toks, err := prereq.Tokenize(text)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Kind", "Span", "Text"}}
	for _, t := range toks {
		span := strconv.Itoa(t.Start) + "-" + strconv.Itoa(t.End)
		data = append(data, []string{t.Kind.String(), span, t.Text(text)})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(in.out, s)
	return nil
}

func init() {
	rootCmd.AddCommand(replCmd)
}

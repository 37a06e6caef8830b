package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/clarete/pas"
	"github.com/clarete/pas/ascii"
)

const historyFile = ".pas_history"

func newReplCmd(g *globals) *cobra.Command {
	var (
		grammar grammarFlag
		rule    string
	)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Match lines typed interactively against a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			grm, err := grammar.load(g)
			if err != nil {
				return err
			}
			if rule == "" {
				rule = grm.DefaultRule()
			}
			s := &replSession{globals: g, grammar: grm, rule: rule, format: formatTree}
			return s.loop(cmd.Context())
		},
	}
	grammar.register(cmd)
	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Rule to match, the default rule of the grammar if empty")
	return cmd
}

// replSession keeps the state changed by the repl commands
type replSession struct {
	*globals
	grammar *pas.Grammar
	rule    string
	format  string
}

// loop runs until the user enters ":exit", Ctrl+C or Ctrl+D
func (s *replSession) loop(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(s.complete)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	fmt.Fprintln(s.stdout, "Type a text to match it, or :help for the commands")

	for {
		input, err := line.Prompt(s.rule + "> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.stdout, "Exiting")
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if stop := s.eval(ctx, input); stop {
			break
		}
	}

	if f, err := os.Create(history); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

// eval runs one line of input and tells if the session is over
func (s *replSession) eval(ctx context.Context, input string) bool {
	if !strings.HasPrefix(input, ":") {
		s.match(ctx, input)
		return false
	}
	fields := strings.Fields(input)
	switch fields[0] {
	case ":exit":
		return true
	case ":help":
		fmt.Fprintln(s.stdout, strings.Join([]string{
			":rule <name>     match against another rule",
			":rules           list the rules of the grammar",
			":format <name>   print outputs as tree, json, yaml or matches",
			":exit            leave the repl",
		}, "\n"))
	case ":rules":
		fmt.Fprintln(s.stdout, strings.Join(s.grammar.RuleNames(), "\n"))
	case ":rule":
		if len(fields) != 2 {
			s.errorf("usage: :rule <name>")
			break
		}
		if _, ok := s.grammar.Rule(fields[1]); !ok {
			s.errorf("unknown rule: %s", fields[1])
			break
		}
		s.rule = fields[1]
	case ":format":
		if len(fields) != 2 {
			s.errorf("usage: :format <name>")
			break
		}
		if err := checkFormat(fields[1], formatTree, formatJSON, formatYAML, formatMatches); err != nil {
			s.errorf("%s", err)
			break
		}
		s.format = fields[1]
	default:
		s.errorf("unknown command %s, try :help", fields[0])
	}
	return false
}

func (s *replSession) match(ctx context.Context, text string) {
	m, err := s.grammar.Match(ctx, s.rule, text)
	switch {
	case err != nil:
		s.errorf("%s", err)
	case m == nil:
		s.errorf("%s", errNoMatch)
	case s.format == formatMatches:
		fmt.Fprintln(s.stdout, m.Format(s.globals.format()))
	default:
		if err := s.writeOutput(s.stdout, m.ComputeOutput(), s.format); err != nil {
			s.errorf("%s", err)
		}
	}
}

func (s *replSession) errorf(format string, args ...any) {
	fmt.Fprintf(s.stdout, "%s %s\n", s.color(ascii.Red, "error:"), fmt.Sprintf(format, args...))
}

func (s *replSession) complete(line string) []string {
	var out []string
	if strings.HasPrefix(line, ":rule ") {
		prefix := strings.TrimPrefix(line, ":rule ")
		for _, name := range s.grammar.RuleNames() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, ":rule "+name)
			}
		}
		return out
	}
	for _, c := range []string{":exit", ":format ", ":help", ":rule ", ":rules"} {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

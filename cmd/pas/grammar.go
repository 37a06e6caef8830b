package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clarete/pas"
	"github.com/clarete/pas/ascii"
)

// grammarFlag is the `-g` flag shared by the commands that need a
// grammar
type grammarFlag struct {
	path string
}

func (f *grammarFlag) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "grammar", "g", "", "Path to the grammar file")
	_ = cmd.MarkFlagRequired("grammar")
}

// load compiles the grammar file.  Diagnostics are printed before
// returning, one per line, prefixed by their location.
func (f *grammarFlag) load(g *globals) (*pas.Grammar, error) {
	source, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("can't read grammar file: %w", err)
	}
	grammar, err := pas.Compile(string(source), g.engineConfig())
	if err != nil {
		var grammarErr *pas.GrammarError
		if errors.As(err, &grammarErr) {
			g.printDiagnostics(g.stderr, f.path, grammarErr.Diagnostics)
			return nil, errReported
		}
		return nil, err
	}
	g.logger.Debug("grammar compiled")
	return grammar, nil
}

func (f *grammarFlag) parse() (*pas.GrammarNode, error) {
	source, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("can't read grammar file: %w", err)
	}
	return pas.NewGrammarParser(string(source)).Parse()
}

func (g *globals) printDiagnostics(w io.Writer, path string, diagnostics []pas.Diagnostic) {
	for _, d := range diagnostics {
		loc := d.Span.Start
		if loc.Line == 0 {
			loc.Line, loc.Column = 1, 1
		}
		fmt.Fprintf(w, "%s %s %s\n",
			g.color(ascii.Gray, "%s:%d:%d:", path, loc.Line, loc.Column),
			g.color(ascii.Red, "error:"),
			d.Message)
	}
	fmt.Fprintf(w, "\n%s generated\n", g.color(ascii.Red, "%d error(s)", len(diagnostics)))
}

// input reads the text to match from `-t` or from the file given
// with `-i`
type inputFlags struct {
	text string
	path string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "Text to match")
	cmd.Flags().StringVarP(&f.path, "input", "i", "", "Path to a file with the text to match")
	cmd.MarkFlagsMutuallyExclusive("text", "input")
	cmd.MarkFlagsOneRequired("text", "input")
}

func (f *inputFlags) read() (string, error) {
	if f.path == "" {
		return f.text, nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("can't read input file: %w", err)
	}
	return string(data), nil
}

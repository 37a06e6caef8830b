package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("Text cannot be matched by grammar")

func newMatchCmd(g *globals) *cobra.Command {
	var (
		grammar grammarFlag
		input   inputFlags
		rule    string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a text against a rule of a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTree, formatJSON, formatYAML, formatMatches); err != nil {
				return err
			}
			grm, err := grammar.load(g)
			if err != nil {
				return err
			}
			text, err := input.read()
			if err != nil {
				return err
			}
			m, err := grm.Match(cmd.Context(), rule, text)
			if err != nil {
				return err
			}
			if m == nil {
				return errNoMatch
			}
			if format == formatMatches {
				_, err := fmt.Fprintln(g.stdout, m.Format(g.format()))
				return err
			}
			return g.writeOutput(g.stdout, m.ComputeOutput(), format)
		},
	}
	grammar.register(cmd)
	input.register(cmd)
	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Rule to match, the default rule of the grammar if empty")
	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "Output format: tree, json, yaml or matches")
	return cmd
}

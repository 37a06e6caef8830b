package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarete/pas"
)

func newAstCmd(g *globals) *cobra.Command {
	var grammar grammarFlag
	cmd := &cobra.Command{
		Use:   "ast",
		Short: "Print the syntax tree of a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := grammar.parse()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(g.stdout, pas.FormatAst(node, g.format()))
			return err
		},
	}
	grammar.register(cmd)
	return cmd
}

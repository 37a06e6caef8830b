package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newRulesCmd(g *globals) *cobra.Command {
	var grammar grammarFlag
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			grm, err := grammar.load(g)
			if err != nil {
				return err
			}
			if il := grm.Interleave(); il != nil {
				fmt.Fprintf(g.stdout, "interleave = %s\n\n", il)
			}
			table := tablewriter.NewWriter(g.stdout)
			table.SetHeader([]string{"Name", "Kind", "Interleave", "Definition"})
			table.SetAutoFormatHeaders(false)
			table.SetAutoWrapText(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, name := range grm.RuleNames() {
				r, _ := grm.Rule(name)
				if name == grm.DefaultRule() {
					name += " (default)"
				}
				table.Append([]string{name, r.Kind().String(), r.Interleave().String(), r.String()})
			}
			table.Render()
			return nil
		},
	}
	grammar.register(cmd)
	return cmd
}

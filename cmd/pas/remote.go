package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clarete/pas/client"
)

func newRemoteCmd(g *globals) *cobra.Command {
	var (
		url         string
		grammarPath string
		input       inputFlags
		rule        string
		format      string
	)
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Match a text using a pas service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, formatTree, formatJSON, formatYAML); err != nil {
				return err
			}
			source, err := os.ReadFile(grammarPath)
			if err != nil {
				return fmt.Errorf("can't read grammar file: %w", err)
			}
			text, err := input.read()
			if err != nil {
				return err
			}
			c, err := client.New(url, client.WithUserAgent("pas-cli"))
			if err != nil {
				return err
			}
			g.logger.Debug("Sending match request", zap.String("url", url), zap.String("rule", rule))
			result, err := c.SingleParse(cmd.Context(), string(source), rule, text)
			if err != nil {
				return err
			}
			return g.writeOutput(g.stdout, result.Output, format)
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "Base URL of the pas service")
	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "Path to the grammar file")
	_ = cmd.MarkFlagRequired("grammar")
	input.register(cmd)
	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Rule to match, the default rule of the grammar if empty")
	cmd.Flags().StringVarP(&format, "format", "f", formatTree, "Output format: tree, json or yaml")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/clarete/pas"
)

const (
	formatTree    = "tree"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatMatches = "matches"
)

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q, expected one of %v", format, allowed)
}

// writeOutput prints the output value of a match in `format`
func (g *globals) writeOutput(w io.Writer, output pas.Output, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := yaml.Marshal(pas.ToNative(output))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, output.Format(g.format()))
		return err
	}
}

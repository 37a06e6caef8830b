package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/clarete/pas/ascii"
)

// errReported is returned by commands that already told the user
// what went wrong
var errReported = errors.New("reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line `args` and returns the exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "%s %s\n", ascii.Color(ascii.Red, "error:"), err)
		}
		return 1
	}
	return 0
}

package main

import (
	"errors"
	"io"
	"os"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/syntax"
	"github.com/spf13/cobra"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to evaluate")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
}

func (c *cli) chrisOptions(filename string) []chris.Option {
	opts := []chris.Option{
		chris.WithLogger(c.logger),
		chris.WithSyntax(c.syntaxConfig),
	}
	if c.v.GetBool("fold") {
		opts = append(opts, chris.WithTransformer(syntax.FoldConstants))
	}
	if filename != "" {
		opts = append(opts, chris.WithFilename(filename))
	}
	if n := c.v.GetInt64("max-heap-bytes"); n > 0 {
		opts = append(opts, chris.WithMaxHeapBytes(n))
	}
	return opts
}

// outputFormat returns the --output flag, falling back to the configured
// default.
func (c *cli) outputFormat() string {
	return c.v.GetString("output")
}

// getCode determines what source is to be compiled. There are three
// possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. args[0], read as a path or, when argIsCode is set, taken as code
//
// With none of these and a piped stdin, stdin is read. The filename is
// returned only for the path case.
func getCode(cmd *cobra.Command, args []string, argIsCode bool) (source string, filename string, err error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeFlagSet, stdinFlagSet, pathSupplied} {
		if set {
			count++
		}
	}
	switch {
	case count > 1:
		return "", "", errors.New("multiple input sources specified")
	case count == 0 && isTerminal(os.Stdin):
		return "", "", errors.New("no input provided")
	}

	switch {
	case stdinFlagSet, count == 0:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	case pathSupplied && argIsCode:
		return args[0], "", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "", nil
}

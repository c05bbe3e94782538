package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/bytecode"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const compiledExt = ".chrc"

func (c *cli) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile source to a .chrc bytecode file",
		Example: `  chris compile expr.chris
  chris compile -c '(+ 1 2)' -o sum.chrc`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.compileHandler,
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "output path (default <file>.chrc)")
	return cmd
}

func (c *cli) compileHandler(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		if len(args) == 0 {
			return errors.New("an output path is required with -c or --stdin")
		}
		outPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + compiledExt
	}

	source, filename, err := getCode(cmd, args, false)
	if err != nil {
		return err
	}
	code, err := chris.CompileContext(cmd.Context(), source, c.chrisOptions(filename)...)
	if err != nil {
		return err
	}
	data, err := bytecode.Marshal(code)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	c.logger.Debug().Str("path", outPath).Int("bytes", len(data)).Msg("wrote compiled code")
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", outPath, humanize.Bytes(uint64(len(data))))
	return nil
}

func (c *cli) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.chrc>",
		Short: "Run a compiled .chrc bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCompiled(args[0])
			if err != nil {
				return err
			}
			result, err := chris.RunValue(cmd.Context(), code, c.chrisOptions("")...)
			if err != nil {
				return err
			}
			output, err := getOutput(result, c.outputFormat())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
}

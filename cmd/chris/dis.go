package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/dis"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *cli) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble compiled bytecode",
		Long: `Disassemble the bytecode for a source file, a compiled .chrc file
or an expression given with -c.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.disHandler,
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("json", false, "print the disassembly as JSON")
	return cmd
}

type disassembly struct {
	Name         string            `json:"name"`
	Fingerprint  string            `json:"fingerprint"`
	Stats        bytecode.Stats    `json:"stats"`
	Instructions []dis.Instruction `json:"instructions"`
}

func (c *cli) disHandler(cmd *cobra.Command, args []string) error {
	code, err := c.loadCode(cmd, args)
	if err != nil {
		return err
	}
	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}
	fingerprint, err := bytecode.FingerprintString(code)
	if err != nil {
		return err
	}
	stats := code.Stats()

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := getOutputJSON(disassembly{
			Name:         code.Name(),
			Fingerprint:  fingerprint,
			Stats:        stats,
			Instructions: instructions,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "code %s (fingerprint %s)\n", code.Name(), fingerprint)
	fmt.Fprintf(out, "%d instructions in %s, %d constants (%d numbers, %d strings)\n",
		stats.InstructionCount,
		humanize.Bytes(uint64(stats.CodeBytes)),
		stats.ConstantCount,
		stats.NumberConstants,
		stats.StringConstants)
	dis.Print(instructions, out)
	return nil
}

// loadCode compiles source, or decodes it when given a .chrc file.
func (c *cli) loadCode(cmd *cobra.Command, args []string) (*bytecode.Code, error) {
	if len(args) > 0 && filepath.Ext(args[0]) == compiledExt {
		return readCompiled(args[0])
	}
	source, filename, err := getCode(cmd, args, false)
	if err != nil {
		return nil, err
	}
	return chris.CompileContext(cmd.Context(), source, c.chrisOptions(filename)...)
}

func readCompiled(path string) (*bytecode.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	code, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}

package main

import (
	"errors"
	"fmt"

	christest "github.com/chrisvm/chris/testing"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (c *cli) testCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run *_test.yaml case files",
		Long: `Run case files. Each file is a YAML list of cases with a name, a
source and exactly one expected number, bool, string or error.
A pattern ending in ... searches directories recursively.`,
		Example: `  chris test ./...
  chris test -r addition testdata/programs_test.yaml`,
		RunE: c.testHandler,
	}
	cmd.Flags().BoolP("verbose", "v", false, "show source and result of every case")
	cmd.Flags().StringP("run", "r", "", "run only cases matching pattern")
	return cmd
}

func (c *cli) testHandler(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	runPattern, _ := cmd.Flags().GetString("run")

	summary, err := christest.Run(cmd.Context(), &christest.Config{
		Patterns:   args,
		RunPattern: runPattern,
		Options:    c.chrisOptions(""),
	})
	if err != nil {
		return err
	}
	if len(summary.Files) == 0 {
		return errors.New("no *_test.yaml files found")
	}

	out := christest.NewOutput(christest.OutputConfig{
		Writer:   cmd.OutOrStdout(),
		Verbose:  verbose,
		UseColor: !color.NoColor,
	})
	out.PrintResults(summary)
	c.logger.Debug().
		Int("files", len(summary.Files)).
		Int("cases", summary.TotalTests()).
		Dur("duration", summary.Duration).
		Msg("test run finished")

	if !summary.Success() {
		return fmt.Errorf("%d of %d cases did not pass", summary.Failed+summary.Errors, summary.TotalTests())
	}
	return nil
}

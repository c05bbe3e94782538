package main

import (
	"fmt"
	"time"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/vm"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *cli) evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [expr]",
		Short: "Evaluate an expression",
		Example: `  chris eval '(+ 1 2)'
  echo '(> 5 10)' | chris eval --stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.evalHandler,
	}
	addInputFlags(cmd)
	cmd.Flags().Bool("stats", false, "print run statistics to stderr")
	return cmd
}

// haltRecorder keeps the HaltEvent of the last completed run.
type haltRecorder struct {
	vm.NoOpObserver
	event  vm.HaltEvent
	halted bool
}

func (h *haltRecorder) Config() vm.ObserverConfig {
	return vm.ObserverConfig{StepMode: vm.StepNone}
}

func (h *haltRecorder) OnHalt(event vm.HaltEvent) {
	h.event = event
	h.halted = true
}

// evalHandler serves both the root command, whose argument is a file, and
// the eval subcommand, whose argument is an expression.
func (c *cli) evalHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := getCode(cmd, args, cmd.Name() == "eval")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	opts := c.chrisOptions(filename)

	showStats, _ := cmd.Flags().GetBool("stats")
	recorder := &haltRecorder{}
	if showStats {
		opts = append(opts, chris.WithObserver(recorder))
	}

	start := time.Now()
	code, err := chris.CompileContext(ctx, source, opts...)
	if err != nil {
		return err
	}
	result, err := chris.RunValue(ctx, code, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	output, err := getOutput(result, c.outputFormat())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)

	if showStats && recorder.halted {
		heap := recorder.event.Heap
		fmt.Fprintf(cmd.ErrOrStderr(), "steps: %d, heap: %s in %d objects, time: %s\n",
			recorder.event.Steps,
			humanize.Bytes(uint64(heap.Bytes)),
			heap.Objects,
			elapsed)
	}
	return nil
}

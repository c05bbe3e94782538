package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/chrisvm/chris"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// BenchResult holds benchmark statistics
type BenchResult struct {
	Iterations    int     `json:"iterations"`
	Warmup        int     `json:"warmup"`
	TotalNs       int64   `json:"total_ns"`
	TotalDuration string  `json:"total_duration"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	MinNs         int64   `json:"min_ns"`
	MaxNs         int64   `json:"max_ns"`
	AvgNs         int64   `json:"avg_ns"`
	MedianNs      int64   `json:"median_ns"`
	P95Ns         int64   `json:"p95_ns"`
	P99Ns         int64   `json:"p99_ns"`
}

func (c *cli) benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Benchmark code execution",
		Long: `Compile once, then time repeated runs of the compiled code.
Each run gets a fresh stack and heap.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.benchHandler,
	}
	addInputFlags(cmd)
	cmd.Flags().IntP("iterations", "n", 1000, "number of iterations")
	cmd.Flags().IntP("warmup", "w", 100, "warmup iterations")
	return cmd
}

func (c *cli) benchHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := getCode(cmd, args, false)
	if err != nil {
		return err
	}
	iterations, _ := cmd.Flags().GetInt("iterations")
	if iterations <= 0 {
		iterations = 1000
	}
	warmup, _ := cmd.Flags().GetInt("warmup")
	if warmup < 0 {
		warmup = 100
	}

	ctx := cmd.Context()
	opts := c.chrisOptions(filename)
	code, err := chris.CompileContext(ctx, source, opts...)
	if err != nil {
		return err
	}
	// Verify the code runs before timing it.
	if _, err := chris.RunValue(ctx, code, opts...); err != nil {
		return fmt.Errorf("code error: %w", err)
	}
	for i := 0; i < warmup; i++ {
		_, _ = chris.RunValue(ctx, code, opts...)
	}

	// Force GC before benchmark
	runtime.GC()

	durations := make([]time.Duration, iterations)
	for i := range durations {
		start := time.Now()
		_, _ = chris.RunValue(ctx, code, opts...)
		durations[i] = time.Since(start)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	result := computeBenchResult(durations, warmup)

	out := cmd.OutOrStdout()
	if c.outputFormat() == "json" {
		data, err := getOutputJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	printBenchResult(out, result)
	return nil
}

// computeBenchResult summarizes the per-iteration durations. durations must
// not be empty; it is sorted in place.
func computeBenchResult(durations []time.Duration, warmup int) BenchResult {
	slices.Sort(durations)
	n := len(durations)
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	ops := 0.0
	if total > 0 {
		ops = float64(n) / total.Seconds()
	}
	return BenchResult{
		Iterations:    n,
		Warmup:        warmup,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.Round(time.Microsecond).String(),
		OpsPerSec:     ops,
		MinNs:         durations[0].Nanoseconds(),
		MaxNs:         durations[n-1].Nanoseconds(),
		AvgNs:         (total / time.Duration(n)).Nanoseconds(),
		MedianNs:      durations[n/2].Nanoseconds(),
		P95Ns:         durations[int(float64(n)*0.95)].Nanoseconds(),
		P99Ns:         durations[int(float64(n)*0.99)].Nanoseconds(),
	}
}

func printBenchResult(w io.Writer, r BenchResult) {
	label := color.New(color.FgMagenta).SprintFunc()
	value := color.New(color.FgGreen).SprintFunc()
	line := func(name, v string) {
		fmt.Fprintf(w, "%s %s\n", label(fmt.Sprintf("%-11s", name+":")), value(v))
	}
	line("Iterations", humanize.Comma(int64(r.Iterations)))
	line("Warmup", humanize.Comma(int64(r.Warmup)))
	line("Total", r.TotalDuration)
	line("Ops/sec", humanize.CommafWithDigits(r.OpsPerSec, 1))
	line("Min", time.Duration(r.MinNs).String())
	line("Avg", time.Duration(r.AvgNs).String())
	line("Median", time.Duration(r.MedianNs).String())
	line("P95", time.Duration(r.P95Ns).String())
	line("P99", time.Duration(r.P99Ns).String())
	line("Max", time.Duration(r.MaxNs).String())
}

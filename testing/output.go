package testing

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	colorPass = color.New(color.FgGreen)
	colorFail = color.New(color.FgRed)
	colorSkip = color.New(color.FgYellow)
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Writer is where output is written.
	Writer io.Writer

	// Verbose shows the source and result of every case.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output handles formatting and printing test results.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

// StartTest prints the "=== RUN" line for a case.
func (o *Output) StartTest(name string) {
	fmt.Fprintf(o.w, "=== RUN   %s\n", name)
}

// EndTest prints the result line for a case (--- PASS, --- FAIL, etc.).
func (o *Output) EndTest(result *TestResult) {
	var statusStr string
	switch result.Status {
	case StatusPassed:
		statusStr = o.colorize(colorPass, "--- PASS:")
	case StatusFailed:
		statusStr = o.colorize(colorFail, "--- FAIL:")
	case StatusSkipped:
		statusStr = o.colorize(colorSkip, "--- SKIP:")
	case StatusError:
		statusStr = o.colorize(colorFail, "--- ERROR:")
	default:
		statusStr = fmt.Sprintf("--- %s:", result.Status)
	}

	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", statusStr, result.Name, result.Duration.Seconds())

	if result.Status == StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(o.w, "    %s\n", result.SkipReason)
	}
	if result.Status == StatusError && result.Error != nil {
		fmt.Fprintf(o.w, "    %s\n", result.Error.Error())
	}
	for _, failure := range result.Failures {
		o.printFailure(&failure)
	}
	if o.verbose || result.Status == StatusFailed {
		for _, log := range result.Logs {
			fmt.Fprintf(o.w, "    %s\n", log)
		}
	}
}

func (o *Output) printFailure(f *AssertionError) {
	loc := ""
	if f.File != "" {
		loc = f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		loc += ": "
	}
	fmt.Fprintf(o.w, "    %s%s\n", loc, f.Message)

	if f.Got != "" {
		fmt.Fprintf(o.w, "        %s:  %s\n", o.colorize(colorFail, "got"), f.Got)
	}
	if f.Want != "" {
		fmt.Fprintf(o.w, "        %s: %s\n", o.colorize(colorPass, "want"), f.Want)
	}
}

// LoadError prints the reason a case file could not be run.
func (o *Output) LoadError(filename string, err error) {
	fmt.Fprintf(o.w, "%s %s\n", o.colorize(colorFail, "LOAD ERROR:"), filename)
	fmt.Fprintf(o.w, "    %s\n", err.Error())
}

// Summary prints the final summary line.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)

	if summary.Success() {
		fmt.Fprintln(o.w, o.colorize(colorPass, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.colorize(colorFail, "FAIL"))
	}

	parts := []string{}
	if summary.Passed > 0 {
		parts = append(parts, o.colorize(colorPass, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.colorize(colorFail, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.colorize(colorSkip, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.colorize(colorFail, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

func (o *Output) colorize(c *color.Color, s string) string {
	if o.useColor {
		return c.Sprint(s)
	}
	return s
}

// PrintResults prints all results in Go test style.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		if file.LoadErr != nil {
			o.LoadError(file.Filename, file.LoadErr)
		}
	}
	for _, file := range summary.Files {
		for _, test := range file.Tests {
			o.StartTest(test.Name)
			o.EndTest(test)
		}
	}
	o.Summary(summary)
}

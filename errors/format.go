package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors with source context and optional colors.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorPipe      = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed, color.Bold)
	colorNote      = color.New(color.FgHiBlue)
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "parse error", "compile error", ...
	Message     string
	Filename    string
	Line        int
	Column      int
	SourceLines []SourceLineEntry
	Note        string
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // True if this is the line with the error
}

// Format formats the error in a compiler-diagnostic style:
//
//	compile error[E2002]: unsupported operator "if"
//	  --> expr.chris:1:2
//	   |
//	 1 | (if 1 2 3)
//	   |  ^
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder

	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	b.WriteString(f.paint(colorErrorBold, label))
	if err.Code != "" {
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", err.Code)))
	}
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	width := len(fmt.Sprintf("%d", err.Line))
	if width < 2 {
		width = 2
	}
	pad := strings.Repeat(" ", width)

	if err.Line > 0 {
		loc := fmt.Sprintf("%d:%d", err.Line, err.Column)
		if err.Filename != "" {
			loc = err.Filename + ":" + loc
		}
		fmt.Fprintf(&b, "%s%s %s\n", pad[1:], f.paint(colorPipe, "-->"), f.paint(colorLocation, loc))
	}

	if len(err.SourceLines) > 0 {
		fmt.Fprintf(&b, "%s %s\n", pad, f.paint(colorPipe, "|"))
		for _, line := range err.SourceLines {
			num := fmt.Sprintf("%*d", width, line.Number)
			fmt.Fprintf(&b, "%s %s %s\n", f.paint(colorPipe, num), f.paint(colorPipe, "|"), line.Text)
			if line.IsMain && err.Column > 0 {
				caret := strings.Repeat(" ", err.Column-1) + "^"
				fmt.Fprintf(&b, "%s %s %s\n", pad, f.paint(colorPipe, "|"), f.paint(colorCaret, caret))
			}
		}
	}

	if err.Note != "" {
		fmt.Fprintf(&b, "%s %s %s\n", pad, f.paint(colorNote, "= note:"), err.Note)
	}
	return b.String()
}

// FormatMultiple formats several errors separated by blank lines.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, f.Format(err))
	}
	return strings.Join(parts, "\n")
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

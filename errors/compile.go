package errors

import (
	"fmt"
	"strings"
)

// CompileError represents a compilation error with source context.
type CompileError struct {
	Code       ErrorCode
	Message    string
	Filename   string
	Line       int
	Column     int
	SourceLine string
	Note       string

	// Unsupported marks errors for constructs the compiler cannot lower.
	Unsupported bool
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// Is reports whether target is ErrUnsupported and this error is of that kind.
func (e *CompileError) Is(target error) bool {
	return target == ErrUnsupported && e.Unsupported
}

// Location returns the source location of the error.
func (e *CompileError) Location() SourceLocation {
	return SourceLocation{
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Source:   e.SourceLine,
	}
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     "compile error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Note:     e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	return fe
}

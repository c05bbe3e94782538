package parser

import (
	"fmt"

	"github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/internal/token"
)

// ParseError is a syntax error with its position in the input.
type ParseError struct {
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string // the source line containing the error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.StartPosition.LineNumber(), e.StartPosition.ColumnNumber())
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	return fmt.Sprintf("syntax error: %s (%s)", e.Message, loc)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Location returns the source location of the error.
func (e *ParseError) Location() errors.SourceLocation {
	return errors.SourceLocation{
		Filename: e.File,
		Line:     e.StartPosition.LineNumber(),
		Column:   e.StartPosition.ColumnNumber(),
		Source:   e.SourceCode,
	}
}

func (e *ParseError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the parse error to a FormattedError for display.
func (e *ParseError) ToFormatted() *errors.FormattedError {
	start := e.StartPosition
	return &errors.FormattedError{
		Code:     e.Code,
		Kind:     "syntax error",
		Message:  e.Message,
		Filename: e.File,
		Line:     start.LineNumber(),
		Column:   start.ColumnNumber(),
		SourceLines: []errors.SourceLineEntry{
			{Number: start.LineNumber(), Text: e.SourceCode, IsMain: true},
		},
	}
}

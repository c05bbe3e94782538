package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/object"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

var red = color.New(color.FgRed).SprintFunc()

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatError renders parse and compile errors with their source context.
// Other errors are printed in red.
func formatError(err error) string {
	formatter := errors.NewFormatter(!color.NoColor)

	var merr *multierror.Error
	if goerrors.As(err, &merr) {
		var formatted []*errors.FormattedError
		for _, e := range merr.Errors {
			fe, ok := e.(errors.FormattableError)
			if !ok {
				return red(err.Error())
			}
			formatted = append(formatted, fe.ToFormatted())
		}
		return formatter.FormatMultiple(formatted)
	}

	var formattable errors.FormattableError
	if goerrors.As(err, &formattable) {
		return formatter.Format(formattable.ToFormatted())
	}
	return red(err.Error())
}

// getOutput renders a result. With an unspecified format the result is
// printed as JSON when it can be marshalled and as text otherwise.
func getOutput(result object.Value, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		output, err := getOutputJSON(result.Interface())
		if err != nil {
			return textOf(result), nil
		}
		return string(output), nil
	case "json":
		output, err := getOutputJSON(result.Interface())
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "text":
		return textOf(result), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func textOf(v object.Value) string {
	switch {
	case v.IsNumber():
		n, _ := v.AsNumber()
		return object.FormatNumber(n)
	case v.IsBool():
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case v.IsString():
		s, _ := v.AsString()
		return s
	}
	return v.Inspect()
}

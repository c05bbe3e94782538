package testing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	stdt "testing"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedCases = `
- name: addition
  source: (+ 1 2)
  number: 3
- name: wrong answer
  source: (+ 1 2)
  number: 4
- name: later
  source: (if 1 2 3)
  number: 2
  skip: no control flow yet
- name: crashes
  source: (+ 1 "a")
  bool: true
- name: rejects symbols
  source: x
  error: unsupported construct
`

func writeFile(t *stdt.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStatus_String(t *stdt.T) {
	assert.Equal(t, "PASS", StatusPassed.String())
	assert.Equal(t, "FAIL", StatusFailed.String())
	assert.Equal(t, "SKIP", StatusSkipped.String())
	assert.Equal(t, "ERROR", StatusError.String())
	assert.Equal(t, "UNKNOWN", Status(42).String())
}

func TestParseCases(t *stdt.T) {
	cases, err := ParseCases([]byte(mixedCases))
	require.NoError(t, err)
	require.Len(t, cases, 5)

	assert.Equal(t, "addition", cases[0].Name)
	assert.Equal(t, 2, cases[0].Line)
	require.NotNil(t, cases[0].Number)
	assert.Equal(t, 3.0, *cases[0].Number)
	assert.Equal(t, "no control flow yet", cases[2].Skip)
	assert.Equal(t, "unsupported construct", cases[4].Error)
}

func TestParseCasesDefaults(t *stdt.T) {
	cases, err := ParseCases([]byte("- source: '\"hi\"'\n  string: hi\n"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "case_1", cases[0].Name)

	cases, err = ParseCases(nil)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestParseCasesInvalid(t *stdt.T) {
	_, err := ParseCases([]byte("name: not a list\n"))
	require.Error(t, err)
	assert.Equal(t, "line 1: expected a list of cases", err.Error())

	_, err = ParseCases([]byte("- name: both\n  source: '1'\n  number: 1\n  bool: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `case "both" must set exactly one of number, bool, string or error`)

	_, err = ParseCases([]byte("- name: none\n  source: '1'\n"))
	require.Error(t, err)

	_, err = ParseCases([]byte("- [unclosed"))
	require.Error(t, err)
}

func TestDiscoverTestFiles(t *stdt.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a_test.yaml"), "[]")
	writeFile(t, filepath.Join(dir, "b.yaml"), "[]")
	writeFile(t, filepath.Join(dir, "sub", "c_test.yaml"), "[]")

	files, err := DiscoverTestFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_test.yaml")}, files)

	files, err = DiscoverTestFiles([]string{dir + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a_test.yaml"),
		filepath.Join(dir, "sub", "c_test.yaml"),
	}, files)

	files, err = DiscoverTestFiles([]string{filepath.Join(dir, "*.yaml"), filepath.Join(dir, "a_test.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_test.yaml")}, files)

	_, err = DiscoverTestFiles([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path not found")
}

func TestRun(t *stdt.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed_test.yaml")
	writeFile(t, path, mixedCases)

	summary, err := Run(context.Background(), &Config{Patterns: []string{dir}})
	require.NoError(t, err)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 5, summary.TotalTests())
	assert.False(t, summary.Success())

	tests := summary.Files[0].Tests
	assert.Equal(t, StatusPassed, tests[0].Status)
	assert.Equal(t, []string{"source: (+ 1 2)", "result: 3"}, tests[0].Logs)

	require.Equal(t, StatusFailed, tests[1].Status)
	require.Len(t, tests[1].Failures, 1)
	assert.Equal(t, AssertionError{
		Message: "wrong result",
		File:    path,
		Line:    5,
		Got:     "3",
		Want:    "4",
	}, tests[1].Failures[0])

	assert.Equal(t, StatusSkipped, tests[2].Status)
	require.Equal(t, StatusError, tests[3].Status)
	assert.Contains(t, tests[3].Error.Error(), "unsupported operand types for ADD")
	assert.Equal(t, StatusPassed, tests[4].Status)
}

func TestRunPattern(t *stdt.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mixed_test.yaml"), mixedCases)

	summary, err := Run(context.Background(), &Config{
		Patterns:   []string{dir},
		RunPattern: "^(addition|rejects)",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Passed)
	assert.True(t, summary.Success())

	_, err = Run(context.Background(), &Config{Patterns: []string{dir}, RunPattern: "("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run pattern")
}

func TestRunWithOptions(t *stdt.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings_test.yaml")
	writeFile(t, path, "- source: '(+ \"a\" \"b\")'\n  string: ab\n")

	result := RunFile(context.Background(), path, nil, chris.WithSyntax(syntax.NumericOnly))
	require.Len(t, result.Tests, 1)
	assert.Equal(t, StatusError, result.Tests[0].Status)
	assert.Contains(t, result.Tests[0].Error.Error(), "string literals are not allowed")

	result = RunFile(context.Background(), path, regexp.MustCompile("nothing"))
	assert.Empty(t, result.Tests)
}

func TestLoadError(t *stdt.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken_test.yaml")
	writeFile(t, path, "name: broken\n")

	summary, err := Run(context.Background(), &Config{Patterns: []string{path}})
	require.NoError(t, err)
	require.Error(t, summary.Files[0].LoadErr)
	assert.Equal(t, 1, summary.Errors)
	assert.False(t, summary.Success())
}

func TestRunCancelled(t *stdt.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mixed_test.yaml"), mixedCases)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &Config{Patterns: []string{dir}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutput(t *stdt.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed_test.yaml")
	writeFile(t, path, mixedCases)
	summary, err := Run(context.Background(), &Config{Patterns: []string{dir}})
	require.NoError(t, err)

	var buf bytes.Buffer
	NewOutput(OutputConfig{Writer: &buf}).PrintResults(summary)
	out := buf.String()

	assert.Contains(t, out, "=== RUN   addition\n--- PASS: addition (")
	assert.Contains(t, out, "--- FAIL: wrong answer (")
	assert.Contains(t, out, "    "+path+":5: wrong result\n")
	assert.Contains(t, out, "        got:  3\n")
	assert.Contains(t, out, "        want: 4\n")
	assert.Contains(t, out, "    source: (+ 1 2)\n")
	assert.Contains(t, out, "--- SKIP: later (0.000s)\n    no control flow yet\n")
	assert.Contains(t, out, "--- ERROR: crashes (")
	assert.Contains(t, out, "\nFAIL\n2 passed, 1 failed, 1 skipped, 1 errors\n")
	assert.NotContains(t, out, "result: 3")
}

func TestOutputVerbose(t *stdt.T) {
	summary := &Summary{Files: []*FileResult{{
		Filename: "x_test.yaml",
		Tests: []*TestResult{{
			Name:   "one",
			Status: StatusPassed,
			Logs:   []string{"source: 1", "result: 1"},
		}},
	}}}
	summary.ComputeTotals()

	var buf bytes.Buffer
	NewOutput(OutputConfig{Writer: &buf, Verbose: true}).PrintResults(summary)
	assert.Equal(t, "=== RUN   one\n--- PASS: one (0.000s)\n    source: 1\n    result: 1\n\nPASS\n1 passed\n", buf.String())
}

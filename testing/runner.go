package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chrisvm/chris"
	"github.com/chrisvm/chris/object"
)

// Config holds configuration for running cases.
type Config struct {
	// Patterns specifies files or directories to search for case files.
	// Default is current directory.
	Patterns []string

	// RunPattern filters cases to run by name regex.
	RunPattern string

	// Options are passed to every compilation and run.
	Options []chris.Option
}

// DiscoverTestFiles finds all *_test.yaml files matching the given patterns.
// If no patterns are provided, searches the current directory.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		// Handle "..." suffix for recursive search
		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}

		switch {
		case !info.IsDir():
			add(pattern)
		case recursive:
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(searchDir, e.Name()))
				}
			}
		}
	}

	return files, nil
}

// isTestFile returns true if the filename matches *_test.yaml.
func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.yaml")
}

// Run executes cases according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, RunFile(ctx, file, runRe, cfg.Options...))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()

	return summary, nil
}

// RunFile executes the cases of one file. A nil runRe runs every case.
func RunFile(ctx context.Context, filename string, runRe *regexp.Regexp, opts ...chris.Option) *FileResult {
	result := &FileResult{Filename: filename}

	data, err := os.ReadFile(filename)
	if err != nil {
		result.LoadErr = err
		return result
	}
	cases, err := ParseCases(data)
	if err != nil {
		result.LoadErr = fmt.Errorf("%s: %w", filename, err)
		return result
	}

	for _, c := range cases {
		if runRe != nil && !runRe.MatchString(c.Name) {
			continue
		}
		result.Tests = append(result.Tests, runSingleCase(ctx, c, filename, opts))
	}
	return result
}

func runSingleCase(ctx context.Context, c Case, filename string, opts []chris.Option) *TestResult {
	result := &TestResult{Name: c.Name}
	if c.Skip != "" {
		result.Status = StatusSkipped
		result.SkipReason = c.Skip
		return result
	}
	start := time.Now()

	caseOpts := append([]chris.Option{chris.WithName(c.Name)}, opts...)
	var value object.Value
	code, err := chris.CompileContext(ctx, c.Source, caseOpts...)
	if err == nil {
		value, err = chris.RunValue(ctx, code, caseOpts...)
	}
	failure, err := c.check(value, err)
	if err == nil && failure == nil && c.Error == "" {
		result.Logs = append(result.Logs, "result: "+value.Inspect())
	}
	result.Duration = time.Since(start)
	result.Logs = append([]string{"source: " + strings.TrimSpace(c.Source)}, result.Logs...)

	switch {
	case err != nil:
		result.Status = StatusError
		result.Error = err
	case failure != nil:
		failure.File = filename
		failure.Line = c.Line
		result.Failures = append(result.Failures, *failure)
		result.Status = StatusFailed
	default:
		result.Status = StatusPassed
	}
	return result
}

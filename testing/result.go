// Package testing runs case files: YAML lists of programs with their
// expected results.
package testing

import "time"

// Status represents the outcome of a test.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AssertionError represents a case whose outcome did not match.
type AssertionError struct {
	Message string // Description of the failure
	File    string // Case filename
	Line    int    // Line of the case in the file
	Got     string // Actual outcome (may be empty)
	Want    string // Expected outcome (may be empty)
}

// TestResult holds the outcome of a single case.
type TestResult struct {
	Name       string           // Case name
	Status     Status           // Pass, fail, skip, or error
	Duration   time.Duration    // How long the case took
	Failures   []AssertionError // Mismatches
	Logs       []string         // Source and result, shown when verbose
	SkipReason string           // Why the case was skipped
	Error      error            // Error if Status == StatusError
}

// FileResult holds the results of all cases in a single file.
type FileResult struct {
	Filename string        // Path to the case file
	Tests    []*TestResult // Results for each case
	LoadErr  error         // Error if the file could not be read or parsed
}

func (f *FileResult) count(status Status) int {
	count := 0
	for _, t := range f.Tests {
		if t.Status == status {
			count++
		}
	}
	return count
}

// Passed returns the number of passed cases in this file.
func (f *FileResult) Passed() int { return f.count(StatusPassed) }

// Failed returns the number of failed cases in this file.
func (f *FileResult) Failed() int { return f.count(StatusFailed) }

// Skipped returns the number of skipped cases in this file.
func (f *FileResult) Skipped() int { return f.count(StatusSkipped) }

// Errors returns the number of errored cases in this file, counting a file
// that failed to load as one error.
func (f *FileResult) Errors() int {
	if f.LoadErr != nil {
		return 1
	}
	return f.count(StatusError)
}

// Summary aggregates results across all case files.
type Summary struct {
	Files    []*FileResult // Results for each case file
	Passed   int           // Total passed cases
	Failed   int           // Total failed cases
	Skipped  int           // Total skipped cases
	Errors   int           // Total errored cases
	Duration time.Duration // Total time for all cases
}

// TotalTests returns the total number of cases run.
func (s *Summary) TotalTests() int {
	return s.Passed + s.Failed + s.Skipped + s.Errors
}

// Success returns true if all cases passed (no failures or errors).
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Errors == 0
}

// ComputeTotals recalculates the aggregate counts from all file results.
func (s *Summary) ComputeTotals() {
	s.Passed = 0
	s.Failed = 0
	s.Skipped = 0
	s.Errors = 0
	for _, f := range s.Files {
		s.Passed += f.Passed()
		s.Failed += f.Failed()
		s.Skipped += f.Skipped()
		s.Errors += f.Errors()
	}
}

package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Invalid escape sequence

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unsupported symbol reference
	E2002 ErrorCode = "E2002" // Unsupported operator
	E2003 ErrorCode = "E2003" // Wrong operand count
	E2004 ErrorCode = "E2004" // Malformed form
	E2008 ErrorCode = "E2008" // Too many constants
)

// Category returns the category name for an error code.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	default:
		return "unknown"
	}
}

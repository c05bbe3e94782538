// Package syntax provides AST validation and transformation.
package syntax

import "strings"

// SyntaxConfig controls which language features are disallowed.
// Zero value allows all features (full language).
type SyntaxConfig struct {
	// Literals
	DisallowStrings bool // "hello"

	// Operators
	DisallowArithmetic bool     // + - * /
	DisallowComparison bool     // < > == >= <= !=
	AllowedOperators   []string // when non-empty, only these operator symbols

	// MaxDepth limits list nesting. Zero means unlimited.
	MaxDepth int
}

// Presets for common use cases.
var (
	// NumericOnly rejects string literals, so every expression evaluates to a
	// number or a boolean.
	NumericOnly = SyntaxConfig{
		DisallowStrings: true,
	}

	// ArithmeticOnly allows numeric arithmetic and nothing else.
	ArithmeticOnly = SyntaxConfig{
		DisallowStrings:    true,
		DisallowComparison: true,
	}

	// FullLanguage allows all features (zero value, default behavior).
	FullLanguage = SyntaxConfig{}
)

// Preset returns the preset with the given name: "full", "numeric" or
// "arithmetic".
func Preset(name string) (SyntaxConfig, bool) {
	switch strings.ToLower(name) {
	case "", "full":
		return FullLanguage, true
	case "numeric":
		return NumericOnly, true
	case "arithmetic":
		return ArithmeticOnly, true
	}
	return SyntaxConfig{}, false
}

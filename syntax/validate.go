package syntax

import (
	"fmt"
	"slices"

	"github.com/chrisvm/chris/ast"
	"github.com/chrisvm/chris/op"
)

var arithmeticOperators = []string{"+", "-", "*", "/"}

// SyntaxValidator validates an AST against a SyntaxConfig.
type SyntaxValidator struct {
	config SyntaxConfig
}

// NewSyntaxValidator creates a validator for the given configuration.
func NewSyntaxValidator(config SyntaxConfig) *SyntaxValidator {
	return &SyntaxValidator{config: config}
}

// Validate checks the AST against the syntax configuration.
func (v *SyntaxValidator) Validate(root ast.Node) []ValidationError {
	var errors []ValidationError

	for node := range ast.Preorder(root) {
		if err := v.checkNode(node); err != nil {
			errors = append(errors, *err)
		}
	}
	if v.config.MaxDepth > 0 {
		if list := firstDeeperThan(root, v.config.MaxDepth, 0); list != nil {
			errors = append(errors, ValidationError{
				Message:  fmt.Sprintf("nesting deeper than %d lists is not allowed", v.config.MaxDepth),
				Node:     list,
				Position: list.Pos(),
			})
		}
	}

	return errors
}

func (v *SyntaxValidator) checkNode(node ast.Node) *ValidationError {
	switch n := node.(type) {
	case *ast.String:
		if v.config.DisallowStrings {
			return &ValidationError{
				Message:  "string literals are not allowed",
				Node:     node,
				Position: node.Pos(),
			}
		}

	case *ast.List:
		sym, ok := n.Head().(*ast.Symbol)
		if !ok {
			// Left for the compiler to reject.
			return nil
		}
		name := sym.Name
		if slices.Contains(arithmeticOperators, name) && v.config.DisallowArithmetic {
			return &ValidationError{
				Message:  "arithmetic is not allowed",
				Node:     node,
				Position: sym.Pos(),
			}
		}
		if _, isCompare := op.CompareOpFromSymbol(name); isCompare && v.config.DisallowComparison {
			return &ValidationError{
				Message:  "comparisons are not allowed",
				Node:     node,
				Position: sym.Pos(),
			}
		}
		if len(v.config.AllowedOperators) > 0 && !slices.Contains(v.config.AllowedOperators, name) {
			return &ValidationError{
				Message:  fmt.Sprintf("operator %q is not allowed", name),
				Node:     node,
				Position: sym.Pos(),
			}
		}
	}

	return nil
}

// firstDeeperThan returns the first list found below limit levels of nesting.
func firstDeeperThan(node ast.Node, limit, depth int) *ast.List {
	list, ok := node.(*ast.List)
	if !ok {
		return nil
	}
	depth++
	if depth > limit {
		return list
	}
	for _, item := range list.Items {
		if found := firstDeeperThan(item, limit, depth); found != nil {
			return found
		}
	}
	return nil
}

package syntax

import (
	"github.com/chrisvm/chris/ast"
	"github.com/chrisvm/chris/object"
)

// Transformer modifies an AST before compilation.
// Transformers receive ownership of the AST and return a (possibly new) AST.
type Transformer interface {
	// Transform processes the AST and returns the result.
	// The returned AST may be the same instance (modified in place)
	// or a completely new AST.
	Transform(root ast.Node) (ast.Node, error)
}

// TransformerFunc is an adapter to use a function as a Transformer.
type TransformerFunc func(ast.Node) (ast.Node, error)

// Transform implements the Transformer interface.
func (f TransformerFunc) Transform(root ast.Node) (ast.Node, error) {
	return f(root)
}

// FoldConstants replaces arithmetic on two literals with the literal result,
// working bottom up so that whole constant trees collapse to one node.
// Comparisons are left in place.
var FoldConstants = TransformerFunc(func(root ast.Node) (ast.Node, error) {
	return fold(root), nil
})

func fold(node ast.Node) ast.Node {
	list, ok := node.(*ast.List)
	if !ok {
		return node
	}
	for i, item := range list.Items {
		list.Items[i] = fold(item)
	}
	sym, ok := list.Head().(*ast.Symbol)
	if !ok || len(list.Args()) != 2 {
		return list
	}
	args := list.Args()

	if a, ok := args[0].(*ast.Number); ok {
		b, ok := args[1].(*ast.Number)
		if !ok {
			return list
		}
		var value float64
		switch sym.Name {
		case "+":
			value = a.Value + b.Value
		case "-":
			value = a.Value - b.Value
		case "*":
			value = a.Value * b.Value
		case "/":
			value = a.Value / b.Value
		default:
			return list
		}
		return &ast.Number{
			ValuePos: list.Lparen,
			Literal:  object.FormatNumber(value),
			Value:    value,
		}
	}

	if a, ok := args[0].(*ast.String); ok && sym.Name == "+" {
		b, ok := args[1].(*ast.String)
		if !ok {
			return list
		}
		return &ast.String{
			ValuePos: list.Lparen,
			EndPos:   list.End(),
			Value:    a.Value + b.Value,
		}
	}
	return list
}

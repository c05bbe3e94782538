// Package ast defines the abstract syntax tree of s-expression source.
//
// There are four node kinds: Number, String, Symbol and List.
package ast

import (
	"strconv"
	"strings"

	"github.com/chrisvm/chris/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Number is a numeric literal.
type Number struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text (e.g., "42", "-3.5", "1e3")
	Value    float64        // the parsed value
}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string { return x.Literal }

// String is a double-quoted string literal.
type String struct {
	ValuePos token.Position // position of the opening quote
	EndPos   token.Position // position after the closing quote
	Value    string         // the decoded contents
}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.EndPos }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Symbol is a bare identifier such as +, >= or x.
type Symbol struct {
	NamePos token.Position
	Name    string
}

func (x *Symbol) Pos() token.Position { return x.NamePos }
func (x *Symbol) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Symbol) String() string { return x.Name }

// List is a parenthesised sequence of nodes.
type List struct {
	Lparen token.Position
	Rparen token.Position
	Items  []Node
}

func (x *List) Pos() token.Position { return x.Lparen }
func (x *List) End() token.Position { return x.Rparen.Advance(1) }

func (x *List) String() string {
	parts := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		parts = append(parts, item.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the first item of the list, or nil when the list is empty.
func (x *List) Head() Node {
	if len(x.Items) == 0 {
		return nil
	}
	return x.Items[0]
}

// Args returns the items after the head.
func (x *List) Args() []Node {
	if len(x.Items) == 0 {
		return nil
	}
	return x.Items[1:]
}

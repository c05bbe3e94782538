package compiler

import (
	"math"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/op"
)

// MaxConstants is the number of constant pool slots addressable by the
// one-byte CONST operand.
const MaxConstants = 256

// Code is the mutable code unit under construction. It is converted to an
// immutable *bytecode.Code once compilation succeeds.
type Code struct {
	name         string
	instructions []op.Code
	constants    []any
	source       string
	filename     string
}

func newCode(name, filename, source string) *Code {
	return &Code{name: name, filename: filename, source: source}
}

// findConstant returns the index of a constant of the same kind and value.
func (c *Code) findConstant(value any) (int, bool) {
	for i, existing := range c.constants {
		switch v := value.(type) {
		case float64:
			if e, ok := existing.(float64); ok && math.Float64bits(e) == math.Float64bits(v) {
				return i, true
			}
		case string:
			if e, ok := existing.(string); ok && e == v {
				return i, true
			}
		}
	}
	return 0, false
}

// ToBytecode returns an immutable copy of the code.
func (c *Code) ToBytecode() *bytecode.Code {
	return bytecode.NewCode(bytecode.CodeParams{
		Name:         c.name,
		Instructions: c.instructions,
		Constants:    c.constants,
		Source:       c.source,
		Filename:     c.filename,
	})
}

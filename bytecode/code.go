package bytecode

import (
	"math"

	"github.com/chrisvm/chris/op"
)

// DefaultName is the name given to a top-level compiled program.
const DefaultName = "main"

// Code is a compiled code unit: a bytecode stream and its constant pool.
// It is immutable after creation and safe for concurrent use.
type Code struct {
	name         string
	instructions []op.Code
	constants    []any
	source       string
	filename     string
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Instructions []op.Code
	Constants    []any
	Source       string
	Filename     string
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied so later changes by the caller have no effect.
func NewCode(params CodeParams) *Code {
	name := params.Name
	if name == "" {
		name = DefaultName
	}
	return &Code{
		name:         name,
		instructions: copyInstructions(params.Instructions),
		constants:    copyAny(params.Constants),
		source:       params.Source,
		filename:     params.Filename,
	}
}

// Name returns the diagnostic name of this code unit.
func (c *Code) Name() string {
	return c.name
}

// InstructionCount returns the number of bytes in the instruction stream.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction byte at the given index.
func (c *Code) InstructionAt(index int) op.Code {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index. Constants are either
// float64 or string.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// Source returns the source code this unit was compiled from, if known.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename, if known.
func (c *Code) Filename() string {
	return c.filename
}

// Stats returns statistics about this code unit.
func (c *Code) Stats() Stats {
	var numbers, strs int
	for _, constant := range c.constants {
		switch constant.(type) {
		case float64:
			numbers++
		case string:
			strs++
		}
	}
	var count int
	iter := NewInstructionIter(c)
	for {
		if _, ok := iter.Next(); !ok {
			break
		}
		count++
	}
	return Stats{
		InstructionCount: count,
		CodeBytes:        len(c.instructions),
		ConstantCount:    len(c.constants),
		NumberConstants:  numbers,
		StringConstants:  strs,
		SourceBytes:      len(c.source),
	}
}

// Equal reports whether a and b hold the same instruction stream and the
// same constant pool. Names, sources and filenames are not compared. Numeric
// constants are compared bit for bit so that NaN entries are considered equal.
func Equal(a, b *Code) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.instructions) != len(b.instructions) || len(a.constants) != len(b.constants) {
		return false
	}
	for i := range a.instructions {
		if a.instructions[i] != b.instructions[i] {
			return false
		}
	}
	for i := range a.constants {
		switch x := a.constants[i].(type) {
		case float64:
			y, ok := b.constants[i].(float64)
			if !ok || math.Float64bits(x) != math.Float64bits(y) {
				return false
			}
		case string:
			y, ok := b.constants[i].(string)
			if !ok || x != y {
				return false
			}
		default:
			if a.constants[i] != b.constants[i] {
				return false
			}
		}
	}
	return true
}

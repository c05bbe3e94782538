// Package op defines opcodes used by the Chris compiler and virtual machine.
package op

// Code is a one-byte opcode, or the one-byte operand that follows it.
type Code uint8

const (
	Halt    Code = 0x00
	Const   Code = 0x01
	Add     Code = 0x02
	Sub     Code = 0x03
	Mul     Code = 0x04
	Div     Code = 0x05
	Compare Code = 0x06
)

// CompareOpType is the operand of a Compare instruction. The numbering is part
// of the bytecode format and must not change.
type CompareOpType uint8

const (
	LessThan           CompareOpType = 0
	GreaterThan        CompareOpType = 1
	Equal              CompareOpType = 2
	GreaterThanOrEqual CompareOpType = 3
	LessThanOrEqual    CompareOpType = 4
	NotEqual           CompareOpType = 5
)

// String returns the operator symbol, for example "<" for LessThan.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case Equal:
		return "=="
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	case NotEqual:
		return "!="
	default:
		return ""
	}
}

// Valid reports whether cop is one of the six defined comparators.
func (cop CompareOpType) Valid() bool {
	return cop <= NotEqual
}

// CompareOpFromSymbol maps an operator symbol such as ">=" to its comparator.
func CompareOpFromSymbol(symbol string) (CompareOpType, bool) {
	switch symbol {
	case "<":
		return LessThan, true
	case ">":
		return GreaterThan, true
	case "==":
		return Equal, true
	case ">=":
		return GreaterThanOrEqual, true
	case "<=":
		return LessThanOrEqual, true
	case "!=":
		return NotEqual, true
	}
	return 0, false
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Halt, "HALT", 0},
		{Const, "CONST", 1},
		{Add, "ADD", 0},
		{Sub, "SUB", 0},
		{Mul, "MUL", 0},
		{Div, "DIV", 0},
		{Compare, "COMPARE", 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// IsKnown reports whether op is part of the instruction set.
func IsKnown(op Code) bool {
	return infos[op].Name != ""
}

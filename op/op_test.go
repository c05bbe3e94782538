package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Compare)
	assert.Equal(t, "COMPARE", info.Name)
	assert.Equal(t, 1, info.OperandCount)
	assert.Equal(t, Compare, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{Halt, "HALT", 0},
		{Const, "CONST", 1},
		{Add, "ADD", 0},
		{Sub, "SUB", 0},
		{Mul, "MUL", 0},
		{Div, "DIV", 0},
		{Compare, "COMPARE", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.name, info.Name)
			assert.Equal(t, tt.operands, info.OperandCount)
			assert.True(t, IsKnown(tt.code))
		})
	}
}

func TestGetInfoUnknown(t *testing.T) {
	info := GetInfo(Code(0xFF))
	assert.Equal(t, "", info.Name)
	assert.Equal(t, 0, info.OperandCount)
	assert.False(t, IsKnown(Code(0x07)))
}

func TestOpcodeConstants(t *testing.T) {
	// These byte values are the bytecode format.
	assert.Equal(t, Code(0x00), Halt)
	assert.Equal(t, Code(0x01), Const)
	assert.Equal(t, Code(0x02), Add)
	assert.Equal(t, Code(0x03), Sub)
	assert.Equal(t, Code(0x04), Mul)
	assert.Equal(t, Code(0x05), Div)
	assert.Equal(t, Code(0x06), Compare)
}

func TestCompareOpTypeString(t *testing.T) {
	tests := []struct {
		op   CompareOpType
		code uint8
		want string
	}{
		{LessThan, 0, "<"},
		{GreaterThan, 1, ">"},
		{Equal, 2, "=="},
		{GreaterThanOrEqual, 3, ">="},
		{LessThanOrEqual, 4, "<="},
		{NotEqual, 5, "!="},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
			assert.Equal(t, tt.code, uint8(tt.op))
			assert.True(t, tt.op.Valid())

			parsed, ok := CompareOpFromSymbol(tt.want)
			assert.True(t, ok)
			assert.Equal(t, tt.op, parsed)
		})
	}
}

func TestCompareOpTypeInvalid(t *testing.T) {
	invalid := CompareOpType(6)
	assert.Equal(t, "", invalid.String())
	assert.False(t, invalid.Valid())

	_, ok := CompareOpFromSymbol("=")
	assert.False(t, ok)
}

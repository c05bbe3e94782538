package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/op"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestDisassemble(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Const, 1, op.Compare, op.Code(op.GreaterThanOrEqual), op.Halt},
		Constants:    []any{1.0, "hi"},
	})
	instructions, err := Disassemble(code)
	require.NoError(t, err)
	require.Len(t, instructions, 4)

	require.Equal(t, Instruction{
		Offset:     0,
		Name:       "CONST",
		Opcode:     op.Const,
		Operands:   []int{0},
		Annotation: "1",
		Constant:   1.0,
	}, instructions[0])
	require.Equal(t, 2, instructions[1].Offset)
	require.Equal(t, `"hi"`, instructions[1].Annotation)
	require.Equal(t, "hi", instructions[1].Constant)
	require.Equal(t, "COMPARE", instructions[2].Name)
	require.Equal(t, ">=", instructions[2].Annotation)
	require.Equal(t, 6, instructions[3].Offset)
	require.Equal(t, "HALT", instructions[3].Name)
	require.Empty(t, instructions[3].Operands)
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Code(0xAB), op.Halt},
	})
	instructions, err := Disassemble(code)
	require.NoError(t, err)
	require.Len(t, instructions, 2)
	require.Equal(t, "UNKNOWN_0xAB", instructions[0].Name)
}

func TestDisassembleErrors(t *testing.T) {
	truncated := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Const},
	})
	_, err := Disassemble(truncated)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing operand for CONST at offset 0")

	badConstant := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Const, 3, op.Halt},
		Constants:    []any{1.0},
	})
	_, err = Disassemble(badConstant)
	require.Error(t, err)
	require.Contains(t, err.Error(), "constant index 3 out of range")
}

func TestLongStringConstantTruncated(t *testing.T) {
	long := strings.Repeat("x", 100)
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Halt},
		Constants:    []any{long},
	})
	instructions, err := Disassemble(code)
	require.NoError(t, err)
	require.Equal(t, `"`+strings.Repeat("x", 77)+`..."`, instructions[0].Annotation)
}

func TestPrint(t *testing.T) {
	code := bytecode.NewCode(bytecode.CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Const, 1, op.Add, op.Halt},
		Constants:    []any{1.0, 2.0},
	})
	instructions, err := Disassemble(code)
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(instructions, &buf)

	expected := strings.Join([]string{
		"+--------+--------+----------+------+",
		"| OFFSET | OPCODE | OPERANDS | INFO |",
		"+--------+--------+----------+------+",
		"|      0 | CONST  |        0 | 1    |",
		"|      2 | CONST  |        1 | 2    |",
		"|      4 | ADD    |          |      |",
		"|      5 | HALT   |          |      |",
		"+--------+--------+----------+------+",
	}, "\n") + "\n"
	require.Equal(t, expected, buf.String())
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	Print(nil, &buf)
	require.Equal(t, strings.Join([]string{
		"+--------+--------+----------+------+",
		"| OFFSET | OPCODE | OPERANDS | INFO |",
		"+--------+--------+----------+------+",
		"+--------+--------+----------+------+",
	}, "\n")+"\n", buf.String())
}

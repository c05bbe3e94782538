package bytecode

import (
	"testing"

	"github.com/chrisvm/chris/op"
	"github.com/stretchr/testify/require"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []op.Code{op.Const, 0, op.Halt}
	constants := []any{42.0, "hello"}

	code := NewCode(CodeParams{
		Instructions: instructions,
		Constants:    constants,
	})

	instructions[0] = op.Add
	constants[0] = 99.0

	require.Equal(t, op.Const, code.InstructionAt(0))
	require.Equal(t, 42.0, code.ConstantAt(0))
}

func TestCodeAccessors(t *testing.T) {
	code := NewCode(CodeParams{
		Name:         "expr",
		Instructions: []op.Code{op.Const, 0, op.Const, 1, op.Add, op.Halt},
		Constants:    []any{1.0, 2.0},
		Source:       "(+ 1 2)",
		Filename:     "test.chris",
	})
	require.Equal(t, "expr", code.Name())
	require.Equal(t, 6, code.InstructionCount())
	require.Equal(t, op.Add, code.InstructionAt(4))
	require.Equal(t, 2, code.ConstantCount())
	require.Equal(t, 2.0, code.ConstantAt(1))
	require.Equal(t, "(+ 1 2)", code.Source())
	require.Equal(t, "test.chris", code.Filename())
}

func TestDefaultName(t *testing.T) {
	code := NewCode(CodeParams{})
	require.Equal(t, "main", code.Name())
	require.Equal(t, 0, code.InstructionCount())
}

func TestStats(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Const, 1, op.Compare, 2, op.Halt},
		Constants:    []any{"a", 3.0},
		Source:       `(== "a" 3)`,
	})
	stats := code.Stats()
	require.Equal(t, 4, stats.InstructionCount)
	require.Equal(t, 7, stats.CodeBytes)
	require.Equal(t, 2, stats.ConstantCount)
	require.Equal(t, 1, stats.NumberConstants)
	require.Equal(t, 1, stats.StringConstants)
	require.Equal(t, 10, stats.SourceBytes)
}

func TestInstructionIter(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Const, 0, op.Mul, op.Halt},
		Constants:    []any{7.0},
	})
	all := NewInstructionIter(code).All()
	require.Equal(t, [][]op.Code{
		{op.Const, 0},
		{op.Const, 0},
		{op.Mul},
		{op.Halt},
	}, all)
}

func TestInstructionIterTruncated(t *testing.T) {
	code := NewCode(CodeParams{Instructions: []op.Code{op.Const}})
	iter := NewInstructionIter(code)
	instr, ok := iter.Next()
	require.True(t, ok)
	require.Equal(t, []op.Code{op.Const}, instr)
	require.Equal(t, 1, iter.Offset())
	_, ok = iter.Next()
	require.False(t, ok)
}

func TestEqual(t *testing.T) {
	a := NewCode(CodeParams{
		Name:         "a",
		Instructions: []op.Code{op.Const, 0, op.Halt},
		Constants:    []any{1.5},
	})
	b := NewCode(CodeParams{
		Name:         "b",
		Instructions: []op.Code{op.Const, 0, op.Halt},
		Constants:    []any{1.5},
	})
	c := NewCode(CodeParams{
		Instructions: []op.Code{op.Const, 0, op.Halt},
		Constants:    []any{"1.5"},
	})
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
	require.False(t, Equal(a, nil))
	require.True(t, Equal(nil, nil))
}

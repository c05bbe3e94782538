package chris

import (
	"context"
	"errors"
	"testing"

	"github.com/chrisvm/chris/ast"
	chriserrors "github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/errz"
	"github.com/chrisvm/chris/parser"
	"github.com/chrisvm/chris/syntax"
	"github.com/chrisvm/chris/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicUsage(t *testing.T) {
	result, err := Eval(context.Background(), "(+ 1 1)")
	require.NoError(t, err)
	assert.Equal(t, 2.0, result)
}

func TestCompileThenRun(t *testing.T) {
	code, err := Compile("(+ 1 1)", WithName("two"), WithFilename("two.chris"))
	require.NoError(t, err)
	assert.Equal(t, "two", code.Name())
	assert.Equal(t, "two.chris", code.Filename())
	assert.Equal(t, 1, code.ConstantCount())

	for i := 0; i < 3; i++ {
		result, err := Run(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, 2.0, result)
	}

	value, err := RunValue(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "Value (NUMBER): 2", value.String())
}

func TestErrorTypes(t *testing.T) {
	_, err := Eval(context.Background(), "(+ 1", WithFilename("bad.chris"))
	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.chris", pe.File)

	_, err = Eval(context.Background(), "(if 1 2 3)", WithFilename("bad.chris"))
	var ce *chriserrors.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "bad.chris", ce.Filename)
	assert.True(t, errors.Is(err, chriserrors.ErrUnsupported))

	_, err = Eval(context.Background(), `(* "a" 2)`)
	assert.True(t, errors.Is(err, errz.ErrTypeMismatch))
}

func TestMaxHeapBytes(t *testing.T) {
	_, err := Eval(context.Background(), `(+ "aaaaaaaaaaaaaaaa" "bbbbbbbbbbbbbbbb")`, WithMaxHeapBytes(64))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errz.ErrMemoryLimit))
}

type countingObserver struct {
	vm.NoOpObserver
	steps int
}

func (o *countingObserver) OnStep(vm.StepEvent) bool {
	o.steps++
	return true
}

func TestWithObserver(t *testing.T) {
	obs := &countingObserver{}
	_, err := Eval(context.Background(), "(+ 1 2)", WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, 4, obs.steps)
}

func TestEvalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Eval(ctx, "(+ 1 2)")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWithSyntax(t *testing.T) {
	ctx := context.Background()

	t.Run("allows numbers", func(t *testing.T) {
		result, err := Eval(ctx, "(> (+ 1 2) 2)", WithSyntax(syntax.NumericOnly))
		require.NoError(t, err)
		assert.Equal(t, true, result)
	})

	t.Run("disallows strings", func(t *testing.T) {
		_, err := Eval(ctx, `(+ "a" "b")`, WithSyntax(syntax.NumericOnly))
		require.Error(t, err)
		var verrs *syntax.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs.Errors, 2)
	})

	t.Run("disallows comparisons", func(t *testing.T) {
		_, err := Eval(ctx, "(> 1 2)", WithSyntax(syntax.ArithmeticOnly))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "comparisons are not allowed")
	})
}

func TestWithTransformer(t *testing.T) {
	code, err := Compile("(- (* 10 3) 10)", WithTransformer(syntax.FoldConstants))
	require.NoError(t, err)
	assert.Equal(t, 3, code.InstructionCount())
	assert.Equal(t, 1, code.ConstantCount())

	result, err := Run(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, 20.0, result)

	failing := syntax.TransformerFunc(func(ast.Node) (ast.Node, error) {
		return nil, errors.New("boom")
	})
	_, err = Compile("1", WithTransformer(failing))
	require.Error(t, err)
	assert.Equal(t, "transform: boom", err.Error())
}

func TestValidatorsRunBeforeTransformers(t *testing.T) {
	// Folding would remove the nested list, but the restriction applies to
	// the source as written.
	_, err := Compile("(+ (+ 1 2) 3)",
		WithSyntax(syntax.SyntaxConfig{MaxDepth: 1}),
		WithTransformer(syntax.FoldConstants))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting deeper than 1 lists is not allowed")
}

// Package chris compiles s-expression source to bytecode and runs it on a
// stack virtual machine.
//
//	result, err := chris.Eval(ctx, `(- (* 10 3) 10)`)
//	// result == float64(20)
package chris

import (
	"context"
	"fmt"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/compiler"
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/parser"
	"github.com/chrisvm/chris/syntax"
	"github.com/chrisvm/chris/vm"
	"github.com/rs/zerolog"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	filename     string
	name         string
	observer     vm.Observer
	logger       zerolog.Logger
	maxHeapBytes int64
	validators   []syntax.Validator
	transformers []syntax.Transformer
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts(source string) []compiler.Option {
	opts := []compiler.Option{
		compiler.WithSource(source),
		compiler.WithLogger(o.logger),
	}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	if o.name != "" {
		opts = append(opts, compiler.WithName(o.name))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.maxHeapBytes > 0 {
		opts = append(opts, vm.WithMaxHeapBytes(o.maxHeapBytes))
	}
	return opts
}

// WithFilename sets the filename for the source code being evaluated.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithName sets the diagnostic name of the compiled code unit.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger passed to the compiler and the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxHeapBytes limits the heap each run may allocate.
func WithMaxHeapBytes(n int64) Option {
	return func(o *options) {
		o.maxHeapBytes = n
	}
}

// WithSyntax restricts the accepted language. Source using a disallowed
// feature fails to compile with a *syntax.ValidationErrors.
func WithSyntax(config syntax.SyntaxConfig) Option {
	return WithValidator(syntax.NewSyntaxValidator(config))
}

// WithValidator adds a validator that runs on the parsed AST before any
// transformer.
func WithValidator(v syntax.Validator) Option {
	return func(o *options) {
		o.validators = append(o.validators, v)
	}
}

// WithTransformer adds a transformer applied to the AST after validation
// and before compilation. Transformers run in the order given.
func WithTransformer(t syntax.Transformer) Option {
	return func(o *options) {
		o.transformers = append(o.transformers, t)
	}
}

// Compile parses and compiles source code into executable bytecode.
// The returned Code is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	return CompileContext(context.Background(), source, opts...)
}

// CompileContext is Compile with a context that can cancel parsing.
func CompileContext(ctx context.Context, source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	var parserOpts []parser.Option
	if o.filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(o.filename))
	}
	node, err := parser.Parse(ctx, source, parserOpts...)
	if err != nil {
		return nil, err
	}
	if err := syntax.Run(node, o.validators...); err != nil {
		return nil, err
	}
	for _, t := range o.transformers {
		if node, err = t.Transform(node); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	return compiler.Compile(node, o.compilerOpts(source)...)
}

// RunValue executes compiled bytecode and returns the result value.
func RunValue(ctx context.Context, code *bytecode.Code, opts ...Option) (object.Value, error) {
	o := collectOptions(opts...)
	return vm.Run(ctx, code, o.vmOpts()...)
}

// Run executes compiled bytecode and returns the result as a native Go
// value: float64, bool or string. Each call creates fresh runtime state,
// allowing concurrent execution of the same Code.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) (any, error) {
	result, err := RunValue(ctx, code, opts...)
	if err != nil {
		return nil, err
	}
	return result.Interface(), nil
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	code, err := CompileContext(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, code, opts...)
}

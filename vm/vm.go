// Package vm provides a VirtualMachine that executes compiled code units on
// a fixed-size operand stack.
package vm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/compiler"
	"github.com/chrisvm/chris/errz"
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/parser"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

const (
	// MaxStackDepth is the capacity of the operand stack.
	MaxStackDepth = 512

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// VirtualMachine holds configuration only. Every call to Exec or Run creates
// its own execution state, so a VirtualMachine may be shared by goroutines.
type VirtualMachine struct {
	contextCheckInterval int
	observer             Observer
	maxHeapBytes         int64
	logger               zerolog.Logger
	compilerOpts         []compiler.Option
	parserOpts           []parser.Option

	runs atomic.Int64
}

// New creates a new Virtual Machine.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Runs returns the number of runs started on this VM.
func (vm *VirtualMachine) Runs() int64 {
	return vm.runs.Load()
}

// Compile parses and compiles source with the VM's parser and compiler
// options.
func (vm *VirtualMachine) Compile(ctx context.Context, source string) (*bytecode.Code, error) {
	node, err := parser.Parse(ctx, source, vm.parserOpts...)
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithSource(source),
		compiler.WithLogger(vm.logger),
	}
	opts = append(opts, vm.compilerOpts...)
	return compiler.Compile(node, opts...)
}

// Exec parses, compiles and runs source, returning the single result value.
func (vm *VirtualMachine) Exec(ctx context.Context, source string) (object.Value, error) {
	code, err := vm.Compile(ctx, source)
	if err != nil {
		return object.Value{}, err
	}
	return vm.Run(ctx, code)
}

// Run executes a compiled code unit and returns the value left by HALT.
func (vm *VirtualMachine) Run(ctx context.Context, main *bytecode.Code) (result object.Value, err error) {
	if main == nil {
		return object.Value{}, fmt.Errorf("vm: nil code")
	}
	vm.runs.Add(1)

	ex := &execution{
		id:            newExecutionID(),
		sp:            -1,
		heap:          object.NewHeap(vm.maxHeapBytes),
		observer:      vm.observer,
		checkInterval: vm.contextCheckInterval,
	}
	if ex.observer != nil {
		ex.observerCfg = NormalizeConfig(ex.observer.Config())
	}
	logger := vm.logger.With().
		Str("exec_id", ex.id).
		Str("code", main.Name()).
		Logger()
	logger.Debug().
		Int("instructions", main.InstructionCount()).
		Int("constants", main.ConstantCount()).
		Msg("run started")

	// Panics are translated to errors and the heap is always released.
	defer func() {
		if r := recover(); r != nil {
			result = object.Value{}
			err = errz.RuntimeErrorf("panic: %v", r).WithInstruction(ex.offset, ex.opcodeName())
		}
		stats := ex.heap.Release()
		event := logger.Debug()
		if err != nil {
			event = logger.Debug().Err(err)
		}
		event.Int64("steps", ex.steps).
			Int("heap_objects", stats.Objects).
			Int64("heap_bytes", stats.Bytes).
			Msg("run finished")
		if err == nil && ex.observer != nil {
			ex.observer.OnHalt(HaltEvent{
				ExecutionID: ex.id,
				Result:      result,
				Steps:       ex.steps,
				Heap:        stats,
			})
		}
	}()

	loaded, err := loadCode(main, ex.heap)
	if err != nil {
		return object.Value{}, err
	}
	ex.code = loaded
	return ex.eval(ctx)
}

// Run the given code in a new Virtual Machine and return the result.
func Run(ctx context.Context, main *bytecode.Code, options ...Option) (object.Value, error) {
	return New(options...).Run(ctx, main)
}

func newExecutionID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

package vm

import (
	"github.com/chrisvm/chris/compiler"
	"github.com/chrisvm/chris/parser"
	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in number of instructions. A value of 0 disables the periodic
// check; the context is then only consulted when a run starts. The default
// is DefaultContextCheckInterval (1000).
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events.
// Returning false from OnStep halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithMaxHeapBytes limits the approximate number of bytes each run may
// allocate on its heap. Zero means unlimited.
func WithMaxHeapBytes(n int64) Option {
	return func(vm *VirtualMachine) {
		vm.maxHeapBytes = n
	}
}

// WithLogger sets the logger used for debug output. The logger is also
// passed to the compiler by Exec.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithCompilerOptions sets options used when Exec compiles source.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(vm *VirtualMachine) {
		vm.compilerOpts = append(vm.compilerOpts, opts...)
	}
}

// WithParserOptions sets options used when Exec parses source.
func WithParserOptions(opts ...parser.Option) Option {
	return func(vm *VirtualMachine) {
		vm.parserOpts = append(vm.parserOpts, opts...)
	}
}

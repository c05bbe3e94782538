// Package errz defines the runtime error taxonomy of the virtual machine.
package errz

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every StructuredError produced by the virtual machine wraps
// one of these, so callers can match with errors.Is.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrMemoryLimit    = errors.New("memory limit exceeded")
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrType indicates an operand of the wrong variant.
	ErrType ErrorKind = iota
	// ErrRuntime indicates a malformed program or an aborted run.
	ErrRuntime
	// ErrStack indicates the operand stack overflowed or underflowed.
	ErrStack
	// ErrOpcode indicates a byte that is not part of the instruction set.
	ErrOpcode
	// ErrMemory indicates the heap arena budget was exhausted.
	ErrMemory
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrType:
		return "type error"
	case ErrRuntime:
		return "runtime error"
	case ErrStack:
		return "stack error"
	case ErrOpcode:
		return "opcode error"
	case ErrMemory:
		return "memory error"
	default:
		return "error"
	}
}

// StructuredError is a runtime error annotated with the instruction that
// raised it.
type StructuredError struct {
	Message string
	Kind    ErrorKind
	// Offset is the position of the failing opcode in the instruction stream,
	// or -1 when the error was not raised by an instruction.
	Offset int
	// Opcode is the name of the failing instruction, if known.
	Opcode string
	Cause  error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Opcode == "" {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s (offset %d, %s)", e.Kind, e.Message, e.Offset, e.Opcode)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// NewStructuredError creates a StructuredError with no instruction location.
func NewStructuredError(kind ErrorKind, cause error, message string) *StructuredError {
	return &StructuredError{
		Message: message,
		Kind:    kind,
		Offset:  -1,
		Cause:   cause,
	}
}

// NewStructuredErrorf creates a StructuredError with a formatted message.
func NewStructuredErrorf(kind ErrorKind, cause error, format string, args ...any) *StructuredError {
	return NewStructuredError(kind, cause, fmt.Sprintf(format, args...))
}

// WithInstruction records the offset and opcode name of the failing
// instruction. An existing location is never overwritten.
func (e *StructuredError) WithInstruction(offset int, opcode string) *StructuredError {
	if e.Offset >= 0 {
		return e
	}
	e.Offset = offset
	e.Opcode = opcode
	return e
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// TypeErrorf returns a type mismatch error.
func TypeErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrType, ErrTypeMismatch, format, args...)
}

// RuntimeErrorf returns a general runtime error.
func RuntimeErrorf(format string, args ...any) *StructuredError {
	return NewStructuredErrorf(ErrRuntime, nil, format, args...)
}

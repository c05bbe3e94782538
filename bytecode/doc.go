// Package bytecode provides the immutable representation of compiled Chris
// programs.
//
// A [Code] unit pairs a diagnostic name with a bytecode stream and a constant
// pool. Instructions are single bytes from the [github.com/chrisvm/chris/op]
// package; CONST and COMPARE are followed by a one-byte operand.
//
// Constants are stored as []any holding float64 or string values. This keeps
// the package free of a dependency on the object package; the VM lifts
// constants to object.Value when it loads a unit.
//
// Index-based access is used for all collections:
//
//	code.InstructionAt(0)
//	code.ConstantAt(i)
//
// Code units can be written to and read from a compact CBOR encoding with
// [Marshal] and [Unmarshal].
//
// Example:
//
//	code, err := compiler.Compile(node)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Constants: %d\n", code.ConstantCount())
//	result, err := vm.Run(ctx, code)
package bytecode

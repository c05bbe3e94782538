package vm

import (
	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/errz"
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/op"
)

// code is a code unit loaded for one execution: the instruction stream plus
// the constant pool lifted to values.
type code struct {
	*bytecode.Code
	Instructions []op.Code
	Constants    []object.Value

	// Object is the heap Code object that owns this unit.
	Object object.Value
}

// loadCode lifts the constants of cc into values allocated on heap.
func loadCode(cc *bytecode.Code, heap *object.Heap) (*code, error) {
	c := &code{
		Code:         cc,
		Instructions: make([]op.Code, cc.InstructionCount()),
		Constants:    make([]object.Value, cc.ConstantCount()),
	}
	for i := 0; i < cc.InstructionCount(); i++ {
		c.Instructions[i] = cc.InstructionAt(i)
	}
	for i := 0; i < cc.ConstantCount(); i++ {
		switch constant := cc.ConstantAt(i).(type) {
		case float64:
			c.Constants[i] = object.NewNumber(constant)
		case string:
			value, err := heap.NewString(constant)
			if err != nil {
				return nil, err
			}
			c.Constants[i] = value
		default:
			return nil, errz.RuntimeErrorf("unsupported constant type at index %d: %T", i, constant)
		}
	}
	obj, err := heap.NewCode(cc)
	if err != nil {
		return nil, err
	}
	c.Object = obj
	return c, nil
}

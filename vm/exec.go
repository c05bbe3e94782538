package vm

import (
	"context"
	"strings"

	"github.com/chrisvm/chris/errz"
	"github.com/chrisvm/chris/object"
	"github.com/chrisvm/chris/op"
)

// execution is the state of one run: stack, pointers and heap. It is never
// shared between goroutines.
type execution struct {
	id     string
	ip     int // instruction pointer
	sp     int // stack pointer, -1 when empty
	offset int // offset of the instruction being executed
	steps  int64
	code   *code
	heap   *object.Heap
	stack  [MaxStackDepth]object.Value

	observer      Observer
	observerCfg   ObserverConfig
	checkInterval int
}

func (ex *execution) eval(ctx context.Context) (object.Value, error) {
	if err := ctx.Err(); err != nil {
		return object.Value{}, err
	}
	var instructionCount int
	doneChan := ctx.Done()
	instructions := ex.code.Instructions

	for {
		if ex.ip >= len(instructions) {
			return object.Value{}, errz.RuntimeErrorf("reached end of code without HALT").
				WithInstruction(ex.ip, "")
		}

		// Deterministic check of ctx.Done() every N instructions.
		if ex.checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= ex.checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return object.Value{}, ctx.Err()
				default:
				}
			}
		}

		opcode := instructions[ex.ip]
		ex.offset = ex.ip
		if ex.observer != nil && !ex.notifyStep(opcode) {
			return object.Value{}, ex.fail(errz.RuntimeErrorf("execution halted by observer"))
		}
		ex.ip++
		ex.steps++

		switch opcode {
		case op.Halt:
			result, err := ex.pop()
			if err != nil {
				return object.Value{}, ex.fail(err)
			}
			if ex.sp != -1 {
				return object.Value{}, ex.fail(errz.RuntimeErrorf(
					"stack not balanced: %d values left below the result", ex.sp+1))
			}
			return result, nil
		case op.Const:
			index, err := ex.fetch()
			if err != nil {
				return object.Value{}, ex.fail(err)
			}
			if int(index) >= len(ex.code.Constants) {
				return object.Value{}, ex.fail(errz.RuntimeErrorf(
					"constant index %d out of range (pool size %d)", index, len(ex.code.Constants)))
			}
			if err := ex.push(ex.code.Constants[index]); err != nil {
				return object.Value{}, ex.fail(err)
			}
		case op.Add, op.Sub, op.Mul, op.Div:
			if err := ex.binaryOp(opcode); err != nil {
				return object.Value{}, ex.fail(err)
			}
		case op.Compare:
			operand, err := ex.fetch()
			if err != nil {
				return object.Value{}, ex.fail(err)
			}
			if err := ex.compareOp(op.CompareOpType(operand)); err != nil {
				return object.Value{}, ex.fail(err)
			}
		default:
			return object.Value{}, ex.fail(errz.NewStructuredErrorf(errz.ErrOpcode, errz.ErrUnknownOpcode,
				"unknown opcode 0x%02x", uint8(opcode)))
		}
	}
}

func (ex *execution) notifyStep(opcode op.Code) bool {
	switch ex.observerCfg.StepMode {
	case StepNone:
		return true
	case StepSampled:
		if ex.steps%int64(ex.observerCfg.SampleInterval) != 0 {
			return true
		}
	}
	return ex.observer.OnStep(StepEvent{
		ExecutionID: ex.id,
		IP:          ex.ip,
		Opcode:      opcode,
		OpcodeName:  op.GetInfo(opcode).Name,
		StackDepth:  ex.sp + 1,
	})
}

func (ex *execution) binaryOp(opcode op.Code) error {
	b, err := ex.pop()
	if err != nil {
		return err
	}
	a, err := ex.pop()
	if err != nil {
		return err
	}
	if a.IsNumber() && b.IsNumber() {
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		var n float64
		switch opcode {
		case op.Add:
			n = x + y
		case op.Sub:
			n = x - y
		case op.Mul:
			n = x * y
		case op.Div:
			n = x / y
		}
		return ex.push(object.NewNumber(n))
	}
	if opcode == op.Add && a.IsString() && b.IsString() {
		x, _ := a.AsString()
		y, _ := b.AsString()
		value, err := ex.heap.NewString(x + y)
		if err != nil {
			return err
		}
		return ex.push(value)
	}
	return errz.TypeErrorf("unsupported operand types for %s: %s and %s",
		op.GetInfo(opcode).Name, a.TypeName(), b.TypeName())
}

func (ex *execution) compareOp(cmp op.CompareOpType) error {
	if !cmp.Valid() {
		return errz.RuntimeErrorf("invalid comparator %d", uint8(cmp))
	}
	b, err := ex.pop()
	if err != nil {
		return err
	}
	a, err := ex.pop()
	if err != nil {
		return err
	}
	var order int
	switch {
	case a.IsNumber() && b.IsNumber():
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		return ex.push(object.NewBool(compareNumbers(cmp, x, y)))
	case a.IsString() && b.IsString():
		x, _ := a.AsString()
		y, _ := b.AsString()
		order = strings.Compare(x, y)
	case a.IsBool() && b.IsBool() && (cmp == op.Equal || cmp == op.NotEqual):
		return ex.push(object.NewBool(a.Equals(b) == (cmp == op.Equal)))
	default:
		return errz.TypeErrorf("unsupported operand types for %s: %s and %s",
			cmp, a.TypeName(), b.TypeName())
	}
	return ex.push(object.NewBool(compareOrder(cmp, order)))
}

// compareNumbers follows IEEE semantics: every comparison involving NaN is
// false except !=.
func compareNumbers(cmp op.CompareOpType, x, y float64) bool {
	switch cmp {
	case op.LessThan:
		return x < y
	case op.GreaterThan:
		return x > y
	case op.Equal:
		return x == y
	case op.GreaterThanOrEqual:
		return x >= y
	case op.LessThanOrEqual:
		return x <= y
	default:
		return x != y
	}
}

func compareOrder(cmp op.CompareOpType, order int) bool {
	switch cmp {
	case op.LessThan:
		return order < 0
	case op.GreaterThan:
		return order > 0
	case op.Equal:
		return order == 0
	case op.GreaterThanOrEqual:
		return order >= 0
	case op.LessThanOrEqual:
		return order <= 0
	default:
		return order != 0
	}
}

func (ex *execution) push(value object.Value) error {
	if ex.sp+1 >= MaxStackDepth {
		return errz.NewStructuredErrorf(errz.ErrStack, errz.ErrStackOverflow,
			"stack overflow: capacity %d", MaxStackDepth)
	}
	ex.sp++
	ex.stack[ex.sp] = value
	return nil
}

func (ex *execution) pop() (object.Value, error) {
	if ex.sp < 0 {
		return object.Value{}, errz.NewStructuredError(errz.ErrStack, errz.ErrStackUnderflow,
			"stack underflow")
	}
	value := ex.stack[ex.sp]
	ex.stack[ex.sp] = object.Value{}
	ex.sp--
	return value, nil
}

// fetch reads the one-byte operand of the current instruction.
func (ex *execution) fetch() (op.Code, error) {
	if ex.ip >= len(ex.code.Instructions) {
		return 0, errz.RuntimeErrorf("missing operand")
	}
	operand := ex.code.Instructions[ex.ip]
	ex.ip++
	return operand, nil
}

// fail annotates err with the instruction being executed.
func (ex *execution) fail(err error) error {
	if se, ok := err.(*errz.StructuredError); ok {
		return se.WithInstruction(ex.offset, ex.opcodeName())
	}
	return err
}

func (ex *execution) opcodeName() string {
	if ex.code == nil || ex.offset >= len(ex.code.Instructions) {
		return ""
	}
	return op.GetInfo(ex.code.Instructions[ex.offset]).Name
}

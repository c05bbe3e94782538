package bytecode

import "github.com/chrisvm/chris/op"

// InstructionIter iterates over instructions in a Code object.
type InstructionIter struct {
	code *Code
	pos  int
}

// Next returns the next instruction and its operands. Returns false when
// there are no more instructions. An operand missing at the end of the stream
// is returned as a truncated instruction.
func (i *InstructionIter) Next() ([]op.Code, bool) {
	if i.pos >= i.code.InstructionCount() {
		return nil, false
	}
	opcode := i.code.InstructionAt(i.pos)
	i.pos++

	info := op.GetInfo(opcode)
	if info.OperandCount == 0 {
		return []op.Code{opcode}, true
	}
	instr := []op.Code{opcode}
	for j := 0; j < info.OperandCount && i.pos < i.code.InstructionCount(); j++ {
		instr = append(instr, i.code.InstructionAt(i.pos))
		i.pos++
	}
	return instr, true
}

// Offset returns the index of the next instruction to be returned.
func (i *InstructionIter) Offset() int {
	return i.pos
}

// All returns all instructions as a newly allocated slice.
func (i *InstructionIter) All() [][]op.Code {
	var results [][]op.Code
	for {
		instr, ok := i.Next()
		if !ok {
			break
		}
		results = append(results, instr)
	}
	return results
}

// NewInstructionIter creates a new instruction iterator for the given code.
func NewInstructionIter(code *Code) *InstructionIter {
	return &InstructionIter{code: code}
}

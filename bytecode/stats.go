package bytecode

// Stats contains statistics about a compiled code unit.
type Stats struct {
	// InstructionCount is the number of decoded instructions.
	InstructionCount int `json:"instruction_count"`

	// CodeBytes is the length of the bytecode stream, operands included.
	CodeBytes int `json:"code_bytes"`

	// ConstantCount is the number of entries in the constant pool.
	ConstantCount int `json:"constant_count"`

	// NumberConstants and StringConstants split ConstantCount by kind.
	NumberConstants int `json:"number_constants"`
	StringConstants int `json:"string_constants"`

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int `json:"source_bytes"`
}

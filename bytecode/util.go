package bytecode

import "github.com/chrisvm/chris/op"

// copyAny returns a copy of the given any slice.
func copyAny(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a copy of the given instruction slice.
func copyInstructions(src []op.Code) []op.Code {
	if src == nil {
		return nil
	}
	dst := make([]op.Code, len(src))
	copy(dst, src)
	return dst
}

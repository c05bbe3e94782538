package bytecode

import (
	"fmt"

	"github.com/chrisvm/chris/op"
	"github.com/fxamacker/cbor/v2"
)

// FormatVersion identifies the layout written by Marshal.
const FormatVersion = 1

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

type codeState struct {
	Version      int           `cbor:"version"`
	Name         string        `cbor:"name"`
	Instructions []byte        `cbor:"instructions"`
	Constants    []constantDef `cbor:"constants"`
	Filename     string        `cbor:"filename,omitempty"`
	Source       string        `cbor:"source,omitempty"`
}

type constantDef struct {
	Type   string   `cbor:"type"`
	Number *float64 `cbor:"number,omitempty"`
	String *string  `cbor:"string,omitempty"`
}

// Marshal serializes a Code unit to canonical CBOR bytes. The encoding is
// deterministic: equal units produce identical bytes.
func Marshal(code *Code) ([]byte, error) {
	state, err := newCodeState(code, true)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(state)
}

func newCodeState(code *Code, withSource bool) (codeState, error) {
	state := codeState{
		Version:      FormatVersion,
		Name:         code.name,
		Instructions: make([]byte, len(code.instructions)),
		Constants:    make([]constantDef, len(code.constants)),
	}
	if withSource {
		state.Filename = code.filename
		state.Source = code.source
	}
	for i, instr := range code.instructions {
		state.Instructions[i] = byte(instr)
	}
	for i, constant := range code.constants {
		switch constant := constant.(type) {
		case float64:
			v := constant
			state.Constants[i] = constantDef{Type: "number", Number: &v}
		case string:
			v := constant
			state.Constants[i] = constantDef{Type: "string", String: &v}
		default:
			return codeState{}, fmt.Errorf("bytecode: unsupported constant type %T at index %d", constant, i)
		}
	}
	return state, nil
}

// Unmarshal deserializes a Code unit from CBOR bytes produced by Marshal.
func Unmarshal(data []byte) (*Code, error) {
	var state codeState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal code: %w", err)
	}
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("bytecode: unsupported format version %d", state.Version)
	}
	instructions := make([]op.Code, len(state.Instructions))
	for i, b := range state.Instructions {
		instructions[i] = op.Code(b)
	}
	constants := make([]any, len(state.Constants))
	for i, def := range state.Constants {
		switch def.Type {
		case "number":
			if def.Number == nil {
				return nil, fmt.Errorf("bytecode: number constant %d has no value", i)
			}
			constants[i] = *def.Number
		case "string":
			if def.String == nil {
				return nil, fmt.Errorf("bytecode: string constant %d has no value", i)
			}
			constants[i] = *def.String
		default:
			return nil, fmt.Errorf("bytecode: unknown constant type %q at index %d", def.Type, i)
		}
	}
	return NewCode(CodeParams{
		Name:         state.Name,
		Instructions: instructions,
		Constants:    constants,
		Filename:     state.Filename,
		Source:       state.Source,
	}), nil
}

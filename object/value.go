package object

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/errz"
)

// Kind is the discriminant of a Value.
type Kind uint8

const (
	NumberKind Kind = iota
	BoolKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case NumberKind:
		return "NUMBER"
	case BoolKind:
		return "BOOLEAN"
	case ObjectKind:
		return "OBJECT"
	default:
		return "UNKNOWN"
	}
}

// Value is a number, a boolean or a reference to a heap object. The zero
// Value is the number 0.
type Value struct {
	kind Kind
	num  float64
	b    bool
	obj  Object
}

// NewNumber returns a Number value.
func NewNumber(n float64) Value {
	return Value{kind: NumberKind, num: n}
}

// NewBool returns a Boolean value.
func NewBool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// NewObject returns a value referencing obj, which must not be nil.
func NewObject(obj Object) Value {
	if obj == nil {
		panic("object: nil object reference")
	}
	return Value{kind: ObjectKind, obj: obj}
}

// NewString allocates a fresh String object. Equal strings are never shared.
func NewString(s string) Value {
	return Value{kind: ObjectKind, obj: &String{value: s}}
}

// NewCode allocates a fresh Code object wrapping code.
func NewCode(code *bytecode.Code) Value {
	return Value{kind: ObjectKind, obj: &Code{code: code}}
}

// Kind returns the discriminant of the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNumber() bool { return v.kind == NumberKind }

func (v Value) IsBool() bool { return v.kind == BoolKind }

func (v Value) IsObject() bool { return v.kind == ObjectKind }

func (v Value) IsString() bool {
	if v.kind != ObjectKind {
		return false
	}
	_, ok := v.obj.(*String)
	return ok
}

func (v Value) IsCode() bool {
	if v.kind != ObjectKind {
		return false
	}
	_, ok := v.obj.(*Code)
	return ok
}

// AsNumber returns the number payload or a type mismatch error.
func (v Value) AsNumber() (float64, error) {
	if v.kind != NumberKind {
		return 0, v.mismatch("NUMBER")
	}
	return v.num, nil
}

// AsBool returns the boolean payload or a type mismatch error.
func (v Value) AsBool() (bool, error) {
	if v.kind != BoolKind {
		return false, v.mismatch("BOOLEAN")
	}
	return v.b, nil
}

// AsObject returns the referenced heap object or a type mismatch error.
func (v Value) AsObject() (Object, error) {
	if v.kind != ObjectKind {
		return nil, v.mismatch("OBJECT")
	}
	return v.obj, nil
}

// AsString returns the contents of a String object or a type mismatch error.
func (v Value) AsString() (string, error) {
	if s, ok := v.obj.(*String); ok && v.kind == ObjectKind {
		return s.value, nil
	}
	return "", v.mismatch("STRING")
}

// AsCode returns the code unit of a Code object or a type mismatch error.
func (v Value) AsCode() (*bytecode.Code, error) {
	if c, ok := v.obj.(*Code); ok && v.kind == ObjectKind {
		return c.code, nil
	}
	return nil, v.mismatch("CODE")
}

func (v Value) mismatch(want string) error {
	return errz.TypeErrorf("expected %s, got %s", want, v.TypeName())
}

// TypeName returns NUMBER, BOOLEAN, STRING or CODE.
func (v Value) TypeName() string {
	switch v.kind {
	case NumberKind, BoolKind:
		return v.kind.String()
	case ObjectKind:
		return v.obj.Type().String()
	}
	return "UNKNOWN"
}

// Inspect returns the literal representation of the value: 42, true,
// "hello" or code <main>.
func (v Value) Inspect() string {
	switch v.kind {
	case NumberKind:
		return FormatNumber(v.num)
	case BoolKind:
		return strconv.FormatBool(v.b)
	case ObjectKind:
		return v.obj.Inspect()
	}
	return "<invalid>"
}

// String returns a debug representation such as `Value (NUMBER): 42`.
func (v Value) String() string {
	return fmt.Sprintf("Value (%s): %s", v.TypeName(), v.Inspect())
}

// Interface converts the value to a native Go value: float64, bool, string
// or *bytecode.Code.
func (v Value) Interface() any {
	switch v.kind {
	case NumberKind:
		return v.num
	case BoolKind:
		return v.b
	case ObjectKind:
		return v.obj.Interface()
	}
	return nil
}

// Equals compares two values. Numbers follow IEEE equality, strings compare
// by content and other objects by identity.
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NumberKind:
		return v.num == other.num
	case BoolKind:
		return v.b == other.b
	default:
		return v.obj.Equals(other.obj)
	}
}

// FormatNumber renders n in the shortest form that round trips.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "+Inf"
	case math.IsInf(n, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

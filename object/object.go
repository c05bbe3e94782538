// Package object provides the value model shared by the compiler and the
// virtual machine.
//
// A Value is a small tagged union passed by copy. Numbers and booleans are
// stored inline; everything else lives behind the Object interface:
//
//	switch {
//	case v.IsNumber():
//		n, _ := v.AsNumber()
//	case v.IsString():
//		s, _ := v.AsString()
//	}
//
// Heap objects allocated during a run are tracked by a Heap arena.
package object

// ObjectType identifies the concrete kind of a heap object.
type ObjectType uint8

const (
	STRING ObjectType = iota + 1
	CODE
)

// String returns the upper-case name of the object type.
func (t ObjectType) String() string {
	switch t {
	case STRING:
		return "STRING"
	case CODE:
		return "CODE"
	default:
		return "UNKNOWN"
	}
}

// Object is the interface implemented by every heap object.
type Object interface {
	// Type of the object.
	Type() ObjectType

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() any

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool
}

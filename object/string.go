package object

import "strconv"

// String is an immutable heap string.
type String struct {
	value string
}

// Type returns STRING.
func (s *String) Type() ObjectType {
	return STRING
}

// Value returns the underlying Go string.
func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && s.value == o.value
}

// size is the approximate number of bytes the string occupies.
func (s *String) size() int64 {
	return stringHeaderBytes + int64(len(s.value))
}

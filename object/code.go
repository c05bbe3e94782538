package object

import (
	"fmt"

	"github.com/chrisvm/chris/bytecode"
)

// Code is a heap object that owns a compiled code unit.
type Code struct {
	code *bytecode.Code
}

// Type returns CODE.
func (c *Code) Type() ObjectType {
	return CODE
}

// Value returns the wrapped code unit.
func (c *Code) Value() *bytecode.Code {
	return c.code
}

func (c *Code) Inspect() string {
	return fmt.Sprintf("code <%s>", c.code.Name())
}

func (c *Code) String() string {
	return c.Inspect()
}

func (c *Code) Interface() any {
	return c.code
}

// Equals reports identity. Two separately allocated Code objects are never
// equal, even when they wrap equivalent code units.
func (c *Code) Equals(other Object) bool {
	o, ok := other.(*Code)
	return ok && c == o
}

func (c *Code) size() int64 {
	n := codeHeaderBytes + int64(c.code.InstructionCount())
	for i := 0; i < c.code.ConstantCount(); i++ {
		switch v := c.code.ConstantAt(i).(type) {
		case string:
			n += stringHeaderBytes + int64(len(v))
		default:
			n += valueBytes
		}
	}
	return n
}

// Package jvm defines the shared bytecode data model used by the concrete
// interpreter, the abstract interpreter, and the symbolic engine: method
// identifiers, program counters, opcodes, and the primitive value union.
package jvm

import "fmt"

// MethodId identifies a method by its owning class, its name, and its
// descriptor. It is a plain comparable value, suitable as a map key.
type MethodId struct {
	Class      string
	Name       string
	Descriptor string
}

func (m MethodId) String() string {
	return fmt.Sprintf("%s.%s:%s", m.Class, m.Name, m.Descriptor)
}

// PC is a program counter: a method plus a non-negative offset into that
// method's opcode list. PCs are value objects.
type PC struct {
	Method MethodId
	Offset int
}

// Add returns a new PC on the same method, offset by delta.
func (pc PC) Add(delta int) PC {
	return PC{Method: pc.Method, Offset: pc.Offset + delta}
}

func (pc PC) String() string {
	return fmt.Sprintf("%s:%d", pc.Method, pc.Offset)
}

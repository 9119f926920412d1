// Package provider declares the external collaborators named in spec.md
// §6 — BytecodeProvider and CaseProvider — plus lightweight in-memory test
// doubles. Neither a class-file loader nor a case-selection harness is
// built here; those are out of scope (spec.md §1).
package provider

import (
	"fmt"

	"github.com/mna/jpamb/internal/jvm"
)

// BytecodeProvider yields the ordered opcode sequence for a method.
type BytecodeProvider interface {
	MethodOpcodes(method jvm.MethodId) ([]jvm.Opcode, error)
}

// CaseProvider yields a method to analyze plus an optional initial input.
// A nil/empty Values slice means the engine should initialize parameters
// purely from the method's descriptor (symbolically, or abstractly).
type CaseProvider interface {
	Case() (jvm.MethodId, []jvm.Value, error)
}

// Static is an in-memory BytecodeProvider backed by a fixed map, used by
// the test suites of all three engines in lieu of a real class-file
// decoder.
type Static struct {
	Methods map[jvm.MethodId][]jvm.Opcode
}

// NewStatic returns a Static provider over the given method table.
func NewStatic(methods map[jvm.MethodId][]jvm.Opcode) *Static {
	return &Static{Methods: methods}
}

// MethodOpcodes implements BytecodeProvider.
func (s *Static) MethodOpcodes(method jvm.MethodId) ([]jvm.Opcode, error) {
	ops, ok := s.Methods[method]
	if !ok {
		return nil, fmt.Errorf("provider: unknown method %s", method)
	}
	return ops, nil
}

// FixedCase is a CaseProvider that always returns the same method and
// input, useful for scenario tests that drive a single method end to end.
type FixedCase struct {
	Method jvm.MethodId
	Values []jvm.Value
}

// Case implements CaseProvider.
func (f FixedCase) Case() (jvm.MethodId, []jvm.Value, error) {
	return f.Method, f.Values, nil
}

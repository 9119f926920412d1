package symbolic

import "github.com/mna/jpamb/internal/jvm"

// ArraySummary is the symbolic abstraction of one array: its length
// (itself symbolic, since a method parameter's array length is
// generally unknown) and its declared element kind. Like the abstract
// interpreter's ArraySummary, element contents are not tracked
// index-by-index; SymArrayElem reads return a single summary value per
// array.
type ArraySummary struct {
	Length   SymInt
	ElemKind jvm.Kind
}

// State is one point in the symbolic execution tree: a frame (stack,
// locals, PC), the heap of array summaries and non-array object classes
// reached so far, the path constraint that led here, and bookkeeping
// the executor uses for its bounds (Depth counts branches, Steps counts
// opcodes stepped).
type State struct {
	PC          jvm.PC
	Stack       []SymExpr
	Locals      map[int]SymExpr
	Arrays      map[string]ArraySummary
	Objects     map[string]string
	Path        PathConstraint
	Depth       int
	Steps       int
	Terminated  bool
	Error       string
	ReturnValue SymExpr
}

// NewState returns an initial State for method entry, with locals
// populated from args in source order.
func NewState(entry jvm.MethodId, args map[int]SymExpr) *State {
	locals := make(map[int]SymExpr, len(args))
	for k, v := range args {
		locals[k] = v
	}
	return &State{
		PC:      jvm.PC{Method: entry, Offset: 0},
		Locals:  locals,
		Arrays:  map[string]ArraySummary{},
		Objects: map[string]string{},
	}
}

func (s *State) push(e SymExpr) { s.Stack = append(s.Stack, e) }

func (s *State) pop() SymExpr {
	n := len(s.Stack)
	e := s.Stack[n-1]
	s.Stack = s.Stack[:n-1]
	return e
}

// clone deep-copies s so forking at a branch never lets one successor
// mutate the siblings sharing its prefix.
func (s *State) clone() *State {
	stack := make([]SymExpr, len(s.Stack))
	copy(stack, s.Stack)
	locals := make(map[int]SymExpr, len(s.Locals))
	for k, v := range s.Locals {
		locals[k] = v
	}
	arrays := make(map[string]ArraySummary, len(s.Arrays))
	for k, v := range s.Arrays {
		arrays[k] = v
	}
	objects := make(map[string]string, len(s.Objects))
	for k, v := range s.Objects {
		objects[k] = v
	}
	return &State{
		PC:      s.PC,
		Stack:   stack,
		Locals:  locals,
		Arrays:  arrays,
		Objects: objects,
		Path:    s.Path.Copy(),
		Depth:   s.Depth,
		Steps:   s.Steps,
	}
}

// terminate returns a copy of s marked Terminated with the given
// outcome label.
func (s *State) terminate(label string) *State {
	next := s.clone()
	next.Terminated = true
	next.Error = label
	return next
}

// fork returns a copy of s with constraint appended to its path and
// depth incremented, for a state reached by taking a branch.
func (s *State) fork(constraint SymExpr) *State {
	next := s.clone()
	next.Path = next.Path.Add(constraint)
	next.Depth++
	return next
}

// Package abstract implements a generic worklist-with-join abstract
// interpreter: the same frame/stack/heap shape as package interp, but
// over a pluggable numeric abstract domain instead of concrete values.
package abstract

import (
	"github.com/mna/jpamb/internal/domain"
	"github.com/mna/jpamb/internal/jvm"
)

// AValue is one abstract operand-stack or local-variable slot: either a
// numeric abstraction (Num) or a set of possible heap references (Refs,
// with 0 standing for null), mirroring jvm.Value's Kind-tagged union at
// the abstract level.
type AValue[AV domain.AbstractValue] struct {
	IsRef bool
	Num   AV
	Refs  map[int]bool
}

// NumValue wraps a numeric abstraction.
func NumValue[AV domain.AbstractValue](v AV) AValue[AV] {
	return AValue[AV]{Num: v}
}

// RefValue wraps a set of possible heap references (0 for null).
func RefValue[AV domain.AbstractValue](ids ...int) AValue[AV] {
	refs := make(map[int]bool, len(ids))
	for _, id := range ids {
		refs[id] = true
	}
	return AValue[AV]{IsRef: true, Refs: refs}
}

// Join returns the pointwise union of a and b.
func (a AValue[AV]) Join(b AValue[AV]) AValue[AV] {
	if a.IsRef || b.IsRef {
		refs := map[int]bool{}
		for id := range a.Refs {
			refs[id] = true
		}
		for id := range b.Refs {
			refs[id] = true
		}
		return AValue[AV]{IsRef: true, Refs: refs}
	}
	return AValue[AV]{Num: a.Num.Join(b.Num).(AV)}
}

// LessEq reports whether a is subsumed by b.
func (a AValue[AV]) LessEq(b AValue[AV]) bool {
	if a.IsRef || b.IsRef {
		for id := range a.Refs {
			if !b.Refs[id] {
				return false
			}
		}
		return true
	}
	return a.Num.LessEq(b.Num)
}

// MayBeNull reports whether this value's reference set includes null.
func (a AValue[AV]) MayBeNull() bool { return a.IsRef && a.Refs[0] }

// ArraySummary is the abstraction of a single heap-allocated array: all
// elements ever written are joined into one summary value (arrays are
// not tracked index-by-index), plus the array's length, tracked
// precisely since it never changes after allocation — this is the one
// place this package's Heap model is richer than a bare
// map[int]AbstractValue, because length lets ArrayLoad/ArrayStore prove
// an access in-bounds instead of always forking (see Interpreter.step).
type ArraySummary[AV domain.AbstractValue] struct {
	Elem AValue[AV]
	Len  AV
}

// PerVarFrame is one call frame's abstract locals, stack, and program
// counter.
type PerVarFrame[AV domain.AbstractValue] struct {
	Locals map[int]AValue[AV]
	Stack  []AValue[AV]
	PC     jvm.PC
}

func (f *PerVarFrame[AV]) clone() *PerVarFrame[AV] {
	locals := make(map[int]AValue[AV], len(f.Locals))
	for k, v := range f.Locals {
		locals[k] = v
	}
	stack := make([]AValue[AV], len(f.Stack))
	copy(stack, f.Stack)
	return &PerVarFrame[AV]{Locals: locals, Stack: stack, PC: f.PC}
}

func (f *PerVarFrame[AV]) push(v AValue[AV]) { f.Stack = append(f.Stack, v) }

func (f *PerVarFrame[AV]) pop() AValue[AV] {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}

// AState is the full abstract machine state: a heap of array summaries
// plus a call-frame stack. Only intraprocedural analysis is modelled —
// InvokeStatic is treated as an unsupported opcode here, matching both
// this toolkit's originating worklist driver and spec.md's scope for
// the abstract engine (see DESIGN.md's Open Question resolution) — so
// Frames in practice never grows past length 1, but is kept as a slice
// to mirror package interp's shape and leave room for that extension.
type AState[AV domain.AbstractValue] struct {
	Heap   map[int]*ArraySummary[AV]
	Frames []*PerVarFrame[AV]
	nextID int
}

// NewState returns an initial AState for entry, with locals populated
// from args in source order.
func NewState[AV domain.AbstractValue](entry jvm.MethodId, args []AValue[AV]) *AState[AV] {
	locals := map[int]AValue[AV]{}
	for i, a := range args {
		locals[i] = a
	}
	fr := &PerVarFrame[AV]{Locals: locals, PC: jvm.PC{Method: entry, Offset: 0}}
	return &AState[AV]{Heap: map[int]*ArraySummary[AV]{}, Frames: []*PerVarFrame[AV]{fr}, nextID: 1}
}

func (s *AState[AV]) top() *PerVarFrame[AV] { return s.Frames[len(s.Frames)-1] }

// clone deep-copies s so stepping one successor never mutates the
// state still sitting in the analysis map.
func (s *AState[AV]) clone() *AState[AV] {
	heap := make(map[int]*ArraySummary[AV], len(s.Heap))
	for id, a := range s.Heap {
		cp := *a
		heap[id] = &cp
	}
	frames := make([]*PerVarFrame[AV], len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = f.clone()
	}
	return &AState[AV]{Heap: heap, Frames: frames, nextID: s.nextID}
}

func (s *AState[AV]) allocArray(zero AV, elem AValue[AV], length AV) AValue[AV] {
	id := s.nextID
	s.nextID++
	s.Heap[id] = &ArraySummary[AV]{Elem: elem, Len: length}
	return RefValue[AV](id)
}

// join returns the pointwise join of s and other, assumed to describe
// the same program point (same top-frame PC).
func (s *AState[AV]) join(other *AState[AV]) *AState[AV] {
	out := s.clone()
	for id, summary := range other.Heap {
		if existing, ok := out.Heap[id]; ok {
			out.Heap[id] = &ArraySummary[AV]{
				Elem: existing.Elem.Join(summary.Elem),
				Len:  existing.Len.Join(summary.Len).(AV),
			}
		} else {
			cp := *summary
			out.Heap[id] = &cp
		}
	}
	for i, f := range other.Frames {
		if i >= len(out.Frames) {
			out.Frames = append(out.Frames, f.clone())
			continue
		}
		dst := out.Frames[i]
		for k, v := range f.Locals {
			if existing, ok := dst.Locals[k]; ok {
				dst.Locals[k] = existing.Join(v)
			} else {
				dst.Locals[k] = v
			}
		}
		n := len(f.Stack)
		if len(dst.Stack) > n {
			n = len(dst.Stack)
		}
		joined := make([]AValue[AV], n)
		for j := 0; j < n; j++ {
			switch {
			case j < len(dst.Stack) && j < len(f.Stack):
				joined[j] = dst.Stack[j].Join(f.Stack[j])
			case j < len(dst.Stack):
				joined[j] = dst.Stack[j]
			default:
				joined[j] = f.Stack[j]
			}
		}
		dst.Stack = joined
	}
	return out
}

// lessEq reports whether s is already subsumed by other, the
// fixpoint test that decides whether a join actually grew the state.
func (s *AState[AV]) lessEq(other *AState[AV]) bool {
	if len(s.Frames) != len(other.Frames) {
		return false
	}
	for i, f := range s.Frames {
		g := other.Frames[i]
		if len(f.Stack) != len(g.Stack) {
			return false
		}
		for k, v := range f.Locals {
			w, ok := g.Locals[k]
			if !ok || !v.LessEq(w) {
				return false
			}
		}
		for j, v := range f.Stack {
			if !v.LessEq(g.Stack[j]) {
				return false
			}
		}
	}
	for id, summary := range s.Heap {
		other, ok := other.Heap[id]
		if !ok || !summary.Elem.LessEq(other.Elem) || !summary.Len.LessEq(other.Len) {
			return false
		}
	}
	return true
}

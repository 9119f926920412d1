package interp

import (
	"fmt"
	"log"

	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/jvm"
)

// Outcome labels, matching the outcome catalog of spec.md §1 exactly.
const (
	Ok              = "ok"
	AssertionError  = "assertion error"
	DivideByZero    = "divide by zero"
	OutOfBounds     = "out of bounds"
	NullPointer     = "null pointer"
	NonTermination  = "*"
	intMin          = -(1 << 31)
	intMax          = 1<<31 - 1
	intMod          = 1 << 32
)

// StepResult is the sum type spec.md §9 mandates in place of the original
// stringly-typed termination signal: either execution Continues with a new
// State, or it Terminates with a label from the outcome catalog (or an
// internal "*" for an unmodelled opcode).
type StepResult struct {
	next  *State
	label string
	done  bool
}

// Continue wraps a successor state.
func Continue(s *State) StepResult { return StepResult{next: s} }

// Terminate wraps a termination label.
func Terminate(label string) StepResult { return StepResult{label: label, done: true} }

// Next returns the successor state and true if this result continues
// execution.
func (r StepResult) Next() (*State, bool) { return r.next, !r.done }

// Label returns the termination label and true if this result terminates
// execution.
func (r StepResult) Label() (string, bool) { return r.label, r.done }

// Interpreter runs the concrete step function over a shared bytecode
// cache. Debug enables verbose tracing (mirroring the original Python
// interpreter's logger.debug calls), and OnStep, if set, is called with
// every PC visited — a coverage breadcrumb hook matching the original's
// "@@COV" print, left for an external fuzzer to consume without
// implementing the fuzzer here (SPEC_FULL.md's SUPPLEMENTED FEATURES).
type Interpreter struct {
	Cache     *bytecodecache.Cache
	Debug     bool
	OnStep    func(jvm.PC)
	Overflows []OverflowEvent
}

// New returns an Interpreter backed by cache.
func New(cache *bytecodecache.Cache) *Interpreter {
	return &Interpreter{Cache: cache}
}

// Step applies the concrete transition function to state, returning either
// a successor state or a termination label.
func (in *Interpreter) Step(state *State) StepResult {
	fr := state.Top()
	op, err := in.Cache.At(fr.PC)
	if err != nil {
		if in.Debug {
			log.Printf("interp: %s: %v", fr.PC, err)
		}
		return Terminate(NonTermination)
	}
	if in.OnStep != nil {
		in.OnStep(fr.PC)
	}
	if in.Debug {
		log.Printf("interp: step %s %#v", fr.PC, op)
	}

	switch o := op.(type) {
	case jvm.Push:
		fr.Push(o.Value)
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Load:
		v, ok := fr.Locals[o.Index]
		if !ok {
			panic(fmt.Sprintf("interp: %s: local %d referenced before assignment", fr.PC, o.Index))
		}
		fr.Push(v)
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Store:
		fr.Locals[o.Index] = fr.Pop()
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Incr:
		v, ok := fr.Locals[o.Index]
		if !ok {
			panic(fmt.Sprintf("interp: %s: local %d referenced before assignment", fr.PC, o.Index))
		}
		fr.Locals[o.Index] = jvm.Int32(v.Int + int32(o.Amount))
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Dup:
		// Duplicate the top `Words` stack slots as a unit, appended once.
		n := len(fr.Stack)
		dup := make([]jvm.Value, o.Words)
		copy(dup, fr.Stack[n-o.Words:n])
		fr.Stack = append(fr.Stack, dup...)
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Binary:
		return in.stepBinary(state, fr, o)

	case jvm.If:
		rhs := fr.Pop() // top = RHS
		lhs := fr.Pop()
		if compare(o.Cond, lhs.Int, rhs.Int) {
			fr.PC = jvm.PC{Method: fr.PC.Method, Offset: o.Target}
		} else {
			fr.PC = fr.PC.Add(1)
		}
		return Continue(state)

	case jvm.Ifz:
		v := fr.Pop()
		if compare(o.Cond, v.Int, 0) {
			fr.PC = jvm.PC{Method: fr.PC.Method, Offset: o.Target}
		} else {
			fr.PC = fr.PC.Add(1)
		}
		return Continue(state)

	case jvm.Goto:
		fr.PC = jvm.PC{Method: fr.PC.Method, Offset: o.Target}
		return Continue(state)

	case jvm.Return:
		var v jvm.Value
		if o.HasValue {
			v = fr.Pop()
		}
		state.PopFrame()
		if len(state.Frames) == 0 {
			return Terminate(Ok)
		}
		caller := state.Top()
		if o.HasValue {
			caller.Push(v)
		}
		caller.PC = caller.PC.Add(1)
		return Continue(state)

	case jvm.Get:
		// Only static primitive reads are modelled; unknown fields push a
		// concrete 0 (spec.md §4.2's soundness escape).
		fr.Push(jvm.Int32(0))
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.New:
		if o.Class == jvm.AssertionErrorClass {
			return Terminate(AssertionError)
		}
		fr.Push(state.AllocObject(o.Class))
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Throw:
		ref := fr.Pop()
		if ref.IsNull() {
			return Terminate(NullPointer)
		}
		obj, ok := state.Heap[ref.Ref]
		if !ok || obj.Class != jvm.AssertionErrorClass {
			return Terminate(NonTermination)
		}
		return Terminate(AssertionError)

	case jvm.NewArray:
		n := fr.Pop()
		fr.Push(state.AllocArray(o.ElemKind, int(n.Int)))
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.ArrayLength:
		ref := fr.Pop()
		if ref.IsNull() {
			return Terminate(NullPointer)
		}
		obj := state.Heap[ref.Ref]
		fr.Push(jvm.Int32(int32(len(obj.Elems))))
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.ArrayLoad:
		idx := fr.Pop()
		ref := fr.Pop()
		if ref.IsNull() {
			return Terminate(NullPointer)
		}
		obj := state.Heap[ref.Ref]
		if idx.Int < 0 || int(idx.Int) >= len(obj.Elems) {
			return Terminate(OutOfBounds)
		}
		fr.Push(obj.Elems[idx.Int])
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.ArrayStore:
		val := fr.Pop()
		idx := fr.Pop()
		ref := fr.Pop()
		if ref.IsNull() {
			return Terminate(NullPointer)
		}
		obj := state.Heap[ref.Ref]
		if idx.Int < 0 || int(idx.Int) >= len(obj.Elems) {
			return Terminate(OutOfBounds)
		}
		obj.Elems[idx.Int] = val
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.Cast:
		// Not soundly modelled; a no-op, matching the original's stubbed
		// Cast handling.
		fr.PC = fr.PC.Add(1)
		return Continue(state)

	case jvm.InvokeStatic:
		desc, err := jvm.ParseDescriptor(o.Method.Descriptor)
		if err != nil {
			panic(fmt.Sprintf("interp: %s: %v", fr.PC, err))
		}
		n := desc.NumParams()
		args := make([]jvm.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = fr.Pop()
		}
		callee := state.PushFrame(o.Method)
		for i, a := range args {
			callee.Locals[i] = a
		}
		return Continue(state)

	case jvm.InvokeSpecial:
		// Only the New/Dup/InvokeSpecial<init>/Throw idiom for
		// AssertionError is honored (via the New case above); any other
		// InvokeSpecial is unmodelled.
		return Terminate(NonTermination)

	default:
		return Terminate(NonTermination)
	}
}

func (in *Interpreter) stepBinary(state *State, fr *Frame, o jvm.Binary) StepResult {
	rhs := fr.Pop() // top
	lhs := fr.Pop()
	switch o.Op {
	case jvm.Add, jvm.Sub, jvm.Mul:
		wide := wideBinary(o.Op, int64(lhs.Int), int64(rhs.Int))
		if wide < intMin || wide > intMax {
			in.Overflows = append(in.Overflows, OverflowEvent{PC: fr.PC, Op: o.Op, LHS: lhs.Int, RHS: rhs.Int})
		}
		fr.Push(jvm.Int32(int32(wide)))
	case jvm.Div:
		if rhs.Int == 0 {
			return Terminate(DivideByZero)
		}
		fr.Push(jvm.Int32(lhs.Int / rhs.Int))
	case jvm.Rem:
		if rhs.Int == 0 {
			return Terminate(DivideByZero)
		}
		fr.Push(jvm.Int32(lhs.Int % rhs.Int))
	case jvm.And:
		fr.Push(jvm.Int32(lhs.Int & rhs.Int))
	case jvm.Or:
		fr.Push(jvm.Int32(lhs.Int | rhs.Int))
	case jvm.Xor:
		fr.Push(jvm.Int32(lhs.Int ^ rhs.Int))
	case jvm.Shl:
		fr.Push(jvm.Int32(lhs.Int << (uint32(rhs.Int) & 31)))
	case jvm.Shr:
		fr.Push(jvm.Int32(lhs.Int >> (uint32(rhs.Int) & 31)))
	case jvm.Ushr:
		fr.Push(jvm.Int32(int32(uint32(lhs.Int) >> (uint32(rhs.Int) & 31))))
	default:
		panic(fmt.Sprintf("interp: %s: unknown binary operator %v", fr.PC, o.Op))
	}
	fr.PC = fr.PC.Add(1)
	return Continue(state)
}

func wideBinary(op jvm.BinaryOpr, lhs, rhs int64) int64 {
	switch op {
	case jvm.Add:
		return lhs + rhs
	case jvm.Sub:
		return lhs - rhs
	case jvm.Mul:
		return lhs * rhs
	default:
		panic("interp: wideBinary called with non-overflow-checked operator")
	}
}

func compare(c jvm.Cond, a, b int32) bool {
	switch c {
	case jvm.Eq:
		return a == b
	case jvm.Ne:
		return a != b
	case jvm.Lt:
		return a < b
	case jvm.Le:
		return a <= b
	case jvm.Gt:
		return a > b
	case jvm.Ge:
		return a >= b
	default:
		panic(fmt.Sprintf("interp: unknown condition %v", c))
	}
}

// Run repeatedly steps state until termination or maxSteps is reached,
// returning the termination label ("*" on exhaustion), matching spec.md
// §8 scenario 3's bounded concrete driver.
func (in *Interpreter) Run(state *State, maxSteps int) string {
	for i := 0; i < maxSteps; i++ {
		res := in.Step(state)
		if label, done := res.Label(); done {
			return label
		}
	}
	return NonTermination
}

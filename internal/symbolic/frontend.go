package symbolic

import (
	"fmt"
	"strings"

	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/interp"
	"github.com/mna/jpamb/internal/jvm"
)

// assertBooleanName/Descriptor identify JPAMB's generated
// assertBoolean(Z)V helper, the one InvokeStatic target this engine
// inlines per spec.md §1's allowance, rather than treating every call
// as unsupported.
const (
	assertBooleanName       = "assertBoolean"
	assertBooleanDescriptor = "(Z)V"
)

// Frontend steps symbolic States over the same opcode subset packages
// interp and abstract model.
type Frontend struct {
	Cache *bytecodecache.Cache
}

// NewFrontend returns a Frontend backed by cache.
func NewFrontend(cache *bytecodecache.Cache) *Frontend {
	return &Frontend{Cache: cache}
}

// InitialState builds a State for method entry, seeding every
// parameter as a free symbolic value per its descriptor kind: scalars
// become a named free int, and array parameters become a SymArrayRef
// over a freshly registered ArraySummary with a free symbolic length —
// an "argument-style" array, named with the "arg" prefix isArgArray
// checks for, which (unlike a NewArray-allocated array) might turn out
// to be null.
func (fe *Frontend) InitialState(method jvm.MethodId) (*State, error) {
	desc, err := jvm.ParseDescriptor(method.Descriptor)
	if err != nil {
		return nil, err
	}
	st := NewState(method, nil)
	for i, k := range desc.Params {
		name := fmt.Sprintf("arg%d", i)
		if k == jvm.KindReference {
			arrName := name + "_arr"
			st.Arrays[arrName] = ArraySummary{Length: SymInt{Name: name + "_len"}, ElemKind: jvm.KindInt}
			st.Locals[i] = SymArrayRef{Name: arrName}
		} else {
			st.Locals[i] = Free(name)
		}
	}
	return st, nil
}

func isArgArray(name string) bool { return strings.HasPrefix(name, "arg") }

func valueToSym(v jvm.Value) SymExpr {
	if v.Kind == jvm.KindReference {
		if v.IsNull() {
			return Null()
		}
		return Const(v.Ref)
	}
	return Const(int(v.Int))
}

func condSymbol(c jvm.Cond) string {
	switch c {
	case jvm.Eq:
		return "=="
	case jvm.Ne:
		return "!="
	case jvm.Lt:
		return "<"
	case jvm.Le:
		return "<="
	case jvm.Gt:
		return ">"
	case jvm.Ge:
		return ">="
	default:
		panic(fmt.Sprintf("symbolic: unknown condition %v", c))
	}
}

func binOpSymbol(op jvm.BinaryOpr) string {
	switch op {
	case jvm.Add:
		return "+"
	case jvm.Sub:
		return "-"
	case jvm.Mul:
		return "*"
	case jvm.Div:
		return "/"
	case jvm.Rem:
		return "%"
	case jvm.And:
		return "&"
	case jvm.Or:
		return "|"
	case jvm.Xor:
		return "^"
	case jvm.Shl:
		return "<<"
	case jvm.Shr:
		return ">>"
	case jvm.Ushr:
		return ">>>"
	default:
		panic(fmt.Sprintf("symbolic: unknown binary operator %v", op))
	}
}

// Step applies the symbolic transition function to s, returning every
// successor reached — some Terminated (a finding), some still running.
// Error-discovering branches are always returned before the
// continuing branch at the same fork point, per spec.md §5's
// early-discovery convention.
func (fe *Frontend) Step(s *State) []*State {
	op, err := fe.Cache.At(s.PC)
	if err != nil {
		return []*State{s.terminate(interp.NonTermination)}
	}
	s.Steps++

	switch o := op.(type) {
	case jvm.Push:
		next := s.clone()
		next.push(valueToSym(o.Value))
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Load:
		next := s.clone()
		v, ok := next.Locals[o.Index]
		if !ok {
			v = Const(0)
		}
		next.push(v)
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Store:
		next := s.clone()
		next.Locals[o.Index] = next.pop()
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Incr:
		next := s.clone()
		v, ok := next.Locals[o.Index]
		if !ok {
			v = Const(0)
		}
		next.Locals[o.Index] = Bin("+", v, Const(o.Amount))
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Dup:
		next := s.clone()
		n := len(next.Stack)
		dup := make([]SymExpr, o.Words)
		copy(dup, next.Stack[n-o.Words:n])
		next.Stack = append(next.Stack, dup...)
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Binary:
		return fe.stepBinary(s, o)

	case jvm.If:
		return fe.stepCompare(s, o.Cond, o.Target, false)

	case jvm.Ifz:
		return fe.stepCompare(s, o.Cond, o.Target, true)

	case jvm.Goto:
		next := s.clone()
		next.PC = jvm.PC{Method: next.PC.Method, Offset: o.Target}
		return []*State{next}

	case jvm.Return:
		next := s.clone()
		if o.HasValue {
			next.ReturnValue = next.pop()
		}
		return []*State{next.terminate(interp.Ok)}

	case jvm.Get:
		next := s.clone()
		next.push(Const(0))
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.New:
		if o.Class == jvm.AssertionErrorClass {
			return []*State{s.terminate(interp.AssertionError)}
		}
		next := s.clone()
		name := fmt.Sprintf("obj@%s", next.PC)
		next.Objects[name] = o.Class
		next.push(SymArrayRef{Name: name})
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.Throw:
		next := s.clone()
		ref := next.pop()
		if IsNull(ref) {
			return []*State{next.terminate(interp.NullPointer)}
		}
		ar, ok := ref.(SymArrayRef)
		if !ok {
			return []*State{next.terminate(interp.NonTermination)}
		}
		class, known := next.Objects[ar.Name]
		if !known || class != jvm.AssertionErrorClass {
			return []*State{next.terminate(interp.NonTermination)}
		}
		return []*State{next.terminate(interp.AssertionError)}

	case jvm.NewArray:
		next := s.clone()
		lenExpr := next.pop()
		name := fmt.Sprintf("arr@%s", next.PC)
		lenSym, ok := lenExpr.(SymInt)
		if !ok {
			lenSym = SymInt{Name: name + "_len"}
		}
		next.Arrays[name] = ArraySummary{Length: lenSym, ElemKind: o.ElemKind}
		next.push(SymArrayRef{Name: name})
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.ArrayLength:
		return fe.stepArrayLength(s)

	case jvm.ArrayLoad:
		return fe.stepArrayLoad(s)

	case jvm.ArrayStore:
		return fe.stepArrayStore(s)

	case jvm.Cast:
		next := s.clone()
		next.PC = next.PC.Add(1)
		return []*State{next}

	case jvm.InvokeStatic:
		if o.Method.Name == assertBooleanName && o.Method.Descriptor == assertBooleanDescriptor {
			return fe.stepAssertBoolean(s)
		}
		return []*State{s.terminate(interp.NonTermination)}

	default:
		return []*State{s.terminate(interp.NonTermination)}
	}
}

func (fe *Frontend) stepBinary(s *State, o jvm.Binary) []*State {
	rhs := s.Stack[len(s.Stack)-1]
	lhs := s.Stack[len(s.Stack)-2]
	op := binOpSymbol(o.Op)

	if o.Op == jvm.Div || o.Op == jvm.Rem {
		zeroCond := Bin("==", rhs, Const(0))

		zeroBranch := s.fork(zeroCond)
		zeroBranch.pop()
		zeroBranch.pop()
		zeroTerm := zeroBranch.terminate(interp.DivideByZero)

		nzBranch := s.fork(NewNot(zeroCond))
		nzBranch.pop()
		nzBranch.pop()
		nzBranch.push(Bin(op, lhs, rhs))
		nzBranch.PC = nzBranch.PC.Add(1)

		return []*State{zeroTerm, nzBranch}
	}

	next := s.clone()
	next.pop()
	next.pop()
	next.push(Bin(op, lhs, rhs))
	next.PC = next.PC.Add(1)
	return []*State{next}
}

func (fe *Frontend) stepCompare(s *State, cond jvm.Cond, target int, zero bool) []*State {
	var lhs, rhs SymExpr
	popCount := 2
	if zero {
		lhs = s.Stack[len(s.Stack)-1]
		rhs = Const(0)
		popCount = 1
	} else {
		rhs = s.Stack[len(s.Stack)-1]
		lhs = s.Stack[len(s.Stack)-2]
	}
	trueExpr := Bin(condSymbol(cond), lhs, rhs)

	trueBranch := s.fork(trueExpr)
	for i := 0; i < popCount; i++ {
		trueBranch.pop()
	}
	trueBranch.PC = jvm.PC{Method: trueBranch.PC.Method, Offset: target}

	falseBranch := s.fork(NewNot(trueExpr))
	for i := 0; i < popCount; i++ {
		falseBranch.pop()
	}
	falseBranch.PC = falseBranch.PC.Add(1)

	return []*State{trueBranch, falseBranch}
}

func (fe *Frontend) stepArrayLength(s *State) []*State {
	ref := s.Stack[len(s.Stack)-1]
	if IsNull(ref) {
		return []*State{s.terminate(interp.NullPointer)}
	}
	ar, ok := ref.(SymArrayRef)
	if !ok {
		return []*State{s.terminate(interp.NonTermination)}
	}
	summary, known := s.Arrays[ar.Name]
	if !known {
		return []*State{s.terminate(interp.NonTermination)}
	}

	if !isArgArray(ar.Name) {
		next := s.clone()
		next.pop()
		next.push(summary.Length)
		next.PC = next.PC.Add(1)
		return []*State{next}
	}

	nullCond := Bin("==", Free(ar.Name+"_null"), Const(1))

	nullBranch := s.fork(nullCond)
	nullBranch.pop()
	nullTerm := nullBranch.terminate(interp.NullPointer)

	okBranch := s.fork(NewNot(nullCond))
	okBranch.pop()
	okBranch.push(summary.Length)
	okBranch.PC = okBranch.PC.Add(1)

	return []*State{nullTerm, okBranch}
}

func (fe *Frontend) stepArrayLoad(s *State) []*State {
	idx := s.Stack[len(s.Stack)-1]
	ref := s.Stack[len(s.Stack)-2]

	if IsNull(ref) {
		return []*State{s.terminate(interp.NullPointer)}
	}
	ar, ok := ref.(SymArrayRef)
	if !ok {
		return []*State{s.terminate(interp.NonTermination)}
	}
	summary, known := s.Arrays[ar.Name]
	if !known {
		return []*State{s.terminate(interp.NonTermination)}
	}

	var out []*State
	base := s
	if isArgArray(ar.Name) {
		nullCond := Bin("==", Free(ar.Name+"_null"), Const(1))
		nullBranch := s.fork(nullCond)
		nullBranch.pop()
		nullBranch.pop()
		out = append(out, nullBranch.terminate(interp.NullPointer))
		base = s.fork(NewNot(nullCond))
	}

	underCond := Bin("<", idx, Const(0))
	underBranch := base.fork(underCond)
	underBranch.pop()
	underBranch.pop()
	out = append(out, underBranch.terminate(interp.OutOfBounds))

	overCond := Bin(">=", idx, summary.Length)
	overBranch := base.fork(overCond)
	overBranch.pop()
	overBranch.pop()
	out = append(out, overBranch.terminate(interp.OutOfBounds))

	inBounds := base.clone()
	inBounds.Path = inBounds.Path.Add(NewNot(underCond)).Add(NewNot(overCond))
	inBounds.Depth += 2
	inBounds.pop()
	inBounds.pop()
	inBounds.push(SymArrayElem{Array: ar.Name, Index: idx})
	inBounds.PC = inBounds.PC.Add(1)
	out = append(out, inBounds)

	return out
}

func (fe *Frontend) stepArrayStore(s *State) []*State {
	idx := s.Stack[len(s.Stack)-2]
	ref := s.Stack[len(s.Stack)-3]

	if IsNull(ref) {
		return []*State{s.terminate(interp.NullPointer)}
	}
	ar, ok := ref.(SymArrayRef)
	if !ok {
		return []*State{s.terminate(interp.NonTermination)}
	}
	summary, known := s.Arrays[ar.Name]
	if !known {
		return []*State{s.terminate(interp.NonTermination)}
	}

	var out []*State
	base := s
	if isArgArray(ar.Name) {
		nullCond := Bin("==", Free(ar.Name+"_null"), Const(1))
		nullBranch := s.fork(nullCond)
		nullBranch.pop()
		nullBranch.pop()
		nullBranch.pop()
		out = append(out, nullBranch.terminate(interp.NullPointer))
		base = s.fork(NewNot(nullCond))
	}

	underCond := Bin("<", idx, Const(0))
	underBranch := base.fork(underCond)
	underBranch.pop()
	underBranch.pop()
	underBranch.pop()
	out = append(out, underBranch.terminate(interp.OutOfBounds))

	overCond := Bin(">=", idx, summary.Length)
	overBranch := base.fork(overCond)
	overBranch.pop()
	overBranch.pop()
	overBranch.pop()
	out = append(out, overBranch.terminate(interp.OutOfBounds))

	inBounds := base.clone()
	inBounds.Path = inBounds.Path.Add(NewNot(underCond)).Add(NewNot(overCond))
	inBounds.Depth += 2
	inBounds.pop()
	inBounds.pop()
	inBounds.pop()
	inBounds.PC = inBounds.PC.Add(1)
	out = append(out, inBounds)

	return out
}

func (fe *Frontend) stepAssertBoolean(s *State) []*State {
	v := s.Stack[len(s.Stack)-1]
	trueCond := Bin("!=", v, Const(0))

	failBranch := s.fork(NewNot(trueCond))
	failBranch.pop()
	failTerm := failBranch.terminate(interp.AssertionError)

	okBranch := s.fork(trueCond)
	okBranch.pop()
	okBranch.PC = okBranch.PC.Add(1)

	return []*State{failTerm, okBranch}
}

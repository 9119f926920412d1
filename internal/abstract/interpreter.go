package abstract

import (
	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/domain"
	"github.com/mna/jpamb/internal/interp"
	"github.com/mna/jpamb/internal/jvm"
)

// DefaultMaxIterations bounds the worklist loop, matching the
// original's MAX_ITERATIONS; Interval's infinite-height lattice would
// otherwise never reach a fixpoint.
const DefaultMaxIterations = 1000

// Interpreter runs the worklist-with-join abstract interpreter over
// one numeric domain AV.
type Interpreter[AV domain.AbstractValue] struct {
	Cache         *bytecodecache.Cache
	Zero          AV
	MaxIterations int
}

// New returns an Interpreter backed by cache, abstracting over domain
// AV. zero is any value of AV (its methods, not its contents, are what
// matter — Go generics have no static factory-method requirement, so a
// zero value is passed in to call Abstract/Join/etc. on).
func New[AV domain.AbstractValue](cache *bytecodecache.Cache, zero AV) *Interpreter[AV] {
	return &Interpreter[AV]{Cache: cache, Zero: zero, MaxIterations: DefaultMaxIterations}
}

type worklistEntry[AV domain.AbstractValue] struct {
	pc    int
	state *AState[AV]
}

// Run explores every reachable abstract state from initial, joining
// states that land on the same program point, and returns the multiset
// of terminal labels reached.
func (in *Interpreter[AV]) Run(initial *AState[AV]) *Outcomes {
	outcomes := NewOutcomes()
	analysis := map[int]*AState[AV]{initial.top().PC.Offset: initial}
	worklist := []int{initial.top().PC.Offset}

	iterations := 0
	for len(worklist) > 0 {
		if iterations >= in.MaxIterations {
			outcomes.Add(interp.NonTermination)
			break
		}
		iterations++

		pc := worklist[0]
		worklist = worklist[1:]
		current := analysis[pc]

		successors, labels := in.step(current)
		for _, label := range labels {
			outcomes.Add(label)
		}
		for _, succ := range successors {
			succPC := succ.top().PC.Offset
			old, ok := analysis[succPC]
			if !ok {
				analysis[succPC] = succ
				worklist = append(worklist, succPC)
				continue
			}
			joined := old.join(succ)
			if !joined.lessEq(old) {
				analysis[succPC] = joined
				worklist = append(worklist, succPC)
			}
		}
	}
	return outcomes
}

// step applies the abstract transition function to state, returning
// every successor AState reached (zero or more — If/Ifz branch two
// ways whenever both arms are feasible, and array opcodes yield one
// successor per possible non-null reference) plus any terminal labels
// reached directly (e.g. divide by zero).
func (in *Interpreter[AV]) step(state *AState[AV]) ([]*AState[AV], []string) {
	fr := state.top()
	op, err := in.Cache.At(fr.PC)
	if err != nil {
		return nil, []string{interp.NonTermination}
	}

	switch o := op.(type) {
	case jvm.Push:
		next := state.clone()
		nf := next.top()
		nf.push(NumValue[AV](in.abstractValue(o.Value)))
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Load:
		next := state.clone()
		nf := next.top()
		v, ok := nf.Locals[o.Index]
		if !ok {
			v = NumValue[AV](in.Zero.Abstract(0).(AV))
		}
		nf.push(v)
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Store:
		next := state.clone()
		nf := next.top()
		nf.Locals[o.Index] = nf.pop()
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Incr:
		next := state.clone()
		nf := next.top()
		v, ok := nf.Locals[o.Index]
		if !ok {
			v = NumValue[AV](in.Zero.Abstract(0).(AV))
		}
		delta := NumValue[AV](in.Zero.Abstract(int32(o.Amount)).(AV))
		res := v.Num.BinaryOp(jvm.Add, delta.Num)
		nf.Locals[o.Index] = NumValue[AV](res.Value.(AV))
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Dup:
		next := state.clone()
		nf := next.top()
		n := len(nf.Stack)
		dup := make([]AValue[AV], o.Words)
		copy(dup, nf.Stack[n-o.Words:n])
		nf.Stack = append(nf.Stack, dup...)
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Binary:
		return in.stepBinary(state, o)

	case jvm.If:
		return in.stepBranch(state, o.Cond, o.Target, false)

	case jvm.Ifz:
		return in.stepBranch(state, o.Cond, o.Target, true)

	case jvm.Goto:
		next := state.clone()
		nf := next.top()
		nf.PC = jvm.PC{Method: nf.PC.Method, Offset: o.Target}
		return []*AState[AV]{next}, nil

	case jvm.Return:
		next := state.clone()
		nf := next.top()
		var v AValue[AV]
		if o.HasValue {
			v = nf.pop()
		}
		next.Frames = next.Frames[:len(next.Frames)-1]
		if len(next.Frames) == 0 {
			return nil, []string{interp.Ok}
		}
		caller := next.top()
		if o.HasValue {
			caller.push(v)
		}
		caller.PC = caller.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.Get:
		next := state.clone()
		nf := next.top()
		nf.push(NumValue[AV](in.Zero.Abstract(0).(AV)))
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.New:
		if o.Class == jvm.AssertionErrorClass {
			return nil, []string{interp.AssertionError}
		}
		return nil, []string{interp.NonTermination}

	case jvm.Throw:
		// Without a modelled heap object class for non-array references,
		// any Throw reachable here followed a New AssertionError, already
		// terminated above; a bare Throw is unsupported.
		return nil, []string{interp.NonTermination}

	case jvm.NewArray:
		next := state.clone()
		nf := next.top()
		lenVal := nf.pop()
		zeroElem := NumValue[AV](in.Zero.Abstract(0).(AV))
		ref := next.allocArray(in.Zero, zeroElem, lenVal.Num)
		nf.push(ref)
		nf.PC = nf.PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.ArrayLength:
		return in.stepArrayLength(state)

	case jvm.ArrayLoad:
		return in.stepArrayLoad(state, o.ElemKind)

	case jvm.ArrayStore:
		return in.stepArrayStore(state)

	case jvm.Cast:
		next := state.clone()
		next.top().PC = next.top().PC.Add(1)
		return []*AState[AV]{next}, nil

	case jvm.InvokeStatic, jvm.InvokeSpecial:
		// Out of scope: see AState's doc comment.
		return nil, []string{interp.NonTermination}

	default:
		return nil, []string{interp.NonTermination}
	}
}

func (in *Interpreter[AV]) abstractValue(v jvm.Value) AV {
	if v.Kind == jvm.KindReference {
		return in.Zero.Abstract(0).(AV)
	}
	return in.Zero.Abstract(v.Int).(AV)
}

func (in *Interpreter[AV]) stepBinary(state *AState[AV], o jvm.Binary) ([]*AState[AV], []string) {
	fr := state.top()
	rhs := fr.Stack[len(fr.Stack)-1]
	lhs := fr.Stack[len(fr.Stack)-2]

	res := lhs.Num.BinaryOp(o.Op, rhs.Num)

	var labels []string
	if (o.Op == jvm.Div || o.Op == jvm.Rem) && res.MayDivByZero {
		labels = append(labels, interp.DivideByZero)
	}
	if res.Value.IsBot() {
		return nil, labels
	}

	next := state.clone()
	nf := next.top()
	nf.pop()
	nf.pop()
	nf.push(NumValue[AV](res.Value.(AV)))
	nf.PC = nf.PC.Add(1)
	return []*AState[AV]{next}, labels
}

func (in *Interpreter[AV]) stepBranch(state *AState[AV], cond jvm.Cond, target int, zero bool) ([]*AState[AV], []string) {
	fr := state.top()
	var loA, hiA, loB, hiB int64
	if zero {
		v := fr.Stack[len(fr.Stack)-1]
		loA, hiA = v.Num.Bounds()
		loB, hiB = 0, 0
	} else {
		rhs := fr.Stack[len(fr.Stack)-1]
		lhs := fr.Stack[len(fr.Stack)-2]
		loA, hiA = lhs.Num.Bounds()
		loB, hiB = rhs.Num.Bounds()
	}

	mayTrue := mayCond(cond, loA, hiA, loB, hiB)
	mayFalse := mayCond(negateCond(cond), loA, hiA, loB, hiB)

	var out []*AState[AV]
	if mayTrue {
		next := state.clone()
		nf := next.top()
		if zero {
			nf.pop()
		} else {
			nf.pop()
			nf.pop()
		}
		nf.PC = jvm.PC{Method: nf.PC.Method, Offset: target}
		out = append(out, next)
	}
	if mayFalse {
		next := state.clone()
		nf := next.top()
		if zero {
			nf.pop()
		} else {
			nf.pop()
			nf.pop()
		}
		nf.PC = nf.PC.Add(1)
		out = append(out, next)
	}
	return out, nil
}

func (in *Interpreter[AV]) stepArrayLength(state *AState[AV]) ([]*AState[AV], []string) {
	fr := state.top()
	ref := fr.Stack[len(fr.Stack)-1]

	var labels []string
	var out []*AState[AV]
	if ref.MayBeNull() {
		labels = append(labels, interp.NullPointer)
	}
	for id := range ref.Refs {
		if id == 0 {
			continue
		}
		next := state.clone()
		nf := next.top()
		nf.pop()
		nf.push(NumValue[AV](next.Heap[id].Len))
		nf.PC = nf.PC.Add(1)
		out = append(out, next)
	}
	return out, labels
}

func (in *Interpreter[AV]) stepArrayLoad(state *AState[AV], elemKind jvm.Kind) ([]*AState[AV], []string) {
	fr := state.top()
	idx := fr.Stack[len(fr.Stack)-1]
	ref := fr.Stack[len(fr.Stack)-2]

	var labels []string
	var out []*AState[AV]
	if ref.MayBeNull() {
		labels = append(labels, interp.NullPointer)
	}
	idxLo, idxHi := idx.Num.Bounds()

	for id := range ref.Refs {
		if id == 0 {
			continue
		}
		summary := state.Heap[id]
		lenLo, lenHi := summary.Len.Bounds()

		if mayCond(jvm.Lt, idxLo, idxHi, 0, 0) || mayCond(jvm.Ge, idxLo, idxHi, lenLo, lenHi) {
			labels = append(labels, interp.OutOfBounds)
		}
		if mayCond(jvm.Ge, idxLo, idxHi, 0, 0) && mayCond(jvm.Lt, idxLo, idxHi, lenLo, lenHi) {
			next := state.clone()
			nf := next.top()
			nf.pop()
			nf.pop()
			nf.push(summary.Elem)
			nf.PC = nf.PC.Add(1)
			out = append(out, next)
		}
	}
	return out, labels
}

func (in *Interpreter[AV]) stepArrayStore(state *AState[AV]) ([]*AState[AV], []string) {
	fr := state.top()
	val := fr.Stack[len(fr.Stack)-1]
	idx := fr.Stack[len(fr.Stack)-2]
	ref := fr.Stack[len(fr.Stack)-3]

	var labels []string
	var out []*AState[AV]
	if ref.MayBeNull() {
		labels = append(labels, interp.NullPointer)
	}
	idxLo, idxHi := idx.Num.Bounds()

	for id := range ref.Refs {
		if id == 0 {
			continue
		}
		summary := state.Heap[id]
		lenLo, lenHi := summary.Len.Bounds()

		if mayCond(jvm.Lt, idxLo, idxHi, 0, 0) || mayCond(jvm.Ge, idxLo, idxHi, lenLo, lenHi) {
			labels = append(labels, interp.OutOfBounds)
		}
		if mayCond(jvm.Ge, idxLo, idxHi, 0, 0) && mayCond(jvm.Lt, idxLo, idxHi, lenLo, lenHi) {
			next := state.clone()
			nf := next.top()
			nf.pop()
			nf.pop()
			nf.pop()
			next.Heap[id] = &ArraySummary[AV]{Elem: summary.Elem.Join(val), Len: summary.Len}
			nf.PC = nf.PC.Add(1)
			out = append(out, next)
		}
	}
	return out, labels
}

// mayCond reports whether some pair (a, b) with a ranging over
// [loA,hiA] and b over [loB,hiB] can satisfy cond(a, b) — the generic
// branch-feasibility test every domain gets for free from Bounds(),
// in place of a per-domain comparator table.
func mayCond(cond jvm.Cond, loA, hiA, loB, hiB int64) bool {
	if loA > hiA || loB > hiB {
		return false
	}
	switch cond {
	case jvm.Eq:
		return loA <= hiB && loB <= hiA
	case jvm.Ne:
		return !(loA == hiA && loB == hiB && loA == loB)
	case jvm.Lt:
		return loA < hiB
	case jvm.Le:
		return loA <= hiB
	case jvm.Gt:
		return hiA > loB
	case jvm.Ge:
		return hiA >= loB
	default:
		return true
	}
}

func negateCond(cond jvm.Cond) jvm.Cond {
	switch cond {
	case jvm.Eq:
		return jvm.Ne
	case jvm.Ne:
		return jvm.Eq
	case jvm.Lt:
		return jvm.Ge
	case jvm.Ge:
		return jvm.Lt
	case jvm.Gt:
		return jvm.Le
	case jvm.Le:
		return jvm.Gt
	default:
		return cond
	}
}

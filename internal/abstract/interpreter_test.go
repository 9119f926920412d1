package abstract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/domain"
	"github.com/mna/jpamb/internal/interp"
	"github.com/mna/jpamb/internal/jvm"
	"github.com/mna/jpamb/internal/provider"
)

func TestRunDivideByNSignDomainFindsBothOutcomes(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "divideByN", Descriptor: "(II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Div},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	cache := bytecodecache.New(provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops}))
	in := New[domain.Sign](cache, domain.SignBot)

	args := []AValue[domain.Sign]{
		NumValue[domain.Sign](domain.SignBot.Abstract(10).(domain.Sign)),
		NumValue[domain.Sign](domain.SignTop),
	}
	st := NewState[domain.Sign](m, args)

	outcomes := in.Run(st)
	assert.Greater(t, outcomes.Count(interp.Ok), 0)
	assert.Greater(t, outcomes.Count(interp.DivideByZero), 0)
	assert.Equal(t, interp.DivideByZero, outcomes.Classify())
}

func TestRunDivideByNSignDomainNeverZeroDivisorIsAlwaysOk(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "divideByN", Descriptor: "(II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Div},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	cache := bytecodecache.New(provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops}))
	in := New[domain.Sign](cache, domain.SignBot)

	positiveDivisor := domain.SignBot.Abstract(1).(domain.Sign)
	args := []AValue[domain.Sign]{
		NumValue[domain.Sign](domain.SignBot.Abstract(10).(domain.Sign)),
		NumValue[domain.Sign](positiveDivisor),
	}
	st := NewState[domain.Sign](m, args)

	outcomes := in.Run(st)
	assert.Equal(t, 0, outcomes.Count(interp.DivideByZero))
	assert.Greater(t, outcomes.Count(interp.Ok), 0)
}

func TestRunArrayAtIntervalDomainFindsOutOfBounds(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "arrayAt", Descriptor: "([II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindReference, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.ArrayLoad{ElemKind: jvm.KindInt},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	cache := bytecodecache.New(provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops}))
	in := New[domain.Interval](cache, domain.IntervalBot)

	st := NewState[domain.Interval](m, nil)
	length := domain.Interval{Lo: 3, Hi: 3}
	elem := NumValue[domain.Interval](domain.IntervalBot.Abstract(0).(domain.Interval))
	arrayRef := st.allocArray(domain.IntervalBot, elem, length)
	idx := NumValue[domain.Interval](domain.Interval{Lo: 0, Hi: 5})

	st.top().Locals[0] = arrayRef
	st.top().Locals[1] = idx

	outcomes := in.Run(st)
	assert.Greater(t, outcomes.Count(interp.OutOfBounds), 0)
	assert.Greater(t, outcomes.Count(interp.Ok), 0)
}

func TestRunArrayAtIntervalDomainNullPointer(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "arrayAt", Descriptor: "([II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindReference, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.ArrayLoad{ElemKind: jvm.KindInt},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	cache := bytecodecache.New(provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops}))
	in := New[domain.Interval](cache, domain.IntervalBot)

	st := NewState[domain.Interval](m, nil)
	st.top().Locals[0] = RefValue[domain.Interval](0)
	st.top().Locals[1] = NumValue[domain.Interval](domain.Interval{Lo: 0, Hi: 0})

	outcomes := in.Run(st)
	assert.Equal(t, interp.NullPointer, outcomes.Classify())
}

func TestOutcomesClassifyPriorityOrder(t *testing.T) {
	o := NewOutcomes()
	o.Add(interp.Ok)
	o.Add(interp.NullPointer)
	o.Add(interp.OutOfBounds)
	assert.Equal(t, interp.OutOfBounds, o.Classify())

	o.Add(interp.AssertionError)
	assert.Equal(t, interp.AssertionError, o.Classify())

	o.Add(interp.DivideByZero)
	assert.Equal(t, interp.DivideByZero, o.Classify())
}

func TestOutcomesClassifyEmptyIsNonTermination(t *testing.T) {
	o := NewOutcomes()
	assert.Equal(t, interp.NonTermination, o.Classify())
}

package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/jpamb/internal/bytecodecache"
	"github.com/mna/jpamb/internal/jvm"
	"github.com/mna/jpamb/internal/provider"
)

func divideByN() jvm.MethodId {
	return jvm.MethodId{Class: "Simple", Name: "divideByN", Descriptor: "(II)I"}
}

func newCache(t *testing.T, m jvm.MethodId, ops []jvm.Opcode) *bytecodecache.Cache {
	t.Helper()
	return bytecodecache.New(provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{m: ops}))
}

func TestStepDivideByNOk(t *testing.T) {
	m := divideByN()
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Div},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	in := New(newCache(t, m, ops))
	st := NewState(m, []jvm.Value{jvm.Int32(10), jvm.Int32(2)})

	label := in.Run(st, 100)
	assert.Equal(t, Ok, label)
}

func TestStepDivideByNDivideByZero(t *testing.T) {
	m := divideByN()
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Div},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	in := New(newCache(t, m, ops))
	st := NewState(m, []jvm.Value{jvm.Int32(10), jvm.Int32(0)})

	label := in.Run(st, 100)
	assert.Equal(t, DivideByZero, label)
}

func TestStepAlwaysAssertsTerminatesAssertionError(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "alwaysAsserts", Descriptor: "()V"}
	ops := []jvm.Opcode{
		jvm.New{Class: jvm.AssertionErrorClass},
		jvm.Throw{},
	}
	in := New(newCache(t, m, ops))
	st := NewState(m, nil)

	label := in.Run(st, 100)
	assert.Equal(t, AssertionError, label)
}

func TestStepLoopForeverExhaustsToStar(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "loopForever", Descriptor: "()V"}
	ops := []jvm.Opcode{
		jvm.Goto{Target: 0},
	}
	in := New(newCache(t, m, ops))
	st := NewState(m, nil)

	label := in.Run(st, 50)
	assert.Equal(t, NonTermination, label)
}

func arrayAtMethod() jvm.MethodId {
	return jvm.MethodId{Class: "Simple", Name: "arrayAt", Descriptor: "([II)I"}
}

func arrayAtOps() []jvm.Opcode {
	return []jvm.Opcode{
		jvm.Load{Kind: jvm.KindReference, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.ArrayLoad{ElemKind: jvm.KindInt},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
}

func TestStepArrayAtOutOfBounds(t *testing.T) {
	m := arrayAtMethod()
	in := New(newCache(t, m, arrayAtOps()))
	st := NewState(m, nil)
	arr := st.AllocArray(jvm.KindInt, 3)
	st.Top().Locals[0] = arr
	st.Top().Locals[1] = jvm.Int32(5)

	label := in.Run(st, 100)
	assert.Equal(t, OutOfBounds, label)
}

func TestStepArrayAtNullPointer(t *testing.T) {
	m := arrayAtMethod()
	in := New(newCache(t, m, arrayAtOps()))
	st := NewState(m, nil)
	st.Top().Locals[0] = jvm.Null()
	st.Top().Locals[1] = jvm.Int32(0)

	label := in.Run(st, 100)
	assert.Equal(t, NullPointer, label)
}

func TestStepArrayAtOk(t *testing.T) {
	m := arrayAtMethod()
	in := New(newCache(t, m, arrayAtOps()))
	st := NewState(m, nil)
	arr := st.AllocArray(jvm.KindInt, 3)
	st.Top().Locals[0] = arr
	st.Top().Locals[1] = jvm.Int32(1)

	label := in.Run(st, 100)
	assert.Equal(t, Ok, label)
}

func TestStepAddOverflowRecordedButOk(t *testing.T) {
	m := jvm.MethodId{Class: "Simple", Name: "add", Descriptor: "(II)I"}
	ops := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Load{Kind: jvm.KindInt, Index: 1},
		jvm.Binary{Kind: jvm.KindInt, Op: jvm.Add},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	in := New(newCache(t, m, ops))
	st := NewState(m, []jvm.Value{jvm.Int32(2147483647), jvm.Int32(1)})

	label := in.Run(st, 100)
	require.Equal(t, Ok, label)
	require.Len(t, in.Overflows, 1)
	assert.Equal(t, jvm.Add, in.Overflows[0].Op)
	assert.Equal(t, int32(2147483647), in.Overflows[0].LHS)
	assert.Equal(t, int32(1), in.Overflows[0].RHS)
}

func TestStepInvokeStaticPushesCalleeFrame(t *testing.T) {
	callee := jvm.MethodId{Class: "Simple", Name: "id", Descriptor: "(I)I"}
	caller := jvm.MethodId{Class: "Simple", Name: "caller", Descriptor: "()I"}

	calleeOps := []jvm.Opcode{
		jvm.Load{Kind: jvm.KindInt, Index: 0},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}
	callerOps := []jvm.Opcode{
		jvm.Push{Value: jvm.Int32(42)},
		jvm.InvokeStatic{Method: callee},
		jvm.Return{Kind: jvm.KindInt, HasValue: true},
	}

	st := NewState(caller, nil)
	p := provider.NewStatic(map[jvm.MethodId][]jvm.Opcode{
		caller: callerOps,
		callee: calleeOps,
	})
	in := New(bytecodecache.New(p))

	label := in.Run(st, 100)
	assert.Equal(t, Ok, label)
}

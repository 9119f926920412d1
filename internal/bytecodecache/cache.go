// Package bytecodecache memoizes BytecodeProvider lookups keyed by
// jvm.MethodId, shared by the concrete interpreter, the abstract
// interpreter, and the symbolic engine.
package bytecodecache

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/jpamb/internal/jvm"
	"github.com/mna/jpamb/internal/provider"
)

// Cache wraps a BytecodeProvider, memoizing its method lookups. It is
// read-mostly with rare writes on first access; per spec.md §5 no locking
// is introduced since the three engines run single-threaded. A
// concurrent-safe variant would need a map with safe concurrent insert
// semantics, which is explicitly left as a documented follow-up rather than
// built speculatively.
type Cache struct {
	provider provider.BytecodeProvider
	methods  *swiss.Map[jvm.MethodId, []jvm.Opcode]
}

// New returns a Cache backed by p.
func New(p provider.BytecodeProvider) *Cache {
	return &Cache{
		provider: p,
		methods:  swiss.NewMap[jvm.MethodId, []jvm.Opcode](8),
	}
}

// Opcodes returns the memoized opcode list for method, consulting the
// underlying provider on first access.
func (c *Cache) Opcodes(method jvm.MethodId) ([]jvm.Opcode, error) {
	if ops, ok := c.methods.Get(method); ok {
		return ops, nil
	}
	ops, err := c.provider.MethodOpcodes(method)
	if err != nil {
		return nil, err
	}
	c.methods.Put(method, ops)
	return ops, nil
}

// At returns the opcode at pc. An out-of-range offset is a programmer
// error and panics, naming the offending PC, per spec.md §7.3; a provider
// failure (unknown method) is returned to the caller, which the engines
// convert to the "*" outcome.
func (c *Cache) At(pc jvm.PC) (jvm.Opcode, error) {
	ops, err := c.Opcodes(pc.Method)
	if err != nil {
		return nil, err
	}
	if pc.Offset < 0 || pc.Offset >= len(ops) {
		panic(fmt.Sprintf("bytecodecache: offset %d out of range for %s (len %d)", pc.Offset, pc.Method, len(ops)))
	}
	return ops[pc.Offset], nil
}

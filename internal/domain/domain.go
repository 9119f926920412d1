// Package domain defines the abstract numeric domains driving the
// worklist abstract interpreter: Sign, Parity, Interval, and their
// reduced product. Each domain is a finite- or bounded-height lattice
// over int32 values, with sound (never under-approximating) arithmetic.
package domain

import (
	"math"

	"github.com/mna/jpamb/internal/jvm"
)

// AbstractValue is one element of a numeric abstract domain: a lattice
// with join/meet, a concretization test, and a sound binary operator
// table. Every domain in this package implements it.
type AbstractValue interface {
	// IsBot reports whether this is the empty set (no concrete value maps
	// here); Bot is the least element of the lattice.
	IsBot() bool
	// Join returns the least upper bound of this value and other.
	Join(other AbstractValue) AbstractValue
	// Meet returns the greatest lower bound of this value and other.
	Meet(other AbstractValue) AbstractValue
	// LessEq reports whether this value is below or equal to other in the
	// lattice order (this ⊑ other).
	LessEq(other AbstractValue) bool
	// Abstract returns the abstraction of the single concrete value v.
	Abstract(v int32) AbstractValue
	// Contains reports whether v is one of the concrete values this
	// abstract value represents.
	Contains(v int32) bool
	// BinaryOp applies op to this value (lhs) and rhs, returning a sound
	// over-approximation of every possible concrete result.
	BinaryOp(op jvm.BinaryOpr, rhs AbstractValue) BinaryResult
	// Bounds returns a sound enclosing range [lo, hi] for every concrete
	// value this abstract value represents, saturating at NegInf/PosInf.
	// The abstract interpreter's two-sided branch test (see package
	// abstract) uses this instead of a domain-specific comparator table,
	// so every domain gets branch feasibility for free.
	Bounds() (lo, hi int64)
}

// NegInf and PosInf saturate Bounds() results beyond int32's range.
const (
	NegInf = math.MinInt64
	PosInf = math.MaxInt64
)

// BinaryResult is the outcome of an abstract binary operator: the
// resulting abstract value, plus a flag distinguishing a possible
// division by zero from spec.md §4.3's "may divide by zero" signal —
// kept out of band so a domain that can prove the divisor never
// contains zero can report MayDivByZero false without manufacturing a
// Bot value for the (nonexistent) "error" result.
type BinaryResult struct {
	Value        AbstractValue
	MayDivByZero bool
}

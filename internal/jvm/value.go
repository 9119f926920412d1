package jvm

import "strconv"

// Kind identifies the runtime representation of a Value.
type Kind int

const (
	// KindInt is a 32-bit two's-complement integer.
	KindInt Kind = iota
	// KindBoolean is widened to 0/1 in an Int wherever it reaches the stack.
	KindBoolean
	// KindChar is a 16-bit character, carried as an Int.
	KindChar
	// KindFloat is carried but not soundly modelled by any of the three
	// engines; see spec.md's Non-goals.
	KindFloat
	// KindReference is an index into a State's heap; 0 denotes null.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindFloat:
		return "float"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Value is the concrete JVM value union: an Int, Boolean, Char, Float, or
// Reference. Booleans are widened to 0/1 integers by callers that need
// arithmetic; the Kind is retained only for diagnostics and type checks.
type Value struct {
	Kind  Kind
	Int   int32   // valid for KindInt, KindBoolean (0/1), KindChar
	Float float64 // valid for KindFloat
	Ref   int     // valid for KindReference; 0 is null
}

// Int32 returns a concrete integer value.
func Int32(v int32) Value { return Value{Kind: KindInt, Int: v} }

// Bool returns a boolean value widened to 0/1.
func Bool(b bool) Value {
	v := Value{Kind: KindBoolean}
	if b {
		v.Int = 1
	}
	return v
}

// Null returns the null reference value.
func Null() Value { return Value{Kind: KindReference, Ref: 0} }

// Reference returns a non-null reference value into the heap.
func Reference(id int) Value { return Value{Kind: KindReference, Ref: id} }

func (v Value) String() string {
	switch v.Kind {
	case KindInt, KindChar:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindBoolean:
		if v.Int != 0 {
			return "true"
		}
		return "false"
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindReference:
		if v.Ref == 0 {
			return "null"
		}
		return "ref#" + strconv.Itoa(v.Ref)
	default:
		return "?"
	}
}

// IsNull reports whether v is the null reference.
func (v Value) IsNull() bool { return v.Kind == KindReference && v.Ref == 0 }

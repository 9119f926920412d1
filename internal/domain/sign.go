package domain

import "github.com/mna/jpamb/internal/jvm"

// signBit flags the three possible signs of an int32, combined as a
// bitset so Sign forms a finite lattice under union/intersection.
type signBit uint8

const (
	signNeg signBit = 1 << iota
	signZero
	signPos
)

// Sign is the {-, 0, +} domain of spec.md §4.3.
type Sign struct {
	bits signBit
}

// SignBot is the empty Sign value.
var SignBot = Sign{}

// SignTop is the Sign value containing every int32.
var SignTop = Sign{bits: signNeg | signZero | signPos}

func signOf(v int32) signBit {
	switch {
	case v < 0:
		return signNeg
	case v > 0:
		return signPos
	default:
		return signZero
	}
}

func (s Sign) IsBot() bool { return s.bits == 0 }

func (s Sign) Join(other AbstractValue) AbstractValue {
	o := other.(Sign)
	return Sign{bits: s.bits | o.bits}
}

func (s Sign) Meet(other AbstractValue) AbstractValue {
	o := other.(Sign)
	return Sign{bits: s.bits & o.bits}
}

func (s Sign) LessEq(other AbstractValue) bool {
	o := other.(Sign)
	return s.bits&o.bits == s.bits
}

func (s Sign) Abstract(v int32) AbstractValue {
	return Sign{bits: signOf(v)}
}

func (s Sign) Contains(v int32) bool {
	return s.bits&signOf(v) != 0
}

func (s Sign) String() string {
	if s.bits == 0 {
		return "{}"
	}
	out := "{"
	first := true
	for _, b := range []struct {
		bit signBit
		ch  string
	}{{signNeg, "-"}, {signZero, "0"}, {signPos, "+"}} {
		if s.bits&b.bit != 0 {
			if !first {
				out += ","
			}
			out += b.ch
			first = false
		}
	}
	return out + "}"
}

func (s Sign) each(f func(signBit)) {
	for _, b := range []signBit{signNeg, signZero, signPos} {
		if s.bits&b != 0 {
			f(b)
		}
	}
}

func addSign(a, b signBit) signBit {
	// Sound but imprecise: anything but 0+0, 0+x, x+0 could be any sign.
	switch {
	case a == signZero:
		return b
	case b == signZero:
		return a
	default:
		return signNeg | signZero | signPos
	}
}

func mulSign(a, b signBit) signBit {
	if a == signZero || b == signZero {
		return signZero
	}
	if a == b {
		// Neg*Neg and Pos*Pos are both positive.
		return signPos
	}
	return signNeg
}

// Bounds returns the tightest range covering every sign class present:
// Neg contributes (-inf,-1], Zero contributes [0,0], Pos contributes
// [1,+inf) — their union's enclosing range.
func (s Sign) Bounds() (lo, hi int64) {
	if s.IsBot() {
		return 1, 0
	}
	lo, hi = PosInf, NegInf
	if s.bits&signNeg != 0 {
		lo, hi = minI64(lo, NegInf), maxI64(hi, -1)
	}
	if s.bits&signZero != 0 {
		lo, hi = minI64(lo, 0), maxI64(hi, 0)
	}
	if s.bits&signPos != 0 {
		lo, hi = minI64(lo, 1), maxI64(hi, PosInf)
	}
	return lo, hi
}

func (s Sign) BinaryOp(op jvm.BinaryOpr, rhs AbstractValue) BinaryResult {
	r := rhs.(Sign)
	if s.IsBot() || r.IsBot() {
		return BinaryResult{Value: SignBot}
	}

	var result signBit
	mayDivZero := false

	switch op {
	case jvm.Add:
		s.each(func(a signBit) {
			r.each(func(b signBit) {
				result |= addSign(a, b)
			})
		})
	case jvm.Sub:
		s.each(func(a signBit) {
			r.each(func(b signBit) {
				negB := b
				switch b {
				case signNeg:
					negB = signPos
				case signPos:
					negB = signNeg
				}
				result |= addSign(a, negB)
			})
		})
	case jvm.Mul:
		s.each(func(a signBit) {
			r.each(func(b signBit) {
				result |= mulSign(a, b)
			})
		})
	case jvm.Div, jvm.Rem:
		if r.bits&signZero != 0 {
			mayDivZero = true
		}
		nonZero := r.bits &^ signZero
		if nonZero == 0 {
			return BinaryResult{Value: SignBot, MayDivByZero: mayDivZero}
		}
		if op == jvm.Rem {
			// Remainder takes the dividend's sign, or zero.
			s.each(func(a signBit) {
				result |= a | signZero
			})
		} else {
			// Truncating division yields 0 whenever |a| < |b|, so zero is
			// always a possible quotient.
			s.each(func(a signBit) {
				for _, b := range []signBit{signNeg, signPos} {
					if nonZero&b != 0 {
						result |= mulSign(a, b) | signZero
					}
				}
			})
		}
	case jvm.And, jvm.Or, jvm.Xor, jvm.Shl, jvm.Shr, jvm.Ushr:
		// Bitwise/shift operators are not tracked precisely by Sign; a
		// sound result is simply "could be anything".
		result = signNeg | signZero | signPos
	default:
		result = signNeg | signZero | signPos
	}

	return BinaryResult{Value: Sign{bits: result}, MayDivByZero: mayDivZero}
}

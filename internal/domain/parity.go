package domain

import "github.com/mna/jpamb/internal/jvm"

type parityBit uint8

const (
	parityEven parityBit = 1 << iota
	parityOdd
)

// Parity is the {even, odd} domain of spec.md §4.3, derived from v mod 2.
type Parity struct {
	bits parityBit
}

var ParityBot = Parity{}
var ParityTop = Parity{bits: parityEven | parityOdd}

func parityOf(v int32) parityBit {
	if v%2 == 0 {
		return parityEven
	}
	return parityOdd
}

func (p Parity) IsBot() bool { return p.bits == 0 }

func (p Parity) Join(other AbstractValue) AbstractValue {
	o := other.(Parity)
	return Parity{bits: p.bits | o.bits}
}

func (p Parity) Meet(other AbstractValue) AbstractValue {
	o := other.(Parity)
	return Parity{bits: p.bits & o.bits}
}

func (p Parity) LessEq(other AbstractValue) bool {
	o := other.(Parity)
	return p.bits&o.bits == p.bits
}

func (p Parity) Abstract(v int32) AbstractValue {
	return Parity{bits: parityOf(v)}
}

func (p Parity) Contains(v int32) bool {
	return p.bits&parityOf(v) != 0
}

func (p Parity) String() string {
	switch p.bits {
	case 0:
		return "{}"
	case parityEven:
		return "{even}"
	case parityOdd:
		return "{odd}"
	default:
		return "{even,odd}"
	}
}

func (p Parity) each(f func(parityBit)) {
	for _, b := range []parityBit{parityEven, parityOdd} {
		if p.bits&b != 0 {
			f(b)
		}
	}
}

func addParity(a, b parityBit) parityBit {
	if a == b {
		return parityEven
	}
	return parityOdd
}

func mulParity(a, b parityBit) parityBit {
	if a == parityOdd && b == parityOdd {
		return parityOdd
	}
	return parityEven
}

// Bounds reports no useful magnitude information — parity alone never
// constrains how large or small a value can be.
func (p Parity) Bounds() (lo, hi int64) {
	if p.IsBot() {
		return 1, 0
	}
	return NegInf, PosInf
}

func (p Parity) BinaryOp(op jvm.BinaryOpr, rhs AbstractValue) BinaryResult {
	r := rhs.(Parity)
	if p.IsBot() || r.IsBot() {
		return BinaryResult{Value: ParityBot}
	}

	var result parityBit
	mayDivZero := false

	switch op {
	case jvm.Add, jvm.Sub, jvm.Xor:
		p.each(func(a parityBit) {
			r.each(func(b parityBit) {
				result |= addParity(a, b)
			})
		})
	case jvm.Mul, jvm.And:
		p.each(func(a parityBit) {
			r.each(func(b parityBit) {
				result |= mulParity(a, b)
			})
		})
	case jvm.Div, jvm.Rem:
		// Zero is even, and Parity cannot distinguish zero from any other
		// even value, so any Even divisor is treated as a possible zero
		// divisor — a sound but coarse approximation.
		if r.bits&parityEven != 0 {
			mayDivZero = true
		}
		result = parityEven | parityOdd
	default:
		result = parityEven | parityOdd
	}

	return BinaryResult{Value: Parity{bits: result}, MayDivByZero: mayDivZero}
}
